// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"reflect"

	"github.com/colemickens/go-tpm2/mu"
)

// This file contains types defined in sections 12 (Key/Object Complex),
// 13 (NV Storage Structures), 14 (Context Data) and 15 (Creation Data) in
// part 2 of the library spec.

// 12.2) Public Area Structures

// PublicIDU is a union type that corresponds to the TPMU_PUBLIC_ID type.
// The selector type is ObjectTypeId. The mapping of selector values to
// fields is as follows:
//   - ObjectTypeRSA: RSA
//   - ObjectTypeKeyedHash: KeyedHash
//   - ObjectTypeECC: ECC
//   - ObjectTypeSymCipher: Sym
type PublicIDU struct {
	KeyedHash Digest
	Sym       Digest
	RSA       PublicKeyRSA
	ECC       *ECCPoint
}

func (p *PublicIDU) Select(selector reflect.Value) interface{} {
	switch selector.Interface().(ObjectTypeId) {
	case ObjectTypeRSA:
		return &p.RSA
	case ObjectTypeKeyedHash:
		return &p.KeyedHash
	case ObjectTypeECC:
		return &p.ECC
	case ObjectTypeSymCipher:
		return &p.Sym
	default:
		return nil
	}
}

// KeyedHashParams corresponds to the TPMS_KEYEDHASH_PARMS type, and defines
// the public parameters of a keyedhash object.
type KeyedHashParams struct {
	Scheme KeyedHashScheme // Signing method for a keyed hash signing object
}

// AsymParams corresponds to the TPMS_ASYM_PARMS type, and defines the
// common public parameters for an asymmetric key.
type AsymParams struct {
	Symmetric SymDefObject // Symmetric algorithm for a restricted decrypt key
	Scheme    AsymScheme   // Asymmetric scheme
}

// RSAParams corresponds to the TPMS_RSA_PARMS type, and defines the public
// parameters of an RSA key.
type RSAParams struct {
	Symmetric SymDefObject // Symmetric algorithm for a restricted decrypt key
	Scheme    RSAScheme    // RSA scheme
	KeyBits   uint16       // Number of bits in the public modulus
	Exponent  uint32       // Public exponent. When the value is zero, the exponent is 65537
}

// ECCParams corresponds to the TPMS_ECC_PARMS type, and defines the public
// parameters of an ECC key.
type ECCParams struct {
	Symmetric SymDefObject
	Scheme    ECCScheme // ECC scheme
	CurveID   ECCCurve  // ECC curve ID
	KDF       KDFScheme // Unused - always KDFAlgorithmNull
}

// PublicParamsU is a union type that corresponds to the TPMU_PUBLIC_PARMS
// type. The selector type is ObjectTypeId. The mapping of selector values
// to fields is as follows:
//   - ObjectTypeRSA: RSADetail
//   - ObjectTypeKeyedHash: KeyedHashDetail
//   - ObjectTypeECC: ECCDetail
//   - ObjectTypeSymCipher: SymDetail
type PublicParamsU struct {
	KeyedHashDetail *KeyedHashParams
	SymDetail       *SymCipherParams
	RSADetail       *RSAParams
	ECCDetail       *ECCParams
}

func (p *PublicParamsU) Select(selector reflect.Value) interface{} {
	switch selector.Interface().(ObjectTypeId) {
	case ObjectTypeRSA:
		return &p.RSADetail
	case ObjectTypeKeyedHash:
		return &p.KeyedHashDetail
	case ObjectTypeECC:
		return &p.ECCDetail
	case ObjectTypeSymCipher:
		return &p.SymDetail
	default:
		return nil
	}
}

// AsymDetail returns the parameters of whichever of RSADetail or ECCDetail
// is set as an *AsymParams. It returns nil if neither is set.
func (p PublicParamsU) AsymDetail() *AsymParams {
	switch {
	case p.RSADetail != nil:
		return &AsymParams{
			Symmetric: p.RSADetail.Symmetric,
			Scheme: AsymScheme{
				Scheme:  AsymSchemeId(p.RSADetail.Scheme.Scheme),
				Details: p.RSADetail.Scheme.Details}}
	case p.ECCDetail != nil:
		return &AsymParams{
			Symmetric: p.ECCDetail.Symmetric,
			Scheme: AsymScheme{
				Scheme:  AsymSchemeId(p.ECCDetail.Scheme.Scheme),
				Details: p.ECCDetail.Scheme.Details}}
	default:
		return nil
	}
}

// PublicParams corresponds to the TPMT_PUBLIC_PARMS type.
type PublicParams struct {
	Type       ObjectTypeId   // Type specifier
	Parameters *PublicParamsU // Algorithm details
}

// Public corresponds to the TPMT_PUBLIC type, and defines the public area
// for an object.
type Public struct {
	Type       ObjectTypeId     // Type of this object
	NameAlg    HashAlgorithmId  // NameAlg is the algorithm used to compute the name of this object
	Attrs      ObjectAttributes // Object attributes
	AuthPolicy Digest           // Authorization policy for this object
	Params     *PublicParamsU   // Type specific parameters
	Unique     *PublicIDU       // Type specific unique identifier
}

// ComputeName computes the name of this object.
func (p *Public) ComputeName() (Name, error) {
	if !p.NameAlg.Available() {
		return nil, makeInvalidArgError("nameAlg", "unsupported digest algorithm")
	}
	h := p.NameAlg.NewHash()
	if _, err := mu.MarshalToWriter(h, p); err != nil {
		return nil, err
	}
	return mu.MustMarshalToBytes(p.NameAlg, mu.RawBytes(h.Sum(nil))), nil
}

// Name implements [Named], and returns the name of this object computed
// with ComputeName. It will panic if the name cannot be computed.
func (p *Public) Name() Name {
	name, err := p.ComputeName()
	if err != nil {
		panic(err)
	}
	return name
}

// PublicDerived is similar to Public but can be used as a template to
// create a derived object with TPMContext.CreateLoaded.
type PublicDerived struct {
	Type       ObjectTypeId     // Type of this object
	NameAlg    HashAlgorithmId  // NameAlg is the algorithm used to compute the name of this object
	Attrs      ObjectAttributes // Object attributes
	AuthPolicy Digest           // Authorization policy for this object
	Params     *PublicParamsU   `tpm2:"selector:Type"` // Type specific parameters

	// Unique contains the derivation values. These take the place of the
	// unique field of the Public type.
	Unique *Derive
}

// Template corresponds to the TPM2B_TEMPLATE type.
type Template []byte

// 12.3) Private Area Structures

// PrivateVendorSpecific corresponds to the TPM2B_PRIVATE_VENDOR_SPECIFIC
// type.
type PrivateVendorSpecific []byte

// SensitiveCompositeU is a union type that corresponds to the
// TPMU_SENSITIVE_COMPOSITE type. The selector type is ObjectTypeId. The
// mapping of selector values to fields is as follows:
//   - ObjectTypeRSA: RSA
//   - ObjectTypeECC: ECC
//   - ObjectTypeKeyedHash: Bits
//   - ObjectTypeSymCipher: Sym
type SensitiveCompositeU struct {
	RSA  PrivateKeyRSA
	ECC  ECCParameter
	Bits SensitiveData
	Sym  SymKey
}

func (s *SensitiveCompositeU) Select(selector reflect.Value) interface{} {
	switch selector.Interface().(ObjectTypeId) {
	case ObjectTypeRSA:
		return &s.RSA
	case ObjectTypeECC:
		return &s.ECC
	case ObjectTypeKeyedHash:
		return &s.Bits
	case ObjectTypeSymCipher:
		return &s.Sym
	default:
		return nil
	}
}

// Sensitive corresponds to the TPMT_SENSITIVE type.
type Sensitive struct {
	Type      ObjectTypeId         // Same as the corresponding Type value in Public
	AuthValue Auth                 // Authorization value
	SeedValue Digest               // For a parent object, the seed value for protecting descendant objects
	Sensitive *SensitiveCompositeU // Type specific private data
}

// Private corresponds to the TPM2B_PRIVATE type.
type Private []byte

// 12.4) Identity Object

// IDObjectRaw corresponds to the TPM2B_ID_OBJECT type, and contains the
// encrypted credential structure created by TPMContext.MakeCredential.
type IDObjectRaw []byte

// 13) NV Storage Structures

// NVPinCounterParams corresponds to the TPMS_NV_PIN_COUNTER_PARAMETERS
// type, and is the contents of an NV index of type NVTypePinFail or
// NVTypePinPass.
type NVPinCounterParams struct {
	Count uint32 // Number of authorization attempts
	Limit uint32 // Authorization attempt limit
}

// NVPublic corresponds to the TPMS_NV_PUBLIC type, which describes an NV
// index.
type NVPublic struct {
	Index      Handle          // Handle of the NV index
	NameAlg    HashAlgorithmId // NameAlg is the digest algorithm used to compute the name of the index
	Attrs      NVAttributes    // Attributes of this index
	AuthPolicy Digest          // Authorization policy for this index
	Size       uint16          // Size of this index
}

// ComputeName computes the name of this NV index.
func (p *NVPublic) ComputeName() (Name, error) {
	if !p.NameAlg.Available() {
		return nil, makeInvalidArgError("nameAlg", "unsupported digest algorithm")
	}
	h := p.NameAlg.NewHash()
	if _, err := mu.MarshalToWriter(h, p); err != nil {
		return nil, err
	}
	return mu.MustMarshalToBytes(p.NameAlg, mu.RawBytes(h.Sum(nil))), nil
}

// Name implements [Named], and returns the name of this NV index computed
// with ComputeName. It will panic if the name cannot be computed.
func (p *NVPublic) Name() Name {
	name, err := p.ComputeName()
	if err != nil {
		panic(err)
	}
	return name
}

// 14) Context Data

// ContextData corresponds to the TPM2B_CONTEXT_DATA type. The contents of
// this are opaque to the caller.
type ContextData []byte

// Context corresponds to the TPMS_CONTEXT type and is created by
// TPMContext.ContextSave.
type Context struct {
	Sequence    uint64      // Sequence number of the context
	SavedHandle Handle      // Handle indicating if this is a session or object
	Hierarchy   Handle      // Hierarchy of the context
	Blob        ContextData // Encrypted context data and integrity HMAC
}

// 15) Creation Data

// CreationData corresponds to the TPMS_CREATION_DATA type, which provides
// information about the creation environment of an object.
type CreationData struct {
	PCRSelect PCRSelectionList // PCRs included in PCRDigest

	// PCRDigest is the digest of the selected PCRs using the name algorithm
	// of the created object.
	PCRDigest           Digest
	Locality            Locality    // Locality at which the object was created
	ParentNameAlg       AlgorithmId // Name algorithm of the parent
	ParentName          Name        // Name of the parent
	ParentQualifiedName Name        // Qualified name of the parent
	OutsideInfo         Data        // External information provided by the caller
}
