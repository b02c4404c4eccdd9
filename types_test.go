// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2_test

import (
	"crypto/sha256"

	. "gopkg.in/check.v1"

	. "github.com/colemickens/go-tpm2"
	"github.com/colemickens/go-tpm2/mu"
	"github.com/colemickens/go-tpm2/testutil"
)

type typesSuite struct{}

var _ = Suite(&typesSuite{})

func (s *typesSuite) TestDigestSerialization(c *C) {
	b, err := mu.MarshalToBytes(Digest(testutil.DecodeHexString(c, "deadbeef")))
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "0004deadbeef"))

	var d Digest
	n, err := mu.UnmarshalFromBytes(b, &d)
	c.Check(err, IsNil)
	c.Check(n, Equals, len(b))
	c.Check(d, DeepEquals, Digest(testutil.DecodeHexString(c, "deadbeef")))
}

func (s *typesSuite) TestTaggedHashSHA256(c *C) {
	h := TaggedHash{HashAlg: HashAlgorithmSHA256, Digest: make([]byte, 32)}
	b, err := mu.MarshalToBytes(h)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "000b0000000000000000000000000000000000000000000000000000000000000000"))

	var out TaggedHash
	_, err = mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.HashAlg, Equals, HashAlgorithmSHA256)
	c.Check(out.Digest, DeepEquals, make(Digest, 32))
}

func (s *typesSuite) TestTaggedHashNull(c *C) {
	h := TaggedHash{HashAlg: HashAlgorithmNull}
	b, err := mu.MarshalToBytes(h)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "0010"))
}

func (s *typesSuite) TestTaggedHashInvalidDigestSize(c *C) {
	h := TaggedHash{HashAlg: HashAlgorithmSHA256, Digest: make([]byte, 20)}
	_, err := mu.MarshalToBytes(h)
	c.Check(err, NotNil)
}

// TPMT_SYM_DEF with TPM_ALG_NULL consists of just the algorithm
// identifier - the key bits and mode unions serialize to nothing.
func (s *typesSuite) TestSymDefNull(c *C) {
	d := SymDef{Algorithm: SymAlgorithmNull}
	b, err := mu.MarshalToBytes(&d)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "0010"))

	var out *SymDef
	_, err = mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.Algorithm, Equals, SymAlgorithmNull)
}

func (s *typesSuite) TestSymDefAES(c *C) {
	d := SymDef{
		Algorithm: SymAlgorithmAES,
		KeyBits:   &SymKeyBitsU{Sym: 128},
		Mode:      &SymModeU{Sym: SymModeCFB}}
	b, err := mu.MarshalToBytes(&d)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "0006"+"0080"+"0043"))

	var out *SymDef
	_, err = mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.KeyBits.Sym, Equals, uint16(128))
	c.Check(out.Mode.Sym, Equals, SymModeCFB)
}

// An unrecognized selector value within a union serializes to no payload.
func (s *typesSuite) TestSymDefUnknownSelector(c *C) {
	b := testutil.DecodeHexString(c, "1234")
	var out *SymDef
	_, err := mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.Algorithm, Equals, SymAlgorithmId(0x1234))
}

func (s *typesSuite) TestSignatureRoundTrip(c *C) {
	sig := Signature{
		SigAlg: SigSchemeAlgECDSA,
		Signature: &SignatureU{
			ECDSA: &SignatureECDSA{
				Hash:       HashAlgorithmSHA256,
				SignatureR: []byte{0x01, 0x02},
				SignatureS: []byte{0x03, 0x04}}}}

	b, err := mu.MarshalToBytes(&sig)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "0018"+"000b"+"00020102"+"00020304"))

	var out *Signature
	_, err = mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(mu.DeepEqual(&sig, out), Equals, true)
	c.Check(out.Signature.Any().HashAlg, Equals, HashAlgorithmSHA256)
}

func (s *typesSuite) TestPCRSelectionRoundTrip(c *C) {
	sel := PCRSelection{Hash: HashAlgorithmSHA256, Select: []int{4, 7, 12}}
	b, err := mu.MarshalToBytes(&sel)
	c.Check(err, IsNil)
	// Bits 4 and 7 of the first octet, bit 4 of the second.
	c.Check(b, DeepEquals, testutil.DecodeHexString(c, "000b"+"03"+"901000"))

	var out PCRSelection
	_, err = mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.Select, DeepEquals, PCRSelect{4, 7, 12})
	c.Check(out.SizeOfSelect, Equals, uint8(3))
}

func (s *typesSuite) TestNameTypes(c *C) {
	handleName := Name(testutil.DecodeHexString(c, "40000001"))
	c.Check(handleName.Type(), Equals, NameTypeHandle)
	c.Check(handleName.Handle(), Equals, HandleOwner)

	digest := sha256.Sum256([]byte("foo"))
	digestName := Name(mu.MustMarshalToBytes(HashAlgorithmSHA256, mu.RawBytes(digest[:])))
	c.Check(digestName.Type(), Equals, NameTypeDigest)
	c.Check(digestName.Algorithm(), Equals, HashAlgorithmSHA256)
	c.Check(digestName.Digest(), DeepEquals, Digest(digest[:]))

	c.Check(Name(testutil.DecodeHexString(c, "000b0000")).Type(), Equals, NameTypeInvalid)
}

func (s *typesSuite) TestPublicName(c *C) {
	public := Public{
		Type:    ObjectTypeRSA,
		NameAlg: HashAlgorithmSHA256,
		Attrs:   AttrFixedTPM | AttrFixedParent | AttrSensitiveDataOrigin | AttrUserWithAuth | AttrRestricted | AttrDecrypt,
		Params: &PublicParamsU{
			RSADetail: &RSAParams{
				Symmetric: SymDefObject{
					Algorithm: SymObjectAlgorithmAES,
					KeyBits:   &SymKeyBitsU{Sym: 128},
					Mode:      &SymModeU{Sym: SymModeCFB}},
				Scheme:  RSAScheme{Scheme: RSASchemeNull},
				KeyBits: 2048}},
		Unique: &PublicIDU{RSA: make([]byte, 256)}}

	name, err := public.ComputeName()
	c.Check(err, IsNil)
	c.Check(name.Type(), Equals, NameTypeDigest)
	c.Check(name.Algorithm(), Equals, HashAlgorithmSHA256)

	// The name is the name algorithm followed by the digest of the
	// marshalled public area computed with that algorithm.
	h := sha256.New()
	_, err = mu.MarshalToWriter(h, &public)
	c.Check(err, IsNil)
	c.Check(name.Digest(), DeepEquals, Digest(h.Sum(nil)))
}

func (s *typesSuite) TestPublicRoundTrip(c *C) {
	public := Public{
		Type:    ObjectTypeECC,
		NameAlg: HashAlgorithmSHA256,
		Attrs:   AttrSign | AttrUserWithAuth | AttrSensitiveDataOrigin,
		Params: &PublicParamsU{
			ECCDetail: &ECCParams{
				Symmetric: SymDefObject{Algorithm: SymObjectAlgorithmNull},
				Scheme: ECCScheme{
					Scheme:  ECCSchemeECDSA,
					Details: &AsymSchemeU{ECDSA: &SigSchemeECDSA{HashAlg: HashAlgorithmSHA256}}},
				CurveID: ECCCurveNIST_P256,
				KDF:     KDFScheme{Scheme: KDFAlgorithmNull}}},
		Unique: &PublicIDU{ECC: &ECCPoint{X: []byte{0x01}, Y: []byte{0x02}}}}

	b, err := mu.MarshalToBytes(&public)
	c.Check(err, IsNil)

	var out *Public
	n, err := mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(n, Equals, len(b))
	c.Check(mu.DeepEqual(&public, out), Equals, true)
}

func (s *typesSuite) TestCapabilityDataRoundTrip(c *C) {
	data := CapabilityData{
		Capability: CapabilityTPMProperties,
		Data: &CapabilitiesU{
			TPMProperties: TaggedTPMPropertyList{
				{Property: PropertyMaxDigest, Value: 32},
				{Property: PropertyNVBufferMax, Value: 1024}}}}

	b, err := mu.MarshalToBytes(&data)
	c.Check(err, IsNil)

	var out *CapabilityData
	_, err = mu.UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(mu.DeepEqual(&data, out), Equals, true)
}

func (s *typesSuite) TestNVPublicName(c *C) {
	public := NVPublic{
		Index:   0x0181f000,
		NameAlg: HashAlgorithmSHA256,
		Attrs:   NVTypeOrdinary.WithAttrs(AttrNVAuthRead | AttrNVAuthWrite),
		Size:    64}

	name, err := public.ComputeName()
	c.Check(err, IsNil)
	c.Check(name.Algorithm(), Equals, HashAlgorithmSHA256)

	h := sha256.New()
	_, err = mu.MarshalToWriter(h, &public)
	c.Check(err, IsNil)
	c.Check(name.Digest(), DeepEquals, Digest(h.Sum(nil)))
}
