// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/colemickens/go-tpm2/internal/kdfutil"
	"github.com/colemickens/go-tpm2/mu"
)

// cryptComputeCpHash computes a command parameter digest. The hash binds
// the command code, the name of each command handle (the identity of the
// entity, not its numeric handle value) and the marshalled command
// parameters, exactly as they will appear on the wire - including any
// session encryption already applied to the first parameter.
func cryptComputeCpHash(hashAlg HashAlgorithmId, command CommandCode, handles []Name, parameters []byte) Digest {
	h := hashAlg.NewHash()

	mu.MustMarshalToWriter(h, command)
	for _, name := range handles {
		h.Write(name)
	}
	h.Write(parameters)

	return h.Sum(nil)
}

// cryptComputeRpHash computes a response parameter digest over the response
// code, the command code and the response parameter bytes exactly as they
// arrived. Note that the command code is not part of the response packet.
func cryptComputeRpHash(hashAlg HashAlgorithmId, responseCode ResponseCode, command CommandCode, parameters []byte) []byte {
	h := hashAlg.NewHash()

	mu.MustMarshalToWriter(h, responseCode, command)
	h.Write(parameters)

	return h.Sum(nil)
}

type symmetricMode int

const (
	symmetricModeEncrypt symmetricMode = iota
	symmetricModeDecrypt
)

// cryptSymmetricAES transforms data in place with AES using the specified
// mode. Only CFB mode is supported, which is the mode the TPM uses for
// session based parameter encryption.
func cryptSymmetricAES(key []byte, mode SymModeId, data, iv []byte, dir symmetricMode) error {
	if mode != SymModeCFB {
		return fmt.Errorf("unsupported mode %v", mode)
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("cannot construct new block cipher: %v", err)
	}

	var s cipher.Stream
	switch dir {
	case symmetricModeEncrypt:
		s = cipher.NewCFBEncrypter(c, iv)
	case symmetricModeDecrypt:
		s = cipher.NewCFBDecrypter(c, iv)
	}
	s.XORKeyStream(data, data)
	return nil
}

// CryptSymmetricEncrypt encrypts the supplied data in place in CFB mode
// using the specified symmetric algorithm. Only AES is supported.
func CryptSymmetricEncrypt(alg SymAlgorithmId, key, iv, data []byte) error {
	switch alg {
	case SymAlgorithmAES:
		return cryptSymmetricAES(key, SymModeCFB, data, iv, symmetricModeEncrypt)
	default:
		return fmt.Errorf("unsupported symmetric algorithm %v", alg)
	}
}

// CryptSymmetricDecrypt decrypts the supplied data in place in CFB mode
// using the specified symmetric algorithm. Only AES is supported.
func CryptSymmetricDecrypt(alg SymAlgorithmId, key, iv, data []byte) error {
	switch alg {
	case SymAlgorithmAES:
		return cryptSymmetricAES(key, SymModeCFB, data, iv, symmetricModeDecrypt)
	default:
		return fmt.Errorf("unsupported symmetric algorithm %v", alg)
	}
}

// cryptXORObfuscation transforms data in place with the XOR obfuscation
// scheme described in part 1 of the TPM library spec.
func cryptXORObfuscation(hashAlg HashAlgorithmId, key, contextU, contextV, data []byte) error {
	if !hashAlg.Available() {
		return fmt.Errorf("unknown digest algorithm: %v", hashAlg)
	}

	mask := kdfutil.KDFa(hashAlg.GetHash(), key, []byte("XOR"), contextU, contextV, len(data)*8)
	for i := range data {
		data[i] ^= mask[i]
	}

	return nil
}

// cryptSecretEncrypt creates a random seed protected by the supplied
// public key, for salted sessions and credential activation. Only RSA keys
// are supported - the seed is encrypted with OAEP using the name algorithm
// of the key, with the zero terminated label as the encoding parameter.
func cryptSecretEncrypt(public *Public, label []byte) (EncryptedSecret, []byte, error) {
	if !public.NameAlg.Available() {
		return nil, nil, fmt.Errorf("digest algorithm %v is not available", public.NameAlg)
	}

	switch public.Type {
	case ObjectTypeRSA:
		exp := int(public.Params.RSADetail.Exponent)
		if exp == 0 {
			exp = DefaultRSAExponent
		}
		pub := &rsa.PublicKey{N: new(big.Int).SetBytes(public.Unique.RSA), E: exp}

		secret := make([]byte, public.NameAlg.Size())
		if _, err := rand.Read(secret); err != nil {
			return nil, nil, fmt.Errorf("cannot read random bytes for secret: %v", err)
		}

		h := public.NameAlg.NewHash()
		label0 := make([]byte, len(label)+1)
		copy(label0, label)
		encryptedSecret, err := rsa.EncryptOAEP(h, rand.Reader, pub, secret, label0)
		if err != nil {
			return nil, nil, fmt.Errorf("OAEP encryption failed: %v", err)
		}
		return encryptedSecret, secret, nil
	default:
		return nil, nil, fmt.Errorf("unsupported key type %v for secret exchange", public.Type)
	}
}
