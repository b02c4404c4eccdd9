// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/colemickens/go-tpm2/internal/kdfutil"
	"github.com/colemickens/go-tpm2/mu"
)

// isParamEncryptable indicates that a command or response parameter is a
// candidate for session based encryption. The TPM only encrypts the first
// parameter, and only when it is a sized buffer - the payload after the
// 16-bit size field is transformed and the size field stays in the clear.
func isParamEncryptable(param interface{}) bool {
	return mu.DetermineTPMKind(param) == mu.TPMKindSized
}

func (p *sessionParams) findDecryptSession() (*sessionParam, int) {
	return p.findSessionWithAttr(AttrCommandEncrypt)
}

func (p *sessionParams) findEncryptSession() (*sessionParam, int) {
	return p.findSessionWithAttr(AttrResponseEncrypt)
}

// computeEncryptNonce propagates the TPM nonce of the encrypt session into
// the first auth, which binds the encrypt session to the authorization
// when they are different sessions.
func (p *sessionParams) computeEncryptNonce() {
	s, i := p.findEncryptSession()
	if s == nil || i == 0 || !p.sessions[0].IsAuth() || p.sessions[0].IsPassword() {
		return
	}
	ds, di := p.findDecryptSession()
	if ds != nil && di == i {
		return
	}

	p.sessions[0].encryptNonce = s.data().NonceTPM
}

// encryptCommandParameter encrypts the payload of the first command
// parameter in place. cpBytes is the marshalled command parameter area -
// the leading 16-bit size field of the first parameter is left in the
// clear and the following size bytes are transformed.
func (p *sessionParams) encryptCommandParameter(cpBytes []byte) error {
	s, i := p.findDecryptSession()
	if s == nil {
		return nil
	}

	data := s.data()
	if !data.HashAlg.Available() {
		return fmt.Errorf("invalid digest algorithm: %v", data.HashAlg)
	}

	sessionValue := s.computeSessionValue()

	if len(cpBytes) < 2 {
		return fmt.Errorf("command parameter area too small (%d bytes)", len(cpBytes))
	}
	size := binary.BigEndian.Uint16(cpBytes)
	if int(size)+2 > len(cpBytes) {
		return fmt.Errorf("invalid first command parameter size (%d bytes)", size)
	}
	payload := cpBytes[2 : size+2]

	symmetric := data.Symmetric
	if symmetric == nil {
		return fmt.Errorf("session %v is not configured for parameter encryption", s.session.Handle())
	}

	switch symmetric.Algorithm {
	case SymAlgorithmAES:
		if symmetric.Mode.Sym != SymModeCFB {
			return fmt.Errorf("unsupported symmetric mode %v", symmetric.Mode.Sym)
		}
		k := kdfutil.KDFa(data.HashAlg.GetHash(), sessionValue, []byte("CFB"), data.NonceCaller, data.NonceTPM,
			int(symmetric.KeyBits.Sym)+(aes.BlockSize*8))
		offset := (symmetric.KeyBits.Sym + 7) / 8
		symKey := k[0:offset]
		iv := k[offset:]
		if err := cryptSymmetricAES(symKey, SymModeCFB, payload, iv, symmetricModeEncrypt); err != nil {
			return fmt.Errorf("AES encryption failed: %v", err)
		}
	case SymAlgorithmXOR:
		cryptXORObfuscation(data.HashAlg, sessionValue, data.NonceCaller, data.NonceTPM, payload)
	default:
		return fmt.Errorf("unknown symmetric algorithm: %v", symmetric.Algorithm)
	}

	if i > 0 && p.sessions[0].IsAuth() && !p.sessions[0].IsPassword() {
		p.sessions[0].decryptNonce = data.NonceTPM
	}

	return nil
}

// decryptResponseParameter decrypts the payload of the first response
// parameter in place, symmetrically to encryptCommandParameter.
func (p *sessionParams) decryptResponseParameter(rpBytes []byte) error {
	s, _ := p.findEncryptSession()
	if s == nil {
		return nil
	}

	data := s.data()
	if !data.HashAlg.Available() {
		return fmt.Errorf("invalid digest algorithm: %v", data.HashAlg)
	}

	sessionValue := s.computeSessionValue()

	if len(rpBytes) < 2 {
		return fmt.Errorf("response parameter area too small (%d bytes)", len(rpBytes))
	}
	size := binary.BigEndian.Uint16(rpBytes)
	if int(size)+2 > len(rpBytes) {
		return fmt.Errorf("invalid first response parameter size (%d bytes)", size)
	}
	payload := rpBytes[2 : size+2]

	symmetric := data.Symmetric
	if symmetric == nil {
		return fmt.Errorf("session %v is not configured for parameter encryption", s.session.Handle())
	}

	switch symmetric.Algorithm {
	case SymAlgorithmAES:
		if symmetric.Mode.Sym != SymModeCFB {
			return fmt.Errorf("unsupported symmetric mode %v", symmetric.Mode.Sym)
		}
		k := kdfutil.KDFa(data.HashAlg.GetHash(), sessionValue, []byte("CFB"), data.NonceTPM, data.NonceCaller,
			int(symmetric.KeyBits.Sym)+(aes.BlockSize*8))
		offset := (symmetric.KeyBits.Sym + 7) / 8
		symKey := k[0:offset]
		iv := k[offset:]
		if err := cryptSymmetricAES(symKey, SymModeCFB, payload, iv, symmetricModeDecrypt); err != nil {
			return fmt.Errorf("AES decryption failed: %v", err)
		}
	case SymAlgorithmXOR:
		cryptXORObfuscation(data.HashAlg, sessionValue, data.NonceTPM, data.NonceCaller, payload)
	default:
		return fmt.Errorf("unknown symmetric algorithm: %v", symmetric.Algorithm)
	}

	return nil
}
