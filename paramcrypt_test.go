// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/colemickens/go-tpm2/mu"
)

func makeEncryptSessionParams(t *testing.T, symmetric *SymDef, attrs SessionAttributes) *sessionParams {
	t.Helper()

	nonceCaller := make(Nonce, 32)
	nonceTPM := make(Nonce, 32)
	rand.Read(nonceCaller)
	rand.Read(nonceTPM)

	sessionKey := make([]byte, 32)
	rand.Read(sessionKey)

	session := &sessionContext{
		handle: 0x02000000,
		data: &sessionContextData{
			HashAlg:     HashAlgorithmSHA256,
			SessionType: SessionTypeHMAC,
			SessionKey:  sessionKey,
			NonceCaller: nonceCaller,
			NonceTPM:    nonceTPM,
			Symmetric:   symmetric},
		attrs: attrs}

	p := newSessionParams()
	if err := p.AppendExtraSessions(SessionContext(session)); err != nil {
		t.Fatalf("AppendExtraSessions failed: %v", err)
	}
	return p
}

func testParamCryptRoundTrip(t *testing.T, symmetric *SymDef) {
	t.Helper()

	secret := []byte("sensitive parameter data")
	cpBytes := mu.MustMarshalToBytes(SensitiveData(secret), uint32(5))
	orig := make([]byte, len(cpBytes))
	copy(orig, cpBytes)

	p := makeEncryptSessionParams(t, symmetric, AttrCommandEncrypt|AttrResponseEncrypt)

	if err := p.encryptCommandParameter(cpBytes); err != nil {
		t.Fatalf("encryptCommandParameter failed: %v", err)
	}

	// The size field and the trailing parameter stay in the clear.
	if !bytes.Equal(cpBytes[:2], orig[:2]) {
		t.Errorf("size field was modified")
	}
	if !bytes.Equal(cpBytes[len(cpBytes)-4:], orig[len(cpBytes)-4:]) {
		t.Errorf("second parameter was modified")
	}
	if bytes.Equal(cpBytes, orig) {
		t.Errorf("payload wasn't transformed")
	}

	// Parameter decryption reverses the transform when the nonces are
	// mirrored the way the TPM does for the response direction.
	s := p.sessions[0]
	s.data().NonceCaller, s.data().NonceTPM = s.data().NonceTPM, s.data().NonceCaller

	if err := p.decryptResponseParameter(cpBytes); err != nil {
		t.Fatalf("decryptResponseParameter failed: %v", err)
	}

	if !bytes.Equal(cpBytes, orig) {
		t.Errorf("Encrypt / decrypt didn't produce the original parameter area")
	}
}

func TestParamCryptAES(t *testing.T) {
	testParamCryptRoundTrip(t, &SymDef{
		Algorithm: SymAlgorithmAES,
		KeyBits:   &SymKeyBitsU{Sym: 128},
		Mode:      &SymModeU{Sym: SymModeCFB}})
}

func TestParamCryptXOR(t *testing.T) {
	testParamCryptRoundTrip(t, &SymDef{
		Algorithm: SymAlgorithmXOR,
		KeyBits:   &SymKeyBitsU{XOR: HashAlgorithmSHA256}})
}

func TestIsParamEncryptable(t *testing.T) {
	if !isParamEncryptable(SensitiveData{}) {
		t.Errorf("SensitiveData should be encryptable")
	}
	if !isParamEncryptable(mu.Sized(&SensitiveCreate{})) {
		t.Errorf("a sized structure should be encryptable")
	}
	if isParamEncryptable(uint32(0)) {
		t.Errorf("a primitive should not be encryptable")
	}
	if isParamEncryptable(StartupClear) {
		t.Errorf("a primitive should not be encryptable")
	}
}
