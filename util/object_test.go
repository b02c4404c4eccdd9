// Copyright 2021 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package util_test

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/colemickens/go-tpm2"
	"github.com/colemickens/go-tpm2/mu"
	"github.com/colemickens/go-tpm2/util"
)

func testName(data []byte) tpm2.Name {
	h := sha256.Sum256(data)
	return mu.MustMarshalToBytes(tpm2.HashAlgorithmSHA256, mu.RawBytes(h[:]))
}

func TestOuterWrapRoundTrip(t *testing.T) {
	symmetricAlg := &tpm2.SymDefObject{
		Algorithm: tpm2.SymObjectAlgorithmAES,
		KeyBits:   &tpm2.SymKeyBitsU{Sym: 128},
		Mode:      &tpm2.SymModeU{Sym: tpm2.SymModeCFB}}

	seed := make([]byte, 32)
	rand.Read(seed)

	name := testName([]byte("some object"))
	data := []byte("some sensitive data")

	wrapped, err := util.ProduceOuterWrap(tpm2.HashAlgorithmSHA256, symmetricAlg, name, seed, true, append([]byte(nil), data...))
	if err != nil {
		t.Fatalf("ProduceOuterWrap failed: %v", err)
	}
	if bytes.Contains(wrapped, data) {
		t.Errorf("wrapped blob contains the cleartext data")
	}

	unwrapped, err := util.UnwrapOuter(tpm2.HashAlgorithmSHA256, symmetricAlg, name, seed, true, wrapped)
	if err != nil {
		t.Fatalf("UnwrapOuter failed: %v", err)
	}
	if !bytes.Equal(unwrapped, data) {
		t.Errorf("UnwrapOuter didn't recover the original data")
	}
}

func TestUnwrapOuterDetectsTampering(t *testing.T) {
	symmetricAlg := &tpm2.SymDefObject{
		Algorithm: tpm2.SymObjectAlgorithmAES,
		KeyBits:   &tpm2.SymKeyBitsU{Sym: 128},
		Mode:      &tpm2.SymModeU{Sym: tpm2.SymModeCFB}}

	seed := make([]byte, 32)
	rand.Read(seed)

	name := testName([]byte("some object"))

	wrapped, err := util.ProduceOuterWrap(tpm2.HashAlgorithmSHA256, symmetricAlg, name, seed, true, []byte("data"))
	if err != nil {
		t.Fatalf("ProduceOuterWrap failed: %v", err)
	}

	wrapped[len(wrapped)-1] ^= 0xff

	if _, err := util.UnwrapOuter(tpm2.HashAlgorithmSHA256, symmetricAlg, name, seed, true, wrapped); err == nil {
		t.Errorf("UnwrapOuter should have failed on a tampered blob")
	}
}

func TestComputeQualifiedName(t *testing.T) {
	primary := testName([]byte("primary"))
	leaf := testName([]byte("leaf"))

	qn, err := util.ComputeQualifiedNameInHierarchy(nameEntity(leaf), tpm2.HandleOwner, nameEntity(primary))
	if err != nil {
		t.Fatalf("ComputeQualifiedName failed: %v", err)
	}

	// QN(primary) = H(QN(owner) || name(primary))
	h := sha256.New()
	mu.MustMarshalToWriter(h, tpm2.HandleOwner)
	h.Write(primary)
	primaryQn := mu.MustMarshalToBytes(tpm2.HashAlgorithmSHA256, mu.RawBytes(h.Sum(nil)))

	h = sha256.New()
	h.Write(primaryQn)
	h.Write(leaf)
	expected := mu.MustMarshalToBytes(tpm2.HashAlgorithmSHA256, mu.RawBytes(h.Sum(nil)))

	if !bytes.Equal(qn, expected) {
		t.Errorf("unexpected qualified name %x", qn)
	}
}

type nameEntity tpm2.Name

func (e nameEntity) Name() tpm2.Name {
	return tpm2.Name(e)
}
