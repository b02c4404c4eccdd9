// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"testing"
)

// The command parameter hash binds the command code, the handle names and
// the marshalled parameters, in that order.
func TestComputeCpHash(t *testing.T) {
	expected := sha256.Sum256([]byte{0x00, 0x00, 0x01, 0x43, 0x01})

	cpHash := cryptComputeCpHash(HashAlgorithmSHA256, CommandSelfTest, nil, []byte{0x01})
	if !bytes.Equal(cpHash, expected[:]) {
		t.Errorf("unexpected cpHash %x", cpHash)
	}
}

func TestComputeCpHashWithNames(t *testing.T) {
	name1 := Name{0x40, 0x00, 0x00, 0x01}
	name2 := Name{0x00, 0x0b, 0xaa, 0xbb}
	params := []byte{0xde, 0xad}

	h := sha256.New()
	h.Write([]byte{0x00, 0x00, 0x01, 0x53})
	h.Write(name1)
	h.Write(name2)
	h.Write(params)

	cpHash := cryptComputeCpHash(HashAlgorithmSHA256, CommandCreate, []Name{name1, name2}, params)
	if !bytes.Equal(cpHash, h.Sum(nil)) {
		t.Errorf("unexpected cpHash %x", cpHash)
	}
}

// The response parameter hash binds the response code, the command code
// (which is not on the wire in the response) and the response parameter
// bytes.
func TestComputeRpHash(t *testing.T) {
	params := []byte{0x00, 0x01, 0xff}

	h := sha256.New()
	h.Write([]byte{0x00, 0x00, 0x00, 0x00})
	h.Write([]byte{0x00, 0x00, 0x01, 0x7b})
	h.Write(params)

	rpHash := cryptComputeRpHash(HashAlgorithmSHA256, ResponseSuccess, CommandGetRandom, params)
	if !bytes.Equal(rpHash, h.Sum(nil)) {
		t.Errorf("unexpected rpHash %x", rpHash)
	}
}

func TestSymmetricAES(t *testing.T) {
	for _, data := range []struct {
		desc      string
		keyLength int
		data      []byte
	}{
		{
			desc:      "128",
			keyLength: 16,
			data:      []byte("XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"),
		},
		{
			desc:      "256",
			keyLength: 32,
			data:      []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"),
		},
	} {
		t.Run(data.desc, func(t *testing.T) {
			key := make([]byte, data.keyLength)
			rand.Read(key)

			iv := make([]byte, aes.BlockSize)
			rand.Read(iv)

			var secret []byte
			secret = append(secret, data.data...)

			if err := cryptSymmetricAES(key, SymModeCFB, secret, iv, symmetricModeEncrypt); err != nil {
				t.Fatalf("AES encryption failed: %v", err)
			}

			if bytes.Equal(secret, data.data) {
				t.Errorf("AES encryption didn't change the data")
			}

			if err := cryptSymmetricAES(key, SymModeCFB, secret, iv, symmetricModeDecrypt); err != nil {
				t.Fatalf("AES decryption failed: %v", err)
			}

			if !bytes.Equal(secret, data.data) {
				t.Errorf("Encrypt / decrypt with AES didn't produce the original data")
			}
		})
	}
}

func TestXORObfuscation(t *testing.T) {
	for _, data := range []struct {
		desc      string
		keyLength int
		alg       HashAlgorithmId
		data      []byte
	}{
		{
			desc:      "SHA256/1",
			keyLength: 32,
			alg:       HashAlgorithmSHA256,
			data:      []byte("secret data"),
		},
		{
			desc:      "SHA256/2",
			keyLength: 60,
			alg:       HashAlgorithmSHA256,
			data:      []byte("super secret data"),
		},
		{
			desc:      "SHA1/1",
			keyLength: 60,
			alg:       HashAlgorithmSHA1,
			data:      []byte("XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"),
		},
	} {
		t.Run(data.desc, func(t *testing.T) {
			key := make([]byte, data.keyLength)
			rand.Read(key)

			digestSize := data.alg.Size()

			contextU := make([]byte, digestSize)
			rand.Read(contextU)

			contextV := make([]byte, digestSize)
			rand.Read(contextV)

			var secret []byte
			secret = append(secret, data.data...)

			if err := cryptXORObfuscation(data.alg, key, contextU, contextV, secret); err != nil {
				t.Fatalf("XOR obfuscation failed: %v", err)
			}

			if err := cryptXORObfuscation(data.alg, key, contextU, contextV, secret); err != nil {
				t.Fatalf("XOR obfuscation failed: %v", err)
			}

			if !bytes.Equal(secret, data.data) {
				t.Errorf("Encrypt / decrypt with XOR obfuscation didn't produce the original data")
			}
		})
	}
}
