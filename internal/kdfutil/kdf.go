// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package kdfutil contains the key derivation functions defined in part 1
// of the TPM library spec, shared by the session and object protection
// code.
package kdfutil

import (
	"crypto"
	"encoding/binary"

	kdf "github.com/canonical/go-sp800.108-kdf"
)

// KDFa performs key derivation using the counter mode described in
// SP800-108 and HMAC as the PRF, as defined in section 11.4.10 of part 1
// of the TPM library spec. The label is zero terminated before it is fed
// to the PRF, and contextU and contextV are concatenated to form the
// context.
func KDFa(hashAlg crypto.Hash, key, label, contextU, contextV []byte, sizeInBits int) []byte {
	context := make([]byte, len(contextU)+len(contextV))
	copy(context, contextU)
	copy(context[len(contextU):], contextV)

	return kdf.CounterModeKey(kdf.NewHMACPRF(hashAlg), key, label, context, uint32(sizeInBits))
}

// KDFe performs key derivation using the method described in section
// 11.4.10.3 of part 1 of the TPM library spec, for deriving a symmetric
// key from a shared secret produced by a key exchange.
func KDFe(hashAlg crypto.Hash, z, label, partyUInfo, partyVInfo []byte, sizeInBits int) []byte {
	digestSize := hashAlg.Size()

	counter := 0
	var res []byte
	for bytes := (sizeInBits + 7) / 8; bytes > 0; bytes -= digestSize {
		counter++
		if bytes < digestSize {
			digestSize = bytes
		}

		h := hashAlg.New()

		binary.Write(h, binary.BigEndian, uint32(counter))
		h.Write(z)
		h.Write(label)
		h.Write([]byte{0})
		h.Write(partyUInfo)
		h.Write(partyVInfo)

		res = append(res, h.Sum(nil)[:digestSize]...)
	}

	// Mask off bits if the requested size isn't a whole number of bytes.
	if sizeInBits%8 != 0 {
		res[0] &= (1 << uint(sizeInBits%8)) - 1
	}
	return res
}
