// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package testutil contains helpers for testing code that uses this
// module without requiring access to a real TPM device.
package testutil

import (
	"encoding/hex"

	. "gopkg.in/check.v1"
)

// DecodeHexString decodes the supplied hex string in to a byte slice,
// failing the test immediately if the string isn't valid.
func DecodeHexString(c *C, s string) []byte {
	b, err := hex.DecodeString(s)
	c.Assert(err, IsNil)
	return b
}
