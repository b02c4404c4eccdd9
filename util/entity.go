// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package util contains helpers for working with names, qualified names
// and protected object blobs outside of the TPM.
package util

import (
	"github.com/colemickens/go-tpm2"
)

// Entity is a type that has a name.
type Entity interface {
	Name() tpm2.Name
}
