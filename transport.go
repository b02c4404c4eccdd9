// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2

import (
	"io"
)

// TCTI represents a communication channel to a TPM device - a character
// device, a resource manager, or a simulator.
//
// The Write call submits a complete, marshalled command packet. The
// response packet is read back with one or more Read calls. Ordering,
// timeouts and cancellation are owned by the implementation - this package
// dispatches one command at a time and performs no synchronization of its
// own.
type TCTI interface {
	io.Reader
	io.Writer
	io.Closer
}

// Transport is an alias of TCTI.
type Transport = TCTI
