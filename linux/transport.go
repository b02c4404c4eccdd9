// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package linux provides a TPM transport for Linux TPM character devices.
package linux

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/colemickens/go-tpm2"
)

const (
	maxCommandSize  = 4096
	maxResponseSize = 4096
)

// DefaultDevicePath is the path of the direct TPM character device.
const DefaultDevicePath = "/dev/tpm0"

// DefaultResourceManagedDevicePath is the path of the kernel resource
// managed TPM character device.
const DefaultResourceManagedDevicePath = "/dev/tpmrm0"

// Transport represents a connection to a Linux TPM character device. A
// command is submitted with a single write, and the device makes the
// complete response available to a subsequent read.
type Transport struct {
	file *os.File
	rsp  io.Reader
}

// Tcti represents a connection to a Linux TPM character device.
//
// Deprecated: Use [Transport].
type Tcti = Transport

// OpenDevice attempts to open a connection to the TPM character device at
// the specified path. If successful, it returns a new Transport instance
// which can be passed to tpm2.NewTPMContext.
func OpenDevice(path string) (*Transport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	s, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if s.Mode()&os.ModeDevice == 0 {
		f.Close()
		return nil, fmt.Errorf("unsupported file mode %v", s.Mode())
	}

	return &Transport{file: f}, nil
}

// OpenDefaultDevice attempts to open a connection to the kernel resource
// managed TPM character device, falling back to the direct device if the
// resource managed one doesn't exist.
func OpenDefaultDevice() (*Transport, error) {
	transport, err := OpenDevice(DefaultResourceManagedDevicePath)
	if err == nil || !os.IsNotExist(err) {
		return transport, err
	}
	return OpenDevice(DefaultDevicePath)
}

// Read implements [tpm2.TCTI].
func (d *Transport) Read(data []byte) (int, error) {
	if d.rsp == nil {
		// The character device provides the complete response to a single
		// read. Buffer it so that partial reads from the caller behave.
		buf := make([]byte, maxResponseSize)
		n, err := d.file.Read(buf)
		if err != nil {
			return 0, err
		}
		d.rsp = bytes.NewReader(buf[:n])
	}

	n, err := d.rsp.Read(data)
	if err == io.EOF {
		d.rsp = nil
	}
	return n, err
}

// Write implements [tpm2.TCTI].
func (d *Transport) Write(data []byte) (int, error) {
	if len(data) > maxCommandSize {
		return 0, fmt.Errorf("command too large (%d bytes)", len(data))
	}
	d.rsp = nil
	return d.file.Write(data)
}

// Close implements [tpm2.TCTI.Close].
func (d *Transport) Close() error {
	return d.file.Close()
}

var _ tpm2.TCTI = (*Transport)(nil)
