// Copyright 2020 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package testutil

import (
	"bytes"
	"errors"
	"io"

	drbg "github.com/canonical/go-sp800.90a-drbg"

	"github.com/colemickens/go-tpm2"
)

// CommandHandler computes the response packet for a submitted command
// packet, standing in for a real TPM device.
type CommandHandler func(tpm2.CommandPacket) (tpm2.ResponsePacket, error)

// Transport is an implementation of tpm2.TCTI that dispatches submitted
// command packets to a CommandHandler and makes the computed response
// available to subsequent reads. It records every submitted packet so
// that tests can make assertions about what reached the device.
type Transport struct {
	handler CommandHandler

	// CommandLog contains every command packet submitted via Write.
	CommandLog []tpm2.CommandPacket

	rsp    io.Reader
	closed bool
}

// NewTransport returns a new Transport that computes responses with the
// supplied handler.
func NewTransport(handler CommandHandler) *Transport {
	return &Transport{handler: handler}
}

// NewResponderTransport returns a new Transport that replays the supplied
// canned response packets in order, one per submitted command.
func NewResponderTransport(responses ...tpm2.ResponsePacket) *Transport {
	t := &Transport{}
	t.handler = func(tpm2.CommandPacket) (tpm2.ResponsePacket, error) {
		if len(responses) == 0 {
			return nil, errors.New("no canned response for command")
		}
		rsp := responses[0]
		responses = responses[1:]
		return rsp, nil
	}
	return t
}

// LastCommand returns the most recently submitted command packet.
func (t *Transport) LastCommand() tpm2.CommandPacket {
	if len(t.CommandLog) == 0 {
		return nil
	}
	return t.CommandLog[len(t.CommandLog)-1]
}

// Read implements [tpm2.TCTI].
func (t *Transport) Read(data []byte) (int, error) {
	if t.closed {
		return 0, errors.New("transport is closed")
	}
	if t.rsp == nil {
		return 0, io.EOF
	}

	n, err := t.rsp.Read(data)
	if err == io.EOF {
		t.rsp = nil
	}
	return n, err
}

// Write implements [tpm2.TCTI].
func (t *Transport) Write(data []byte) (int, error) {
	if t.closed {
		return 0, errors.New("transport is closed")
	}

	cmd := make(tpm2.CommandPacket, len(data))
	copy(cmd, data)
	t.CommandLog = append(t.CommandLog, cmd)

	rsp, err := t.handler(cmd)
	if err != nil {
		return 0, err
	}
	t.rsp = bytes.NewReader(rsp)

	return len(data), nil
}

// Close implements [tpm2.TCTI.Close].
func (t *Transport) Close() error {
	if t.closed {
		return errors.New("transport already closed")
	}
	t.closed = true
	return nil
}

var _ tpm2.TCTI = (*Transport)(nil)

// NewRandomSource returns a deterministic random source seeded with the
// supplied bytes, for producing reproducible nonces and secrets in mock
// TPM implementations.
func NewRandomSource(seed []byte) (io.Reader, error) {
	return drbg.NewCTRWithExternalEntropy(32, seed, nil, nil, nil)
}
