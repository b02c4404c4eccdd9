// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"

	. "gopkg.in/check.v1"

	. "github.com/colemickens/go-tpm2"
	"github.com/colemickens/go-tpm2/mu"
	"github.com/colemickens/go-tpm2/testutil"
)

type tpmSuite struct{}

var _ = Suite(&tpmSuite{})

// successResponse builds a TPM_ST_NO_SESSIONS success response with the
// supplied marshalled parameters.
func successResponse(c *C, params ...interface{}) ResponsePacket {
	body := mu.MustMarshalToBytes(params...)
	rsp := mu.MustMarshalToBytes(
		ResponseHeader{Tag: TagNoSessions, ResponseSize: uint32(10 + len(body)), ResponseCode: ResponseSuccess},
		mu.RawBytes(body))
	return ResponsePacket(rsp)
}

func (s *tpmSuite) TestStartup(c *C) {
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000000")))
	tpm := NewTPMContext(transport)

	c.Check(tpm.Startup(StartupClear), IsNil)
	c.Check(transport.LastCommand(), DeepEquals, CommandPacket(testutil.DecodeHexString(c, "80010000000c000001440000")))
}

func (s *tpmSuite) TestGetRandom(c *C) {
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000001c00000000001000000000000000000000000000000000")))
	tpm := NewTPMContext(transport)

	random, err := tpm.GetRandom(16)
	c.Check(err, IsNil)
	c.Check(random, DeepEquals, Digest(make([]byte, 16)))
	c.Check(transport.LastCommand(), DeepEquals, CommandPacket(testutil.DecodeHexString(c, "80010000000c0000017b0010")))
}

func (s *tpmSuite) TestSelfTest(c *C) {
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000000")))
	tpm := NewTPMContext(transport)

	c.Check(tpm.SelfTest(true), IsNil)
	c.Check(transport.LastCommand(), DeepEquals, CommandPacket(testutil.DecodeHexString(c, "80010000000b0000014301")))
}

// A passphrase authorization produces a TPM_RS_PW auth with the auth value
// in the hmac field, switches the tag to TPM_ST_SESSIONS and prefixes the
// auth area with its size.
func (s *tpmSuite) TestPassphraseAuth(c *C) {
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80020000001300000000000000000000010000")))
	tpm := NewTPMContext(transport)

	lockout := tpm.LockoutHandleContext()
	lockout.SetAuthValue([]byte("foo"))

	c.Check(tpm.Clear(lockout, nil), IsNil)
	c.Check(transport.LastCommand(), DeepEquals, CommandPacket(testutil.DecodeHexString(c,
		"8002"+"0000001e"+"00000126"+"4000000a"+"0000000c"+"40000009"+"0000"+"01"+"0003666f6f")))
}

// The size field of every generated command packet equals the length of
// the packet handed to the transport.
func (s *tpmSuite) TestCommandSizeSelfConsistency(c *C) {
	transport := testutil.NewResponderTransport(
		ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000000")),
		ResponsePacket(testutil.DecodeHexString(c, "80020000001300000000000000000000010000")))
	tpm := NewTPMContext(transport)

	c.Check(tpm.Startup(StartupClear), IsNil)
	c.Check(tpm.Clear(tpm.LockoutHandleContext(), nil), IsNil)

	for _, cmd := range transport.CommandLog {
		var header CommandHeader
		_, err := mu.UnmarshalFromBytes(cmd, &header)
		c.Check(err, IsNil)
		c.Check(header.CommandSize, Equals, uint32(len(cmd)))
	}
}

// A response whose size field disagrees with its actual length is
// rejected without dispatching any of the response processing.
func (s *tpmSuite) TestResponseSizeMismatch(c *C) {
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000001000000000")))
	tpm := NewTPMContext(transport)

	err := tpm.Startup(StartupClear)
	c.Assert(err, FitsTypeOf, &InvalidResponseError{})
	c.Check(err, ErrorMatches, `.*invalid responseSize value \(got 16, packet length 10\).*`)
}

// A response that is truncated part way through a parameter fails to
// unmarshal.
func (s *tpmSuite) TestResponseTruncatedParameter(c *C) {
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000001000000000"+"0010aabbccdd")))
	tpm := NewTPMContext(transport)

	_, err := tpm.GetRandom(16)
	c.Assert(err, FitsTypeOf, &InvalidResponseError{})
	c.Check(err, ErrorMatches, `.*cannot unmarshal response parameters.*`)
}

// A TPM error response code is decoded into a typed error carrying the
// original code.
func (s *tpmSuite) TestResponseError(c *C) {
	// TPM_RC_DISABLED = RC_VER1 + 0x20
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000120")))
	tpm := NewTPMContext(transport)

	err := tpm.Startup(StartupClear)
	c.Check(IsTPMError(err, ErrorDisabled, CommandStartup), Equals, true)

	var e *TPMError
	c.Assert(err, FitsTypeOf, e)
	c.Check(err.(*TPMError).ResponseCode(), Equals, ResponseCode(0x120))
}

func (s *tpmSuite) TestResponseParameterError(c *C) {
	// TPM_RC_VALUE | parameter 2 = 0x80 + 0x04 | 0x40 | 2<<8
	transport := testutil.NewResponderTransport(ResponsePacket(testutil.DecodeHexString(c, "80010000000a000002c4")))
	tpm := NewTPMContext(transport)

	err := tpm.Startup(StartupClear)
	c.Check(IsTPMParameterError(err, ErrorValue, CommandStartup, 2), Equals, true)
}

// The retry loop resubmits a command while the TPM returns TPM_RC_RETRY.
func (s *tpmSuite) TestRetry(c *C) {
	transport := testutil.NewResponderTransport(
		ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000922")),
		ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000922")),
		ResponsePacket(testutil.DecodeHexString(c, "80010000000a00000000")))
	tpm := NewTPMContext(transport)

	c.Check(tpm.Startup(StartupClear), IsNil)
	c.Check(transport.CommandLog, HasLen, 3)
}

// Outputs echoed back by a mock device arrive at the caller structurally
// equal to the values that were seeded into the response.
func (s *tpmSuite) TestResponseParameterDelivery(c *C) {
	outData := MaxBuffer([]byte("manufacturer test result data"))
	testResult := ResponseCode(0x0000025b)

	transport := testutil.NewResponderTransport(successResponse(c, outData, testResult))
	tpm := NewTPMContext(transport)

	gotData, gotResult, err := tpm.GetTestResult()
	c.Check(err, IsNil)
	c.Check(gotData, DeepEquals, outData)
	c.Check(gotResult, Equals, testResult)
}

// A mock device that computes a proper response HMAC satisfies the
// response auth verification for an unbound, unsalted HMAC session.
func (s *tpmSuite) TestHMACSessionRoundTrip(c *C) {
	sessionHandle := Handle(0x02000000)
	nonceTPM := bytes.Repeat([]byte{0xa5}, 32)
	authValue := []byte("foo")

	handler := func(cmd CommandPacket) (ResponsePacket, error) {
		cc, err := cmd.GetCommandCode()
		if err != nil {
			return nil, err
		}

		switch cc {
		case CommandStartAuthSession:
			rsp := mu.MustMarshalToBytes(
				ResponseHeader{Tag: TagNoSessions, ResponseSize: 48, ResponseCode: ResponseSuccess},
				sessionHandle, Nonce(nonceTPM))
			return ResponsePacket(rsp), nil
		case CommandClear:
			_, authArea, _, err := cmd.UnmarshalPayload(1)
			if err != nil {
				return nil, err
			}

			rpHash := sha256.New()
			mu.MustMarshalToWriter(rpHash, ResponseSuccess, CommandClear)

			h := hmac.New(sha256.New, authValue)
			h.Write(rpHash.Sum(nil))
			h.Write(nonceTPM)
			h.Write(authArea[0].Nonce)
			h.Write([]byte{uint8(authArea[0].SessionAttributes)})

			auth := AuthResponse{Nonce: nonceTPM, SessionAttributes: authArea[0].SessionAttributes, HMAC: h.Sum(nil)}
			body := mu.MustMarshalToBytes(uint32(0), auth)
			rsp := mu.MustMarshalToBytes(
				ResponseHeader{Tag: TagSessions, ResponseSize: uint32(10 + len(body)), ResponseCode: ResponseSuccess},
				mu.RawBytes(body))
			return ResponsePacket(rsp), nil
		default:
			return nil, nil
		}
	}

	tpm := NewTPMContext(testutil.NewTransport(handler))

	session, err := tpm.StartAuthSession(nil, nil, SessionTypeHMAC, nil, HashAlgorithmSHA256)
	c.Assert(err, IsNil)
	c.Check(session.Handle(), Equals, sessionHandle)
	c.Check(session.NonceTPM(), DeepEquals, Nonce(nonceTPM))

	lockout := tpm.LockoutHandleContext()
	lockout.SetAuthValue(authValue)

	c.Check(tpm.Clear(lockout, session.WithAttrs(AttrContinueSession)), IsNil)
}

// A response HMAC that doesn't verify is rejected with an
// InvalidResponseError.
func (s *tpmSuite) TestHMACSessionResponseAuthFailure(c *C) {
	sessionHandle := Handle(0x02000000)
	nonceTPM := bytes.Repeat([]byte{0xa5}, 32)

	handler := func(cmd CommandPacket) (ResponsePacket, error) {
		cc, err := cmd.GetCommandCode()
		if err != nil {
			return nil, err
		}

		switch cc {
		case CommandStartAuthSession:
			rsp := mu.MustMarshalToBytes(
				ResponseHeader{Tag: TagNoSessions, ResponseSize: 48, ResponseCode: ResponseSuccess},
				sessionHandle, Nonce(nonceTPM))
			return ResponsePacket(rsp), nil
		default:
			_, authArea, _, err := cmd.UnmarshalPayload(1)
			if err != nil {
				return nil, err
			}

			auth := AuthResponse{Nonce: nonceTPM, SessionAttributes: authArea[0].SessionAttributes, HMAC: []byte("bogus")}
			body := mu.MustMarshalToBytes(uint32(0), auth)
			rsp := mu.MustMarshalToBytes(
				ResponseHeader{Tag: TagSessions, ResponseSize: uint32(10 + len(body)), ResponseCode: ResponseSuccess},
				mu.RawBytes(body))
			return ResponsePacket(rsp), nil
		}
	}

	tpm := NewTPMContext(testutil.NewTransport(handler))

	session, err := tpm.StartAuthSession(nil, nil, SessionTypeHMAC, nil, HashAlgorithmSHA256)
	c.Assert(err, IsNil)

	lockout := tpm.LockoutHandleContext()
	lockout.SetAuthValue([]byte("foo"))

	err = tpm.Clear(lockout, session.WithAttrs(AttrContinueSession))
	c.Assert(err, FitsTypeOf, &InvalidResponseError{})
	c.Check(err, ErrorMatches, `.*cannot process response auth area.*`)
}
