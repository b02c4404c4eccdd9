// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package tpm2_test

import (
	"testing"

	. "gopkg.in/check.v1"

	. "github.com/colemickens/go-tpm2"
	"github.com/colemickens/go-tpm2/mu"
	"github.com/colemickens/go-tpm2/testutil"
)

func Test(t *testing.T) { TestingT(t) }

type commandSuite struct{}

var _ = Suite(&commandSuite{})

func (s *commandSuite) TestMarshalCommandPacketNoSessions(c *C) {
	cpBytes := testutil.DecodeHexString(c, "00204355a46b19d348dc2f57c046f8ef63d4538ebb936000f3c9ee954a27460dd8650000000010000b")
	p, err := MarshalCommandPacket(CommandStartAuthSession, HandleList{HandleNull, 0x80000000}, nil, cpBytes)
	c.Check(err, IsNil)

	expected := testutil.DecodeHexString(c, "80010000003b00000176400000078000000000204355a46b19d348dc2f57c046f8ef63d4538ebb936000f3c9ee954a27460dd8650000000010000b")
	c.Check(p, DeepEquals, CommandPacket(expected))
}

func (s *commandSuite) TestMarshalCommandPacketWithSessions(c *C) {
	authArea := []AuthCommand{
		{
			SessionHandle:     HandlePW,
			SessionAttributes: AttrContinueSession,
			HMAC:              []byte("foo"),
		},
		{
			SessionHandle:     0x02000001,
			Nonce:             testutil.DecodeHexString(c, "4355a46b19d348dc2f57c046f8ef63d4538ebb936000f3c9ee954a27460dd865"),
			SessionAttributes: AttrResponseEncrypt,
			HMAC:              testutil.DecodeHexString(c, "042aea10a0f14f2d391373599be69d53a75dde9951fc3d3cd10b6100aa7a9f24"),
		}}
	p, err := MarshalCommandPacket(CommandUnseal, HandleList{0x80000001}, authArea, nil)
	c.Check(err, IsNil)

	expected := testutil.DecodeHexString(c, "8002000000670000015e8000000100000055400000090000010003666f6f0200000100204355a46b19d348dc2f57c046f8ef63d4538ebb936000f3c9ee954a27460dd865400020042aea10a0f14f2d391373599be69d53a75dde9951fc3d3cd10b6100aa7a9f24")
	c.Check(p, DeepEquals, CommandPacket(expected))
}

// The size field written into the command header always equals the length
// of the marshalled packet.
func (s *commandSuite) TestMarshalCommandPacketSizeConsistency(c *C) {
	for _, data := range []struct {
		handles  HandleList
		authArea []AuthCommand
		params   []byte
	}{
		{nil, nil, nil},
		{HandleList{HandleOwner}, nil, []byte{0x00, 0x01}},
		{HandleList{HandleOwner, HandleNull}, []AuthCommand{{SessionHandle: HandlePW, SessionAttributes: AttrContinueSession}}, make([]byte, 503)},
	} {
		p, err := MarshalCommandPacket(CommandGetCapability, data.handles, data.authArea, data.params)
		c.Check(err, IsNil)

		var header CommandHeader
		_, err = mu.UnmarshalFromBytes(p, &header)
		c.Check(err, IsNil)
		c.Check(header.CommandSize, Equals, uint32(len(p)))
	}
}

func (s *commandSuite) TestCommandPacketUnmarshalPayload(c *C) {
	cpBytes := testutil.DecodeHexString(c, "000b0010")
	p, err := MarshalCommandPacket(CommandGetCapability, HandleList{HandleOwner}, []AuthCommand{{SessionHandle: HandlePW, SessionAttributes: AttrContinueSession}}, cpBytes)
	c.Check(err, IsNil)

	handles, authArea, parameters, err := p.UnmarshalPayload(1)
	c.Check(err, IsNil)
	c.Check(handles, DeepEquals, testutil.DecodeHexString(c, "40000001"))
	c.Check(authArea, DeepEquals, []AuthCommand{{SessionHandle: HandlePW, Nonce: Nonce{}, SessionAttributes: AttrContinueSession, HMAC: Auth{}}})
	c.Check(parameters, DeepEquals, cpBytes)
}

func (s *commandSuite) TestUnmarshalResponsePacketTooSmall(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80010000000a000000"))
	_, _, _, err := p.Unmarshal(nil)
	c.Check(err, ErrorMatches, `cannot unmarshal header: .*`)
}

func (s *commandSuite) TestUnmarshalResponsePacketInvalidSize(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80010000001000000000"))
	_, _, _, err := p.Unmarshal(nil)
	c.Check(err, ErrorMatches, `invalid responseSize value \(got 16, packet length 10\)`)
}

func (s *commandSuite) TestUnmarshalResponsePacketUnexpectedTPM1(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "00c40000000a00000000"))
	_, _, _, err := p.Unmarshal(nil)
	c.Check(err, ErrorMatches, `unexpected TPM1.2 response code 0x00000000`)
}

func (s *commandSuite) TestUnmarshalResponsePacketUnsuccessfulWithSessions(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80020000000a0000088e"))
	_, _, _, err := p.Unmarshal(nil)
	c.Check(err, ErrorMatches, `unexpected response code 0x0000088e for TPM_ST_SESSIONS response`)
}

func (s *commandSuite) TestUnmarshalResponsePacketTPM12(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "00c40000000a0000001e"))
	rc, params, authArea, err := p.Unmarshal(nil)
	c.Check(err, IsNil)
	c.Check(params, HasLen, 0)
	c.Check(authArea, HasLen, 0)
	c.Check(rc, Equals, ResponseBadTag)
}

func (s *commandSuite) TestUnmarshalResponsePacketNoSessions(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80010000002c0000000000200000000000000000000000000000000000000000000000000000000000000000"))
	rc, params, authArea, err := p.Unmarshal(nil)
	c.Check(err, IsNil)
	c.Check(params, DeepEquals, testutil.DecodeHexString(c, "00200000000000000000000000000000000000000000000000000000000000000000"))
	c.Check(authArea, HasLen, 0)
	c.Check(rc, Equals, ResponseSuccess)
}

func (s *commandSuite) TestUnmarshalResponsePacketWithSessions(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80020000001a00000000000000070005a5a5a5a5a50000010000"))
	rc, params, authArea, err := p.Unmarshal(nil)
	c.Check(err, IsNil)
	c.Check(params, DeepEquals, testutil.DecodeHexString(c, "0005a5a5a5a5a5"))
	c.Check(authArea, DeepEquals, []AuthResponse{{Nonce: Nonce{}, SessionAttributes: AttrContinueSession, HMAC: Auth{}}})
	c.Check(rc, Equals, ResponseSuccess)
}

func (s *commandSuite) TestUnmarshalResponsePacketWithHandle(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80010000000e0000000080000002"))

	var handle Handle
	rc, params, authArea, err := p.Unmarshal(&handle)
	c.Check(err, IsNil)
	c.Check(params, HasLen, 0)
	c.Check(authArea, HasLen, 0)
	c.Check(rc, Equals, ResponseSuccess)
	c.Check(handle, Equals, Handle(0x80000002))
}

func (s *commandSuite) TestUnmarshalResponsePacketInvalidParamSize(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80020000001a00000000000010070005a5a5a5a5a50000010000"))
	_, _, _, err := p.Unmarshal(nil)
	c.Check(err, ErrorMatches, `cannot read parameters: unexpected EOF`)
}

func (s *commandSuite) TestUnmarshalResponsePacketTooManySessions(c *C) {
	p := ResponsePacket(testutil.DecodeHexString(c, "80020000002900000000000000070005a5a5a5a5a50000010000000001000000000100000000010000"))
	_, _, _, err := p.Unmarshal(nil)
	c.Check(err, ErrorMatches, `5 trailing byte\(s\)`)
}
