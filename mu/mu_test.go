// Copyright 2019 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package mu_test

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"reflect"
	"testing"

	. "gopkg.in/check.v1"

	. "github.com/colemickens/go-tpm2/mu"
)

func Test(t *testing.T) { TestingT(t) }

type muSuite struct{}

var _ = Suite(&muSuite{})

func decodeHex(c *C, s string) []byte {
	b, err := hex.DecodeString(s)
	c.Assert(err, IsNil)
	return b
}

func (s *muSuite) TestMarshalPrimitives(c *C) {
	b, err := MarshalToBytes(uint8(0x12), uint16(0x1234), uint32(0x12345678), uint64(0x123456789abcdef0), int32(-1), true, false)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "12"+"1234"+"12345678"+"123456789abcdef0"+"ffffffff"+"01"+"00"))
}

func (s *muSuite) TestUnmarshalPrimitives(c *C) {
	var a uint8
	var b uint16
	var d uint32
	var e uint64
	var f int32
	var g bool
	n, err := UnmarshalFromBytes(decodeHex(c, "12"+"1234"+"12345678"+"123456789abcdef0"+"ffffffff"+"01"), &a, &b, &d, &e, &f, &g)
	c.Check(err, IsNil)
	c.Check(n, Equals, 20)
	c.Check(a, Equals, uint8(0x12))
	c.Check(b, Equals, uint16(0x1234))
	c.Check(d, Equals, uint32(0x12345678))
	c.Check(e, Equals, uint64(0x123456789abcdef0))
	c.Check(f, Equals, int32(-1))
	c.Check(g, Equals, true)
}

// The first byte of the encoding of a multibyte integer is its most
// significant byte.
func (s *muSuite) TestBigEndian(c *C) {
	b, err := MarshalToBytes(uint32(0xa1b2c3d4))
	c.Check(err, IsNil)
	c.Check(b[0], Equals, uint8(0xa1))

	b, err = MarshalToBytes(uint16(0xbeef))
	c.Check(err, IsNil)
	c.Check(b[0], Equals, uint8(0xbe))
}

func (s *muSuite) TestPrimitiveRoundTrip(c *C) {
	for _, v := range []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 0xffff, 0x10000, 0xffffffff, 0x100000000, 0xffffffffffffffff} {
		b, err := MarshalToBytes(v)
		c.Check(err, IsNil)

		var out uint64
		n, err := UnmarshalFromBytes(b, &out)
		c.Check(err, IsNil)
		c.Check(n, Equals, len(b))
		c.Check(out, Equals, v)
	}
}

func (s *muSuite) TestUnmarshalPrimitiveTooShort(c *C) {
	var v uint32
	_, err := UnmarshalFromBytes([]byte{0x12, 0x34}, &v)
	c.Check(err, NotNil)
	c.Check(err, ErrorMatches, `cannot unmarshal argument 0 whilst processing element of type uint32: unexpected EOF`)
}

func (s *muSuite) TestUnmarshalPrimitiveEmpty(c *C) {
	var v uint16
	_, err := UnmarshalFromBytes(nil, &v)
	c.Check(err, NotNil)
	var muErr *Error
	c.Check(err, FitsTypeOf, muErr)
}

type testSizedBuffer []byte

func (s *muSuite) TestSizedBuffer(c *C) {
	b, err := MarshalToBytes(testSizedBuffer(decodeHex(c, "deadbeef")))
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "0004deadbeef"))

	var out testSizedBuffer
	n, err := UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(n, Equals, len(b))
	c.Check(out, DeepEquals, testSizedBuffer(decodeHex(c, "deadbeef")))
}

func (s *muSuite) TestSizedBufferEmpty(c *C) {
	b, err := MarshalToBytes([]byte(nil))
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, []byte{0x00, 0x00})

	var out []byte
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out, HasLen, 0)
}

func (s *muSuite) TestSizedBufferTooLarge(c *C) {
	_, err := MarshalToBytes(make([]byte, 70000))
	c.Check(err, ErrorMatches, `cannot marshal argument 0 whilst processing element of type \[\]uint8: sized value size of 70000 is larger than 2\^16-1`)
}

func (s *muSuite) TestUnmarshalSizedBufferSizeExceedsRemaining(c *C) {
	var out []byte
	_, err := UnmarshalFromBytes(decodeHex(c, "0005aabb"), &out)
	c.Check(err, ErrorMatches, `cannot unmarshal argument 0 whilst processing element of type \[\]uint8: sized value has a size of 5 bytes which is larger than the 2 remaining bytes: unexpected EOF`)
}

type testStruct struct {
	A uint16
	B []byte
	C bool
	D []uint32
}

func (s *muSuite) TestStructRoundTrip(c *C) {
	v := testStruct{A: 0x1c2b, B: []byte{0xaa, 0xbb}, C: true, D: []uint32{1, 2, 3}}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "1c2b"+"0002aabb"+"01"+"00000003"+"000000010000000200000003"))

	var out testStruct
	n, err := UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(n, Equals, len(b))
	c.Check(out, DeepEquals, v)
}

func (s *muSuite) TestUnmarshalStructTruncated(c *C) {
	// Cut the encoding short part way through the list.
	v := testStruct{A: 1, B: nil, C: false, D: []uint32{1, 2}}
	b := MustMarshalToBytes(v)

	var out testStruct
	_, err := UnmarshalFromBytes(b[:len(b)-2], &out)
	c.Check(err, NotNil)
}

func (s *muSuite) TestUnmarshalListCountExceedsRemaining(c *C) {
	var out []uint32
	_, err := UnmarshalFromBytes(decodeHex(c, "ffffffff00000001"), &out)
	c.Check(err, ErrorMatches, `cannot unmarshal argument 0 whilst processing element of type \[\]uint32: list has a count of 4294967295 which is larger than the 4 remaining bytes: unexpected EOF`)
}

func (s *muSuite) TestRawBytes(c *C) {
	b, err := MarshalToBytes(RawBytes{0x01, 0x02, 0x03})
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, []byte{0x01, 0x02, 0x03})

	out := make(RawBytes, 3)
	_, err = UnmarshalFromBytes(b, out)
	c.Check(err, IsNil)
	c.Check(out, DeepEquals, RawBytes{0x01, 0x02, 0x03})
}

type testSizedStructContainer struct {
	A uint32
	S *testStruct `tpm2:"sized"`
}

func (s *muSuite) TestSizedStruct(c *C) {
	v := testSizedStructContainer{A: 10, S: &testStruct{A: 5, D: []uint32{}}}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "0000000a"+"0009"+"0005"+"0000"+"00"+"00000000"))

	var out testSizedStructContainer
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.A, Equals, uint32(10))
	c.Assert(out.S, NotNil)
	c.Check(out.S.A, Equals, uint16(5))
}

func (s *muSuite) TestSizedStructNil(c *C) {
	v := testSizedStructContainer{A: 1}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "00000001"+"0000"))

	var out testSizedStructContainer
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.S, IsNil)
}

// testUnion is a union whose selector is the first field of the enclosing
// structure. The selector value 3 selects no data, and unrecognized
// selector values also serialize to no data.
type testUnion struct {
	A *uint32
	B []byte
}

func (u *testUnion) Select(selector reflect.Value) interface{} {
	switch selector.Interface().(uint16) {
	case 1:
		return &u.A
	case 2:
		return &u.B
	case 3:
		return NilUnionValue
	default:
		return nil
	}
}

type testUnionContainer struct {
	Select uint16
	Union  *testUnion
}

func (s *muSuite) TestUnionSelectA(c *C) {
	v := testUnionContainer{Select: 1, Union: &testUnion{A: func() *uint32 { x := uint32(0xdeadbeef); return &x }()}}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "0001"+"deadbeef"))

	var out testUnionContainer
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Assert(out.Union, NotNil)
	c.Assert(out.Union.A, NotNil)
	c.Check(*out.Union.A, Equals, uint32(0xdeadbeef))
}

func (s *muSuite) TestUnionSelectB(c *C) {
	v := testUnionContainer{Select: 2, Union: &testUnion{B: []byte{0xaa}}}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "0002"+"0001aa"))
}

func (s *muSuite) TestUnionNullSelector(c *C) {
	v := testUnionContainer{Select: 3, Union: &testUnion{A: func() *uint32 { x := uint32(1); return &x }()}}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "0003"))
}

func (s *muSuite) TestUnionUnknownSelector(c *C) {
	// An undefined selector value carries no payload and is not an error.
	v := testUnionContainer{Select: 0x1234}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "1234"))

	var out testUnionContainer
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
}

type testTaggedUnionContainer struct {
	A      uint32
	Select uint16
	Union  *testUnion `tpm2:"selector:Select"`
}

func (s *muSuite) TestUnionExplicitSelector(c *C) {
	v := testTaggedUnionContainer{A: 1, Select: 2, Union: &testUnion{B: []byte{0xbb, 0xcc}}}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, decodeHex(c, "00000001"+"0002"+"0002bbcc"))

	var out testTaggedUnionContainer
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out.Union.B, DeepEquals, []byte{0xbb, 0xcc})
}

type testCustom struct {
	A uint8
	B uint8
}

func (t testCustom) Marshal(w io.Writer) error {
	// Encoded in reverse order.
	_, err := w.Write([]byte{t.B, t.A})
	return err
}

func (t *testCustom) Unmarshal(r io.Reader) error {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}
	t.A = b[1]
	t.B = b[0]
	return nil
}

func (s *muSuite) TestCustomType(c *C) {
	v := testCustom{A: 1, B: 2}
	b, err := MarshalToBytes(v)
	c.Check(err, IsNil)
	c.Check(b, DeepEquals, []byte{0x02, 0x01})

	var out testCustom
	_, err = UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(out, DeepEquals, v)
}

func (s *muSuite) TestMarshalToWriterCount(c *C) {
	buf := new(bytes.Buffer)
	n, err := MarshalToWriter(buf, uint32(1), []byte{0xaa, 0xbb})
	c.Check(err, IsNil)
	c.Check(n, Equals, 8)
	c.Check(buf.Len(), Equals, 8)
}

// Unmarshalling with a reader consumes exactly the encoded bytes, leaving
// the remainder in place.
func (s *muSuite) TestUnmarshalFromReaderResidual(c *C) {
	b := MustMarshalToBytes(uint16(0xbeef))
	b = append(b, 0xff)

	r := bytes.NewReader(b)
	var v uint16
	n, err := UnmarshalFromReader(r, &v)
	c.Check(err, IsNil)
	c.Check(n, Equals, 2)
	c.Check(v, Equals, uint16(0xbeef))
	c.Check(r.Len(), Equals, 1)
}

func (s *muSuite) TestCopyValue(c *C) {
	src := testStruct{A: 5, B: []byte{1, 2}, D: []uint32{9}}
	var dst testStruct
	c.Check(CopyValue(&dst, src), IsNil)
	c.Check(dst, DeepEquals, src)
}

func (s *muSuite) TestDeepEqual(c *C) {
	a := testStruct{A: 5, B: []byte{1, 2}}
	b := testStruct{A: 5, B: []byte{1, 2}}
	c.Check(DeepEqual(a, b), Equals, true)

	b.A = 6
	c.Check(DeepEqual(a, b), Equals, false)
}

func (s *muSuite) TestIsValid(c *C) {
	c.Check(IsValid(uint32(5), testStruct{}), Equals, true)
	c.Check(IsValid(make([]byte, 70000)), Equals, false)
}

func (s *muSuite) TestDetermineTPMKind(c *C) {
	c.Check(DetermineTPMKind(uint32(0)), Equals, TPMKindPrimitive)
	c.Check(DetermineTPMKind([]byte{}), Equals, TPMKindSized)
	c.Check(DetermineTPMKind([]uint32{}), Equals, TPMKindList)
	c.Check(DetermineTPMKind(testStruct{}), Equals, TPMKindStruct)
	c.Check(DetermineTPMKind(&testStruct{}), Equals, TPMKindStruct)
	c.Check(DetermineTPMKind(RawBytes{}), Equals, TPMKindRaw)
	c.Check(DetermineTPMKind(Sized(&testStruct{})), Equals, TPMKindSized)
}

func (s *muSuite) TestSizedWrapper(c *C) {
	v := &testStruct{A: 2, D: []uint32{}}
	b, err := MarshalToBytes(Sized(v))
	c.Check(err, IsNil)

	expected := MustMarshalToBytes(uint16(9), RawBytes(MustMarshalToBytes(v)))
	c.Check(b, DeepEquals, expected)

	var out *testStruct
	_, err = UnmarshalFromBytes(b, Sized(&out))
	c.Check(err, IsNil)
	c.Assert(out, NotNil)
	c.Check(out.A, Equals, uint16(2))
}

// Raw bytes captured from the wire re-marshal to the same encoding.
func (s *muSuite) TestRawBytesFaithful(c *C) {
	v := testStruct{A: 0x1234, B: []byte{0xde, 0xad}, C: true, D: []uint32{42}}
	b := MustMarshalToBytes(v)

	var out testStruct
	n, err := UnmarshalFromBytes(b, &out)
	c.Check(err, IsNil)
	c.Check(n, Equals, len(b))
	c.Check(MustMarshalToBytes(out), DeepEquals, b)
}

func (s *muSuite) TestEndianAgainstBinary(c *C) {
	// The encoding must agree with encoding/binary's big endian encoding.
	b := MustMarshalToBytes(uint64(0x0102030405060708))
	expected := make([]byte, 8)
	binary.BigEndian.PutUint64(expected, 0x0102030405060708)
	c.Check(b, DeepEquals, expected)
}
