/*
 * Copyright 2024 The Pinch Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/414owen/pinch/option"
	"github.com/414owen/pinch/perrors"
	"github.com/414owen/pinch/value"
	"github.com/414owen/pinch/wire"
)

func roundTrip(t *testing.T, v value.Value, opts *option.Options) value.Value {
	b := wire.NewBuilder(0)
	require.NoError(t, EncodeValue(b, v))
	got, err := DecodeValue(wire.NewGetter(b.Bytes()), v.Type, opts)
	require.NoError(t, err)
	return got
}

func TestPrimitiveRoundTrip(t *testing.T) {
	opts := option.New()
	cases := []value.Value{
		value.Bool(true),
		value.Bool(false),
		value.Byte(-42),
		value.Double(2.71828),
		value.Int16(-1234),
		value.Int32(987654321),
		value.Int64(-1 << 40),
		value.Binary([]byte("thrift")),
	}
	for _, c := range cases {
		got := roundTrip(t, c, opts)
		assert.True(t, c.Equal(got), "round trip mismatch for %v", c.Type)
	}
}

func TestStructRoundTripIgnoresFieldOrder(t *testing.T) {
	opts := option.New()
	s := value.Struct(value.Fields{
		1: value.Int32(1),
		2: value.Binary([]byte("hi")),
		3: value.Bool(true),
	})
	got := roundTrip(t, s, opts)
	assert.True(t, s.Equal(got))
}

func TestListRoundTripPreservesOrder(t *testing.T) {
	opts := option.New()
	list := value.List(value.I32, []value.Value{value.Int32(3), value.Int32(1), value.Int32(2)})
	got := roundTrip(t, list, opts)
	require.Equal(t, 3, len(got.Elems()))
	assert.Equal(t, int32(3), got.Elems()[0].AsI32())
	assert.Equal(t, int32(1), got.Elems()[1].AsI32())
	assert.Equal(t, int32(2), got.Elems()[2].AsI32())
}

func TestEmptyMapRoundTrip(t *testing.T) {
	opts := option.New()
	m := value.Map(value.I32, value.BINARY, nil)
	got := roundTrip(t, m, opts)
	assert.Equal(t, value.I32, got.KeyType())
	assert.Equal(t, value.BINARY, got.ValType())
	assert.Empty(t, got.Entries())
}

func TestMapRoundTrip(t *testing.T) {
	opts := option.New()
	m := value.Map(value.I32, value.BINARY, []value.MapEntry{
		{Key: value.Int32(1), Val: value.Binary([]byte("a"))},
		{Key: value.Int32(2), Val: value.Binary([]byte("b"))},
	})
	got := roundTrip(t, m, opts)
	assert.True(t, m.Equal(got))
}

func TestNestedStructRoundTrip(t *testing.T) {
	opts := option.New()
	inner := value.Struct(value.Fields{1: value.Int32(7)})
	outer := value.Struct(value.Fields{
		1: inner,
		2: value.List(value.STRUCT, []value.Value{inner, inner}),
	})
	got := roundTrip(t, outer, opts)
	assert.True(t, outer.Equal(got))
}

func TestDecodeRejectsNegativeBinaryLength(t *testing.T) {
	b := wire.NewBuilder(0)
	b.WriteI32(-1)
	_, err := DecodeValue(wire.NewGetter(b.Bytes()), value.BINARY, option.New())
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.NegativeSize))
}

func TestDecodeRejectsOverLimitBinaryLength(t *testing.T) {
	opts := option.New(option.WithMaxBinaryLength(4))
	b := wire.NewBuilder(0)
	b.WriteI32(5)
	b.WriteBytes([]byte("abcde"))
	_, err := DecodeValue(wire.NewGetter(b.Bytes()), value.BINARY, opts)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.LimitExceeded))
}

func TestDecodeRejectsNegativeListLength(t *testing.T) {
	b := wire.NewBuilder(0)
	b.WriteByte(int8(value.I32))
	b.WriteI32(-1)
	_, err := DecodeValue(wire.NewGetter(b.Bytes()), value.LIST, option.New())
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.NegativeSize))
}

func TestDecodeRejectsDeepRecursion(t *testing.T) {
	opts := option.New(option.WithRecursionDepth(2))
	b := wire.NewBuilder(0)
	// struct -> field 1 STRUCT -> field 1 STRUCT -> field 1 STOP : depth 3, cap 2
	inner := value.Struct(value.Fields{})
	mid := value.Struct(value.Fields{1: inner})
	outer := value.Struct(value.Fields{1: mid})
	require.NoError(t, EncodeValue(b, outer))
	_, err := DecodeValue(wire.NewGetter(b.Bytes()), value.STRUCT, opts)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.DepthLimit))
}

func TestSkipAdvancesPastValueWithoutDecodingIt(t *testing.T) {
	b := wire.NewBuilder(0)
	skipped := value.Struct(value.Fields{
		1: value.Int32(7),
		2: value.List(value.BINARY, []value.Value{value.Binary([]byte("a")), value.Binary([]byte("bc"))}),
		3: value.Map(value.I16, value.BOOL, []value.MapEntry{{Key: value.Int16(1), Val: value.Bool(true)}}),
	})
	require.NoError(t, EncodeValue(b, skipped))
	trailer := value.Int32(99)
	require.NoError(t, EncodeValue(b, trailer))

	g := wire.NewGetter(b.Bytes())
	require.NoError(t, Skip(value.STRUCT, g, option.New()))

	got, err := DecodeValue(g, value.I32, option.New())
	require.NoError(t, err)
	assert.True(t, trailer.Equal(got))
}

func TestSkipRejectsOverLimitBinaryLength(t *testing.T) {
	opts := option.New(option.WithMaxBinaryLength(4))
	b := wire.NewBuilder(0)
	b.WriteI32(5)
	b.WriteBytes([]byte("abcde"))
	err := Skip(value.BINARY, wire.NewGetter(b.Bytes()), opts)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.LimitExceeded))
}

func TestSkipRejectsDeepRecursion(t *testing.T) {
	opts := option.New(option.WithRecursionDepth(2))
	b := wire.NewBuilder(0)
	inner := value.Struct(value.Fields{})
	mid := value.Struct(value.Fields{1: inner})
	outer := value.Struct(value.Fields{1: mid})
	require.NoError(t, EncodeValue(b, outer))
	err := Skip(value.STRUCT, wire.NewGetter(b.Bytes()), opts)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.DepthLimit))
}

func TestMessageBeginStrictRoundTrip(t *testing.T) {
	b := wire.NewBuilder(0)
	EncodeMessageBegin(b, "calculate", value.Call, 42)
	hdr, err := DecodeMessageBegin(wire.NewGetter(b.Bytes()), option.New())
	require.NoError(t, err)
	assert.Equal(t, "calculate", hdr.Name)
	assert.Equal(t, value.Call, hdr.Type)
	assert.Equal(t, int32(42), hdr.SeqID)
	assert.True(t, hdr.Strict)
}

func TestMessageBeginLegacyRoundTrip(t *testing.T) {
	b := wire.NewBuilder(0)
	EncodeMessageBeginLegacy(b, "echo", value.Reply, 7)
	hdr, err := DecodeMessageBegin(wire.NewGetter(b.Bytes()), option.New())
	require.NoError(t, err)
	assert.Equal(t, "echo", hdr.Name)
	assert.Equal(t, value.Reply, hdr.Type)
	assert.Equal(t, int32(7), hdr.SeqID)
	assert.False(t, hdr.Strict)
}

func TestDecodeMessageBeginRejectsBadVersion(t *testing.T) {
	b := wire.NewBuilder(0)
	badVersion := uint32(0x80020000) // sign bit set, wrong version
	b.WriteI32(int32(badVersion))
	_, err := DecodeMessageBegin(wire.NewGetter(b.Bytes()), option.New())
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.BadVersion))
}

func TestMessageRoundTripStrict(t *testing.T) {
	msg := Message{
		Header:  Header{Name: "echo", Type: value.Call, SeqID: 5},
		Payload: value.Struct(value.Fields{1: value.Int32(42)}),
	}
	b, err := EncodeMessage(msg, false)
	require.NoError(t, err)
	got, err := DecodeMessage(b, option.New())
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Name)
	assert.Equal(t, value.Call, got.Type)
	assert.Equal(t, int32(5), got.SeqID)
	assert.True(t, got.Strict)
	assert.True(t, msg.Payload.Equal(got.Payload))
}

func TestMessageRoundTripLegacy(t *testing.T) {
	msg := Message{
		Header:  Header{Name: "echo", Type: value.Reply, SeqID: 9},
		Payload: value.Struct(value.Fields{1: value.Binary([]byte("ok"))}),
	}
	b, err := EncodeMessage(msg, true)
	require.NoError(t, err)
	got, err := DecodeMessage(b, option.New())
	require.NoError(t, err)
	assert.False(t, got.Strict)
	assert.True(t, msg.Payload.Equal(got.Payload))
}

func TestDecodeMessageBeginRejectsOverLongMethodName(t *testing.T) {
	opts := option.New(option.WithMaxMethodNameLength(4))
	b := wire.NewBuilder(0)
	EncodeMessageBeginLegacy(b, "toolongname", value.Call, 1)
	_, err := DecodeMessageBegin(wire.NewGetter(b.Bytes()), opts)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.LimitExceeded))
}

// TestLegacyAndStrictFramingDecodeToTheSameMessage hand-crafts the same
// logical message (name, type, seqid, payload) under both framings and
// checks decoding agrees on everything but the Strict flag itself.
func TestLegacyAndStrictFramingDecodeToTheSameMessage(t *testing.T) {
	logical := Message{
		Header:  Header{Name: "calculate", Type: value.Call, SeqID: 17},
		Payload: value.Struct(value.Fields{1: value.Int32(10), 2: value.Int32(20)}),
	}

	strictBytes, err := EncodeMessage(logical, false)
	require.NoError(t, err)
	legacyBytes, err := EncodeMessage(logical, true)
	require.NoError(t, err)

	strictMsg, err := DecodeMessage(strictBytes, option.New())
	require.NoError(t, err)
	legacyMsg, err := DecodeMessage(legacyBytes, option.New())
	require.NoError(t, err)

	assert.Equal(t, strictMsg.Name, legacyMsg.Name)
	assert.Equal(t, strictMsg.Type, legacyMsg.Type)
	assert.Equal(t, strictMsg.SeqID, legacyMsg.SeqID)
	assert.True(t, strictMsg.Payload.Equal(legacyMsg.Payload))
	assert.True(t, strictMsg.Strict)
	assert.False(t, legacyMsg.Strict)
}
