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

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderGetterRoundTrip(t *testing.T) {
	b := NewBuilder(0)
	b.WriteBool(true)
	b.WriteByte(-7)
	b.WriteI16(-1000)
	b.WriteI32(123456789)
	b.WriteI64(-9_000_000_000_000)
	b.WriteDouble(3.14159)
	b.WriteBytes([]byte("hello"))

	g := NewGetter(b.Bytes())

	bv, err := g.ReadBool()
	require.NoError(t, err)
	assert.True(t, bv)

	byteV, err := g.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, int8(-7), byteV)

	i16, err := g.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1000), i16)

	i32, err := g.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(123456789), i32)

	i64, err := g.ReadI64()
	require.NoError(t, err)
	assert.Equal(t, int64(-9_000_000_000_000), i64)

	dbl, err := g.ReadDouble()
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, dbl, 1e-12)

	tail, err := g.Next(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(tail))

	assert.Equal(t, 0, g.Remaining())
}

func TestGetterShortRead(t *testing.T) {
	g := NewGetter([]byte{0x01, 0x02})
	_, err := g.ReadI32()
	require.Error(t, err)
	var wfe *WireFormatError
	require.ErrorAs(t, err, &wfe)
}

func TestBuilderConcatIsAssociative(t *testing.T) {
	a := NewBuilder(0)
	a.WriteByte(1)
	bld := NewBuilder(0)
	bld.WriteByte(2)
	c := NewBuilder(0)
	c.WriteByte(3)

	left := NewBuilder(0).Concat(a).Concat(bld).Concat(c).Bytes()

	bc := NewBuilder(0).Concat(bld).Concat(c)
	right := NewBuilder(0).Concat(a).Concat(bc).Bytes()

	assert.Equal(t, left, right)
	assert.Equal(t, []byte{1, 2, 3}, left)
}

func TestBuilderIdentity(t *testing.T) {
	empty := NewBuilder(0)
	a := NewBuilder(0)
	a.WriteByte(9)
	got := NewBuilder(0).Concat(empty).Concat(a).Concat(empty).Bytes()
	assert.Equal(t, []byte{9}, got)
}

func TestGetterNegativeNext(t *testing.T) {
	g := NewGetter([]byte{1, 2, 3})
	_, err := g.Next(-1)
	require.Error(t, err)
}
