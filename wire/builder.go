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

// Package wire provides the big-endian byte primitives the Binary Protocol
// codec is built from: an append-only Builder for encoding and a positional
// Getter for decoding.
package wire

import (
	"encoding/binary"
	"math"
)

// Builder accumulates bytes by concatenation with amortized O(1) append,
// mirroring the malloc-and-fill pattern of the teacher's BinaryProtocol.
// The zero Builder is ready to use.
type Builder struct {
	buf []byte
}

// NewBuilder returns a Builder with sizeHint bytes of pre-allocated capacity.
// A correct sizeHint avoids reallocation for the common case of encoding a
// value whose length is computed in a first pass (see foldlist).
func NewBuilder(sizeHint int) *Builder {
	return &Builder{buf: make([]byte, 0, sizeHint)}
}

// malloc grows buf by n bytes and returns the new tail for the caller to
// fill in directly, avoiding an intermediate copy.
func (b *Builder) malloc(n int) []byte {
	l := len(b.buf)
	if cap(b.buf)-l < n {
		grown := make([]byte, l, growCap(cap(b.buf), l+n))
		copy(grown, b.buf)
		b.buf = grown
	}
	b.buf = b.buf[:l+n]
	return b.buf[l : l+n]
}

func growCap(have, need int) int {
	if have == 0 {
		have = 64
	}
	for have < need {
		have *= 2
	}
	return have
}

// WriteBool appends a single byte: 1 for true, 0 for false.
func (b *Builder) WriteBool(v bool) {
	if v {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
}

// WriteByte appends one signed byte.
func (b *Builder) WriteByte(v int8) {
	dst := b.malloc(1)
	dst[0] = byte(v)
}

// WriteI16 appends a 2-byte big-endian signed integer.
func (b *Builder) WriteI16(v int16) {
	dst := b.malloc(2)
	binary.BigEndian.PutUint16(dst, uint16(v))
}

// WriteI32 appends a 4-byte big-endian signed integer.
func (b *Builder) WriteI32(v int32) {
	dst := b.malloc(4)
	binary.BigEndian.PutUint32(dst, uint32(v))
}

// WriteI64 appends an 8-byte big-endian signed integer.
func (b *Builder) WriteI64(v int64) {
	dst := b.malloc(8)
	binary.BigEndian.PutUint64(dst, uint64(v))
}

// WriteDouble appends an 8-byte big-endian IEEE-754 double.
func (b *Builder) WriteDouble(v float64) {
	b.WriteI64(int64(math.Float64bits(v)))
}

// WriteBytes appends raw bytes verbatim, with no length prefix.
func (b *Builder) WriteBytes(v []byte) {
	dst := b.malloc(len(v))
	copy(dst, v)
}

// Len returns the number of bytes accumulated so far.
func (b *Builder) Len() int { return len(b.buf) }

// Bytes finalizes the Builder, returning its accumulated bytes. The Builder
// must not be written to afterward; a Builder is write-only and finalized
// exactly once, per spec §4.1.
func (b *Builder) Bytes() []byte { return b.buf }

// Concat appends the Bytes() of other onto b and returns b, giving Builder
// an associative combine with NewBuilder(0) as identity (spec §4.1).
func (b *Builder) Concat(other *Builder) *Builder {
	b.WriteBytes(other.Bytes())
	return b
}
