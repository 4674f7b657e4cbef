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
	"encoding/binary"
	"fmt"
	"math"
)

// WireFormatError reports that the underlying byte source was shorter than a
// primitive read required (spec §4.1, error kind 1 of §7).
type WireFormatError struct {
	Reason string
}

func (e *WireFormatError) Error() string { return "wire: " + e.Reason }

func errShort(op string, want, have int) error {
	return &WireFormatError{Reason: fmt.Sprintf("%s: need %d bytes, have %d", op, want, have)}
}

// Getter consumes a byte slice positionally. It never copies the underlying
// slice; Next returns sub-slices of it, so callers that need to retain a
// value beyond the Getter's lifetime must copy it themselves.
type Getter struct {
	buf []byte
	pos int
}

// NewGetter wraps buf for positional reads starting at offset 0.
func NewGetter(buf []byte) *Getter {
	return &Getter{buf: buf}
}

// Pos returns the current read offset into the underlying buffer.
func (g *Getter) Pos() int { return g.pos }

// Remaining returns the number of unread bytes.
func (g *Getter) Remaining() int { return len(g.buf) - g.pos }

// Next returns the next n bytes and advances the position, or a
// WireFormatError if fewer than n bytes remain.
func (g *Getter) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, errShort("Next", n, g.Remaining())
	}
	if g.Remaining() < n {
		return nil, errShort("Next", n, g.Remaining())
	}
	b := g.buf[g.pos : g.pos+n]
	g.pos += n
	return b, nil
}

// ReadBool reads one byte and interprets it as a boolean: nonzero is true.
func (g *Getter) ReadBool() (bool, error) {
	b, err := g.Next(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadByte reads one signed byte.
func (g *Getter) ReadByte() (int8, error) {
	b, err := g.Next(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadI16 reads a 2-byte big-endian signed integer.
func (g *Getter) ReadI16() (int16, error) {
	b, err := g.Next(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// ReadI32 reads a 4-byte big-endian signed integer.
func (g *Getter) ReadI32() (int32, error) {
	b, err := g.Next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadI64 reads an 8-byte big-endian signed integer.
func (g *Getter) ReadI64() (int64, error) {
	b, err := g.Next(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// ReadDouble reads an 8-byte big-endian IEEE-754 double.
func (g *Getter) ReadDouble() (float64, error) {
	v, err := g.ReadI64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}
