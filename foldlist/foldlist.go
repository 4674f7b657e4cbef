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

// Package foldlist folds a known-length sequence into a wire encoding in two
// passes over the same source (one to count, one to write), without
// materializing an intermediate []value.Value slice, mirroring the
// measure-then-write shape of kitex's
// UnknownFieldsLength/WriteUnknownFields pair.
package foldlist

// Each visits every element of a sequence in order, stopping and returning
// the first error a visit produces.
type Each[T any] func(visit func(T) error) error

// FromSlice turns a slice into an Each, the common case when the caller
// already holds the elements in memory (spec §4.2's LIST/SET/MAP all carry
// a concrete slice by the time they reach the encoder).
func FromSlice[T any](elems []T) Each[T] {
	return func(visit func(T) error) error {
		for _, e := range elems {
			if err := visit(e); err != nil {
				return err
			}
		}
		return nil
	}
}

// Build reads exactly n elements by repeatedly calling next, collecting
// them into a slice. Used by container decoders where the wire declares a
// length up front (spec §4.3.1) and elements are read sequentially off the
// same cursor, so generating them lazily would still mean waiting for each
// one before the next can start.
//
// capHint bounds the slice's initial capacity independently of n, so a
// declared length near a generous configured cap doesn't force one large
// allocation before any element has actually been read off the wire;
// callers typically pass the number of bytes remaining in the input, since
// every element takes at least one byte. capHint above n or below zero is
// clamped to n and zero respectively, so a generous hint never allocates
// beyond n; when the clamped hint is below n, the slice grows by append as
// elements are read.
func Build[T any](n, capHint int, next func(i int) (T, error)) ([]T, error) {
	if capHint > n {
		capHint = n
	}
	if capHint < 0 {
		capHint = 0
	}
	out := make([]T, 0, capHint)
	for i := 0; i < n; i++ {
		v, err := next(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Len reports how many elements an Each would visit, by running it and
// counting, ignoring visited values. Encoders use this to write a
// container's length prefix before writing the elements themselves via the
// same Each, matching the two-pass measure-then-write shape the teacher
// uses for unknown-field passthrough.
func Len[T any](each Each[T]) int {
	n := 0
	_ = each(func(T) error {
		n++
		return nil
	})
	return n
}
