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

// Package parser implements a small combinator-style parser over a
// value.Fields map, the field-parsing layer the pinch package's Unpinch
// implementations can build on instead of writing the same
// RequiredField/OptionalField checks by hand for every record.
//
// The source system threads parse state through continuations; in Go the
// equivalent is a function from value.Fields to (T, error), composed by
// ordinary function calls rather than a monadic bind operator (spec §9).
package parser

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/414owen/pinch/value"
)

// Parser reads a T out of a struct's field map, or fails.
type Parser[T any] func(value.Fields) (T, error)

// Field parses the value at id with get, failing with MissingError if the
// field id is absent.
func Field[T any](id int16, get func(value.Value) (T, error)) Parser[T] {
	return func(fields value.Fields) (T, error) {
		var zero T
		v, ok := fields[id]
		if !ok {
			return zero, &MissingError{FieldID: id}
		}
		return get(v)
	}
}

// OptionalField parses the value at id with get if present, or returns a
// zero OptionalResult (Present false) and a nil error if the field is
// absent — the parser-combinator
// counterpart of pinch.OptionalField.
func OptionalField[T any](id int16, get func(value.Value) (T, error)) Parser[OptionalResult[T]] {
	return func(fields value.Fields) (OptionalResult[T], error) {
		v, ok := fields[id]
		if !ok {
			return OptionalResult[T]{}, nil
		}
		t, err := get(v)
		if err != nil {
			return OptionalResult[T]{}, err
		}
		return OptionalResult[T]{Value: t, Present: true}, nil
	}
}

// OptionalResult is the decoded form of an optional field: either Present
// with Value set, or absent.
type OptionalResult[T any] struct {
	Value   T
	Present bool
}

// Map transforms a successful parse result, leaving failure untouched.
func Map[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return func(fields value.Fields) (U, error) {
		var zero U
		t, err := p(fields)
		if err != nil {
			return zero, err
		}
		return f(t)
	}
}

// Alt tries a first; if a fails, it runs b against the same input fields
// and returns b's result instead (spec §4.7 "alt(a, b)").
func Alt[T any](a, b Parser[T]) Parser[T] {
	return func(fields value.Fields) (T, error) {
		t, err := a(fields)
		if err == nil {
			return t, nil
		}
		return b(fields)
	}
}

// Catch runs p and dispatches to onErr or onOk depending on the outcome,
// exposing both paths to the caller (spec §4.7 "catch(p, onErr, onOk)").
func Catch[T, U any](p Parser[T], onErr func(error) (U, error), onOk func(T) (U, error)) Parser[U] {
	return func(fields value.Fields) (U, error) {
		t, err := p(fields)
		if err != nil {
			return onErr(err)
		}
		return onOk(t)
	}
}

// Seq2 runs a and b in order against the same fields and combines their
// results, short-circuiting on the first failure.
func Seq2[A, B, R any](a Parser[A], b Parser[B], combine func(A, B) (R, error)) Parser[R] {
	return func(fields value.Fields) (R, error) {
		var zero R
		av, err := a(fields)
		if err != nil {
			return zero, err
		}
		bv, err := b(fields)
		if err != nil {
			return zero, err
		}
		return combine(av, bv)
	}
}

// CollectErrors runs every parser in ps against the same fields,
// accumulating every failure instead of stopping at the first (unlike the
// short-circuiting combinators above). It returns the successful results
// and a *multierror.Error listing every failure; callers that want
// short-circuit behavior should use Seq2/Alt instead.
func CollectErrors[T any](fields value.Fields, ps ...Parser[T]) ([]T, error) {
	var results []T
	var merr *multierror.Error
	for i, p := range ps {
		t, err := p(fields)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("parser[%d]: %w", i, err))
			continue
		}
		results = append(results, t)
	}
	return results, merr.ErrorOrNil()
}

// MissingError reports a field id absent from the struct being parsed.
type MissingError struct {
	FieldID int16
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("parser: missing field %d", e.FieldID)
}
