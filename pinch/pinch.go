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

// Package pinch implements the bidirectional mapping between user record
// types and the dynamic value.Value model: field ids, optionality,
// enumerations and unions. A record type participates by implementing
// Pinchable and Unpinchable against declarative field descriptors built
// from the helpers in this package, the way generated Thrift Go code reads
// and writes its fields explicitly rather than through reflection.
package pinch

import "github.com/414owen/pinch/value"

// Pinchable converts a record into its Value(Struct) representation.
type Pinchable interface {
	Pinch() (value.Value, error)
}

// Unpinchable populates a record from a Value(Struct), the mirror of
// Pinchable. It is a separate interface because decoding into an existing
// value is usually implemented on a pointer receiver while Pinch is usually
// implemented on a value receiver.
type Unpinchable interface {
	Unpinch(v value.Value) error
}

// RequiredField reads field id from fields, returning MissingField if
// absent. Required-field absence on decode is an error per the mapping
// contract; this is the single place that check happens so every generated
// Unpinch method shares the same behavior.
func RequiredField(record string, fields value.Fields, id int16) (value.Value, error) {
	v, ok := fields[id]
	if !ok {
		return value.Value{}, &MissingFieldError{Record: record, FieldID: id}
	}
	return v, nil
}

// OptionalField reads field id from fields, reporting its presence. An
// absent optional field contributes no entry to the struct on encode and
// decodes to the none-variant, which callers represent however suits the
// record type (a pointer, a (T, bool) pair, etc).
func OptionalField(fields value.Fields, id int16) (value.Value, bool) {
	v, ok := fields[id]
	return v, ok
}

// PutRequired sets field id unconditionally, the encode-side mirror of
// RequiredField.
func PutRequired(fields value.Fields, id int16, v value.Value) {
	fields[id] = v
}

// PutOptional sets field id only when present is true, so an absent
// optional field contributes no entry to the encoded struct (spec §4.4).
func PutOptional(fields value.Fields, id int16, present bool, v value.Value) {
	if present {
		fields[id] = v
	}
}

// EncodeEnum renders an enum variant's compile-time tag as the i32 Value
// Thrift wire-encodes enums as (spec §4.4).
func EncodeEnum(tag int32) value.Value {
	return value.Int32(tag)
}

// DecodeEnum reads an enum Value and validates the tag against valid,
// returning a FieldTypeError if v isn't an I32 (a peer may have sent a
// struct whose field doesn't actually hold the enum's wire representation)
// or UnknownEnum if the integer on the wire doesn't name a declared variant.
func DecodeEnum(v value.Value, valid func(int32) bool) (int32, error) {
	tag, err := v.TryI32()
	if err != nil {
		return 0, &FieldTypeError{Reason: err}
	}
	if !valid(tag) {
		return 0, &UnknownEnumError{Value: tag}
	}
	return tag, nil
}
