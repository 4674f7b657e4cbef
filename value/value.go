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

package value

import "sort"

// Value is a dynamic, self-describing Thrift value: a tagged union indexed by
// a TType. Only the field(s) matching Type are meaningful; the rest are zero.
//
// This plays the role of the source system's GADT-indexed Value *and* its
// existential SomeValue: since Type travels with the payload, a Value is
// already its own (tag, payload) pair, so a struct field's value is simply a
// Value — there is no separate SomeValue type.
type Value struct {
	Type TType

	boolVal   bool
	byteVal   int8
	doubleVal float64
	i16Val    int16
	i32Val    int32
	i64Val    int64
	binVal    []byte

	fields Fields // STRUCT

	elemType TType // LIST, SET
	elems    []Value

	keyType TType // MAP
	valType TType
	entries []MapEntry
}

// Fields maps a struct field id to its value. Insertion order is not
// meaningful; encoding may emit fields in any stable order.
type Fields map[int16]Value

// MapEntry is one (key, value) pair of a MAP value, in encounter order.
type MapEntry struct {
	Key Value
	Val Value
}

// Bool constructs a BOOL value.
func Bool(v bool) Value { return Value{Type: BOOL, boolVal: v} }

// Byte constructs a BYTE value.
func Byte(v int8) Value { return Value{Type: BYTE, byteVal: v} }

// Double constructs a DOUBLE value.
func Double(v float64) Value { return Value{Type: DOUBLE, doubleVal: v} }

// Int16 constructs an I16 value.
func Int16(v int16) Value { return Value{Type: I16, i16Val: v} }

// Int32 constructs an I32 value.
func Int32(v int32) Value { return Value{Type: I32, i32Val: v} }

// Int64 constructs an I64 value.
func Int64(v int64) Value { return Value{Type: I64, i64Val: v} }

// Binary constructs a BINARY value. The slice is retained, not copied.
func Binary(v []byte) Value { return Value{Type: BINARY, binVal: v} }

// Struct constructs a STRUCT value from a field map. A nil map is treated as
// empty (a struct with no fields, encoded as a single STOP byte).
func Struct(fields Fields) Value {
	if fields == nil {
		fields = Fields{}
	}
	return Value{Type: STRUCT, fields: fields}
}

// List constructs a LIST value of the declared element type. elemType must
// equal the Type of every element; callers that can't guarantee this should
// validate via Validate.
func List(elemType TType, elems []Value) Value {
	return Value{Type: LIST, elemType: elemType, elems: elems}
}

// Set constructs a SET value, encoded identically to List. Element
// uniqueness is a caller contract, not enforced here (spec §3).
func Set(elemType TType, elems []Value) Value {
	return Value{Type: SET, elemType: elemType, elems: elems}
}

// Map constructs a MAP value of the declared key/value types. An empty Map
// with declared key/value types is legal and encodes as a zero-length map
// body (resolving the "VNullMap" open question: rather than forbid an empty
// map outright, its wire form is simply an empty map with its declared
// key/value TTypes, like any other zero-length container).
func Map(keyType, valType TType, entries []MapEntry) Value {
	return Value{Type: MAP, keyType: keyType, valType: valType, entries: entries}
}

// TypeError reports that a Value carried a different TType than the caller
// required. It is the checked counterpart to the As* accessors' panic: the
// Pinchable mapping layer decodes untrusted wire data, where a field's TType
// is only known once it's read, so it cannot use As* directly on a value it
// did not itself just switch on (spec §3, §9 "checked-cast at the Pinchable
// layer").
type TypeError struct {
	Want TType
	Got  TType
}

func (e *TypeError) Error() string {
	return "value: wrong type, want " + e.Want.String() + ", got " + e.Got.String()
}

// TryBool returns the BOOL payload, or a TypeError if Type != BOOL.
func (v Value) TryBool() (bool, error) {
	if v.Type != BOOL {
		return false, &TypeError{Want: BOOL, Got: v.Type}
	}
	return v.boolVal, nil
}

// TryByte returns the BYTE payload, or a TypeError if Type != BYTE.
func (v Value) TryByte() (int8, error) {
	if v.Type != BYTE {
		return 0, &TypeError{Want: BYTE, Got: v.Type}
	}
	return v.byteVal, nil
}

// TryDouble returns the DOUBLE payload, or a TypeError if Type != DOUBLE.
func (v Value) TryDouble() (float64, error) {
	if v.Type != DOUBLE {
		return 0, &TypeError{Want: DOUBLE, Got: v.Type}
	}
	return v.doubleVal, nil
}

// TryI16 returns the I16 payload, or a TypeError if Type != I16.
func (v Value) TryI16() (int16, error) {
	if v.Type != I16 {
		return 0, &TypeError{Want: I16, Got: v.Type}
	}
	return v.i16Val, nil
}

// TryI32 returns the I32 payload, or a TypeError if Type != I32.
func (v Value) TryI32() (int32, error) {
	if v.Type != I32 {
		return 0, &TypeError{Want: I32, Got: v.Type}
	}
	return v.i32Val, nil
}

// TryI64 returns the I64 payload, or a TypeError if Type != I64.
func (v Value) TryI64() (int64, error) {
	if v.Type != I64 {
		return 0, &TypeError{Want: I64, Got: v.Type}
	}
	return v.i64Val, nil
}

// TryBinary returns the BINARY payload, or a TypeError if Type != BINARY.
func (v Value) TryBinary() ([]byte, error) {
	if v.Type != BINARY {
		return nil, &TypeError{Want: BINARY, Got: v.Type}
	}
	return v.binVal, nil
}

// TryFields returns the STRUCT payload's field map, or a TypeError if
// Type != STRUCT.
func (v Value) TryFields() (Fields, error) {
	if v.Type != STRUCT {
		return nil, &TypeError{Want: STRUCT, Got: v.Type}
	}
	return v.fields, nil
}

// AsBool returns the BOOL payload. It panics if Type != BOOL; callers that
// decoded this value already know its type, so a programmer error here is a
// bug in the caller, not a runtime condition to recover from.
func (v Value) AsBool() bool { v.mustBe(BOOL); return v.boolVal }

// AsByte returns the BYTE payload.
func (v Value) AsByte() int8 { v.mustBe(BYTE); return v.byteVal }

// AsDouble returns the DOUBLE payload.
func (v Value) AsDouble() float64 { v.mustBe(DOUBLE); return v.doubleVal }

// AsI16 returns the I16 payload.
func (v Value) AsI16() int16 { v.mustBe(I16); return v.i16Val }

// AsI32 returns the I32 payload.
func (v Value) AsI32() int32 { v.mustBe(I32); return v.i32Val }

// AsI64 returns the I64 payload.
func (v Value) AsI64() int64 { v.mustBe(I64); return v.i64Val }

// AsBinary returns the BINARY payload.
func (v Value) AsBinary() []byte { v.mustBe(BINARY); return v.binVal }

// Fields returns the STRUCT payload's field map.
func (v Value) Fields() Fields { v.mustBe(STRUCT); return v.fields }

// ElemType returns the declared element type of a LIST or SET.
func (v Value) ElemType() TType {
	v.mustBeOneOf(LIST, SET)
	return v.elemType
}

// Elems returns the ordered elements of a LIST or SET.
func (v Value) Elems() []Value {
	v.mustBeOneOf(LIST, SET)
	return v.elems
}

// KeyType returns the declared key type of a MAP.
func (v Value) KeyType() TType { v.mustBe(MAP); return v.keyType }

// ValType returns the declared value type of a MAP.
func (v Value) ValType() TType { v.mustBe(MAP); return v.valType }

// Entries returns the ordered (key, value) pairs of a MAP.
func (v Value) Entries() []MapEntry { v.mustBe(MAP); return v.entries }

func (v Value) mustBe(t TType) {
	if v.Type != t {
		panic("value: wrong TType, have " + v.Type.String() + " want " + t.String())
	}
}

func (v Value) mustBeOneOf(ts ...TType) {
	for _, t := range ts {
		if v.Type == t {
			return
		}
	}
	panic("value: " + v.Type.String() + " not in expected set")
}

// Validate walks v and checks the invariant that every container's declared
// element/key/value TType matches the TType actually carried by its
// contents (spec §3 Invariants). It does not check struct field id
// uniqueness, since Fields is already a map and cannot hold duplicates.
func (v Value) Validate() error {
	switch v.Type {
	case LIST, SET:
		for i, e := range v.elems {
			if e.Type != v.elemType {
				return &TypeMismatchError{Context: v.Type.String(), Index: i, Want: v.elemType, Got: e.Type}
			}
			if err := e.Validate(); err != nil {
				return err
			}
		}
	case MAP:
		for i, e := range v.entries {
			if e.Key.Type != v.keyType {
				return &TypeMismatchError{Context: "map key", Index: i, Want: v.keyType, Got: e.Key.Type}
			}
			if e.Val.Type != v.valType {
				return &TypeMismatchError{Context: "map value", Index: i, Want: v.valType, Got: e.Val.Type}
			}
			if err := e.Key.Validate(); err != nil {
				return err
			}
			if err := e.Val.Validate(); err != nil {
				return err
			}
		}
	case STRUCT:
		for id, f := range v.fields {
			if err := f.Validate(); err != nil {
				return err
			}
			_ = id
		}
	}
	return nil
}

// TypeMismatchError reports a container whose declared element/key/value
// TType disagrees with the TType of its actual contents.
type TypeMismatchError struct {
	Context string
	Index   int
	Want    TType
	Got     TType
}

func (e *TypeMismatchError) Error() string {
	return "value: " + e.Context + "[" + itoa(e.Index) + "]: want " + e.Want.String() + ", got " + e.Got.String()
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Equal reports whether v and other represent the same Thrift value, under
// the round-trip equivalence of spec §3/§8: struct field order is ignored
// (Fields is a map, so this is automatic), while list/set/map element order
// is significant and compared positionally.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case BOOL:
		return v.boolVal == other.boolVal
	case BYTE:
		return v.byteVal == other.byteVal
	case DOUBLE:
		return v.doubleVal == other.doubleVal
	case I16:
		return v.i16Val == other.i16Val
	case I32:
		return v.i32Val == other.i32Val
	case I64:
		return v.i64Val == other.i64Val
	case BINARY:
		return bytesEqual(v.binVal, other.binVal)
	case STRUCT:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for id, f := range v.fields {
			of, ok := other.fields[id]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	case LIST, SET:
		if v.elemType != other.elemType || len(v.elems) != len(other.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(other.elems[i]) {
				return false
			}
		}
		return true
	case MAP:
		if v.keyType != other.keyType || v.valType != other.valType || len(v.entries) != len(other.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(other.entries[i].Key) || !v.entries[i].Val.Equal(other.entries[i].Val) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SortedFieldIDs returns the field ids of a STRUCT value in ascending order,
// a convenience for encoders that want a deterministic (if arbitrary)
// struct field emission order, and for tests that want to compare encoded
// bytes across runs.
func (v Value) SortedFieldIDs() []int16 {
	v.mustBe(STRUCT)
	ids := make([]int16, 0, len(v.fields))
	for id := range v.fields {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
