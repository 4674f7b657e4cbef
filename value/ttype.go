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

// Package value holds the typed value model of the Thrift Binary Protocol:
// the TType tag set and the Value union it indexes.
package value

import "fmt"

// TType is a Thrift wire type tag. Its int8 representation is the type code
// written directly onto the wire, so the numeric values below are load-bearing.
type TType int8

// Wire type codes, originally from the Thrift IDL's TType enum.
const (
	STOP   TType = 0
	BOOL   TType = 2
	BYTE   TType = 3
	DOUBLE TType = 4
	I16    TType = 6
	I32    TType = 8
	I64    TType = 10
	BINARY TType = 11
	STRUCT TType = 12
	MAP    TType = 13
	SET    TType = 14
	LIST   TType = 15
)

// String implements fmt.Stringer for debugging and error messages.
func (t TType) String() string {
	switch t {
	case STOP:
		return "STOP"
	case BOOL:
		return "BOOL"
	case BYTE:
		return "BYTE"
	case DOUBLE:
		return "DOUBLE"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case BINARY:
		return "BINARY"
	case STRUCT:
		return "STRUCT"
	case MAP:
		return "MAP"
	case SET:
		return "SET"
	case LIST:
		return "LIST"
	default:
		return fmt.Sprintf("TType(%d)", int8(t))
	}
}

// Valid reports whether t is one of the closed set of known type codes,
// STOP included. Any other code is reserved and must decode as an error.
func (t TType) Valid() bool {
	switch t {
	case STOP, BOOL, BYTE, DOUBLE, I16, I32, I64, BINARY, STRUCT, MAP, SET, LIST:
		return true
	default:
		return false
	}
}

// TMessageType tags an RPC message's role, written as a single byte (strict
// framing packs it into the low byte of the version word; non-strict framing
// writes it as its own byte after the method name).
type TMessageType int8

const (
	InvalidMessageType TMessageType = 0
	Call               TMessageType = 1
	Reply              TMessageType = 2
	Exception          TMessageType = 3
	Oneway             TMessageType = 4
)

func (t TMessageType) String() string {
	switch t {
	case Call:
		return "Call"
	case Reply:
		return "Reply"
	case Exception:
		return "Exception"
	case Oneway:
		return "Oneway"
	default:
		return fmt.Sprintf("TMessageType(%d)", int8(t))
	}
}
