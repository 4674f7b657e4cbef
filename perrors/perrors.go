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

// Package perrors implements the codec-level error taxonomy of the
// specification's §7: WireFormatError-adjacent protocol errors that carry
// enough structure for a caller to recover programmatically, modeled on
// cloudwego/kitex's pkg/remote/codec/perrors.
package perrors

import "fmt"

// TypeID classifies a ProtocolError, mirroring the Apache Thrift protocol
// exception type codes the teacher's perrors package reuses.
type TypeID int

const (
	Unknown        TypeID = 0
	InvalidData    TypeID = 1
	NegativeSize   TypeID = 2
	LimitExceeded  TypeID = 3
	BadVersion     TypeID = 4
	NotImplemented TypeID = 5
	DepthLimit     TypeID = 6
)

// ProtocolError is any codec-level error that carries a TypeID.
type ProtocolError interface {
	error
	TypeID() TypeID
}

type protocolError struct {
	typeID  TypeID
	message string
}

func (e *protocolError) Error() string  { return e.message }
func (e *protocolError) TypeID() TypeID { return e.typeID }

// New builds a ProtocolError with an explicit TypeID and message.
func New(t TypeID, msg string) ProtocolError {
	return &protocolError{typeID: t, message: msg}
}

// NewNegativeSize reports that a length/count field on the wire was
// negative (spec §7, kind 3): a corrupt or hostile declared size.
func NewNegativeSize(field string, observed int64) ProtocolError {
	return &protocolError{typeID: NegativeSize, message: fmt.Sprintf("%s: negative size %d", field, observed)}
}

// NewLimitExceeded reports that a declared length/count field exceeded its
// configured cap (spec §7, kind 2). Checked before any allocation sized by
// the untrusted field, per spec §4.3.3.
func NewLimitExceeded(field string, observed, cap int64) ProtocolError {
	return &protocolError{typeID: LimitExceeded, message: fmt.Sprintf("%s: %d exceeds limit %d", field, observed, cap)}
}

// NewWireFormatError reports malformed bytes that aren't a size violation,
// such as an unknown TType (spec §7, kind 1). A bad strict-framing version
// word is reported by NewBadVersion instead.
func NewWireFormatError(reason string) ProtocolError {
	return &protocolError{typeID: InvalidData, message: reason}
}

// NewBadVersion reports a strict-framing version word that isn't version 1.
func NewBadVersion(reason string) ProtocolError {
	return &protocolError{typeID: BadVersion, message: reason}
}

// NewDepthLimit reports that a recursive skip or decode exceeded the
// configured maximum nesting depth (spec §9 supplement: skip-on-unknown).
func NewDepthLimit(reason string) ProtocolError {
	return &protocolError{typeID: DepthLimit, message: reason}
}

// Is reports whether err is a ProtocolError of the given TypeID, for use
// with errors.Is-style assertions in tests and callers.
func Is(err error, t TypeID) bool {
	pe, ok := err.(ProtocolError)
	return ok && pe.TypeID() == t
}
