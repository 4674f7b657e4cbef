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

package rpc

import (
	"fmt"

	"github.com/414owen/pinch/pinch"
	"github.com/414owen/pinch/value"
)

// ApplicationExceptionType classifies why a handler-side or dispatch-side
// failure turned into an Exception message (spec §4.6, "unknown names
// yield... handler errors yield...").
type ApplicationExceptionType int32

const (
	ExceptionUnknown       ApplicationExceptionType = 0
	ExceptionUnknownMethod ApplicationExceptionType = 1
	ExceptionInternalError ApplicationExceptionType = 6
)

func validApplicationExceptionType(tag int32) bool {
	switch ApplicationExceptionType(tag) {
	case ExceptionUnknown, ExceptionUnknownMethod, ExceptionInternalError:
		return true
	default:
		return false
	}
}

// ApplicationException is the Thrift struct shape `{1: text message, 2: i32
// type}` every Exception message's payload carries, grounded on
// pkg/protocol/bthrift/exception.go's ApplicationException.
type ApplicationException struct {
	Message string
	Type    ApplicationExceptionType
}

// Pinch implements pinch.Pinchable.
func (e ApplicationException) Pinch() (value.Value, error) {
	fields := value.Fields{}
	pinch.PutRequired(fields, 1, value.Binary([]byte(e.Message)))
	pinch.PutRequired(fields, 2, pinch.EncodeEnum(int32(e.Type)))
	return value.Struct(fields), nil
}

// Unpinch implements pinch.Unpinchable.
func (e *ApplicationException) Unpinch(v value.Value) error {
	fields, err := v.TryFields()
	if err != nil {
		return &pinch.FieldTypeError{Reason: err}
	}
	msg, err := pinch.RequiredField("ApplicationException", fields, 1)
	if err != nil {
		return err
	}
	msgBytes, err := msg.TryBinary()
	if err != nil {
		return &pinch.FieldTypeError{Reason: err}
	}
	e.Message = string(msgBytes)
	typ, err := pinch.RequiredField("ApplicationException", fields, 2)
	if err != nil {
		return err
	}
	tag, err := pinch.DecodeEnum(typ, validApplicationExceptionType)
	if err != nil {
		return err
	}
	e.Type = ApplicationExceptionType(tag)
	return nil
}

func (e ApplicationException) Error() string {
	return fmt.Sprintf("rpc: application exception (type %d): %s", e.Type, e.Message)
}

func applicationExceptionValue(typ ApplicationExceptionType, message string) value.Value {
	v, _ := ApplicationException{Message: message, Type: typ}.Pinch()
	return v
}
