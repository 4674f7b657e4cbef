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

// Package calculator is a worked example of a Pinchable record pair and an
// rpc.Handler built on top of it: the request/reply shapes spec §8's
// scenarios S2-S5 are defined against.
package calculator

import (
	"context"

	"github.com/414owen/pinch/pinch"
	"github.com/414owen/pinch/value"
)

// Operation is the CalcRequest.Op enum: Plus=1, Minus=2, Div=3 (spec §8 S2-S5).
type Operation int32

const (
	OpPlus  Operation = 1
	OpMinus Operation = 2
	OpDiv   Operation = 3
)

func validOperation(tag int32) bool {
	switch Operation(tag) {
	case OpPlus, OpMinus, OpDiv:
		return true
	default:
		return false
	}
}

// CalcRequest is `{1:i32, 2:i32, 3:enum{Plus=1,Minus=2,Div=3}}` (spec §8 S2).
type CalcRequest struct {
	A  int32
	B  int32
	Op Operation
}

// Pinch implements pinch.Pinchable.
func (r CalcRequest) Pinch() (value.Value, error) {
	fields := value.Fields{}
	pinch.PutRequired(fields, 1, value.Int32(r.A))
	pinch.PutRequired(fields, 2, value.Int32(r.B))
	pinch.PutRequired(fields, 3, pinch.EncodeEnum(int32(r.Op)))
	return value.Struct(fields), nil
}

// Unpinch implements pinch.Unpinchable.
func (r *CalcRequest) Unpinch(v value.Value) error {
	fields, err := v.TryFields()
	if err != nil {
		return &pinch.FieldTypeError{Reason: err}
	}
	a, err := pinch.RequiredField("CalcRequest", fields, 1)
	if err != nil {
		return err
	}
	aVal, err := a.TryI32()
	if err != nil {
		return &pinch.FieldTypeError{Reason: err}
	}
	b, err := pinch.RequiredField("CalcRequest", fields, 2)
	if err != nil {
		return err
	}
	bVal, err := b.TryI32()
	if err != nil {
		return &pinch.FieldTypeError{Reason: err}
	}
	opv, err := pinch.RequiredField("CalcRequest", fields, 3)
	if err != nil {
		return err
	}
	tag, err := pinch.DecodeEnum(opv, validOperation)
	if err != nil {
		return err
	}
	r.A = aVal
	r.B = bVal
	r.Op = Operation(tag)
	return nil
}

// CalcResult is `{1:opt i32, 2:opt text}` (spec §8 S2): exactly one of
// Result or Error is meaningful, signaled by the Has* flags rather than a
// nil-pointer convention, since the field payloads here are plain int32
// and string rather than something naturally nil-able.
type CalcResult struct {
	Result    int32
	HasResult bool
	Err       string
	HasErr    bool
}

// Pinch implements pinch.Pinchable.
func (r CalcResult) Pinch() (value.Value, error) {
	fields := value.Fields{}
	pinch.PutOptional(fields, 1, r.HasResult, value.Int32(r.Result))
	pinch.PutOptional(fields, 2, r.HasErr, value.Binary([]byte(r.Err)))
	return value.Struct(fields), nil
}

// Unpinch implements pinch.Unpinchable.
func (r *CalcResult) Unpinch(v value.Value) error {
	fields, err := v.TryFields()
	if err != nil {
		return &pinch.FieldTypeError{Reason: err}
	}
	if res, ok := pinch.OptionalField(fields, 1); ok {
		resVal, err := res.TryI32()
		if err != nil {
			return &pinch.FieldTypeError{Reason: err}
		}
		r.Result = resVal
		r.HasResult = true
	} else {
		r.HasResult = false
	}
	if e, ok := pinch.OptionalField(fields, 2); ok {
		eBytes, err := e.TryBinary()
		if err != nil {
			return &pinch.FieldTypeError{Reason: err}
		}
		r.Err = string(eBytes)
		r.HasErr = true
	} else {
		r.HasErr = false
	}
	return nil
}

// okResult builds a CalcResult carrying only a successful value.
func okResult(n int32) CalcResult {
	return CalcResult{Result: n, HasResult: true}
}

// errResult builds a CalcResult carrying only an error message.
func errResult(msg string) CalcResult {
	return CalcResult{Err: msg, HasErr: true}
}

// Compute implements the calculator's arithmetic (spec §8 S2-S5): Plus and
// Minus always succeed; Div by zero reports an error result rather than
// failing the RPC call itself.
func Compute(req CalcRequest) CalcResult {
	switch req.Op {
	case OpPlus:
		return okResult(req.A + req.B)
	case OpMinus:
		return okResult(req.A - req.B)
	case OpDiv:
		if req.B == 0 {
			return errResult("div by zero")
		}
		return okResult(req.A / req.B)
	default:
		return errResult("unknown operation")
	}
}

// Handler adapts Compute to the rpc.Handler signature, decoding the
// incoming Value(Struct) as a CalcRequest and encoding the CalcResult back.
func Handler(ctx context.Context, payload value.Value) (value.Value, error) {
	var req CalcRequest
	if err := req.Unpinch(payload); err != nil {
		return value.Value{}, err
	}
	result := Compute(req)
	return result.Pinch()
}
