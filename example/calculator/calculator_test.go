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

package calculator

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/414owen/pinch/pinch"
	"github.com/414owen/pinch/rpc"
	"github.com/414owen/pinch/transport"
	"github.com/414owen/pinch/value"
)

func newPipe(t *testing.T) *rpc.Client {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })

	srv := rpc.NewServer()
	srv.Register("calc", Handler)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.RunConnection(context.Background(), transport.NewFramed(b, b)) }()
	t.Cleanup(func() {
		a.Close()
		<-errCh
	})

	return rpc.NewClient(transport.NewFramed(a, a))
}

func callCalc(t *testing.T, client *rpc.Client, req CalcRequest) CalcResult {
	t.Helper()
	reqVal, err := req.Pinch()
	require.NoError(t, err)
	replyVal, err := client.Call("calc", reqVal)
	require.NoError(t, err)
	var result CalcResult
	require.NoError(t, result.Unpinch(replyVal))
	return result
}

func TestPlus(t *testing.T) {
	client := newPipe(t)
	result := callCalc(t, client, CalcRequest{A: 10, B: 20, Op: OpPlus})
	assert.True(t, result.HasResult)
	assert.False(t, result.HasErr)
	assert.Equal(t, int32(30), result.Result)
}

func TestMinus(t *testing.T) {
	client := newPipe(t)
	result := callCalc(t, client, CalcRequest{A: 10, B: 20, Op: OpMinus})
	assert.True(t, result.HasResult)
	assert.Equal(t, int32(-10), result.Result)
}

func TestDiv(t *testing.T) {
	client := newPipe(t)
	result := callCalc(t, client, CalcRequest{A: 20, B: 10, Op: OpDiv})
	assert.True(t, result.HasResult)
	assert.Equal(t, int32(2), result.Result)
}

func TestDivByZero(t *testing.T) {
	client := newPipe(t)
	result := callCalc(t, client, CalcRequest{A: 10, B: 0, Op: OpDiv})
	assert.False(t, result.HasResult)
	assert.True(t, result.HasErr)
	assert.Equal(t, "div by zero", result.Err)
}

func TestRequestRoundTripsThroughValue(t *testing.T) {
	req := CalcRequest{A: 7, B: 3, Op: OpDiv}
	v, err := req.Pinch()
	require.NoError(t, err)

	var got CalcRequest
	require.NoError(t, got.Unpinch(v))
	assert.Equal(t, req, got)
}

func TestUnpinchRejectsWrongFieldType(t *testing.T) {
	// Field 1 ("a") is declared i32 but arrives as BINARY on the wire.
	v := value.Struct(value.Fields{
		1: value.Binary([]byte("not an int")),
		2: value.Int32(2),
		3: pinch.EncodeEnum(int32(OpPlus)),
	})
	var got CalcRequest
	err := got.Unpinch(v)
	require.Error(t, err)
	var fte *pinch.FieldTypeError
	require.ErrorAs(t, err, &fte)
}

func TestUnpinchRejectsUnknownOperation(t *testing.T) {
	req := CalcRequest{A: 1, B: 2, Op: Operation(99)}
	v, err := req.Pinch()
	require.NoError(t, err)

	var got CalcRequest
	err = got.Unpinch(v)
	require.Error(t, err)
}
