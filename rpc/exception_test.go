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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/414owen/pinch/pinch"
	"github.com/414owen/pinch/value"
)

func TestApplicationExceptionRoundTrip(t *testing.T) {
	e := ApplicationException{Message: "boom", Type: ExceptionInternalError}
	v, err := e.Pinch()
	require.NoError(t, err)

	var got ApplicationException
	require.NoError(t, got.Unpinch(v))
	assert.Equal(t, e, got)
}

func TestApplicationExceptionUnpinchRejectsNonStructPayload(t *testing.T) {
	var got ApplicationException
	err := got.Unpinch(value.Int32(1))
	require.Error(t, err)
	var fte *pinch.FieldTypeError
	require.ErrorAs(t, err, &fte)
}

func TestApplicationExceptionUnpinchRejectsWrongMessageFieldType(t *testing.T) {
	// Field 1 should be BINARY (the message text); a peer instead sends I32.
	v := value.Struct(value.Fields{1: value.Int32(7), 2: pinch.EncodeEnum(int32(ExceptionInternalError))})
	var got ApplicationException
	err := got.Unpinch(v)
	require.Error(t, err)
	var fte *pinch.FieldTypeError
	require.ErrorAs(t, err, &fte)
}
