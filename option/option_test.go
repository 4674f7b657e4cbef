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

package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	o := New()
	assert.Equal(t, DefaultMaxMethodNameLength, o.MaxMethodNameLength())
	assert.Equal(t, DefaultMaxBinaryLength, o.MaxBinaryLength())
	assert.Equal(t, DefaultMaxListLength, o.MaxListLength())
	assert.Equal(t, DefaultMaxSetSize, o.MaxSetSize())
	assert.Equal(t, DefaultMaxMapSize, o.MaxMapSize())
	assert.Equal(t, DefaultRecursionDepth, o.RecursionDepth())
}

func TestWithOverrides(t *testing.T) {
	o := New(
		WithMaxMethodNameLength(16),
		WithMaxBinaryLength(32),
		WithMaxListLength(4),
		WithMaxSetSize(5),
		WithMaxMapSize(6),
		WithRecursionDepth(2),
	)
	assert.Equal(t, 16, o.MaxMethodNameLength())
	assert.Equal(t, 32, o.MaxBinaryLength())
	assert.Equal(t, 4, o.MaxListLength())
	assert.Equal(t, 5, o.MaxSetSize())
	assert.Equal(t, 6, o.MaxMapSize())
	assert.Equal(t, 2, o.RecursionDepth())
}

func TestDefaultMethodNameParserAccepts(t *testing.T) {
	o := New()
	name, err := o.ParseMethodName([]byte("calculate"))
	require.NoError(t, err)
	assert.Equal(t, "calculate", name)
}

func TestDefaultMethodNameParserRejectsInvalidUTF8(t *testing.T) {
	o := New()
	_, err := o.ParseMethodName([]byte{0xff, 0xfe})
	require.Error(t, err)
	var ie *InvalidMethodNameError
	require.ErrorAs(t, err, &ie)
}

func TestWithMethodNameParserOverride(t *testing.T) {
	called := false
	o := New(WithMethodNameParser(func(b []byte) (string, error) {
		called = true
		return "fixed", nil
	}))
	name, err := o.ParseMethodName([]byte("anything"))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "fixed", name)
}
