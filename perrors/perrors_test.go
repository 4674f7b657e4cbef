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

package perrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLimitExceeded(t *testing.T) {
	err := NewLimitExceeded("Binary length", 9, 8)
	assert.True(t, Is(err, LimitExceeded))
	assert.Contains(t, err.Error(), "Binary length")
	assert.Contains(t, err.Error(), "9")
	assert.Contains(t, err.Error(), "8")
}

func TestNewNegativeSize(t *testing.T) {
	err := NewNegativeSize("List count", -1)
	assert.True(t, Is(err, NegativeSize))
}

func TestIsFalseForUnrelatedError(t *testing.T) {
	assert.False(t, Is(assertError{}, LimitExceeded))
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
