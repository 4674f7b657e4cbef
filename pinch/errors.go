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

package pinch

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/414owen/pinch/value"
)

// MissingFieldError reports a required field absent from a decoded struct
// (spec §7, kind 4).
type MissingFieldError struct {
	Record  string
	FieldID int16
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("pinch: %s: missing required field %d", e.Record, e.FieldID)
}

// UnknownEnumError reports an enum Value whose integer tag names no
// declared variant (spec §7, kind 5).
type UnknownEnumError struct {
	Value int32
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("pinch: unknown enum value %d", e.Value)
}

// FieldTypeError reports a decoded field whose Value carries a different
// TType than the record expected (spec §7, kind 5): a wire-valid struct
// whose field id is reused with the wrong type by a misbehaving or hostile
// peer. It wraps a *value.TypeError so callers can still inspect the
// expected/actual TType pair.
type FieldTypeError struct {
	Reason error
}

func (e *FieldTypeError) Error() string { return fmt.Sprintf("pinch: %s", e.Reason) }

func (e *FieldTypeError) Unwrap() error { return e.Reason }

// BadUnionError reports a union struct that did not carry exactly one
// present field (spec §4.4, §7 kind 5). It wraps a *multierror.Error so a
// union with several simultaneous problems (e.g. two fields present, one of
// which also fails a nested validation) reports every reason together,
// mirroring how the rest of this module accumulates field-level failures.
type BadUnionError struct {
	Record  string
	Present []int16
	Wrapped *multierror.Error
}

func (e *BadUnionError) Error() string {
	msg := fmt.Sprintf("pinch: %s: union must have exactly one field present, got %d", e.Record, len(e.Present))
	if e.Wrapped != nil && len(e.Wrapped.Errors) > 0 {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

func (e *BadUnionError) Unwrap() error {
	if e.Wrapped == nil {
		return nil
	}
	return e.Wrapped.ErrorOrNil()
}

// CheckUnion enforces the union invariant that exactly one of the listed
// field ids is present in fields (spec §4.4). Pass the record's declared
// field ids as fieldIDs; CheckUnion reports which of them are
// actually present and fails unless there is exactly one.
func CheckUnion(record string, fields value.Fields, fieldIDs []int16) error {
	var present []int16
	for _, id := range fieldIDs {
		if _, ok := fields[id]; ok {
			present = append(present, id)
		}
	}
	if len(present) == 1 {
		return nil
	}
	var merr *multierror.Error
	if len(present) == 0 {
		merr = multierror.Append(merr, fmt.Errorf("pinch: %s: no union field present", record))
	} else {
		merr = multierror.Append(merr, fmt.Errorf("pinch: %s: multiple union fields present: %v", record, present))
	}
	return &BadUnionError{Record: record, Present: present, Wrapped: merr}
}
