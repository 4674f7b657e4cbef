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

import "fmt"

// SeqIdMismatchError reports that a reply's seqid didn't match the call it
// was sent for (spec §7 kind 6, §4.6 client correlation check).
type SeqIdMismatchError struct {
	Expected int32
	Got      int32
}

func (e *SeqIdMismatchError) Error() string {
	return fmt.Sprintf("rpc: seqid mismatch: expected %d, got %d", e.Expected, e.Got)
}

// RemoteExceptionError wraps a server-reported ApplicationException
// surfaced to a client call (spec §7 kind 7).
type RemoteExceptionError struct {
	Exception ApplicationException
}

func (e *RemoteExceptionError) Error() string {
	return "rpc: remote exception: " + e.Exception.Error()
}

func (e *RemoteExceptionError) Unwrap() error {
	return e.Exception
}

// HandlerError reports that a registered handler returned an error while
// processing a Call (spec §7 kind 9); the server turns this into an
// Exception message rather than closing the connection.
type HandlerError struct {
	Method string
	Reason error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("rpc: handler %q failed: %s", e.Method, e.Reason)
}

func (e *HandlerError) Unwrap() error { return e.Reason }

// UnknownMethodError reports a Call naming a method the server has no
// handler for.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("rpc: unknown method %q", e.Method)
}
