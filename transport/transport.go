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

// Package transport implements the framed and unframed byte transports that
// carry a Binary Protocol message between a Thrift client and server (spec
// §4.5), grounded on the length-prefixed frame style of BX-D-mini-RPC's
// protocol package, adapted from that protocol's 14-byte multi-field header
// down to Thrift's plain 4-byte length prefix.
package transport

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrClosed reports that the underlying byte channel was closed or hit EOF
// while a transport expected more data (spec §7 kind 8, TransportClosed).
var ErrClosed = errors.New("transport: closed")

// Framed reads and writes whole messages as a 4-byte big-endian length
// prefix followed by exactly that many body bytes (spec §4.5, §6).
type Framed struct {
	r io.Reader
	w io.Writer
}

// NewFramed wraps r and w for framed message exchange. Either may be the
// same value if the underlying channel is bidirectional (e.g. a net.Conn).
func NewFramed(r io.Reader, w io.Writer) *Framed {
	return &Framed{r: r, w: w}
}

// WriteFrame buffers body and writes its length prefix immediately
// followed by body as a single logical frame (spec §4.5).
func (f *Framed) WriteFrame(body []byte) error {
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(body)))
	copy(frame[4:], body)
	if _, err := f.w.Write(frame); err != nil {
		return translateIOError(err)
	}
	return nil
}

// ReadFrame reads one frame's length prefix and body. A clean EOF while
// reading the length prefix is reported as io.EOF (the caller's cue that
// the peer closed cleanly between messages); a short read anywhere else,
// including inside the body, is TruncatedFrameError.
func (f *Framed) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(f.r, lenBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &TruncatedFrameError{Reason: "frame length prefix: " + err.Error()}
	}
	n := int32(binary.BigEndian.Uint32(lenBuf[:]))
	if n < 0 {
		return nil, &TruncatedFrameError{Reason: "frame length prefix is negative"}
	}
	body := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(f.r, body); err != nil {
			return nil, &TruncatedFrameError{Reason: "frame body: " + err.Error()}
		}
	}
	return body, nil
}

// Unframed reads and writes a message body directly with no length prefix,
// the alternate transport named in spec §4.5. Since there is no length
// prefix to bound a read, a caller must already know how many bytes to
// read (e.g. because the protocol layer parses a self-delimiting message
// directly off the stream) — ReadAll here simply drains everything
// available, failing if that exceeds max bytes, for use over a transport that is otherwise
// already message-bounded (such as a single in-memory buffer per message).
type Unframed struct {
	r io.Reader
	w io.Writer
}

// NewUnframed wraps r and w for raw, unframed message exchange.
func NewUnframed(r io.Reader, w io.Writer) *Unframed {
	return &Unframed{r: r, w: w}
}

// WriteMessage writes body directly with no framing.
func (u *Unframed) WriteMessage(body []byte) error {
	_, err := u.w.Write(body)
	return translateIOError(err)
}

// ReadAll reads every byte available from the underlying reader, stopping
// at EOF, and fails with TruncatedFrameError if more than max bytes are
// available. It is the unframed transport's read
// primitive: without a length prefix, message boundaries are the
// underlying channel's responsibility (e.g. one connection per message).
func (u *Unframed) ReadAll(max int) ([]byte, error) {
	limited := io.LimitReader(u.r, int64(max)+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, translateIOError(err)
	}
	if len(body) > max {
		return nil, &TruncatedFrameError{Reason: "unframed message exceeds configured maximum"}
	}
	return body, nil
}

// TruncatedFrameError reports a frame that ended before its declared or
// expected length (spec §7 kind 8).
type TruncatedFrameError struct {
	Reason string
}

func (e *TruncatedFrameError) Error() string { return "transport: truncated frame: " + e.Reason }

func translateIOError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return ErrClosed
	}
	return err
}
