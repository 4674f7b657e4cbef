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
	"sync/atomic"

	"github.com/414owen/pinch/binary"
	"github.com/414owen/pinch/option"
	"github.com/414owen/pinch/transport"
	"github.com/414owen/pinch/value"
)

// Client sends Call messages over a single framed channel and matches
// replies to calls by seqid. The channel is assumed to carry one
// request/reply exchange at a time (spec §4.6/§5): a Client is not safe
// for concurrent use unless the caller serializes access to Call/Oneway,
// the same contract spec §5 leaves to the implementer for sharing a
// Client across tasks.
type Client struct {
	framed *transport.Framed
	opts   *option.Options
	legacy bool
	seqID  int32
}

// ClientOption configures a Client under construction.
type ClientOption func(*Client)

// WithClientProtocolOptions sets the bounded-parsing configuration the
// client applies to decoded replies.
func WithClientProtocolOptions(opts *option.Options) ClientOption {
	return func(c *Client) { c.opts = opts }
}

// WithClientLegacyFraming makes the client encode Call/Oneway messages
// using legacy non-strict framing instead of the default strict framing.
func WithClientLegacyFraming() ClientOption {
	return func(c *Client) { c.legacy = true }
}

// NewClient wraps f as a simple, single-channel RPC client (spec §6's
// `simpleClient(channel) -> Client`).
func NewClient(f *transport.Framed, opts ...ClientOption) *Client {
	c := &Client{framed: f, opts: option.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) nextSeqID() int32 {
	return atomic.AddInt32(&c.seqID, 1)
}

// Call sends a Call message for method with the given payload, awaits the
// correlated reply, and returns its payload (spec §4.6's `call(Client,
// TCall) -> reply`). A reply bearing an unexpected seqid fails with
// SeqIdMismatchError; an Exception reply fails with RemoteExceptionError.
func (c *Client) Call(method string, payload value.Value) (value.Value, error) {
	seqID := c.nextSeqID()
	req := binary.Message{
		Header:  binary.Header{Name: method, Type: value.Call, SeqID: seqID},
		Payload: payload,
	}
	out, err := binary.EncodeMessage(req, c.legacy)
	if err != nil {
		return value.Value{}, err
	}
	if err := c.framed.WriteFrame(out); err != nil {
		return value.Value{}, err
	}

	body, err := c.framed.ReadFrame()
	if err != nil {
		return value.Value{}, err
	}
	reply, err := binary.DecodeMessage(body, c.opts)
	if err != nil {
		return value.Value{}, err
	}
	if reply.SeqID != seqID {
		return value.Value{}, &SeqIdMismatchError{Expected: seqID, Got: reply.SeqID}
	}
	if reply.Type == value.Exception {
		var appErr ApplicationException
		if err := (&appErr).Unpinch(reply.Payload); err != nil {
			return value.Value{}, err
		}
		return value.Value{}, &RemoteExceptionError{Exception: appErr}
	}
	return reply.Payload, nil
}

// Oneway sends a Call message of type Oneway and returns without awaiting
// a reply (spec §4.6 "A oneway call sends and does not await a reply").
func (c *Client) Oneway(method string, payload value.Value) error {
	req := binary.Message{
		Header:  binary.Header{Name: method, Type: value.Oneway, SeqID: c.nextSeqID()},
		Payload: payload,
	}
	out, err := binary.EncodeMessage(req, c.legacy)
	if err != nil {
		return err
	}
	return c.framed.WriteFrame(out)
}
