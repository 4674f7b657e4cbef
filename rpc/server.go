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

// Package rpc implements the minimal RPC dispatch surface: a server that
// routes decoded Call messages to registered handlers by name, and a
// client that sends a Call and awaits its correlated Reply (spec §4.6).
//
// Grounded on BX-D-mini-RPC's server/client split (accept loop hands a
// connection to a per-connection read loop; a Client pairs a transport
// with outstanding-call bookkeeping), adapted to this module's stricter
// ordering contract: a connection processes requests strictly
// sequentially (spec §5), so unlike BX-D-mini-RPC's handleConn this
// package never spawns a goroutine per request.
package rpc

import (
	"context"
	"errors"
	"io"

	"golang.org/x/time/rate"

	"github.com/414owen/pinch/binary"
	"github.com/414owen/pinch/option"
	"github.com/414owen/pinch/pinchlog"
	"github.com/414owen/pinch/transport"
	"github.com/414owen/pinch/value"
)

// Handler processes a decoded Call payload and returns a reply payload.
// Both payloads are Value(Struct); the caller's Pinchable layer is
// responsible for converting to and from concrete record types.
type Handler func(ctx context.Context, payload value.Value) (value.Value, error)

// ServerOption configures a Server under construction.
type ServerOption func(*Server)

// WithProtocolOptions sets the bounded-parsing configuration the server
// applies to every decoded message.
func WithProtocolOptions(opts *option.Options) ServerOption {
	return func(s *Server) { s.opts = opts }
}

// WithLegacyFraming makes the server encode replies using legacy
// non-strict framing instead of the default strict framing. Decoding
// always accepts both regardless of this setting (spec §4.3.2).
func WithLegacyFraming() ServerOption {
	return func(s *Server) { s.legacy = true }
}

// WithRateLimit bounds the rate at which Call messages are dispatched to
// handlers, using a token-bucket limiter (grounded on BX-D-mini-RPC's
// middleware.RateLimitMiddleware). The Server holds one limiter, shared by
// every connection it runs; the limit is not applied per connection. A
// request rejected by the limiter gets an Exception reply rather than
// closing the connection.
func WithRateLimit(r float64, burst int) ServerOption {
	return func(s *Server) { s.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// Server holds a method-name-indexed handler table. RunConnection never
// modifies a Server, so once its handlers are registered it is safe to
// share across many concurrently running connections; Register itself is
// not safe to call concurrently with RunConnection.
type Server struct {
	handlers map[string]Handler
	opts     *option.Options
	legacy   bool
	limiter  *rate.Limiter
}

// NewServer builds a Server with no handlers registered. Register handlers
// with Register before calling RunConnection.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		handlers: make(map[string]Handler),
		opts:     option.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a handler for the given method name, overwriting any
// previous registration under the same name.
func (s *Server) Register(method string, h Handler) {
	s.handlers[method] = h
}

// RunConnection loops: read one framed message, decode it, dispatch by
// name, and reply, until the transport closes (spec §4.6). Requests on
// one connection are processed strictly sequentially: the next frame is
// not read until the current one's reply (if any) has been written. A
// message that fails to decode is logged and dropped without a reply, and
// the connection stays open. It returns nil on a clean EOF and the
// transport error otherwise.
func (s *Server) RunConnection(ctx context.Context, f *transport.Framed) error {
	for {
		body, err := f.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				pinchlog.Debugf("rpc: connection closed cleanly")
				return nil
			}
			pinchlog.Warnf("rpc: connection terminated: %s", err)
			return err
		}
		if err := s.dispatchFrame(ctx, f, body); err != nil {
			return err
		}
	}
}

func (s *Server) dispatchFrame(ctx context.Context, f *transport.Framed, body []byte) error {
	msg, err := binary.DecodeMessage(body, s.opts)
	if err != nil {
		pinchlog.Warnf("rpc: malformed message: %s", err)
		return nil
	}

	if msg.Type == value.Oneway {
		s.invokeOneway(ctx, msg)
		return nil
	}

	reply := s.buildReply(ctx, msg)
	out, err := binary.EncodeMessage(reply, s.legacy)
	if err != nil {
		pinchlog.Errorf("rpc: cannot encode reply to %q: %s", msg.Name, err)
		out, err = binary.EncodeMessage(exceptionReply(msg, ExceptionInternalError, err.Error()), s.legacy)
		if err != nil {
			return err
		}
	}
	return f.WriteFrame(out)
}

func (s *Server) invokeOneway(ctx context.Context, msg binary.Message) {
	h, ok := s.handlers[msg.Name]
	if !ok {
		pinchlog.Warnf("rpc: oneway call to unknown method %q", msg.Name)
		return
	}
	if _, err := h(ctx, msg.Payload); err != nil {
		pinchlog.Warnf("rpc: oneway handler %q failed: %s", msg.Name, err)
	}
}

func (s *Server) buildReply(ctx context.Context, msg binary.Message) binary.Message {
	h, ok := s.handlers[msg.Name]
	if !ok {
		return exceptionReply(msg, ExceptionUnknownMethod, (&UnknownMethodError{Method: msg.Name}).Error())
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return exceptionReply(msg, ExceptionInternalError, "rate limit exceeded")
	}
	result, err := h(ctx, msg.Payload)
	if err != nil {
		herr := &HandlerError{Method: msg.Name, Reason: err}
		pinchlog.Errorf("rpc: %s", herr)
		return exceptionReply(msg, ExceptionInternalError, herr.Error())
	}
	return binary.Message{
		Header:  binary.Header{Name: msg.Name, Type: value.Reply, SeqID: msg.SeqID},
		Payload: result,
	}
}

func exceptionReply(msg binary.Message, typ ApplicationExceptionType, reason string) binary.Message {
	return binary.Message{
		Header:  binary.Header{Name: msg.Name, Type: value.Exception, SeqID: msg.SeqID},
		Payload: applicationExceptionValue(typ, reason),
	}
}
