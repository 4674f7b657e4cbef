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

// Package option declares the bounded-parsing configuration the Binary
// Protocol decoder enforces (spec §4.3.3, §4.8), built with kitex's
// functional-options idiom (client.WithXXX / server.WithXXX).
package option

import "unicode/utf8"

// Defaults per spec §4.8.
const (
	DefaultMaxMethodNameLength = 256
	DefaultMaxBinaryLength     = 100 * 1024 * 1024
	DefaultMaxListLength       = 10_000_000
	DefaultMaxSetSize          = 10_000_000
	DefaultMaxMapSize          = 10_000_000

	// DefaultRecursionDepth bounds skip/decode nesting (spec §9 supplement);
	// taken from the teacher pack's cloudwego/gopkg defaultRecursionDepth.
	DefaultRecursionDepth = 64
)

// MethodNameParser decodes a message's raw name bytes into text. The
// default is a bounds-checked UTF-8 decode; a caller may substitute a
// lenient or strict variant via WithMethodNameParser (spec §4.3.3).
type MethodNameParser func([]byte) (string, error)

// Options is the immutable-after-construction bound configuration consulted
// by the Binary Protocol decoder. Build one with New and a list of With...
// functions; there is no public struct literal constructor, matching the
// options idiom used throughout cloudwego/kitex.
type Options struct {
	maxMethodNameLength int
	maxBinaryLength     int
	maxListLength       int
	maxSetSize          int
	maxMapSize          int
	recursionDepth      int
	methodNameParser    MethodNameParser
}

// Option configures an Options value under construction.
type Option func(*Options)

// New builds an Options value from the given Option list, starting from the
// spec §4.8 defaults.
func New(opts ...Option) *Options {
	o := &Options{
		maxMethodNameLength: DefaultMaxMethodNameLength,
		maxBinaryLength:     DefaultMaxBinaryLength,
		maxListLength:       DefaultMaxListLength,
		maxSetSize:          DefaultMaxSetSize,
		maxMapSize:          DefaultMaxMapSize,
		recursionDepth:      DefaultRecursionDepth,
		methodNameParser:    DefaultMethodNameParser,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMaxMethodNameLength caps the decoded RPC method name length in bytes.
func WithMaxMethodNameLength(n int) Option {
	return func(o *Options) { o.maxMethodNameLength = n }
}

// WithMaxBinaryLength caps a decoded BINARY (or string) payload length.
func WithMaxBinaryLength(n int) Option {
	return func(o *Options) { o.maxBinaryLength = n }
}

// WithMaxListLength caps a decoded LIST element count.
func WithMaxListLength(n int) Option {
	return func(o *Options) { o.maxListLength = n }
}

// WithMaxSetSize caps a decoded SET element count.
func WithMaxSetSize(n int) Option {
	return func(o *Options) { o.maxSetSize = n }
}

// WithMaxMapSize caps a decoded MAP entry count.
func WithMaxMapSize(n int) Option {
	return func(o *Options) { o.maxMapSize = n }
}

// WithRecursionDepth caps nested struct/container decode depth.
func WithRecursionDepth(n int) Option {
	return func(o *Options) { o.recursionDepth = n }
}

// WithMethodNameParser overrides how a message's raw name bytes are decoded
// into text.
func WithMethodNameParser(p MethodNameParser) Option {
	return func(o *Options) { o.methodNameParser = p }
}

// MaxMethodNameLength returns the configured method-name length cap.
func (o *Options) MaxMethodNameLength() int { return o.maxMethodNameLength }

// MaxBinaryLength returns the configured binary-payload length cap.
func (o *Options) MaxBinaryLength() int { return o.maxBinaryLength }

// MaxListLength returns the configured list element-count cap.
func (o *Options) MaxListLength() int { return o.maxListLength }

// MaxSetSize returns the configured set element-count cap.
func (o *Options) MaxSetSize() int { return o.maxSetSize }

// MaxMapSize returns the configured map entry-count cap.
func (o *Options) MaxMapSize() int { return o.maxMapSize }

// RecursionDepth returns the configured nesting-depth cap.
func (o *Options) RecursionDepth() int { return o.recursionDepth }

// ParseMethodName decodes raw name bytes using the configured parser.
func (o *Options) ParseMethodName(b []byte) (string, error) {
	return o.methodNameParser(b)
}

// DefaultMethodNameParser decodes name bytes as UTF-8, rejecting invalid
// encodings rather than silently substituting the replacement character.
func DefaultMethodNameParser(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &InvalidMethodNameError{Bytes: append([]byte(nil), b...)}
	}
	return string(b), nil
}

// InvalidMethodNameError reports a method name that failed UTF-8 decoding.
type InvalidMethodNameError struct {
	Bytes []byte
}

func (e *InvalidMethodNameError) Error() string {
	return "option: method name is not valid UTF-8"
}
