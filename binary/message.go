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

package binary

import (
	"github.com/414owen/pinch/option"
	"github.com/414owen/pinch/perrors"
	"github.com/414owen/pinch/value"
	"github.com/414owen/pinch/wire"
)

// Header describes a decoded message's envelope: everything but the
// payload body (spec §4.4). The payload itself is decoded separately by
// the caller once it knows the expected struct shape.
type Header struct {
	Name   string
	Type   value.TMessageType
	SeqID  int32
	Strict bool
}

// EncodeMessageBegin writes a message envelope in strict framing: a single
// i32 whose top bit is set and whose low byte carries the TMessageType,
// followed by the method name and seqid (spec §4.4).
func EncodeMessageBegin(b *wire.Builder, name string, t value.TMessageType, seqID int32) {
	word := version1 | uint32(t)&typeMask
	b.WriteI32(int32(word))
	b.WriteI32(int32(len(name)))
	b.WriteBytes([]byte(name))
	b.WriteI32(seqID)
}

// EncodeMessageBeginLegacy writes a message envelope in the legacy
// non-strict framing: name length, name, a single byte TMessageType, then
// seqid, with no version sentinel at all (spec §4.4 "legacy framing").
func EncodeMessageBeginLegacy(b *wire.Builder, name string, t value.TMessageType, seqID int32) {
	b.WriteI32(int32(len(name)))
	b.WriteBytes([]byte(name))
	b.WriteByte(int8(t))
	b.WriteI32(seqID)
}

// DecodeMessageBegin reads a message envelope, detecting strict vs.
// non-strict framing from the sign of the leading i32 (spec §4.4): a
// negative leading word is a strict-framed version sentinel, a
// non-negative one is a legacy name length.
func DecodeMessageBegin(g *wire.Getter, opts *option.Options) (Header, error) {
	lead, err := g.ReadI32()
	if err != nil {
		return Header{}, err
	}
	if lead < 0 {
		return decodeStrictMessageBegin(g, uint32(lead), opts)
	}
	return decodeLegacyMessageBegin(g, lead, opts)
}

func decodeStrictMessageBegin(g *wire.Getter, word uint32, opts *option.Options) (Header, error) {
	if word&versionMask != version1 {
		return Header{}, perrors.NewBadVersion("binary: unsupported strict message version")
	}
	t := value.TMessageType(word & typeMask)
	name, err := readMethodName(g, opts)
	if err != nil {
		return Header{}, err
	}
	seqID, err := g.ReadI32()
	if err != nil {
		return Header{}, err
	}
	return Header{Name: name, Type: t, SeqID: seqID, Strict: true}, nil
}

func decodeLegacyMessageBegin(g *wire.Getter, nameLen int32, opts *option.Options) (Header, error) {
	name, err := readMethodNameBody(g, nameLen, opts)
	if err != nil {
		return Header{}, err
	}
	typeByte, err := g.ReadByte()
	if err != nil {
		return Header{}, err
	}
	seqID, err := g.ReadI32()
	if err != nil {
		return Header{}, err
	}
	return Header{Name: name, Type: value.TMessageType(typeByte), SeqID: seqID, Strict: false}, nil
}

func readMethodName(g *wire.Getter, opts *option.Options) (string, error) {
	n, err := g.ReadI32()
	if err != nil {
		return "", err
	}
	return readMethodNameBody(g, n, opts)
}

// Message is a full Thrift RPC message: envelope plus payload (spec §3's
// `Message` data model).
type Message struct {
	Header
	Payload value.Value
}

// EncodeMessage renders m as bytes, in strict framing unless legacy is true
// (spec §4.3.2). The payload must be a Value(Struct).
func EncodeMessage(m Message, legacy bool) ([]byte, error) {
	b := wire.NewBuilder(0)
	if legacy {
		EncodeMessageBeginLegacy(b, m.Name, m.Type, m.SeqID)
	} else {
		EncodeMessageBegin(b, m.Name, m.Type, m.SeqID)
	}
	if err := EncodeValue(b, m.Payload); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodeMessage reads a full Message from buf, auto-detecting strict vs.
// legacy framing from the leading word (spec §4.3.2) and decoding the
// payload as a Value(Struct).
func DecodeMessage(buf []byte, opts *option.Options) (Message, error) {
	g := wire.NewGetter(buf)
	hdr, err := DecodeMessageBegin(g, opts)
	if err != nil {
		return Message{}, err
	}
	payload, err := DecodeValue(g, value.STRUCT, opts)
	if err != nil {
		return Message{}, err
	}
	return Message{Header: hdr, Payload: payload}, nil
}

func readMethodNameBody(g *wire.Getter, n int32, opts *option.Options) (string, error) {
	if n < 0 {
		return "", perrors.NewNegativeSize("Method name length", int64(n))
	}
	if int(n) > opts.MaxMethodNameLength() {
		return "", perrors.NewLimitExceeded("Method name length", int64(n), int64(opts.MaxMethodNameLength()))
	}
	raw, err := g.Next(int(n))
	if err != nil {
		return "", err
	}
	return opts.ParseMethodName(raw)
}
