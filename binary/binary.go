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

// Package binary implements the Binary Protocol wire codec: encoding and
// decoding of value.Value trees and RPC messages, grounded on
// cloudwego/kitex's pkg/remote/codec/thrift.BinaryProtocol.
package binary

import (
	"github.com/414owen/pinch/foldlist"
	"github.com/414owen/pinch/option"
	"github.com/414owen/pinch/perrors"
	"github.com/414owen/pinch/value"
	"github.com/414owen/pinch/wire"
)

// strict-framing version sentinel, occupying the top 16 bits of the first
// word of a message (spec §4.4): version 1, as Apache Thrift defines it.
const (
	version1    uint32 = 0x80010000
	versionMask uint32 = 0xffff0000
	typeMask    uint32 = 0x000000ff
)

// EncodeValue appends v's wire encoding to b. The caller supplies the
// container element types already carried on v (spec §4.2); EncodeValue
// never writes a type byte for v itself — the enclosing field, list/set
// element header, or map header already carries it (spec §4.3.1).
func EncodeValue(b *wire.Builder, v value.Value) error {
	switch v.Type {
	case value.BOOL:
		b.WriteBool(v.AsBool())
		return nil
	case value.BYTE:
		b.WriteByte(v.AsByte())
		return nil
	case value.DOUBLE:
		b.WriteDouble(v.AsDouble())
		return nil
	case value.I16:
		b.WriteI16(v.AsI16())
		return nil
	case value.I32:
		b.WriteI32(v.AsI32())
		return nil
	case value.I64:
		b.WriteI64(v.AsI64())
		return nil
	case value.BINARY:
		bin := v.AsBinary()
		b.WriteI32(int32(len(bin)))
		b.WriteBytes(bin)
		return nil
	case value.STRUCT:
		return encodeStruct(b, v.Fields())
	case value.LIST, value.SET:
		return encodeElems(b, v.ElemType(), v.Elems())
	case value.MAP:
		return encodeMap(b, v.KeyType(), v.ValType(), v.Entries())
	default:
		return perrors.NewWireFormatError("binary: cannot encode value of unknown type " + v.Type.String())
	}
}

func encodeStruct(b *wire.Builder, fields value.Fields) error {
	for _, id := range sortedFieldIDs(fields) {
		fv := fields[id]
		b.WriteByte(int8(fv.Type))
		b.WriteI16(id)
		if err := EncodeValue(b, fv); err != nil {
			return err
		}
	}
	b.WriteByte(int8(value.STOP))
	return nil
}

func sortedFieldIDs(fields value.Fields) []int16 {
	return value.Struct(fields).SortedFieldIDs()
}

func encodeElems(b *wire.Builder, elemType value.TType, elems []value.Value) error {
	each := foldlist.FromSlice(elems)
	b.WriteByte(int8(elemType))
	b.WriteI32(int32(foldlist.Len(each)))
	return each(func(e value.Value) error {
		return EncodeValue(b, e)
	})
}

func encodeMap(b *wire.Builder, keyType, valType value.TType, entries []value.MapEntry) error {
	each := foldlist.FromSlice(entries)
	b.WriteByte(int8(keyType))
	b.WriteByte(int8(valType))
	b.WriteI32(int32(foldlist.Len(each)))
	return each(func(e value.MapEntry) error {
		if err := EncodeValue(b, e.Key); err != nil {
			return err
		}
		return EncodeValue(b, e.Val)
	})
}

// decodeCtx carries the bound-parsing configuration and current recursion
// depth through a decode call tree (spec §4.3.3, §9 recursion bound).
type decodeCtx struct {
	opts  *option.Options
	depth int
}

func (c *decodeCtx) descend() (*decodeCtx, error) {
	if c.depth+1 > c.opts.RecursionDepth() {
		return nil, perrors.NewDepthLimit("binary: nesting exceeds configured recursion depth")
	}
	return &decodeCtx{opts: c.opts, depth: c.depth + 1}, nil
}

// DecodeValue reads one value.Value of the given TType from g, applying the
// bounds configured in opts to every declared length before it is used to
// size an allocation (spec §4.3.3).
func DecodeValue(g *wire.Getter, t value.TType, opts *option.Options) (value.Value, error) {
	return decodeValue(g, t, &decodeCtx{opts: opts})
}

func decodeValue(g *wire.Getter, t value.TType, ctx *decodeCtx) (value.Value, error) {
	switch t {
	case value.BOOL:
		v, err := g.ReadBool()
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(v), nil
	case value.BYTE:
		v, err := g.ReadByte()
		if err != nil {
			return value.Value{}, err
		}
		return value.Byte(v), nil
	case value.DOUBLE:
		v, err := g.ReadDouble()
		if err != nil {
			return value.Value{}, err
		}
		return value.Double(v), nil
	case value.I16:
		v, err := g.ReadI16()
		if err != nil {
			return value.Value{}, err
		}
		return value.Int16(v), nil
	case value.I32:
		v, err := g.ReadI32()
		if err != nil {
			return value.Value{}, err
		}
		return value.Int32(v), nil
	case value.I64:
		v, err := g.ReadI64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Int64(v), nil
	case value.BINARY:
		return decodeBinary(g, ctx)
	case value.STRUCT:
		return decodeStruct(g, ctx)
	case value.LIST:
		return decodeElems(g, ctx, false)
	case value.SET:
		return decodeElems(g, ctx, true)
	case value.MAP:
		return decodeMap(g, ctx)
	default:
		return value.Value{}, perrors.NewWireFormatError("binary: unknown TType " + t.String() + " on wire")
	}
}

func decodeBinary(g *wire.Getter, ctx *decodeCtx) (value.Value, error) {
	n, err := readBoundedLength(g, "Binary length", ctx.opts.MaxBinaryLength())
	if err != nil {
		return value.Value{}, err
	}
	b, err := g.Next(n)
	if err != nil {
		return value.Value{}, err
	}
	return value.Binary(append([]byte(nil), b...)), nil
}

func decodeStruct(g *wire.Getter, ctx *decodeCtx) (value.Value, error) {
	next, err := ctx.descend()
	if err != nil {
		return value.Value{}, err
	}
	fields := value.Fields{}
	for {
		fieldType, err := g.ReadByte()
		if err != nil {
			return value.Value{}, err
		}
		if value.TType(fieldType) == value.STOP {
			break
		}
		id, err := g.ReadI16()
		if err != nil {
			return value.Value{}, err
		}
		fv, err := decodeValue(g, value.TType(fieldType), next)
		if err != nil {
			return value.Value{}, err
		}
		fields[id] = fv
	}
	return value.Struct(fields), nil
}

func decodeElems(g *wire.Getter, ctx *decodeCtx, isSet bool) (value.Value, error) {
	next, err := ctx.descend()
	if err != nil {
		return value.Value{}, err
	}
	elemTypeByte, err := g.ReadByte()
	if err != nil {
		return value.Value{}, err
	}
	elemType := value.TType(elemTypeByte)
	limit := next.opts.MaxListLength()
	field := "List length"
	if isSet {
		limit = next.opts.MaxSetSize()
		field = "Set size"
	}
	n, err := readBoundedLength(g, field, limit)
	if err != nil {
		return value.Value{}, err
	}
	elems, err := foldlist.Build(n, g.Remaining(), func(int) (value.Value, error) {
		return decodeValue(g, elemType, next)
	})
	if err != nil {
		return value.Value{}, err
	}
	if isSet {
		return value.Set(elemType, elems), nil
	}
	return value.List(elemType, elems), nil
}

func decodeMap(g *wire.Getter, ctx *decodeCtx) (value.Value, error) {
	next, err := ctx.descend()
	if err != nil {
		return value.Value{}, err
	}
	keyTypeByte, err := g.ReadByte()
	if err != nil {
		return value.Value{}, err
	}
	valTypeByte, err := g.ReadByte()
	if err != nil {
		return value.Value{}, err
	}
	keyType, valType := value.TType(keyTypeByte), value.TType(valTypeByte)
	n, err := readBoundedLength(g, "Map size", next.opts.MaxMapSize())
	if err != nil {
		return value.Value{}, err
	}
	entries, err := foldlist.Build(n, g.Remaining(), func(int) (value.MapEntry, error) {
		k, err := decodeValue(g, keyType, next)
		if err != nil {
			return value.MapEntry{}, err
		}
		v, err := decodeValue(g, valType, next)
		if err != nil {
			return value.MapEntry{}, err
		}
		return value.MapEntry{Key: k, Val: v}, nil
	})
	if err != nil {
		return value.Value{}, err
	}
	return value.Map(keyType, valType, entries), nil
}

// Skip advances g past one value of the given TType without constructing a
// value.Value for it, the way a Pinchable record skips a struct field it
// doesn't recognize (an older reader decoding a newer writer's payload)
// rather than failing to decode the rest of the struct. Skip enforces the
// same declared-length bounds and recursion depth as DecodeValue (spec §7
// kinds 2, 3, and 7).
func Skip(t value.TType, g *wire.Getter, opts *option.Options) error {
	return skipValue(g, t, &decodeCtx{opts: opts})
}

func skipValue(g *wire.Getter, t value.TType, ctx *decodeCtx) error {
	switch t {
	case value.BOOL, value.BYTE:
		_, err := g.Next(1)
		return err
	case value.I16:
		_, err := g.Next(2)
		return err
	case value.I32:
		_, err := g.Next(4)
		return err
	case value.I64, value.DOUBLE:
		_, err := g.Next(8)
		return err
	case value.BINARY:
		n, err := readBoundedLength(g, "Binary length", ctx.opts.MaxBinaryLength())
		if err != nil {
			return err
		}
		_, err = g.Next(n)
		return err
	case value.STRUCT:
		return skipStruct(g, ctx)
	case value.LIST, value.SET:
		return skipElems(g, ctx, t == value.SET)
	case value.MAP:
		return skipMap(g, ctx)
	default:
		return perrors.NewWireFormatError("binary: cannot skip unknown TType " + t.String() + " on wire")
	}
}

func skipStruct(g *wire.Getter, ctx *decodeCtx) error {
	next, err := ctx.descend()
	if err != nil {
		return err
	}
	for {
		fieldType, err := g.ReadByte()
		if err != nil {
			return err
		}
		if value.TType(fieldType) == value.STOP {
			return nil
		}
		if _, err := g.Next(2); err != nil { // field id
			return err
		}
		if err := skipValue(g, value.TType(fieldType), next); err != nil {
			return err
		}
	}
}

func skipElems(g *wire.Getter, ctx *decodeCtx, isSet bool) error {
	next, err := ctx.descend()
	if err != nil {
		return err
	}
	elemTypeByte, err := g.ReadByte()
	if err != nil {
		return err
	}
	elemType := value.TType(elemTypeByte)
	limit := next.opts.MaxListLength()
	field := "List length"
	if isSet {
		limit = next.opts.MaxSetSize()
		field = "Set size"
	}
	n, err := readBoundedLength(g, field, limit)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := skipValue(g, elemType, next); err != nil {
			return err
		}
	}
	return nil
}

func skipMap(g *wire.Getter, ctx *decodeCtx) error {
	next, err := ctx.descend()
	if err != nil {
		return err
	}
	keyTypeByte, err := g.ReadByte()
	if err != nil {
		return err
	}
	valTypeByte, err := g.ReadByte()
	if err != nil {
		return err
	}
	keyType, valType := value.TType(keyTypeByte), value.TType(valTypeByte)
	n, err := readBoundedLength(g, "Map size", next.opts.MaxMapSize())
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := skipValue(g, keyType, next); err != nil {
			return err
		}
		if err := skipValue(g, valType, next); err != nil {
			return err
		}
	}
	return nil
}

// readBoundedLength reads a declared i32 length, rejecting negative values
// and values exceeding cap before the caller allocates anything sized by it
// (spec §4.3.3, §7 kinds 2 and 3).
func readBoundedLength(g *wire.Getter, field string, limit int) (int, error) {
	n, err := g.ReadI32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, perrors.NewNegativeSize(field, int64(n))
	}
	if int(n) > limit {
		return 0, perrors.NewLimitExceeded(field, int64(n), int64(limit))
	}
	return int(n), nil
}
