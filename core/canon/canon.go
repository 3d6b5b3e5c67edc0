// Package canon implements the canonical byte encoding (spec §4.1) used for
// both hashing and snapshot persistence. The encoding is fixed: little
// endian integers, length-prefixed UTF-8 strings, length-prefixed byte
// blobs, and discriminant-tagged enums. Callers are responsible for
// iterating any map or set in a total key order before calling Encoder
// methods — the encoder itself has no notion of "map", only of the fields
// it's told to write, in the order it's told to write them.
package canon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Encoder accumulates a canonical byte stream.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated canonical encoding.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

// U8 writes a single byte (used for discriminants and version tags).
func (e *Encoder) U8(v uint8) *Encoder {
	e.buf.WriteByte(v)
	return e
}

// Bool writes a single byte: 1 for true, 0 for false.
func (e *Encoder) Bool(v bool) *Encoder {
	if v {
		return e.U8(1)
	}
	return e.U8(0)
}

// U32 writes a uint32, little endian.
func (e *Encoder) U32(v uint32) *Encoder {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
	return e
}

// U64 writes a uint64, little endian.
func (e *Encoder) U64(v uint64) *Encoder {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
	return e
}

// I64 writes an int64, little endian, as its uint64 bit pattern.
func (e *Encoder) I64(v int64) *Encoder {
	return e.U64(uint64(v))
}

// F64 writes a float64 as its raw IEEE-754 bit pattern, little endian. The
// kernel never canonicalizes NaN/signed-zero: spec §4.1 requires treating
// floats as opaque bit patterns across ticks, not as canonicalized numeric
// values, so whatever bit pattern biology/physics produced is hashed as-is.
func (e *Encoder) F64(v float64) *Encoder {
	return e.U64(math.Float64bits(v))
}

// BytesField writes a length-prefixed (uint64 LE) byte blob.
func (e *Encoder) BytesField(v []byte) *Encoder {
	e.U64(uint64(len(v)))
	e.buf.Write(v)
	return e
}

// String writes a length-prefixed (uint64 LE) UTF-8 string.
func (e *Encoder) String(v string) *Encoder {
	return e.BytesField([]byte(v))
}

// Hash writes a fixed-size digest verbatim (no length prefix needed, the
// size is fixed by the hash primitive).
func (e *Encoder) Hash(v [32]byte) *Encoder {
	e.buf.Write(v[:])
	return e
}

// Decoder reads a canonical byte stream in the same field order it was
// written. It is a thin cursor; callers must read fields in the exact
// sequence the matching Encoder wrote them.
type Decoder struct {
	buf []byte
	pos int
	err error
}

// NewDecoder wraps b for sequential canonical reads.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

// Err returns the first error encountered during decoding, if any.
func (d *Decoder) Err() error { return d.err }

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.pos+n > len(d.buf) {
		d.err = fmt.Errorf("canon: decode past end of buffer (need %d, have %d)", n, len(d.buf)-d.pos)
		return nil
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out
}

func (d *Decoder) U8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) Bool() bool { return d.U8() != 0 }

func (d *Decoder) U32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Decoder) U64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Decoder) I64() int64 { return int64(d.U64()) }

func (d *Decoder) F64() float64 { return math.Float64frombits(d.U64()) }

func (d *Decoder) BytesField() []byte {
	n := d.U64()
	b := d.take(int(n))
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (d *Decoder) String() string { return string(d.BytesField()) }

func (d *Decoder) Hash() [32]byte {
	var h [32]byte
	b := d.take(32)
	copy(h[:], b)
	return h
}

// Remaining returns the count of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }
