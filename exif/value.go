package exif

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rational is a numerator/denominator pair. Unsigned RATIONAL values are
// widened into the same signed representation as SRATIONAL.
type Rational struct {
	Num int64
	Den int64
}

func (r Rational) String() string {
	if r.Den == 0 {
		return "inf"
	}
	if r.Num%r.Den == 0 {
		return strconv.FormatInt(r.Num/r.Den, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Value is one decoded tag value. Exactly one payload field is used,
// selected by Type:
//
//	BYTE, UNDEFINED          Bytes
//	ASCII                    Text (without the trailing NUL)
//	SHORT, LONG, SBYTE,
//	SSHORT, SLONG, IFD       Ints
//	RATIONAL, SRATIONAL      Rats
//	FLOAT, DOUBLE            Floats
type Value struct {
	Type   Type
	Bytes  []byte
	Text   string
	Ints   []int64
	Rats   []Rational
	Floats []float64
}

func Bytes(b ...byte) Value { return Value{Type: TypeByte, Bytes: b} }

func Undefined(b []byte) Value { return Value{Type: TypeUndefined, Bytes: b} }

func ASCII(s string) Value { return Value{Type: TypeASCII, Text: s} }

func Rationals(r ...Rational) Value { return Value{Type: TypeRational, Rats: r} }

func SRationals(r ...Rational) Value { return Value{Type: TypeSRational, Rats: r} }

func Shorts(v ...uint16) Value {
	ints := make([]int64, len(v))
	for i, x := range v {
		ints[i] = int64(x)
	}
	return Value{Type: TypeShort, Ints: ints}
}

func Longs(v ...uint32) Value {
	ints := make([]int64, len(v))
	for i, x := range v {
		ints[i] = int64(x)
	}
	return Value{Type: TypeLong, Ints: ints}
}

func SLongs(v ...int32) Value {
	ints := make([]int64, len(v))
	for i, x := range v {
		ints[i] = int64(x)
	}
	return Value{Type: TypeSLong, Ints: ints}
}

func Doubles(v ...float64) Value { return Value{Type: TypeDouble, Floats: v} }

// Count returns the number of components the value occupies on disk.
func (v Value) Count() uint32 {
	switch v.Type {
	case TypeByte, TypeUndefined:
		return uint32(len(v.Bytes))
	case TypeASCII:
		return uint32(len(v.Text)) + 1
	case TypeRational, TypeSRational:
		return uint32(len(v.Rats))
	case TypeFloat, TypeDouble:
		return uint32(len(v.Floats))
	default:
		return uint32(len(v.Ints))
	}
}

// IsBinary reports whether the value is displayed as opaque bytes.
func (v Value) IsBinary() bool {
	return v.Type == TypeUndefined || (v.Type == TypeByte && len(v.Bytes) != 1)
}

// IsMulti reports whether the value is a tuple of more than one component.
func (v Value) IsMulti() bool {
	return !v.IsBinary() && v.Type != TypeASCII && v.Count() > 1
}

// String renders the value for display: binary data as a byte count,
// tuples as "(a, b, c)", scalars and text as-is.
func (v Value) String() string {
	if v.IsBinary() {
		return fmt.Sprintf("[%d bytes of binary data]", len(v.Bytes))
	}
	if v.Type == TypeASCII {
		return v.Text
	}
	parts := v.components()
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v Value) components() []string {
	var parts []string
	switch v.Type {
	case TypeByte:
		for _, b := range v.Bytes {
			parts = append(parts, strconv.Itoa(int(b)))
		}
	case TypeRational, TypeSRational:
		for _, r := range v.Rats {
			parts = append(parts, r.String())
		}
	case TypeFloat, TypeDouble:
		for _, f := range v.Floats {
			parts = append(parts, strconv.FormatFloat(f, 'g', -1, 64))
		}
	default:
		for _, i := range v.Ints {
			parts = append(parts, strconv.FormatInt(i, 10))
		}
	}
	return parts
}

// encode serializes the components in the given byte order. The result is
// exactly Count() * component size bytes long.
func (v Value) encode(order binary.ByteOrder) ([]byte, error) {
	size, ok := v.Type.Size()
	if !ok {
		return nil, ErrBadType
	}
	total := uint64(size) * uint64(v.Count())
	if total > MaxBlockSize {
		return nil, ErrEncodeOverflow
	}
	buf := make([]byte, total)
	switch v.Type {
	case TypeByte, TypeUndefined:
		copy(buf, v.Bytes)
	case TypeASCII:
		copy(buf, v.Text)
	case TypeSByte:
		for i, x := range v.Ints {
			buf[i] = byte(int8(x))
		}
	case TypeShort, TypeSShort:
		for i, x := range v.Ints {
			order.PutUint16(buf[i*2:], uint16(x))
		}
	case TypeLong, TypeSLong, TypeIFD:
		for i, x := range v.Ints {
			order.PutUint32(buf[i*4:], uint32(x))
		}
	case TypeRational, TypeSRational:
		for i, r := range v.Rats {
			order.PutUint32(buf[i*8:], uint32(r.Num))
			order.PutUint32(buf[i*8+4:], uint32(r.Den))
		}
	case TypeFloat:
		for i, f := range v.Floats {
			order.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
		}
	case TypeDouble:
		for i, f := range v.Floats {
			order.PutUint64(buf[i*8:], math.Float64bits(f))
		}
	}
	return buf, nil
}

// decodeValue builds a Value from count components stored in data. data
// must be exactly count * component size bytes; it is copied, never aliased.
func decodeValue(t Type, count uint32, data []byte, order binary.ByteOrder) Value {
	v := Value{Type: t}
	n := int(count)
	switch t {
	case TypeByte, TypeUndefined:
		v.Bytes = append([]byte(nil), data...)
	case TypeASCII:
		if end := strings.IndexByte(string(data), 0); end >= 0 {
			data = data[:end]
		}
		v.Text = string(data)
	case TypeSByte:
		v.Ints = make([]int64, n)
		for i := range n {
			v.Ints[i] = int64(int8(data[i]))
		}
	case TypeShort:
		v.Ints = make([]int64, n)
		for i := range n {
			v.Ints[i] = int64(order.Uint16(data[i*2:]))
		}
	case TypeSShort:
		v.Ints = make([]int64, n)
		for i := range n {
			v.Ints[i] = int64(int16(order.Uint16(data[i*2:])))
		}
	case TypeLong, TypeIFD:
		v.Ints = make([]int64, n)
		for i := range n {
			v.Ints[i] = int64(order.Uint32(data[i*4:]))
		}
	case TypeSLong:
		v.Ints = make([]int64, n)
		for i := range n {
			v.Ints[i] = int64(int32(order.Uint32(data[i*4:])))
		}
	case TypeRational:
		v.Rats = make([]Rational, n)
		for i := range n {
			v.Rats[i] = Rational{
				Num: int64(order.Uint32(data[i*8:])),
				Den: int64(order.Uint32(data[i*8+4:])),
			}
		}
	case TypeSRational:
		v.Rats = make([]Rational, n)
		for i := range n {
			v.Rats[i] = Rational{
				Num: int64(int32(order.Uint32(data[i*8:]))),
				Den: int64(int32(order.Uint32(data[i*8+4:]))),
			}
		}
	case TypeFloat:
		v.Floats = make([]float64, n)
		for i := range n {
			v.Floats[i] = float64(math.Float32frombits(order.Uint32(data[i*4:])))
		}
	case TypeDouble:
		v.Floats = make([]float64, n)
		for i := range n {
			v.Floats[i] = math.Float64frombits(order.Uint64(data[i*8:]))
		}
	}
	return v
}
