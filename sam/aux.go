// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Tag is the two-character identifier of an optional (aux) field, e.g.
// "NM" or "MD".
type Tag [2]byte

func (t Tag) String() string { return string(t[:]) }

// Aux is the raw encoding of one optional field: the two-byte Tag, a
// one-byte BAM type code, and the type's value bytes, exactly as they
// appear in a BAM record's variable-length aux block. Keeping Aux as raw
// bytes avoids an allocation per field on the decode path; Value decodes
// it lazily.
type Aux []byte

// BAM aux type codes, from the SAM spec section 4.2.4.
const (
	auxTypeA = 'A'
	auxTypeC = 'c'
	auxTypeUC = 'C'
	auxTypeS = 's'
	auxTypeUS = 'S'
	auxTypeI = 'i'
	auxTypeUI = 'I'
	auxTypeF = 'f'
	auxTypeZ = 'Z'
	auxTypeH = 'H'
	auxTypeB = 'B'
)

// Tag returns the field's tag.
func (a Aux) Tag() Tag { return Tag{a[0], a[1]} }

// Type returns the field's BAM type code byte.
func (a Aux) Type() byte { return a[2] }

func (a Aux) matches(tag []byte) bool { return a[0] == tag[0] && a[1] == tag[1] }

// Value decodes the field's payload into the Go type matching its BAM type
// code: byte for A; int8, uint8, int16, uint16, int32 and uint32 for c, C,
// s, S, i and I; float32 for f; string for Z and for H (the hex text is
// returned as is, not decoded to bytes); and []int8/[]uint8/.../[]float32
// for the B array type.
func (a Aux) Value() interface{} {
	data := a[3:]
	switch a.Type() {
	case auxTypeA:
		return data[0]
	case auxTypeC:
		return int8(data[0])
	case auxTypeUC:
		return uint8(data[0])
	case auxTypeS:
		return int16(binary.LittleEndian.Uint16(data))
	case auxTypeUS:
		return uint16(binary.LittleEndian.Uint16(data))
	case auxTypeI:
		return int32(binary.LittleEndian.Uint32(data))
	case auxTypeUI:
		return binary.LittleEndian.Uint32(data)
	case auxTypeF:
		return math.Float32frombits(binary.LittleEndian.Uint32(data))
	case auxTypeZ, auxTypeH:
		return string(data[:len(data)-1]) // drop the NUL terminator
	case auxTypeB:
		return decodeAuxArray(data)
	default:
		panic(fmt.Sprintf("sam: unknown aux type %q", a.Type()))
	}
}

func decodeAuxArray(data []byte) interface{} {
	sub := data[0]
	n := int(int32(binary.LittleEndian.Uint32(data[1:5])))
	body := data[5:]
	switch sub {
	case auxTypeC:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(body[i])
		}
		return out
	case auxTypeUC:
		out := make([]uint8, n)
		copy(out, body[:n])
		return out
	case auxTypeS:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(body[2*i:]))
		}
		return out
	case auxTypeUS:
		out := make([]uint16, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(body[2*i:])
		}
		return out
	case auxTypeI:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(body[4*i:]))
		}
		return out
	case auxTypeUI:
		out := make([]uint32, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(body[4*i:])
		}
		return out
	case auxTypeF:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[4*i:]))
		}
		return out
	default:
		panic(fmt.Sprintf("sam: unknown aux array subtype %q", sub))
	}
}

// auxArrayElemSize returns the byte width of one element of a B-typed aux
// array's subtype, used by the BAM record decoder to find a field's total
// byte length without decoding its payload.
func auxArrayElemSize(sub byte) (int, error) {
	switch sub {
	case auxTypeC, auxTypeUC:
		return 1, nil
	case auxTypeS, auxTypeUS:
		return 2, nil
	case auxTypeI, auxTypeUI, auxTypeF:
		return 4, nil
	default:
		return 0, fmt.Errorf("sam: unknown aux array subtype %q", sub)
	}
}

// NewAux builds an Aux field from tag and a Go value, choosing the BAM
// type code from the value's Go type: c, C, s, S, i and I for int8, uint8,
// int16, uint16, int32 and uint32 (int is stored as i), f for float32, and
// Z for string. A byte is a uint8 and so is stored as C; NewAux does not
// build A, H or B (array) fields. It returns an error for any other value
// type, slices included.
func NewAux(tag Tag, v interface{}) (Aux, error) {
	buf := []byte{tag[0], tag[1]}
	switch val := v.(type) {
	case int8:
		buf = append(buf, auxTypeC, byte(val))
	case uint8:
		buf = append(buf, auxTypeUC, val)
	case int16:
		buf = append(buf, auxTypeS, 0, 0)
		binary.LittleEndian.PutUint16(buf[3:], uint16(val))
	case uint16:
		buf = append(buf, auxTypeUS, 0, 0)
		binary.LittleEndian.PutUint16(buf[3:], val)
	case int:
		buf = append(buf, auxTypeI, 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], uint32(int32(val)))
	case int32:
		buf = append(buf, auxTypeI, 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], uint32(val))
	case uint32:
		buf = append(buf, auxTypeUI, 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], val)
	case float32:
		buf = append(buf, auxTypeF, 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], math.Float32bits(val))
	case string:
		buf = append(buf, auxTypeZ)
		buf = append(buf, val...)
		buf = append(buf, 0)
	default:
		return nil, fmt.Errorf("sam: unsupported aux value type %T", v)
	}
	return Aux(buf), nil
}

// DecodeAuxField reads one optional field from the head of data, which
// must begin with a two-byte tag and a one-byte type code as BAM encodes
// them, and returns the field and the number of bytes it occupied.
func DecodeAuxField(data []byte) (Aux, int, error) {
	if len(data) < 3 {
		return nil, 0, fmt.Errorf("sam: truncated aux field header")
	}
	switch data[2] {
	case auxTypeA, auxTypeC, auxTypeUC:
		return endAux(data, 4)
	case auxTypeS, auxTypeUS:
		return endAux(data, 5)
	case auxTypeI, auxTypeUI, auxTypeF:
		return endAux(data, 7)
	case auxTypeZ, auxTypeH:
		i := 3
		for i < len(data) && data[i] != 0 {
			i++
		}
		if i >= len(data) {
			return nil, 0, fmt.Errorf("sam: unterminated %c aux field", data[2])
		}
		return endAux(data, i+1)
	case auxTypeB:
		if len(data) < 8 {
			return nil, 0, fmt.Errorf("sam: truncated B aux field header")
		}
		elemSize, err := auxArrayElemSize(data[3])
		if err != nil {
			return nil, 0, err
		}
		n := int(int32(binary.LittleEndian.Uint32(data[4:8])))
		if n < 0 {
			return nil, 0, fmt.Errorf("sam: negative B aux field count")
		}
		return endAux(data, 8+elemSize*n)
	default:
		return nil, 0, fmt.Errorf("sam: unknown aux type %q", data[2])
	}
}

func endAux(data []byte, n int) (Aux, int, error) {
	if len(data) < n {
		return nil, 0, fmt.Errorf("sam: truncated aux field")
	}
	return Aux(data[:n]), n, nil
}

// AuxFields is a record's list of optional fields.
type AuxFields []Aux

// Get returns the first field matching tag, or nil if none match.
func (a AuxFields) Get(tag Tag) Aux {
	for _, f := range a {
		if f.Tag() == tag {
			return f
		}
	}
	return nil
}

// GetUnique returns the field matching tag, requiring that at most one
// match exists. It returns (nil, nil) if tag is absent and an error if it
// appears more than once.
func (a AuxFields) GetUnique(tag Tag) (Aux, error) {
	var found Aux
	for _, f := range a {
		if f.Tag() == tag {
			if found != nil {
				return nil, fmt.Errorf("sam: duplicate aux tag %s", tag)
			}
			found = f
		}
	}
	return found, nil
}

// Equal reports whether a and other hold identical raw fields in the same
// order.
func (a AuxFields) Equal(other AuxFields) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(other[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}
