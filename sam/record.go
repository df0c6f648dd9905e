// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Schaudge/htsbam/bgzf/index"
)

// Record represents a single BAM alignment record.
type Record struct {
	Name      string
	Ref       *Reference
	Pos       int
	MapQ      byte
	Cigar     Cigar
	Flags     Flags
	MateRef   *Reference
	MatePos   int
	TempLen   int
	Seq       Seq
	Qual      []byte
	AuxFields AuxFields
}

func validPos(p int) bool         { return p >= -1 && p < 1<<31-1 }
func validTmpltLen(t int) bool    { return t >= -(1<<31-1) && t < 1<<31-1 }
func validLen(l int) bool         { return l >= 0 && l < 1<<31-1 }

// NewRecord returns a Record, checking for consistency of the provided
// attributes.
func NewRecord(name string, ref, mRef *Reference, p, mPos, tLen int, mapQ byte, co []CigarOp, seq, qual []byte, aux []Aux) (*Record, error) {
	if !(validPos(p) && validPos(mPos) && validTmpltLen(tLen) && validLen(len(seq)) && (qual == nil || validLen(len(qual)))) {
		return nil, errors.New("sam: value out of range")
	}
	if len(name) == 0 || len(name) > 254 {
		return nil, errors.New("sam: name absent or too long")
	}
	if qual != nil && len(qual) != len(seq) {
		return nil, errors.New("sam: sequence/quality length mismatch")
	}
	if ref != nil {
		if ref.id < 0 {
			return nil, errors.New("sam: linking to invalid reference")
		}
	} else if p != -1 {
		return nil, errors.New("sam: specified position != -1 without reference")
	}
	if mRef != nil {
		if mRef.id < 0 {
			return nil, errors.New("sam: linking to invalid mate reference")
		}
	} else if mPos != -1 {
		return nil, errors.New("sam: specified mate position != -1 without mate reference")
	}
	return &Record{
		Name:      name,
		Ref:       ref,
		Pos:       p,
		MapQ:      mapQ,
		Cigar:     co,
		MateRef:   mRef,
		MatePos:   mPos,
		TempLen:   tLen,
		Seq:       NewSeq(seq),
		Qual:      qual,
		AuxFields: aux,
	}, nil
}

// IsValidRecord reports whether r satisfies the invariants relating its
// flags, reference fields and CIGAR/SEQ/QUAL lengths to each other: that
// it has Unmapped set if it is not placed, that MateUnmapped is set if it
// has no mate placement, that Unmapped and ProperPair are not both set,
// that a non-empty CIGAR is valid for SEQ's length, and that QUAL, if
// present, has SEQ's length.
func IsValidRecord(r *Record) bool {
	if (r.Ref == nil || r.Pos == -1) && r.Flags&Unmapped == 0 {
		return false
	}
	if (r.MateRef == nil || r.MatePos == -1) && r.Flags&MateUnmapped == 0 {
		return false
	}
	if r.Flags&Unmapped != 0 && r.Flags&ProperPair != 0 {
		return false
	}
	if len(r.Cigar) != 0 && !r.Cigar.IsValid(r.Seq.Length) {
		return false
	}
	if r.Qual != nil && len(r.Qual) != r.Seq.Length {
		return false
	}
	return true
}

// Tag returns the Aux field whose tag ID matches the first two bytes of
// tag and true, or nil, false if there is no match.
func (r *Record) Tag(tag []byte) (Aux, bool) {
	if len(tag) < 2 {
		panic("sam: tag too short")
	}
	for _, aux := range r.AuxFields {
		if aux.matches(tag) {
			return aux, true
		}
	}
	return nil, false
}

// RefID returns the reference ID of the record's alignment, or -1 if
// unmapped.
func (r *Record) RefID() int { return r.Ref.ID() }

// Start returns the lower-coordinate end of the alignment.
func (r *Record) Start() int { return r.Pos }

// Bin returns the record's BAI bin, following the convention that a
// record whose mate is also unmapped (and which therefore has no
// meaningful placement) is assigned the fixed bin for reg2bin(-1, 0).
func (r *Record) Bin() int {
	if r.Flags&(Unmapped|MateUnmapped) == Unmapped|MateUnmapped {
		return 4680
	}
	end := r.End()
	if end == r.Pos {
		end++
	}
	if r.Pos < 0 || end < 0 {
		return -1
	}
	return int(index.ReG2Bin(uint32(r.Pos), uint32(end)))
}

// Len returns the length of the alignment on the reference.
func (r *Record) Len() int { return r.End() - r.Start() }

// End returns the exclusive end of the alignment, one past the highest
// reference coordinate it covers, computed by walking the CIGAR's
// reference-consuming operations. For an unmapped record or an empty CIGAR
// it returns Pos+1. It is only meaningful when
// r.Cigar.IsValid(r.Seq.Length) holds.
func (r *Record) End() int {
	if r.Flags&Unmapped != 0 || len(r.Cigar) == 0 {
		return r.Pos + 1
	}
	end := r.Pos
	for _, co := range r.Cigar {
		end += co.Len() * co.Type().Consumes().Reference
	}
	return end
}

// Strand returns 1 for a forward-strand alignment and -1 for reverse.
func (r *Record) Strand() int8 {
	if r.Flags&Reverse != 0 {
		return -1
	}
	return 1
}

// LessByName reports whether r sorts before other by query name.
func (r *Record) LessByName(other *Record) bool { return r.Name < other.Name }

// LessByCoordinate reports whether r sorts before other under SAM's
// coordinate order: unplaced records ("*" reference) sort last, and
// placed records sort by reference name then by position.
func (r *Record) LessByCoordinate(other *Record) bool {
	rRefName, oRefName := r.Ref.Name(), other.Ref.Name()
	switch {
	case oRefName == "*":
		return rRefName != "*" || r.Pos < other.Pos
	case rRefName == "*":
		return false
	}
	return rRefName < oRefName || (rRefName == oRefName && r.Pos < other.Pos)
}

// Equal reports whether r and other describe the same alignment: same
// name, reference, position, mapping quality, CIGAR, flags, mate fields,
// sequence, quality and aux fields.
func (r *Record) Equal(other *Record) bool {
	return r.Name == other.Name &&
		r.Ref == other.Ref &&
		r.Pos == other.Pos &&
		r.MapQ == other.MapQ &&
		r.Cigar.Equal(other.Cigar) &&
		r.Flags == other.Flags &&
		r.MateRef == other.MateRef &&
		r.MatePos == other.MatePos &&
		r.TempLen == other.TempLen &&
		r.Seq.Equal(other.Seq) &&
		bytes.Equal(r.Qual, other.Qual) &&
		r.AuxFields.Equal(other.AuxFields)
}

// String returns a compact, debug-oriented representation of the record.
// It is not a SAM text rendering.
func (r *Record) String() string {
	end := r.End()
	return fmt.Sprintf("%s %s %s %d %s:%d..%d (bin %d) mapq=%d mate=%s:%d tlen=%d",
		r.Name, r.Flags, r.Cigar, r.MapQ, r.Ref.Name(), r.Pos, end, r.Bin(), r.MapQ, r.MateRef.Name(), r.MatePos, r.TempLen)
}
