// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"

	"github.com/Schaudge/htsbam/sam"
)

const fixedRecordSize = 32

// Omit controls how much of a record's variable-length data decodeRecord
// materializes, trading decode cost for completeness.
type Omit int

const (
	// None decodes every field.
	None Omit = iota
	// AuxTags omits the optional (aux) fields.
	AuxTags
	// AllVariableLengthData omits SEQ, QUAL and the aux fields, leaving
	// only the fixed fields, read name and CIGAR.
	AllVariableLengthData
)

// decodeRecord parses a BAM record's payload (the bytes following its
// 4-byte block_size) into a sam.Record, validating the structural
// invariants the BAM format requires: a non-empty read name, and a
// variable-length section whose lengths sum exactly to the payload size.
func decodeRecord(b []byte, h *sam.Header, omit Omit) (*sam.Record, error) {
	if len(b) < fixedRecordSize {
		return nil, fmt.Errorf("%w: record payload %d bytes, want at least %d", ErrTruncated, len(b), fixedRecordSize)
	}

	refID := int(int32(binary.LittleEndian.Uint32(b[0:])))
	pos := int(int32(binary.LittleEndian.Uint32(b[4:])))
	lReadName := int(b[8])
	mapQ := b[9]
	nCigar := int(binary.LittleEndian.Uint16(b[12:]))
	flags := sam.Flags(binary.LittleEndian.Uint16(b[14:]))
	lSeq := int(int32(binary.LittleEndian.Uint32(b[16:])))
	nextRefID := int(int32(binary.LittleEndian.Uint32(b[20:])))
	nextPos := int(int32(binary.LittleEndian.Uint32(b[24:])))
	tLen := int(int32(binary.LittleEndian.Uint32(b[28:])))

	if lReadName < 1 {
		return nil, fmt.Errorf("%w: l_read_name %d < 1", ErrCorruptHeader, lReadName)
	}
	if lSeq < 0 {
		return nil, fmt.Errorf("%w: negative l_seq %d", ErrCorruptHeader, lSeq)
	}

	nDoublets := (lSeq + 1) / 2
	varLen := lReadName + nCigar*4 + nDoublets + lSeq
	if fixedRecordSize+varLen > len(b) {
		return nil, fmt.Errorf("%w: fixed+variable length %d exceeds payload %d", ErrTruncated, fixedRecordSize+varLen, len(b))
	}

	off := fixedRecordSize
	name := b[off : off+lReadName-1] // drop the trailing NUL
	off += lReadName

	cigar := make(sam.Cigar, nCigar)
	for i := 0; i < nCigar; i++ {
		cigar[i] = sam.CigarOp(binary.LittleEndian.Uint32(b[off+4*i:]))
	}
	off += nCigar * 4

	rec := sam.GetFromFreePool()
	rec.Name = string(name)
	rec.Pos = pos
	rec.MapQ = mapQ
	rec.Cigar = cigar
	rec.Flags = flags
	rec.MatePos = nextPos
	rec.TempLen = tLen

	if refID != -1 {
		ref := h.RefByID(refID)
		if ref == nil {
			return nil, fmt.Errorf("%w: reference id %d out of range", ErrCorruptHeader, refID)
		}
		rec.Ref = ref
	}
	if nextRefID != -1 {
		if nextRefID == refID {
			rec.MateRef = rec.Ref
		} else {
			mate := h.RefByID(nextRefID)
			if mate == nil {
				return nil, fmt.Errorf("%w: mate reference id %d out of range", ErrCorruptHeader, nextRefID)
			}
			rec.MateRef = mate
		}
	}

	if omit >= AllVariableLengthData {
		return rec, nil
	}

	doublets := make([]sam.Doublet, nDoublets)
	for i := range doublets {
		doublets[i] = sam.Doublet(b[off+i])
	}
	rec.Seq = sam.Seq{Length: lSeq, Seq: doublets}
	off += nDoublets

	qual := append([]byte(nil), b[off:off+lSeq]...)
	rec.Qual = qual
	off += lSeq

	if !rec.Cigar.IsValid(rec.Seq.Length) {
		return nil, fmt.Errorf("%w: cigar query length %d != seq length %d", ErrInvalidCigar, rec.Cigar.Len(), rec.Seq.Length)
	}

	if omit >= AuxTags {
		return rec, nil
	}

	aux, err := decodeAuxFields(b[fixedRecordSize+varLen:])
	if err != nil {
		return nil, err
	}
	rec.AuxFields = aux
	return rec, nil
}

func decodeAuxFields(data []byte) (sam.AuxFields, error) {
	var fields sam.AuxFields
	for len(data) > 0 {
		f, n, err := sam.DecodeAuxField(data)
		if err != nil {
			return nil, fmt.Errorf("bam: decoding aux field: %w", err)
		}
		fields = append(fields, f)
		data = data[n:]
	}
	return fields, nil
}
