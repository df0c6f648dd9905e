// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Schaudge/htsbam/sam"
	"github.com/grailbio/testutil/assert"
)

// encodeRecordPayload builds the bytes a BAM record occupies after its
// block_size field, for use as decodeRecord's input.
func encodeRecordPayload(t *testing.T, refID, pos int32, name string, mapQ byte, cigar []sam.CigarOp, flags sam.Flags, seq string, qual []byte, nextRefID, nextPos, tLen int32, aux []sam.Aux) []byte {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, refID)
	binary.Write(&buf, binary.LittleEndian, pos)
	buf.WriteByte(byte(len(name) + 1))
	buf.WriteByte(mapQ)
	binary.Write(&buf, binary.LittleEndian, uint16(4680)) // bin, unused by decodeRecord
	binary.Write(&buf, binary.LittleEndian, uint16(len(cigar)))
	binary.Write(&buf, binary.LittleEndian, uint16(flags))
	binary.Write(&buf, binary.LittleEndian, int32(len(seq)))
	binary.Write(&buf, binary.LittleEndian, nextRefID)
	binary.Write(&buf, binary.LittleEndian, nextPos)
	binary.Write(&buf, binary.LittleEndian, tLen)

	buf.WriteString(name)
	buf.WriteByte(0)
	for _, op := range cigar {
		binary.Write(&buf, binary.LittleEndian, uint32(op))
	}
	packed := sam.NewSeq([]byte(seq)).Seq
	for _, d := range packed {
		buf.WriteByte(byte(d))
	}
	buf.Write(qual)
	for _, a := range aux {
		buf.Write(a)
	}
	return buf.Bytes()
}

func testHeader(t *testing.T) *sam.Header {
	t.Helper()
	h := sam.NewHeader(nil)
	assert.NoError(t, h.AddReference(sam.NewReference("chr1", 1000000, 0)))
	assert.NoError(t, h.AddReference(sam.NewReference("chr2", 2000, 1)))
	return h
}

func TestDecodeRecordRoundTrip(t *testing.T) {
	h := testHeader(t)
	nm, err := sam.NewAux(sam.Tag{'N', 'M'}, int32(1))
	assert.NoError(t, err)

	payload := encodeRecordPayload(t, 0, 100, "read1", 60,
		[]sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 5)},
		sam.Paired|sam.ProperPair, "ACGTA", []byte{30, 30, 30, 30, 30}, 0, 150, 50,
		[]sam.Aux{nm})

	rec, err := decodeRecord(payload, h, None)
	assert.NoError(t, err)
	if rec.Name != "read1" {
		t.Errorf("Name = %q, want read1", rec.Name)
	}
	if rec.Pos != 100 {
		t.Errorf("Pos = %d, want 100", rec.Pos)
	}
	if rec.Ref.Name() != "chr1" {
		t.Errorf("Ref.Name() = %q, want chr1", rec.Ref.Name())
	}
	if rec.MateRef.Name() != "chr1" {
		t.Errorf("MateRef.Name() = %q, want chr1", rec.MateRef.Name())
	}
	if rec.MatePos != 150 {
		t.Errorf("MatePos = %d, want 150", rec.MatePos)
	}
	if got := string(rec.Seq.Expand()); got != "ACGTA" {
		t.Errorf("Seq.Expand() = %q, want ACGTA", got)
	}
	if len(rec.AuxFields) != 1 {
		t.Fatalf("len(AuxFields) = %d, want 1", len(rec.AuxFields))
	}
	if rec.AuxFields[0].Tag() != (sam.Tag{'N', 'M'}) {
		t.Errorf("AuxFields[0].Tag() = %v, want NM", rec.AuxFields[0].Tag())
	}
}

func TestDecodeRecordOmitsVariableLengthData(t *testing.T) {
	h := testHeader(t)
	payload := encodeRecordPayload(t, 0, 100, "read1", 60,
		[]sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 5)},
		0, "ACGTA", []byte{30, 30, 30, 30, 30}, -1, -1, 0, nil)

	rec, err := decodeRecord(payload, h, AllVariableLengthData)
	assert.NoError(t, err)
	if rec.Seq.Length != 0 {
		t.Errorf("Seq.Length = %d, want 0", rec.Seq.Length)
	}
	assert.Nil(t, rec.Qual)
}

func TestDecodeRecordRejectsShortReadName(t *testing.T) {
	h := testHeader(t)
	payload := encodeRecordPayload(t, 0, 100, "", 60, nil, sam.Unmapped, "", nil, -1, -1, 0, nil)
	// Overwrite l_read_name with 0, an invariant violation (it counts the
	// trailing NUL so must be at least 1).
	payload[8] = 0
	_, err := decodeRecord(payload, h, None)
	assert.NotNil(t, err)
}

func TestDecodeRecordRejectsCigarSeqMismatch(t *testing.T) {
	h := testHeader(t)
	payload := encodeRecordPayload(t, 0, 100, "read1", 60,
		[]sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 10)}, // claims 10M
		0, "ACGTA", []byte{30, 30, 30, 30, 30}, -1, -1, 0, nil) // but seq is length 5

	_, err := decodeRecord(payload, h, None)
	assert.NotNil(t, err)
}

func TestDecodeRecordRejectsTruncatedPayload(t *testing.T) {
	h := testHeader(t)
	payload := encodeRecordPayload(t, 0, 100, "read1", 60, nil, sam.Unmapped, "", nil, -1, -1, 0, nil)
	_, err := decodeRecord(payload[:10], h, None)
	assert.NotNil(t, err)
}
