// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Schaudge/htsbam/bgzf"
	binning "github.com/Schaudge/htsbam/bgzf/index"
	"github.com/grailbio/testutil/assert"
)

type binSpec struct {
	bin    uint32
	chunks []bgzf.Chunk
}

func encodeIndexBytes(refs [][]binSpec, linear [][]bgzf.Offset, noCoord *uint64) []byte {
	var buf bytes.Buffer
	buf.Write(baiMagic[:])
	binary.Write(&buf, binary.LittleEndian, int32(len(refs)))
	for i, bins := range refs {
		binary.Write(&buf, binary.LittleEndian, int32(len(bins)))
		for _, b := range bins {
			binary.Write(&buf, binary.LittleEndian, b.bin)
			binary.Write(&buf, binary.LittleEndian, int32(len(b.chunks)))
			for _, c := range b.chunks {
				binary.Write(&buf, binary.LittleEndian, c.Begin.Virtual())
				binary.Write(&buf, binary.LittleEndian, c.End.Virtual())
			}
		}
		lin := linear[i]
		binary.Write(&buf, binary.LittleEndian, int32(len(lin)))
		for _, o := range lin {
			binary.Write(&buf, binary.LittleEndian, o.Virtual())
		}
	}
	if noCoord != nil {
		binary.Write(&buf, binary.LittleEndian, *noCoord)
	}
	return buf.Bytes()
}

func TestReadIndexAndChunks(t *testing.T) {
	bin := binning.Bin(100, 150) // grounds the fixture in the real binning function
	data := encodeIndexBytes(
		[][]binSpec{
			{
				{bin: bin, chunks: []bgzf.Chunk{
					{Begin: bgzf.Offset{File: 0, Block: 0}, End: bgzf.Offset{File: 500, Block: 0}},
				}},
				{bin: pseudoBin, chunks: []bgzf.Chunk{
					{Begin: bgzf.Offset{File: 0, Block: 7}, End: bgzf.Offset{File: 0, Block: 3}},
				}},
			},
		},
		[][]bgzf.Offset{{{File: 0, Block: 0}}},
		nil,
	)

	idx, err := ReadIndex(bytes.NewReader(data))
	assert.NoError(t, err)
	if idx.NumRefs() != 1 {
		t.Fatalf("NumRefs() = %d, want 1", idx.NumRefs())
	}

	mapped, unmapped, ok := idx.Stats(0)
	if !ok || mapped != 7 || unmapped != 3 {
		t.Errorf("Stats(0) = (%d, %d, %v), want (7, 3, true)", mapped, unmapped, ok)
	}

	chunks, err := idx.Chunks(0, 100, 150)
	assert.NoError(t, err)
	if len(chunks) != 1 {
		t.Fatalf("Chunks() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Begin != (bgzf.Offset{File: 0, Block: 0}) {
		t.Errorf("Chunks()[0].Begin = %v, want {0 0}", chunks[0].Begin)
	}
}

func TestIndexChunksErrorsForUnknownReference(t *testing.T) {
	data := encodeIndexBytes([][]binSpec{{}}, [][]bgzf.Offset{nil}, nil)
	idx, err := ReadIndex(bytes.NewReader(data))
	assert.NoError(t, err)
	_, err = idx.Chunks(5, 0, 10)
	assert.NotNil(t, err)
}

func TestIndexChunksEmptyForEmptyRegion(t *testing.T) {
	data := encodeIndexBytes([][]binSpec{{}}, [][]bgzf.Offset{nil}, nil)
	idx, err := ReadIndex(bytes.NewReader(data))
	assert.NoError(t, err)
	chunks, err := idx.Chunks(0, 10, 10)
	assert.NoError(t, err)
	if chunks != nil {
		t.Errorf("Chunks() = %v, want nil", chunks)
	}
}
