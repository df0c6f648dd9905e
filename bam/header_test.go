// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/grailbio/testutil/assert"
)

type refSpec struct {
	name   string
	length int32
}

func encodeHeaderBytes(text string, refs []refSpec) []byte {
	var buf bytes.Buffer
	buf.Write(bamMagic[:])
	binary.Write(&buf, binary.LittleEndian, int32(len(text)))
	buf.WriteString(text)
	binary.Write(&buf, binary.LittleEndian, int32(len(refs)))
	for _, r := range refs {
		binary.Write(&buf, binary.LittleEndian, int32(len(r.name)+1))
		buf.WriteString(r.name)
		buf.WriteByte(0)
		binary.Write(&buf, binary.LittleEndian, r.length)
	}
	return buf.Bytes()
}

func TestDecodeHeader(t *testing.T) {
	data := encodeHeaderBytes("@HD\tVN:1.6\n", []refSpec{{"chr1", 1000000}, {"chr2", 2000}})
	h, err := decodeHeader(bytes.NewReader(data))
	assert.NoError(t, err)
	if h.NumRefs() != 2 {
		t.Fatalf("NumRefs() = %d, want 2", h.NumRefs())
	}
	if h.Reference("chr1").Len() != 1000000 {
		t.Errorf("chr1 len = %d, want 1000000", h.Reference("chr1").Len())
	}
	if h.RefByID(1).Name() != "chr2" {
		t.Errorf("ref 1 name = %q, want chr2", h.RefByID(1).Name())
	}
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	data := append([]byte("XXXX"), encodeHeaderBytes("", nil)[4:]...)
	_, err := decodeHeader(bytes.NewReader(data))
	assert.NotNil(t, err)
}

func TestDecodeHeaderRejectsTruncatedText(t *testing.T) {
	data := encodeHeaderBytes("@HD\tVN:1.6\n", nil)
	_, err := decodeHeader(bytes.NewReader(data[:8]))
	assert.NotNil(t, err)
}
