// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// gzip fixed header layout (RFC 1952 §2.3.1), constant for every BGZF
// member: ID1, ID2, CM, FLG, MTIME(4), XFL, OS.
const gzipHeaderSize = 10

const (
	gzipID1 = 0x1f
	gzipID2 = 0x8b
	gzipCM  = 8
	fextra  = 1 << 2
)

// Block holds one decoded BGZF member: its location in the compressed
// stream, its compressed length, and its decompressed payload.
type Block struct {
	// FileOffset is the compressed byte offset of the start of the block.
	FileOffset int64
	// BlockSize is the total compressed length of the member, header and
	// trailer included.
	BlockSize int
	// Uncompressed is the decompressed payload, length equal to the
	// member's ISIZE.
	Uncompressed []byte
}

// empty reports whether the block is the canonical 28-byte BGZF EOF marker:
// a member whose decompressed payload has zero length.
func (b *Block) empty() bool { return len(b.Uncompressed) == 0 }

// readBlock decodes one BGZF member starting at the current position of r,
// returning the decoded Block. checkCRC requests validation of the trailer
// CRC32 against the decompressed payload. buf, if non-nil and large enough,
// is reused to avoid an allocation.
func readBlock(r io.Reader, checkCRC bool, buf []byte) (Block, []byte, error) {
	var hdr [gzipHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return Block{}, buf, io.EOF
		}
		return Block{}, buf, fmt.Errorf("bgzf: reading gzip header: %w", err)
	}
	n := gzipHeaderSize
	if hdr[0] != gzipID1 || hdr[1] != gzipID2 || hdr[2] != gzipCM {
		return Block{}, buf, ErrInvalidGzipHeader
	}
	flg := hdr[3]
	if flg&fextra == 0 {
		return Block{}, buf, ErrNoBlockSize
	}

	var xlenb [2]byte
	if _, err := io.ReadFull(r, xlenb[:]); err != nil {
		return Block{}, buf, fmt.Errorf("bgzf: reading extra length: %w", err)
	}
	xlen := int(binary.LittleEndian.Uint16(xlenb[:]))
	n += 2 + xlen
	extra := make([]byte, xlen)
	if _, err := io.ReadFull(r, extra); err != nil {
		return Block{}, buf, fmt.Errorf("bgzf: reading extra field: %w", err)
	}

	bsize, ok := bsizeFromExtra(extra)
	if !ok {
		return Block{}, buf, ErrNoBlockSize
	}

	// The remainder of the member (compressed data plus the 8 byte
	// trailer) is exactly bsize+1 - n bytes.
	remaining := bsize + 1 - n
	if remaining < 8 {
		return Block{}, buf, ErrTruncatedBlock
	}
	payloadLen := remaining - 8
	compressed := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return Block{}, buf, fmt.Errorf("bgzf: reading compressed payload: %w", err)
	}

	var trailer [8]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return Block{}, buf, fmt.Errorf("bgzf: reading trailer: %w", err)
	}
	wantCRC := binary.LittleEndian.Uint32(trailer[0:4])
	isize := binary.LittleEndian.Uint32(trailer[4:8])

	if cap(buf) < int(isize) {
		buf = make([]byte, isize)
	} else {
		buf = buf[:isize]
	}

	if isize > 0 {
		fr := flate.NewReader(newByteReader(compressed))
		defer fr.Close()
		if _, err := io.ReadFull(fr, buf); err != nil {
			return Block{}, buf, fmt.Errorf("bgzf: inflate: %w", err)
		}
	}

	if checkCRC {
		if got := crc32.ChecksumIEEE(buf); got != wantCRC {
			return Block{}, buf, ErrCrcMismatch
		}
	}

	return Block{BlockSize: bsize + 1, Uncompressed: buf}, buf, nil
}

// bsizeFromExtra scans a gzip extra field for the BC subfield BAM uses to
// record BSIZE = total block length - 1.
func bsizeFromExtra(extra []byte) (bsize int, ok bool) {
	for i := 0; i+4 <= len(extra); {
		slen := int(binary.LittleEndian.Uint16(extra[i+2 : i+4]))
		if extra[i] == 'B' && extra[i+1] == 'C' && slen == 2 {
			if i+6 > len(extra) {
				return 0, false
			}
			return int(binary.LittleEndian.Uint16(extra[i+4 : i+6])), true
		}
		i += 4 + slen
	}
	return 0, false
}

// byteReader adapts a []byte to flate.Reader.
type byteReader struct {
	b []byte
	i int
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

func (r *byteReader) ReadByte() (byte, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	c := r.b[r.i]
	r.i++
	return c, nil
}
