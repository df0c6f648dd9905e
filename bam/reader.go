// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Schaudge/htsbam/bgzf"
	"github.com/Schaudge/htsbam/sam"
)

const maxRecordSize = 0xffffff

// Reader decodes a BAM stream: the header once, then records one at a
// time, in file order. It never looks ahead past the record currently
// being decoded, matching BAM's and BGZF's pull-based access model.
type Reader struct {
	bg   *bgzf.Reader
	h    *sam.Header
	omit Omit

	chunkEnd  *bgzf.Offset
	lastChunk bgzf.Chunk

	sizeBuf [4]byte
	recBuf  []byte
}

// NewReader returns a Reader over r, which must be positioned at the
// start of a BAM stream (the "BAM\1" magic, not the start of a BGZF
// block boundary mid-header).
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	bg, err := bgzf.NewReader(r, cfg.cacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("bam: opening bgzf stream: %w", err)
	}
	bg.SetCheckCRC(cfg.checkCRC)

	h, err := decodeHeader(bg)
	if err != nil {
		return nil, err
	}
	return &Reader{bg: bg, h: h, omit: cfg.omit}, nil
}

// Header returns the BAM header.
func (br *Reader) Header() *sam.Header { return br.h }

// SetCache installs c as the underlying BGZF stream's seek cache.
func (br *Reader) SetCache(c bgzf.Cache) { br.bg.SetCache(c) }

// Seek positions the reader at the BGZF virtual offset off, ready to
// decode the record beginning there.
func (br *Reader) Seek(off bgzf.Offset) error { return br.bg.Seek(off) }

// SetChunkEnd limits subsequent reads to end before end's virtual offset;
// Read returns io.EOF once that point is reached. A nil end removes the
// limit.
func (br *Reader) SetChunkEnd(end *bgzf.Offset) { br.chunkEnd = end }

// LastChunk returns the virtual offset span of the most recently decoded
// record.
func (br *Reader) LastChunk() bgzf.Chunk { return br.lastChunk }

// Close closes the underlying BGZF stream.
func (br *Reader) Close() error { return br.bg.Close() }

// Read decodes and returns the next record in the stream, or io.EOF once
// the stream (or, if SetChunkEnd was called, the configured chunk) is
// exhausted.
func (br *Reader) Read() (*sam.Record, error) {
	if br.chunkEnd != nil && !br.bg.VirtualOffset().Less(*br.chunkEnd) {
		return nil, io.EOF
	}

	begin := br.bg.VirtualOffset()
	if _, err := io.ReadFull(br.bg, br.sizeBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("bam: reading block_size: %w", err)
	}
	size := int(binary.LittleEndian.Uint32(br.sizeBuf[:]))
	if size < 0 || size > maxRecordSize {
		return nil, fmt.Errorf("%w: block_size %d", ErrCorruptHeader, size)
	}

	resizeScratch(&br.recBuf, size)
	if _, err := io.ReadFull(br.bg, br.recBuf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		return nil, fmt.Errorf("bam: reading record: %w", err)
	}

	rec, err := decodeRecord(br.recBuf, br.h, br.omit)
	if err != nil {
		return nil, err
	}
	br.lastChunk = bgzf.Chunk{Begin: begin, End: br.bg.VirtualOffset()}
	return rec, nil
}

// Iterator wraps a Reader to provide a loop interface over a list of
// chunks: Next advances to the next record, moving on to the next chunk
// in the list (via a Seek) when the current one is exhausted.
type Iterator struct {
	r      *Reader
	chunks []bgzf.Chunk

	rec *sam.Record
	err error
}

// NewIterator returns an Iterator reading from r, restricted to the given
// chunks in order.
func NewIterator(r *Reader, chunks []bgzf.Chunk) (*Iterator, error) {
	it := &Iterator{r: r, chunks: chunks}
	if err := it.advanceChunk(); err != nil {
		it.err = err
	}
	return it, nil
}

func (it *Iterator) advanceChunk() error {
	if len(it.chunks) == 0 {
		it.err = io.EOF
		return io.EOF
	}
	c := it.chunks[0]
	it.chunks = it.chunks[1:]
	if err := it.r.Seek(c.Begin); err != nil {
		return err
	}
	end := c.End
	it.r.SetChunkEnd(&end)
	return nil
}

// Next advances the Iterator to the next record. It returns false at the
// end of the last chunk or on the first error.
func (it *Iterator) Next() bool {
	for {
		if it.err != nil {
			return false
		}
		it.rec, it.err = it.r.Read()
		if it.err == nil {
			return true
		}
		if errors.Is(it.err, io.EOF) && len(it.chunks) != 0 {
			it.err = it.advanceChunk()
			continue
		}
		return false
	}
}

// Error returns the first non-EOF error encountered by the Iterator.
func (it *Iterator) Error() error {
	if errors.Is(it.err, io.EOF) {
		return nil
	}
	return it.err
}

// Record returns the record most recently read by Next.
func (it *Iterator) Record() *sam.Record { return it.rec }

// Close releases the Iterator's chunk restriction and returns any
// pending error.
func (it *Iterator) Close() error {
	it.r.SetChunkEnd(nil)
	return it.Error()
}
