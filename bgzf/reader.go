// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"fmt"
	"io"
)

// Reader decompresses a BGZF stream one block at a time and exposes the
// decompressed payload through the io.Reader interface, together with the
// virtual offset addressing scheme BAM and its indices use for random
// access. Reader is single-threaded: all operations block on the
// underlying io.Reader and there is no background decompression.
type Reader struct {
	r io.Reader

	// checkCRC requests that every decoded block's CRC32 be verified
	// against its trailer.
	checkCRC bool

	cache Cache

	current    Block
	currentOff int // read cursor within current.Uncompressed

	// lastChunk is the virtual offset span covered by the most recent
	// Read (or the target of the most recent Seek).
	lastChunk Chunk

	decodeBuf []byte

	eof bool
	err error
}

// NewReader returns a Reader over r, which must begin at the start of a
// BGZF stream. cacheCapacity, if positive, sizes the reader's seek cache;
// otherwise DefaultCacheCapacity is used. The first block is decoded
// eagerly so construction fails fast on a malformed stream.
func NewReader(r io.Reader, cacheCapacity int) (*Reader, error) {
	bg := &Reader{
		r:     r,
		cache: NewLRUCache(cacheCapacity),
	}
	blk, buf, err := readBlock(bg.r, bg.checkCRC, bg.decodeBuf)
	if err != nil {
		return nil, err
	}
	bg.decodeBuf = buf
	bg.current = blk
	bg.lastChunk = Chunk{
		Begin: Offset{File: 0, Block: 0},
		End:   Offset{File: 0, Block: 0},
	}
	return bg, nil
}

// SetCheckCRC enables or disables CRC32 validation of decoded blocks. It
// applies to blocks decoded after the call; blocks decoded before it,
// including the first block that NewReader decodes, are not validated, and
// blocks served from the cache are not validated again.
func (bg *Reader) SetCheckCRC(on bool) { bg.checkCRC = on }

// SetCache installs c as the reader's seek cache, replacing any existing
// cache.
func (bg *Reader) SetCache(c Cache) { bg.cache = c }

// VirtualOffset returns the virtual offset of the reader's current read
// position: the compressed offset of the current block and the cursor
// within its decompressed payload.
func (bg *Reader) VirtualOffset() Offset {
	return Offset{File: bg.current.FileOffset, Block: uint16(bg.currentOff)}
}

// LastChunk returns the virtual offset span consumed by the most recent
// Read call, or the singleton span {off, off} of the most recent Seek.
func (bg *Reader) LastChunk() Chunk { return bg.lastChunk }

// Seek positions the reader at the given virtual offset. If the block at
// off.File is neither the current block nor held in the cache, it is read
// and decompressed from the underlying io.Reader, which must implement
// io.Seeker.
func (bg *Reader) Seek(off Offset) error {
	if bg.err != nil && bg.err != io.EOF {
		return bg.err
	}
	if off.File != bg.current.FileOffset || bg.current.empty() {
		if blk, ok := bg.cache.Get(off.File); ok {
			bg.current = blk
		} else {
			rs, ok := bg.r.(io.ReadSeeker)
			if !ok {
				return ErrNotASeeker
			}
			if bg.current.Uncompressed != nil {
				bg.cache.Put(bg.current)
				// The cached block owns decodeBuf now; decode into a fresh buffer.
				bg.decodeBuf = nil
			}
			if _, err := rs.Seek(off.File, io.SeekStart); err != nil {
				return fmt.Errorf("bgzf: seek: %w", err)
			}
			blk, buf, err := readBlock(bg.r, bg.checkCRC, bg.decodeBuf)
			if err != nil && err != io.EOF {
				bg.err = err
				return err
			}
			bg.decodeBuf = buf
			if err == io.EOF {
				blk = Block{}
			}
			blk.FileOffset = off.File
			bg.current = blk
		}
		bg.err = nil
		bg.eof = false
	}
	if int(off.Block) > len(bg.current.Uncompressed) {
		return fmt.Errorf("bgzf: intra-block offset %d beyond block length %d", off.Block, len(bg.current.Uncompressed))
	}
	bg.currentOff = int(off.Block)
	bg.lastChunk = Chunk{Begin: off, End: off}
	return nil
}

// nextBlock advances to the block immediately following the current one,
// reading and decompressing it from the underlying reader.
func (bg *Reader) nextBlock() error {
	nextBase := bg.current.FileOffset + int64(bg.current.BlockSize)
	blk, buf, err := readBlock(bg.r, bg.checkCRC, bg.decodeBuf)
	if err != nil {
		return err
	}
	bg.decodeBuf = buf
	blk.FileOffset = nextBase
	bg.current = blk
	bg.currentOff = 0
	return nil
}

// Read implements io.Reader. It returns io.EOF once the canonical empty
// BGZF end-of-stream block has been reached at a block boundary.
func (bg *Reader) Read(p []byte) (int, error) {
	if bg.err != nil {
		return 0, bg.err
	}
	if bg.eof {
		return 0, io.EOF
	}

	begin := bg.VirtualOffset()
	var n int
	for n < len(p) {
		if bg.current.empty() {
			bg.eof = true
			break
		}
		if bg.currentOff >= len(bg.current.Uncompressed) {
			if err := bg.nextBlock(); err != nil {
				if err == io.EOF {
					bg.eof = true
					break
				}
				bg.err = err
				return n, err
			}
			if bg.current.empty() {
				bg.eof = true
				break
			}
		}
		cn := copy(p[n:], bg.current.Uncompressed[bg.currentOff:])
		bg.currentOff += cn
		n += cn
	}
	bg.lastChunk = Chunk{Begin: begin, End: bg.VirtualOffset()}
	if n == 0 && bg.eof {
		return 0, io.EOF
	}
	return n, nil
}

// Close releases resources held by the reader. If the underlying reader is
// an io.Closer it is closed too.
func (bg *Reader) Close() error {
	bg.err = ErrClosed
	if c, ok := bg.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
