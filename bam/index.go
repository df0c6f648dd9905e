// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/Schaudge/htsbam/bgzf"
	binning "github.com/Schaudge/htsbam/bgzf/index"
)

var baiMagic = [4]byte{'B', 'A', 'I', 1}

// pseudoBin is the reserved BAI bin id that carries per-reference mapped
// and unmapped read counts instead of a chunk list.
const pseudoBin = 37450

// refIndex is one reference's entry in a BAI index: its bin-to-chunks map
// and its 16 kb-windowed linear index of minimum virtual offsets.
type refIndex struct {
	bins   map[uint32][]bgzf.Chunk
	linear []bgzf.Offset

	mapped   uint64
	unmapped uint64
}

// Index is a parsed BAI spatial index over a BAM file's records.
type Index struct {
	refs     []refIndex
	noCoord  uint64
	hasCoord bool
}

// ReadIndex parses a BAI index from r.
func ReadIndex(r io.Reader) (*Index, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("bam: reading index magic: %w", err)
	}
	if magic != baiMagic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic)
	}

	var nRef int32
	if err := binary.Read(r, binary.LittleEndian, &nRef); err != nil {
		return nil, fmt.Errorf("bam: reading index n_ref: %w", err)
	}
	if nRef < 0 {
		return nil, fmt.Errorf("%w: negative n_ref %d", ErrCorruptHeader, nRef)
	}

	idx := &Index{refs: make([]refIndex, nRef)}
	for i := range idx.refs {
		ref, err := readRefIndex(r)
		if err != nil {
			return nil, fmt.Errorf("bam: reference %d: %w", i, err)
		}
		idx.refs[i] = ref
	}

	var noCoord uint64
	if err := binary.Read(r, binary.LittleEndian, &noCoord); err == nil {
		idx.noCoord = noCoord
		idx.hasCoord = true
	} else if err != io.EOF {
		return nil, fmt.Errorf("bam: reading n_no_coor: %w", err)
	}
	return idx, nil
}

func readRefIndex(r io.Reader) (refIndex, error) {
	var nBin int32
	if err := binary.Read(r, binary.LittleEndian, &nBin); err != nil {
		return refIndex{}, fmt.Errorf("reading n_bin: %w", err)
	}
	if nBin < 0 {
		return refIndex{}, fmt.Errorf("%w: negative n_bin %d", ErrCorruptHeader, nBin)
	}

	ref := refIndex{bins: make(map[uint32][]bgzf.Chunk, nBin)}
	for i := 0; i < int(nBin); i++ {
		var bin uint32
		if err := binary.Read(r, binary.LittleEndian, &bin); err != nil {
			return refIndex{}, fmt.Errorf("reading bin[%d]: %w", i, err)
		}
		var nChunk int32
		if err := binary.Read(r, binary.LittleEndian, &nChunk); err != nil {
			return refIndex{}, fmt.Errorf("reading n_chunk for bin %d: %w", bin, err)
		}
		if nChunk < 0 {
			return refIndex{}, fmt.Errorf("%w: negative n_chunk %d", ErrCorruptHeader, nChunk)
		}
		chunks := make([]bgzf.Chunk, nChunk)
		for j := range chunks {
			var begRaw, endRaw uint64
			if err := binary.Read(r, binary.LittleEndian, &begRaw); err != nil {
				return refIndex{}, fmt.Errorf("reading chunk_beg: %w", err)
			}
			if err := binary.Read(r, binary.LittleEndian, &endRaw); err != nil {
				return refIndex{}, fmt.Errorf("reading chunk_end: %w", err)
			}
			chunks[j] = bgzf.Chunk{Begin: bgzf.ToVirtual(begRaw), End: bgzf.ToVirtual(endRaw)}
		}
		if bin == pseudoBin {
			if len(chunks) >= 1 {
				ref.mapped = uint64(chunks[0].Begin.Virtual())
				ref.unmapped = uint64(chunks[0].End.Virtual())
			}
			continue
		}
		chunks = binning.Merge(chunks)
		ref.bins[bin] = chunks
	}

	var nIntv int32
	if err := binary.Read(r, binary.LittleEndian, &nIntv); err != nil {
		return refIndex{}, fmt.Errorf("reading n_intv: %w", err)
	}
	if nIntv < 0 {
		return refIndex{}, fmt.Errorf("%w: negative n_intv %d", ErrCorruptHeader, nIntv)
	}
	ref.linear = make([]bgzf.Offset, nIntv)
	for i := range ref.linear {
		var raw uint64
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return refIndex{}, fmt.Errorf("reading ioffset[%d]: %w", i, err)
		}
		ref.linear[i] = bgzf.ToVirtual(raw)
	}
	return ref, nil
}

// NumRefs returns the number of reference entries in the index.
func (x *Index) NumRefs() int { return len(x.refs) }

// Stats returns the mapped and unmapped read counts recorded for refID in
// the index's pseudo-bin. ok reports whether either count is non-zero; a
// pseudo-bin holding two zero counts gives ok == false, the same as a
// missing one.
func (x *Index) Stats(refID int) (mapped, unmapped uint64, ok bool) {
	if refID < 0 || refID >= len(x.refs) {
		return 0, 0, false
	}
	r := x.refs[refID]
	return r.mapped, r.unmapped, r.mapped != 0 || r.unmapped != 0
}

const linearWindowShift = 14 // 16 kb windows, per the BAI format.

// Chunks returns the (possibly over-inclusive) list of BGZF chunks that
// may contain a record on reference refID overlapping the half-open
// interval [beg, end). Bins are selected with the standard hierarchical
// binning scheme; the linear index is then used to discard any candidate
// chunk that cannot contain a record starting at or after beg.
func (x *Index) Chunks(refID int, beg, end uint32) ([]bgzf.Chunk, error) {
	if refID < 0 || refID >= len(x.refs) {
		return nil, fmt.Errorf("%w: reference id %d", ErrNoReference, refID)
	}
	ref := x.refs[refID]
	if end <= beg {
		return nil, nil
	}

	var chunks []bgzf.Chunk
	for _, bin := range binning.Bins(beg, end) {
		chunks = append(chunks, ref.bins[bin]...)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	win := int(beg >> linearWindowShift)
	var min bgzf.Offset
	if win < len(ref.linear) {
		min = ref.linear[win]
	}
	chunks = binning.Merge(chunks)
	chunks = binning.FilterBefore(chunks, min)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Begin.Less(chunks[j].Begin) })
	return chunks, nil
}

