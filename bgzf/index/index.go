// Copyright ©2015 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index provides the hierarchical binning scheme shared by BGZF
// spatial indices (BAI here; CSI and tabix use the same recurrence at
// different depths). It is pure arithmetic over bin identifiers and chunk
// lists — it knows nothing about any on-disk index format.
package index

import (
	"errors"
	"sort"

	"github.com/Schaudge/htsbam/bgzf"
)

// Errors returned by the index package.
var (
	ErrNoReference = errors.New("index: no reference")
	ErrInvalid     = errors.New("index: invalid interval")
)

// UCSC/BAI binning-scheme constants: six levels, window sizes 2^29 down to
// 2^14 in steps of 2^3.
const (
	binLevels   = 6
	minShift    = 14
	rootBin     = 0
	maxBinLevel = binLevels - 1
)

// levelOffsets[k] is the id of the first bin at level k, using the
// standard ((1<<3k)-1)/7 recurrence, indexed from the root (level 0, the
// whole reference) down to level 5 (16 kb windows).
var levelOffsets = [binLevels]uint32{0, 1, 9, 73, 585, 4681}

// levelShift[k] is the number of bits a position is shifted right by to
// find its bin within level k.
var levelShift = [binLevels]uint{29, 26, 23, 20, 17, 14}

// reg2bin returns the id of the smallest bin that fully contains the
// half-open interval [beg, end). It implements the standard six-level BAI
// recurrence, checking the finest (16 kb) window first and widening until
// a single bin spans the whole interval, falling back to the root bin.
func reg2bin(beg, end uint32) uint32 {
	end--
	for k := maxBinLevel; k >= 1; k-- {
		if beg>>levelShift[k] == end>>levelShift[k] {
			return levelOffsets[k] + (beg >> levelShift[k])
		}
	}
	return rootBin
}

// ReG2Bin exports reg2bin for callers (record bin validation) that need
// the exact BAI binning function for an already-computed [pos, end) span.
func ReG2Bin(beg, end uint32) uint32 { return reg2bin(beg, end) }

// reg2bins appends to dst every bin id that could contain a record
// overlapping [beg, end), at every level of the hierarchy, and returns the
// extended slice. The root bin (0) is always included.
func reg2bins(beg, end uint32, dst []uint32) []uint32 {
	if end <= beg {
		return dst
	}
	end--
	dst = append(dst, rootBin)
	for k := 1; k < binLevels; k++ {
		shift := levelShift[k]
		lo := levelOffsets[k] + (beg >> shift)
		hi := levelOffsets[k] + (end >> shift)
		for b := lo; b <= hi; b++ {
			dst = append(dst, b)
		}
	}
	return dst
}

// Bins returns the set of bin ids that may hold a record overlapping
// [beg, end). It is the exported, allocating form of reg2bins.
func Bins(beg, end uint32) []uint32 {
	if end <= beg {
		return nil
	}
	return reg2bins(beg, end, make([]uint32, 0, 1+5*8))
}

// Bin returns the id of the smallest bin spanning [beg, end).
func Bin(beg, end uint32) uint32 { return reg2bin(beg, end) }

// MergeThreshold controls how aggressively adjacent chunks are coalesced
// by Merge: two chunks are merged when the compressed-block distance
// between the first's end and the second's begin is no greater than this
// many bytes. The BAI/CSI standard leaves the exact constant
// implementation-defined; 0 (merge only chunks that round-trip to the same
// compressed block) is the conservative choice documented in DESIGN.md.
const MergeThreshold = 0

// Merge sorts chunks by Begin and coalesces any pair whose gap, measured
// in compressed block offsets, is within MergeThreshold, returning the
// resulting (shorter or equal length) slice. chunks is modified in place.
func Merge(chunks []bgzf.Chunk) []bgzf.Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Begin.Less(chunks[j].Begin)
	})
	out := chunks[:1]
	for _, c := range chunks[1:] {
		last := &out[len(out)-1]
		if c.Begin.File-last.End.File <= MergeThreshold {
			if last.End.Less(c.End) {
				last.End = c.End
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterBefore drops every chunk whose End virtual offset is at or before
// min, which is the lower bound a linear index entry provides for the
// first record overlapping a query's starting 16 kb window.
func FilterBefore(chunks []bgzf.Chunk, min bgzf.Offset) []bgzf.Chunk {
	out := chunks[:0]
	for _, c := range chunks {
		if min.Less(c.End) {
			out = append(out, c)
		}
	}
	return out
}
