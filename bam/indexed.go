// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"errors"
	"fmt"
	"io"

	"github.com/Schaudge/htsbam/sam"
	"v.io/x/lib/vlog"
)

// IndexedReader pairs a BAM stream with its BAI index to support region
// queries. Like Reader, it is single-threaded and pull-based: a Fetch
// positions the underlying stream at the first candidate chunk and further
// decoding happens lazily as the returned iterator is advanced.
type IndexedReader struct {
	r   *Reader
	idx *Index
}

// OpenIndexed returns an IndexedReader over bamR, indexed by the BAI data
// read from baiR. baiR is read to completion and may be discarded once
// OpenIndexed returns; bamR must support io.ReadSeeker for Fetch/FetchBy
// to be usable.
func OpenIndexed(bamR io.Reader, baiR io.Reader, opts ...Option) (*IndexedReader, error) {
	r, err := NewReader(bamR, opts...)
	if err != nil {
		return nil, err
	}
	idx, err := ReadIndex(baiR)
	if err != nil {
		return nil, err
	}
	if idx.NumRefs() != len(r.Header().Refs()) {
		vlog.Errorf("OpenIndexed: index/header reference count mismatch: index has %d, header has %d", idx.NumRefs(), len(r.Header().Refs()))
		return nil, fmt.Errorf("%w: index has %d references, header has %d", ErrIndexMismatch, idx.NumRefs(), len(r.Header().Refs()))
	}
	return &IndexedReader{r: r, idx: idx}, nil
}

// Header returns the BAM header.
func (ir *IndexedReader) Header() *sam.Header { return ir.r.Header() }

// Close closes the underlying BAM stream.
func (ir *IndexedReader) Close() error { return ir.r.Close() }

// Viewer iterates the records of a Fetch or FetchBy query. It is a state
// machine with three states: idle (before the first Next), fetching
// (stepping through chunk-restricted records), and exhausted (Next has
// returned false). Once exhausted, a Viewer never resumes: region queries
// in BAM are forward-only, matching the teacher's bam.Iterator contract.
type Viewer struct {
	it       *Iterator
	refID    int
	beg, end uint32
	pred     func(*sam.Record) bool

	rec  *sam.Record
	done bool
	err  error
}

// Fetch returns a Viewer over every record on reference refID whose
// alignment overlaps the half-open interval [beg, end). It is equivalent
// to FetchBy with a predicate that always returns true.
func (ir *IndexedReader) Fetch(refID int, beg, end uint32) (*Viewer, error) {
	return ir.FetchBy(refID, beg, end, nil)
}

// FetchBy returns a Viewer over every record on reference refID whose
// alignment overlaps [beg, end) and for which pred returns true. pred may
// be nil to select all overlapping records.
//
// The overlap check runs before pred on every candidate record, so a
// predicate is never invoked on a record FetchBy would filter out anyway;
// this makes FetchBy(refID, beg, end, pred) produce exactly the records of
// filter(pred, Fetch(refID, beg, end)) without paying pred's cost on
// records it could never keep.
func (ir *IndexedReader) FetchBy(refID int, beg, end uint32, pred func(*sam.Record) bool) (*Viewer, error) {
	chunks, err := ir.idx.Chunks(refID, beg, end)
	if err != nil {
		return nil, err
	}
	it, err := NewIterator(ir.r, chunks)
	if err != nil {
		return nil, err
	}
	return &Viewer{it: it, refID: refID, beg: beg, end: end, pred: pred}, nil
}

// Next advances the Viewer to the next matching record. It returns false
// once there are no more candidate chunks, once a record is reached whose
// position or reference proves no further record in coordinate order can
// overlap the query (ref_id no longer matches, or pos >= end), or on
// error.
func (v *Viewer) Next() bool {
	if v.done {
		return false
	}
	for v.it.Next() {
		r := v.it.Record()
		if r.RefID() != v.refID || r.Pos >= int(v.end) {
			v.done = true
			return false
		}
		if r.End() <= int(v.beg) {
			continue
		}
		if v.pred != nil && !v.pred(r) {
			continue
		}
		v.rec = r
		return true
	}
	v.done = true
	v.err = v.it.Error()
	return false
}

// Error returns the first non-EOF error encountered while fetching.
func (v *Viewer) Error() error {
	if errors.Is(v.err, io.EOF) {
		return nil
	}
	return v.err
}

// Record returns the record most recently selected by Next.
func (v *Viewer) Record() *sam.Record { return v.rec }

// Close releases the Viewer's underlying Iterator.
func (v *Viewer) Close() error {
	v.done = true
	return v.it.Close()
}
