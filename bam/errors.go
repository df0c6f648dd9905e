// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"errors"

	"github.com/Schaudge/htsbam/bgzf"
)

// Sentinel errors returned by this package. Callers should use errors.Is,
// since most are wrapped with additional context via fmt.Errorf's %w.
var (
	// ErrInvalidMagic is returned when a stream's magic bytes do not match
	// "BAM\1" (header) or "BAI\1" (index).
	ErrInvalidMagic = errors.New("bam: invalid magic")

	// ErrCorruptHeader is returned when the BAM header's binary encoding
	// is internally inconsistent (negative lengths, truncated text).
	ErrCorruptHeader = errors.New("bam: corrupt header")

	// ErrTruncated is returned when a stream ends in the middle of a
	// record's payload.
	ErrTruncated = errors.New("bam: truncated record")

	// ErrInvalidCigar is returned when a record's CIGAR does not satisfy
	// the sequence-length invariant the SAM specification requires.
	ErrInvalidCigar = errors.New("bam: invalid cigar")

	// ErrCrcMismatch is returned when a BGZF block's computed CRC32 does
	// not match its trailer, and CRC checking is enabled. It is the bgzf
	// package's own sentinel, so errors.Is matches either name.
	ErrCrcMismatch = bgzf.ErrCrcMismatch

	// ErrIndexMismatch is returned when a BAI index's reference count
	// disagrees with the BAM header it is paired with.
	ErrIndexMismatch = errors.New("bam: index does not match header")

	// ErrNoMoreRecords names the clean end of a record stream. No function
	// of this package returns it: Reader.Read reports the end as io.EOF,
	// and Iterator and Viewer report it by Next returning false with a nil
	// Error.
	ErrNoMoreRecords = errors.New("bam: no more records")

	// ErrNoReference is returned when an index operation names a
	// reference id outside the index's reference dictionary.
	ErrNoReference = errors.New("bam: no such reference")
)
