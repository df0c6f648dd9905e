// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Flags represent the SAM/BAM FLAG field: a bit set describing how a
// record relates to its read pair and to the alignment process.
type Flags uint16

const (
	Paired        Flags = 1 << iota // The read is paired in sequencing, no matter whether it is mapped in a pair.
	ProperPair                      // The read is mapped in a proper pair.
	Unmapped                        // The read itself is unmapped; conflictive with ProperPair.
	MateUnmapped                    // The mate is unmapped.
	Reverse                         // The read is mapped to the reverse strand.
	MateReverse                     // The mate is mapped to the reverse strand.
	Read1                           // This is read1.
	Read2                           // This is read2.
	Secondary                       // Not a primary alignment.
	QCFail                          // QC failure.
	Duplicate                       // Optical or PCR duplicate.
	Supplementary                   // Supplementary alignment, such as a chimeric split.
)

// String returns the abbreviated textual representation of f, using one
// letter per set bit in positional order, matching the samtools flagstat
// convention.
func (f Flags) String() string {
	const letters = "pPuUrR12sfdS"
	if f&Paired == 0 {
		f &^= ProperPair | MateUnmapped | MateReverse | Read1 | Read2
	}
	b := make([]byte, 0, len(letters))
	for i, c := range letters {
		if f&(1<<uint(i)) != 0 {
			b = append(b, byte(c))
		}
	}
	return string(b)
}

// IsPaired returns whether the read is one of a pair.
func (f Flags) IsPaired() bool { return f&Paired != 0 }

// IsUnmapped returns whether the read itself did not align to any
// reference.
func (f Flags) IsUnmapped() bool { return f&Unmapped != 0 }

// IsMateUnmapped returns whether the read's mate did not align.
func (f Flags) IsMateUnmapped() bool { return f&MateUnmapped != 0 }

// IsReverse returns whether the read aligned to the reverse strand.
func (f Flags) IsReverse() bool { return f&Reverse != 0 }

// IsSecondary returns whether this is a secondary alignment.
func (f Flags) IsSecondary() bool { return f&Secondary != 0 }

// IsSupplementary returns whether this is a supplementary (chimeric part)
// alignment.
func (f Flags) IsSupplementary() bool { return f&Supplementary != 0 }

// IsDuplicate returns whether the read is flagged as an optical or PCR
// duplicate.
func (f Flags) IsDuplicate() bool { return f&Duplicate != 0 }
