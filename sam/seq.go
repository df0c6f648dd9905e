// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Doublet is a nybble-encoded pair of nucleotide bases, BAM's on-disk
// packing of SEQ.
type Doublet byte

// Seq is a BAM-packed nucleotide sequence: two 4-bit bases per byte, in
// the order BAM stores them (high nybble first).
type Seq struct {
	Length int
	Seq    []Doublet
}

// SeqBase is BAM's 4-bit encoding of a nucleotide. See section 4.2 of the
// SAM specification.
type SeqBase byte

const (
	BaseEq SeqBase = 0
	BaseA  SeqBase = 1
	BaseC  SeqBase = 2
	BaseM  SeqBase = 3
	BaseG  SeqBase = 4
	BaseR  SeqBase = 5
	BaseS  SeqBase = 6
	BaseV  SeqBase = 7
	BaseT  SeqBase = 8
	BaseW  SeqBase = 9
	BaseY  SeqBase = 10
	BaseH  SeqBase = 11
	BaseK  SeqBase = 12
	BaseD  SeqBase = 13
	BaseB  SeqBase = 14
	BaseN  SeqBase = 15

	// NumSeqBaseTypes is the number of distinct SeqBase values.
	NumSeqBaseTypes = 16
)

var baseToChar = [NumSeqBaseTypes]byte{
	'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N',
}

var charToBase [256]SeqBase

func init() {
	for i := range charToBase {
		charToBase[i] = BaseN
	}
	for b, c := range baseToChar {
		charToBase[c] = SeqBase(b)
		charToBase[lower(c)] = SeqBase(b)
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// CharToSeqBase returns the SeqBase encoding of an IUPAC nucleotide
// character.
func CharToSeqBase(char byte) SeqBase { return charToBase[char] }

// Char converts a SeqBase to its IUPAC character, e.g. BaseA.Char() ==
// 'A'.
func (b SeqBase) Char() byte { return baseToChar[b&0xf] }

// NewSeq packs s, a slice of IUPAC nucleotide characters, into a Seq.
func NewSeq(s []byte) Seq {
	return Seq{Length: len(s), Seq: pack(s)}
}

func pack(s []byte) []Doublet {
	packed := make([]Doublet, (len(s)+1)/2)
	for i, c := range s {
		b := Doublet(CharToSeqBase(c))
		if i&1 == 0 {
			packed[i/2] = b << 4
		} else {
			packed[i/2] |= b
		}
	}
	return packed
}

// Base returns the pos'th base of the sequence.
//
// Requires 0 <= pos < ns.Length.
func (ns Seq) Base(pos int) SeqBase {
	d := ns.Seq[pos/2]
	if pos&1 == 0 {
		return SeqBase(d >> 4)
	}
	return SeqBase(d & 0xf)
}

// BaseChar returns the pos'th base as an IUPAC character.
//
// Requires 0 <= pos < ns.Length.
func (ns Seq) BaseChar(pos int) byte { return ns.Base(pos).Char() }

// Expand unpacks the sequence into one IUPAC character per base.
func (ns Seq) Expand() []byte {
	out := make([]byte, ns.Length)
	for i := range out {
		out[i] = ns.BaseChar(i)
	}
	return out
}

// Equal reports whether ns and other encode the same bases.
func (ns Seq) Equal(other Seq) bool {
	if ns.Length != other.Length {
		return false
	}
	for i := range ns.Seq {
		if ns.Seq[i] != other.Seq[i] {
			return false
		}
	}
	return true
}
