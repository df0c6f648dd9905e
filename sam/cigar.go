// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"fmt"
)

// CigarOpType represents the operation type of a CIGAR element.
type CigarOpType byte

// CIGAR operation types, in BAM's 4-bit encoding order.
const (
	CigarMatch CigarOpType = iota
	CigarInsertion
	CigarDeletion
	CigarSkipped
	CigarSoftClipped
	CigarHardClipped
	CigarPadded
	CigarEqual
	CigarMismatch
	CigarBack // rarely used, retained for completeness of the 4-bit space
)

var cigarOpCodes = [...]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X', 'B'}

// Consumption reports how many bases of the reference and of the query an
// operation of a given type advances.
type Consumption struct {
	Reference int
	Query     int
}

var cigarConsumption = [...]Consumption{
	CigarMatch:       {1, 1},
	CigarInsertion:   {0, 1},
	CigarDeletion:    {1, 0},
	CigarSkipped:     {1, 0},
	CigarSoftClipped: {0, 1},
	CigarHardClipped: {0, 0},
	CigarPadded:      {0, 0},
	CigarEqual:       {1, 1},
	CigarMismatch:    {1, 1},
	CigarBack:        {0, 0},
}

// Consumes returns the reference/query consumption of the operation type.
func (t CigarOpType) Consumes() Consumption { return cigarConsumption[t] }

// String returns the single-letter CIGAR code for the operation type.
func (t CigarOpType) String() string { return string(cigarOpCodes[t]) }

// CigarOp is a single length-tagged CIGAR operation, packed the way BAM
// stores it: the low 4 bits hold the operation type and the upper 28 bits
// hold its length.
type CigarOp uint32

// NewCigarOp returns a CigarOp of the given type and length.
func NewCigarOp(t CigarOpType, length int) CigarOp {
	return CigarOp(length)<<4 | CigarOp(t)
}

// Type returns the operation's type.
func (co CigarOp) Type() CigarOpType { return CigarOpType(co & 0xf) }

// Len returns the operation's length.
func (co CigarOp) Len() int { return int(co >> 4) }

// String returns the operation in SAM text form, e.g. "35M".
func (co CigarOp) String() string { return fmt.Sprintf("%d%s", co.Len(), co.Type()) }

// Cigar is an alignment's list of CIGAR operations, in left-to-right
// (reference-coordinate-increasing) order.
type Cigar []CigarOp

// String returns the concatenated SAM text form of the CIGAR, or "*" if it
// is empty.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var buf bytes.Buffer
	for _, op := range c {
		buf.WriteString(op.String())
	}
	return buf.String()
}

// Len returns the total query length consumed by the CIGAR.
func (c Cigar) Len() int {
	var n int
	for _, op := range c {
		n += op.Len() * op.Type().Consumes().Query
	}
	return n
}

// RefLen returns the total reference length consumed by the CIGAR.
func (c Cigar) RefLen() int {
	var n int
	for _, op := range c {
		n += op.Len() * op.Type().Consumes().Reference
	}
	return n
}

// IsValid returns whether the CIGAR's total query consumption equals
// seqLen, the rule BAM enforces between a record's CIGAR and its SEQ
// length whenever both are present. An empty CIGAR, or a seqLen of 0 (SEQ
// absent), is always valid.
func (c Cigar) IsValid(seqLen int) bool {
	return len(c) == 0 || seqLen == 0 || c.Len() == seqLen
}

// Equal reports whether c and other contain the same operations in the
// same order.
func (c Cigar) Equal(other Cigar) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}
