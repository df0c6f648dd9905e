// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "testing"

func TestCigarOpPacking(t *testing.T) {
	op := NewCigarOp(CigarDeletion, 12345)
	if got := op.Type(); got != CigarDeletion {
		t.Errorf("Type() = %v, want %v", got, CigarDeletion)
	}
	if got := op.Len(); got != 12345 {
		t.Errorf("Len() = %d, want 12345", got)
	}
}

func TestCigarRefLenCountsOnlyReferenceConsumingOps(t *testing.T) {
	c := Cigar{
		NewCigarOp(CigarSoftClipped, 5),
		NewCigarOp(CigarMatch, 10),
		NewCigarOp(CigarInsertion, 2),
		NewCigarOp(CigarDeletion, 3),
		NewCigarOp(CigarSoftClipped, 5),
	}
	if got, want := c.RefLen(), 13; got != want {
		t.Errorf("RefLen() = %d, want %d", got, want)
	}
	if got, want := c.Len(), 22; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestCigarIsValid(t *testing.T) {
	c := Cigar{NewCigarOp(CigarMatch, 4)}
	if !c.IsValid(4) {
		t.Error("expected a 4M cigar to be valid for a 4 base sequence")
	}
	if c.IsValid(5) {
		t.Error("expected a 4M cigar to be invalid for a 5 base sequence")
	}
	if empty := (Cigar{}); !empty.IsValid(100) {
		t.Error("expected an empty cigar to be valid regardless of sequence length")
	}
}

func TestCigarEqual(t *testing.T) {
	a := Cigar{NewCigarOp(CigarMatch, 4), NewCigarOp(CigarDeletion, 1)}
	b := Cigar{NewCigarOp(CigarMatch, 4), NewCigarOp(CigarDeletion, 1)}
	c := Cigar{NewCigarOp(CigarMatch, 5)}
	if !a.Equal(b) {
		t.Error("expected identical cigars to be equal")
	}
	if a.Equal(c) {
		t.Error("expected differing cigars to be unequal")
	}
}
