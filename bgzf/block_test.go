// Copyright ©2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"bytes"
	"io"
	"testing"

	check "gopkg.in/check.v1"
)

func (s *S) TestBsizeFromExtra(c *check.C) {
	extra := []byte{'B', 'C', 2, 0, 0x62, 0x00}
	bsize, ok := bsizeFromExtra(extra)
	c.Assert(ok, check.Equals, true)
	c.Check(bsize, check.Equals, 0x62)
}

func (s *S) TestBsizeFromExtraMissing(c *check.C) {
	_, ok := bsizeFromExtra([]byte{'X', 'Y', 2, 0, 0, 0})
	c.Check(ok, check.Equals, false)
}

func (s *S) TestCheckCRCDetectsCorruption(c *check.C) {
	corrupt := append([]byte(nil), conceptualBAMdata...)
	// Flip a byte inside the compressed payload of the record block
	// (starts at offset 101+18) without touching its trailer, so the
	// stream still inflates but to different bytes than the CRC expects.
	corrupt[101+20] ^= 0xff

	r, err := NewReader(bytes.NewReader(corrupt), 0)
	if err != nil {
		// A flipped compressed byte can also break inflate outright,
		// which is an acceptable failure mode too.
		return
	}
	r.SetCheckCRC(true)
	// Seek decodes the record block, so the corruption may be reported
	// there or by the read that follows.
	err = r.Seek(Offset{File: 101, Block: 0})
	if err == nil {
		_, err = io.ReadFull(r, make([]byte, 98))
	}
	c.Check(err, check.Not(check.Equals), nil)
}
