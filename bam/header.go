// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Schaudge/htsbam/sam"
)

var bamMagic = [4]byte{'B', 'A', 'M', 1}

// decodeHeader reads a BAM header block from r: the "BAM\1" magic, the
// free-text SAM header, and the binary reference sequence dictionary.
func decodeHeader(r io.Reader) (*sam.Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("bam: reading magic: %w", err)
	}
	if magic != bamMagic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic)
	}

	var lText int32
	if err := binary.Read(r, binary.LittleEndian, &lText); err != nil {
		return nil, fmt.Errorf("bam: reading l_text: %w", err)
	}
	if lText < 0 {
		return nil, fmt.Errorf("%w: negative l_text %d", ErrCorruptHeader, lText)
	}
	text := make([]byte, lText)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, fmt.Errorf("bam: reading header text: %w", err)
	}

	var nRef int32
	if err := binary.Read(r, binary.LittleEndian, &nRef); err != nil {
		return nil, fmt.Errorf("bam: reading n_ref: %w", err)
	}
	if nRef < 0 {
		return nil, fmt.Errorf("%w: negative n_ref %d", ErrCorruptHeader, nRef)
	}

	h := sam.NewHeader(text)
	for i := 0; i < int(nRef); i++ {
		var lName int32
		if err := binary.Read(r, binary.LittleEndian, &lName); err != nil {
			return nil, fmt.Errorf("bam: reading l_name[%d]: %w", i, err)
		}
		if lName < 1 {
			return nil, fmt.Errorf("%w: reference %d has l_name %d", ErrCorruptHeader, i, lName)
		}
		name := make([]byte, lName)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("bam: reading name[%d]: %w", i, err)
		}
		var lRef int32
		if err := binary.Read(r, binary.LittleEndian, &lRef); err != nil {
			return nil, fmt.Errorf("bam: reading l_ref[%d]: %w", i, err)
		}
		if lRef < 0 {
			return nil, fmt.Errorf("%w: reference %d has negative l_ref %d", ErrCorruptHeader, i, lRef)
		}
		if err := h.AddReference(sam.NewReference(string(name[:lName-1]), int(lRef), i)); err != nil {
			return nil, fmt.Errorf("bam: %w", err)
		}
	}
	return h, nil
}
