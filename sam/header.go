// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "fmt"

// Reference describes one entry of a BAM header's reference sequence
// dictionary: a named sequence and its length.
type Reference struct {
	id   int
	name string
	lRef int
}

// NewReference returns a Reference with the given name, length and
// dictionary index.
func NewReference(name string, length, id int) *Reference {
	return &Reference{id: id, name: name, lRef: length}
}

// ID returns the reference's index into its Header's dictionary, as given
// to NewReference, or -1 for a nil Reference.
func (r *Reference) ID() int {
	if r == nil {
		return -1
	}
	return r.id
}

// Name returns the reference's name, or "*" for a nil Reference.
func (r *Reference) Name() string {
	if r == nil {
		return "*"
	}
	return r.name
}

// Len returns the reference's length in bases.
func (r *Reference) Len() int {
	if r == nil {
		return -1
	}
	return r.lRef
}

// Header holds the parsed contents of a BAM header: free-text SAM header
// lines plus the reference sequence dictionary used to resolve RefID/Pos
// fields in alignment records.
type Header struct {
	// Text is the raw SAM header text (the "@HD"/"@SQ"/"@RG"/... lines),
	// retained verbatim since this package does not interpret it beyond
	// the binary reference dictionary that follows it in a BAM stream.
	Text []byte

	refs []*Reference
}

// NewHeader returns an empty Header with the given text.
func NewHeader(text []byte) *Header {
	return &Header{Text: append([]byte(nil), text...)}
}

// AddReference appends ref to the header's dictionary. ref's id must
// already equal the position it will occupy (the current number of
// references); AddReference does not assign it and returns an error
// otherwise.
func (h *Header) AddReference(ref *Reference) error {
	want := len(h.refs)
	if ref.id != want {
		return fmt.Errorf("sam: reference %q added at id %d, want %d", ref.name, ref.id, want)
	}
	h.refs = append(h.refs, ref)
	return nil
}

// Refs returns the header's reference dictionary, in dictionary order.
func (h *Header) Refs() []*Reference { return h.refs }

// NumRefs returns the number of entries in the reference dictionary.
func (h *Header) NumRefs() int { return len(h.refs) }

// Reference returns the dictionary entry for name, or nil if there is
// none.
func (h *Header) Reference(name string) *Reference {
	for _, r := range h.refs {
		if r.name == name {
			return r
		}
	}
	return nil
}

// RefByID returns the dictionary entry with the given id, or nil if id is
// out of range.
func (h *Header) RefByID(id int) *Reference {
	if id < 0 || id >= len(h.refs) {
		return nil
	}
	return h.refs[id]
}
