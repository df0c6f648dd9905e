// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/klauspost/compress/flate"
)

// bgzfEOFMarker is the canonical empty BGZF member every valid BGZF stream
// ends with.
var bgzfEOFMarker = encodeBGZFBlock(nil)

// encodeBGZFBlock deflates payload and wraps it as a single BGZF member,
// the same framing bgzf.readBlock expects: a gzip header carrying a "BC"
// extra subfield with BSIZE = total member length - 1, followed by the
// compressed payload and the standard CRC32/ISIZE trailer.
func encodeBGZFBlock(payload []byte) []byte {
	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		panic(err)
	}
	if _, err := fw.Write(payload); err != nil {
		panic(err)
	}
	if err := fw.Close(); err != nil {
		panic(err)
	}

	const headerAndExtra = 10 + 2 + 6 // gzip header + XLEN field + BC subfield
	const trailer = 8
	bsize := headerAndExtra + compressed.Len() + trailer - 1

	var buf bytes.Buffer
	buf.Write([]byte{0x1f, 0x8b, 8, 4, 0, 0, 0, 0, 0, 0xff})
	binary.Write(&buf, binary.LittleEndian, uint16(6)) // XLEN
	buf.Write([]byte{'B', 'C', 2, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(bsize))
	buf.Write(compressed.Bytes())
	binary.Write(&buf, binary.LittleEndian, crc32.ChecksumIEEE(payload))
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	return buf.Bytes()
}

// encodeBGZF concatenates a BGZF member per entry in payloads, followed by
// the EOF marker, producing a complete BGZF stream.
func encodeBGZF(payloads ...[]byte) []byte {
	var out bytes.Buffer
	for _, p := range payloads {
		out.Write(encodeBGZFBlock(p))
	}
	out.Write(bgzfEOFMarker)
	return out.Bytes()
}
