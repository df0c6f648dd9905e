// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

import "sync"

var bufPool = sync.Pool{
	New: func() interface{} { return []byte{} },
}

// resizeScratch makes *buf exactly n bytes long, reusing its backing array
// when it is already large enough and growing it with a little headroom
// otherwise, to reduce the allocation rate of the record read loop.
func resizeScratch(buf *[]byte, n int) {
	if cap(*buf) < n {
		size := (n/16 + 1) * 16
		*buf = make([]byte, n, size)
	} else {
		*buf = (*buf)[:n]
	}
}
