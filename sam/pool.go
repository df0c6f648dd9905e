// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"sync"
	"sync/atomic"

	"v.io/x/lib/vlog"
)

var recordPool = sync.Pool{
	New: func() interface{} { return new(Record) },
}

var nPoolWarnings int32

// GetFromFreePool returns a zeroed Record from the package's shared pool,
// avoiding an allocation on the hot decode path.
func GetFromFreePool() *Record {
	r := recordPool.Get().(*Record)
	*r = Record{}
	return r
}

// PutInFreePool returns r to the shared pool. The caller must not retain
// any reference to r afterward.
func PutInFreePool(r *Record) {
	if r == nil {
		if atomic.AddInt32(&nPoolWarnings, 1) < 2 {
			vlog.Errorf("PutInFreePool: called with a nil Record; caller likely double-freed or never got a Record from GetFromFreePool")
		}
		return
	}
	recordPool.Put(r)
}
