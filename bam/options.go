// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bam

// Option configures a Reader at construction time.
type Option func(*config)

type config struct {
	cacheCapacity int
	checkCRC      bool
	omit          Omit
}

func defaultConfig() config {
	return config{cacheCapacity: 0, omit: None}
}

// WithCacheCapacity sets the number of BGZF blocks the reader's seek cache
// retains. The zero value (the default) selects bgzf.DefaultCacheCapacity.
func WithCacheCapacity(n int) Option {
	return func(c *config) { c.cacheCapacity = n }
}

// WithCheckCRC enables CRC32 validation of each BGZF block decoded after
// the first. The first block is decoded by bgzf.NewReader before the
// option is applied and is not validated.
func WithCheckCRC() Option {
	return func(c *config) { c.checkCRC = true }
}

// WithOmit sets how much of each record's variable-length data is
// materialized on decode.
func WithOmit(o Omit) Option {
	return func(c *config) { c.omit = o }
}
