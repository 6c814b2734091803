// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"github.com/bitmark-inc/contractd/counter"
)

type statistics struct {
	gets     counter.Counter
	puts     counter.Counter
	deletes  counter.Counter
	batches  counter.Counter
	retries  counter.Counter
	failures counter.Counter
}

// Stats - operation counts
type Stats struct {
	Gets     uint64 `json:"gets"`
	Puts     uint64 `json:"puts"`
	Deletes  uint64 `json:"deletes"`
	Batches  uint64 `json:"batches"`
	Retries  uint64 `json:"retries"`
	Failures uint64 `json:"failures"`
}

// Stats - totals since creation
func (ds *DataSource) Stats() Stats {
	return Stats{
		Gets:     ds.stats.gets.Uint64(),
		Puts:     ds.stats.puts.Uint64(),
		Deletes:  ds.stats.deletes.Uint64(),
		Batches:  ds.stats.batches.Uint64(),
		Retries:  ds.stats.retries.Uint64(),
		Failures: ds.stats.failures.Uint64(),
	}
}

// StatsSince - counts after a previous reading
//
// previous is updated to the current totals
func (ds *DataSource) StatsSince(previous *Stats) Stats {
	return Stats{
		Gets:     ds.stats.gets.Since(&previous.Gets),
		Puts:     ds.stats.puts.Since(&previous.Puts),
		Deletes:  ds.stats.deletes.Since(&previous.Deletes),
		Batches:  ds.stats.batches.Since(&previous.Batches),
		Retries:  ds.stats.retries.Since(&previous.Retries),
		Failures: ds.stats.failures.Since(&previous.Failures),
	}
}

// IsZero - no operations counted
func (s Stats) IsZero() bool {
	return 0 == s.Gets+s.Puts+s.Deletes+s.Batches+s.Retries+s.Failures
}
