// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"math"

	"github.com/syndtr/goleveldb/leveldb/filter"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
)

// sizes
const (
	KiB = 1024
	MiB = 1024 * KiB
)

// Options - engine tuning applied to every table opened by a Manager
type Options struct {
	CreateIfMissing          bool `gluamapper:"create_if_missing" json:"create_if_missing"`
	Compression              bool `gluamapper:"compression" json:"compression"`
	MmapReads                bool `gluamapper:"mmap_reads" json:"mmap_reads"`
	MaxOpenFiles             int  `gluamapper:"max_open_files" json:"max_open_files"`
	BlockCacheSize           int  `gluamapper:"block_cache_size" json:"block_cache_size"`
	PinIndexAndFilter        bool `gluamapper:"pin_index_and_filter" json:"pin_index_and_filter"`
	BlockSize                int  `gluamapper:"block_size" json:"block_size"`
	BlockRestartInterval     int  `gluamapper:"block_restart_interval" json:"block_restart_interval"`
	BloomBitsPerKey          int  `gluamapper:"bloom_bits_per_key" json:"bloom_bits_per_key"`
	BloomBlockBased          bool `gluamapper:"bloom_block_based" json:"bloom_block_based"`
	MaxBackgroundCompactions int  `gluamapper:"max_background_compactions" json:"max_background_compactions"`
	CompactionReadahead      int  `gluamapper:"compaction_readahead" json:"compaction_readahead"`
	WriteBufferSize          int  `gluamapper:"write_buffer_size" json:"write_buffer_size"`
}

// DefaultOptions - the contract state tuning
func DefaultOptions() Options {
	return Options{
		CreateIfMissing:          true,
		Compression:              false,
		MmapReads:                true,
		MaxOpenFiles:             -1,
		BlockCacheSize:           32 * MiB,
		PinIndexAndFilter:        true,
		BlockSize:                16 * KiB,
		BlockRestartInterval:     4,
		BloomBitsPerKey:          100,
		BloomBlockBased:          true,
		MaxBackgroundCompactions: 6,
		CompactionReadahead:      128 * KiB,
		WriteBufferSize:          4 * MiB,
	}
}

// convert to LevelDB options
//
// a negative MaxOpenFiles means no limit on cached table files
func (o Options) leveldb() *ldb_opt.Options {
	compression := ldb_opt.NoCompression
	if o.Compression {
		compression = ldb_opt.SnappyCompression
	}

	openFiles := o.MaxOpenFiles
	if openFiles < 0 {
		openFiles = math.MaxInt32
	}

	result := &ldb_opt.Options{
		ErrorIfExist:           false,
		ErrorIfMissing:         !o.CreateIfMissing,
		Compression:            compression,
		OpenFilesCacheCapacity: openFiles,
		BlockCacheCapacity:     o.BlockCacheSize,
		BlockSize:              o.BlockSize,
		BlockRestartInterval:   o.BlockRestartInterval,
		WriteBuffer:            o.WriteBufferSize,
	}
	if o.BloomBitsPerKey > 0 {
		result.Filter = filter.NewBloomFilter(o.BloomBitsPerKey)
	}
	return result
}

// Unsupported - names of the settings that LevelDB has no control for
//
// these are kept so that configuration files stay portable, they
// have no effect on the tables
func (o Options) Unsupported() []string {
	names := []string{}
	if o.MmapReads {
		names = append(names, "mmap_reads")
	}
	if o.PinIndexAndFilter {
		names = append(names, "pin_index_and_filter")
	}
	if !o.BloomBlockBased {
		names = append(names, "bloom_block_based")
	}
	if o.MaxBackgroundCompactions > 1 {
		names = append(names, "max_background_compactions")
	}
	if o.CompactionReadahead > 0 {
		names = append(names, "compaction_readahead")
	}
	return names
}
