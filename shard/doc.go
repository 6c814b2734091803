// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package shard - map contract state keys onto shard tables
//
// The shard of a key depends only on its first byte:
//
//   index = abs(int8(key[0]))
//
// which ranges over 0..128, giving Count = 129 shards.  Both the
// function and the count are part of the on-disk format: changing
// either silently moves existing keys to a different table.
//
// Table names:
//
//   <domain>_<chainId>_<index>   - shard table
//   <domain>_<chainId>           - legacy unsharded table
package shard
