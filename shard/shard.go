// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bitmark-inc/contractd/chain"
)

// Count - number of shards per chain
const Count = 129

// Separator - between the parts of a table name
const Separator = "_"

// Index - shard of a key
//
// an empty key is placed in shard zero
func Index(key []byte) int {
	if 0 == len(key) {
		return 0
	}
	n := int(int8(key[0]))
	if n < 0 {
		return -n
	}
	return n
}

// Group - positions of keys in each shard
//
// positions within a shard keep their input order
func Group(keys [][]byte) map[int][]int {
	groups := make(map[int][]int)
	for i, key := range keys {
		n := Index(key)
		groups[n] = append(groups[n], i)
	}
	return groups
}

// Indexes - the shards of a group in ascending order
func Indexes(groups map[int][]int) []int {
	indexes := make([]int, 0, len(groups))
	for n := range groups {
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)
	return indexes
}

// Prefix - common start of all shard table names of a chain
func Prefix(domain string, chainID chain.ID) string {
	return LegacyTableName(domain, chainID) + Separator
}

// TableName - name of one shard table
func TableName(domain string, chainID chain.ID, index int) string {
	return Prefix(domain, chainID) + strconv.Itoa(index)
}

// LegacyTableName - name of the pre-sharding table of a chain
func LegacyTableName(domain string, chainID chain.ID) string {
	return domain + Separator + chainID.String()
}

// TableNames - all shard table names of a chain in index order
func TableNames(domain string, chainID chain.ID) []string {
	names := make([]string, Count)
	for i := 0; i < Count; i += 1 {
		names[i] = TableName(domain, chainID, i)
	}
	return names
}

// ParseTableName - split a shard table name
//
// returns false if name is not a shard table of domain
func ParseTableName(domain string, name string) (chain.ID, int, bool) {
	if !strings.HasPrefix(name, domain+Separator) {
		return 0, 0, false
	}
	parts := strings.Split(strings.TrimPrefix(name, domain+Separator), Separator)
	if 2 != len(parts) {
		return 0, 0, false
	}
	id, err := strconv.ParseUint(parts[0], 10, 32)
	if nil != err || !chain.Valid(chain.ID(id)) {
		return 0, 0, false
	}
	index, err := strconv.Atoi(parts[1])
	if nil != err || index < 0 || index >= Count {
		return 0, 0, false
	}
	return chain.ID(id), index, true
}
