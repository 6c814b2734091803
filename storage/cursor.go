// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/contractd/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	table    Table
	maxRange ldb_util.Range
}

// NewFetchCursor - initialise a cursor to the start of a table
func NewFetchCursor(table Table) *FetchCursor {
	return &FetchCursor{
		table: table,
	}
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = copyBytes(key)
	return cursor
}

// Fetch - return up to count elements from the cursor position
// and advance the cursor past the last one returned
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor || nil == cursor.table {
		return nil, fault.ErrTableNotFound
	}
	if count <= 0 {
		return nil, nil
	}

	iter := cursor.table.NewIterator(&cursor.maxRange)

	results := make([]Element, 0, count)
iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		results = append(results, Element{
			Key:   copyBytes(iter.Key()),
			Value: copyBytes(iter.Value()),
		})
		if len(results) >= count {
			break iterating
		}
	}
	iter.Release()
	err := iter.Error()

	if n := len(results); n > 0 {
		// smallest key greater than the last one
		last := results[n-1].Key
		next := make([]byte, len(last)+1)
		copy(next, last)
		cursor.maxRange.Start = next
	}
	return results, err
}

func copyBytes(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
