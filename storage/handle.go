// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/contractd/fault"
)

// TableHandle - one open LevelDB table
type TableHandle struct {
	name     string
	database *leveldb.DB
	closed   int32
}

func newTableHandle(name string, db *leveldb.DB) *TableHandle {
	return &TableHandle{
		name:     name,
		database: db,
	}
}

// Name - the table name
func (t *TableHandle) Name() string {
	return t.name
}

// Get - read a value for a given key
//
// returns nil, nil if the key is not present
func (t *TableHandle) Get(key []byte) ([]byte, error) {
	if t.IsClosed() {
		return nil, fault.ErrTableClosed
	}
	value, err := t.database.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	return value, nil
}

// Has - check if a key exists
func (t *TableHandle) Has(key []byte) (bool, error) {
	if t.IsClosed() {
		return false, fault.ErrTableClosed
	}
	return t.database.Has(key, nil)
}

// Put - store a key/value bytes pair to the table
func (t *TableHandle) Put(key []byte, value []byte) error {
	if t.IsClosed() {
		return fault.ErrTableClosed
	}
	return t.database.Put(key, value, nil)
}

// Delete - remove a key from the table
func (t *TableHandle) Delete(key []byte) error {
	if t.IsClosed() {
		return fault.ErrTableClosed
	}
	return t.database.Delete(key, nil)
}

// Write - apply a batch atomically
func (t *TableHandle) Write(batch *leveldb.Batch) error {
	if t.IsClosed() {
		return fault.ErrTableClosed
	}
	return t.database.Write(batch, nil)
}

// NewIterator - iterate over a key range, nil for the whole table
//
// the caller must Release the iterator
func (t *TableHandle) NewIterator(searchRange *ldb_util.Range) iterator.Iterator {
	return t.database.NewIterator(searchRange, nil)
}

// Close - close the underlying database
//
// closing twice is not an error
func (t *TableHandle) Close() error {
	if !atomic.CompareAndSwapInt32(&t.closed, 0, 1) {
		return nil
	}
	return t.database.Close()
}

// IsClosed - true after Close
func (t *TableHandle) IsClosed() bool {
	return 0 != atomic.LoadInt32(&t.closed)
}
