// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// Table - a single physical key/value table
//
// per-key operations are safe for concurrent use; Close is not safe
// to run concurrently with them, callers must fence it
type Table interface {
	Name() string
	Get([]byte) ([]byte, error)
	Has([]byte) (bool, error)
	Put([]byte, []byte) error
	Delete([]byte) error
	Write(*leveldb.Batch) error
	NewIterator(*ldb_util.Range) iterator.Iterator
	Close() error
	IsClosed() bool
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}
