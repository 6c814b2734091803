// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
)

var batchPool = &sync.Pool{
	New: func() interface{} {
		return new(leveldb.Batch)
	},
}

// AcquireBatch - an empty batch, must be given back by ReleaseBatch
func AcquireBatch() *leveldb.Batch {
	return batchPool.Get().(*leveldb.Batch)
}

// ReleaseBatch - discard the contents of a batch and recycle it
func ReleaseBatch(batch *leveldb.Batch) {
	if nil == batch {
		return
	}
	batch.Reset()
	batchPool.Put(batch)
}
