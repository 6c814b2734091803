// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/shard"
	"github.com/bitmark-inc/contractd/storage"
)

// Row - one change of an UpdateBatch
//
// a nil Value deletes the key, an empty non-nil Value stores an empty value
type Row struct {
	Key   []byte
	Value []byte
}

// Get - read the value of a key
//
// returns nil, nil if the key is absent
func (ds *DataSource) Get(key []byte) ([]byte, error) {
	if 0 == len(key) {
		return nil, fault.ErrInvalidKey
	}

	ds.RLock()
	defer ds.RUnlock()

	if !ds.alive {
		return nil, fault.ErrNotInitialised
	}

	ds.stats.gets.Increment()
	table := ds.shards[shard.Index(key)]

	value, err := table.Get(key)
	if nil == err {
		return value, nil
	}

	ds.stats.retries.Increment()
	ds.log.Warnf("%s: get key: %x  error: %s  retrying", ds.Name(), key, err)

	value, err = table.Get(key)
	if nil == err {
		return value, nil
	}

	ds.stats.failures.Increment()
	ds.log.Errorf("%s: get key: %x  error: %s", ds.Name(), key, err)

	if Propagate == ds.ErrorPolicy() {
		return nil, fault.NewIOFailure("get", 2, err)
	}
	return nil, nil
}

// Put - store a value under a key
func (ds *DataSource) Put(key []byte, value []byte) error {
	if 0 == len(key) {
		return fault.ErrInvalidKey
	}

	ds.RLock()
	defer ds.RUnlock()

	if !ds.alive {
		return fault.ErrNotInitialised
	}

	ds.stats.puts.Increment()
	err := ds.shards[shard.Index(key)].Put(key, value)
	return ds.writeFailed("put", key, err)
}

// Delete - remove a key, absent keys are not an error
func (ds *DataSource) Delete(key []byte) error {
	if 0 == len(key) {
		return fault.ErrInvalidKey
	}

	ds.RLock()
	defer ds.RUnlock()

	if !ds.alive {
		return fault.ErrNotInitialised
	}

	ds.stats.deletes.Increment()
	err := ds.shards[shard.Index(key)].Delete(key)
	return ds.writeFailed("delete", key, err)
}

func (ds *DataSource) writeFailed(operation string, key []byte, err error) error {
	if nil == err {
		return nil
	}

	ds.stats.failures.Increment()
	ds.log.Errorf("%s: %s key: %x  error: %s", ds.Name(), operation, key, err)

	if Propagate == ds.ErrorPolicy() {
		return fault.NewIOFailure(operation, 1, err)
	}
	return nil
}

// UpdateBatch - apply a set of puts and deletes
//
// rows are grouped into one batch per shard and the batches are
// written in ascending shard order.  If any write fails the whole
// sequence is rebuilt and written once more; a second failure is
// returned as a permanent *fault.IOFailure.  Later rows win over
// earlier rows with the same key
func (ds *DataSource) UpdateBatch(rows []Row) error {
	for _, row := range rows {
		if 0 == len(row.Key) {
			return fault.ErrInvalidKey
		}
	}

	ds.RLock()
	defer ds.RUnlock()

	if !ds.alive {
		return fault.ErrNotInitialised
	}
	if 0 == len(rows) {
		return nil
	}

	ds.stats.batches.Increment()

	keys := make([][]byte, len(rows))
	for i, row := range rows {
		keys[i] = row.Key
	}
	groups := shard.Group(keys)
	indexes := shard.Indexes(groups)

	err := ds.commit(rows, groups, indexes)
	if nil == err {
		return nil
	}

	ds.stats.retries.Increment()
	ds.log.Warnf("%s: update batch of: %d rows  error: %s  retrying", ds.Name(), len(rows), err)

	err = ds.commit(rows, groups, indexes)
	if nil == err {
		return nil
	}

	ds.stats.failures.Increment()
	ds.log.Errorf("%s: update batch of: %d rows  error: %s", ds.Name(), len(rows), err)
	return fault.NewIOFailure("update batch", 2, err)
}

// build every shard batch, then write them in order
func (ds *DataSource) commit(rows []Row, groups map[int][]int, indexes []int) error {
	batches := make([]*leveldb.Batch, 0, len(indexes))
	defer func() {
		for _, batch := range batches {
			storage.ReleaseBatch(batch)
		}
	}()

	for _, n := range indexes {
		batch := storage.AcquireBatch()
		batches = append(batches, batch)

		for _, i := range groups[n] {
			if nil == rows[i].Value {
				batch.Delete(rows[i].Key)
			} else {
				batch.Put(rows[i].Key, rows[i].Value)
			}
		}
	}

	for i, n := range indexes {
		if err := ds.shards[n].Write(batches[i]); nil != err {
			return err
		}
	}
	return nil
}

// PrefixLookup - not available on sharded contract state
func (ds *DataSource) PrefixLookup(key []byte, prefixBytes int) ([]byte, error) {
	return nil, fault.ErrPrefixLookupNotSupported
}

// Keys - not available on sharded contract state
func (ds *DataSource) Keys() ([][]byte, error) {
	return nil, fault.ErrKeysNotSupported
}

// Flush - writes are durable on return, nothing to flush
func (ds *DataSource) Flush() bool {
	return false
}
