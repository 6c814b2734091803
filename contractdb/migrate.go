// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/ratelimit"
	"github.com/bitmark-inc/contractd/shard"
	"github.com/bitmark-inc/contractd/storage"
	"github.com/bitmark-inc/contractd/util"
)

const (
	markerSuffix = "migration"
)

var markerKey = []byte("done")

// MigrationStatus - state of the legacy table copy
type MigrationStatus struct {
	LegacyPresent bool      `json:"legacyPresent"`
	Completed     bool      `json:"completed"`
	Copied        uint64    `json:"copied"`
	Skipped       uint64    `json:"skipped"`
	Finished      time.Time `json:"finished"`
}

// Migration - status as of the last Init or MigrateLegacy
func (ds *DataSource) Migration() MigrationStatus {
	ds.RLock()
	defer ds.RUnlock()

	return ds.status
}

// MigrateLegacy - copy the legacy table into the shard tables
//
// for use when automatic migration is disabled; a migration that
// has already completed is not repeated
func (ds *DataSource) MigrateLegacy() error {
	ds.Lock()
	defer ds.Unlock()

	if !ds.alive {
		return fault.ErrNotInitialised
	}
	if !ds.status.LegacyPresent {
		ds.log.Infof("%s: no legacy table", ds.Name())
		return nil
	}
	return ds.migrate()
}

func (ds *DataSource) markerName() string {
	return shard.Prefix(ds.domain, ds.chainID) + markerSuffix
}

// caller must hold the write lock
func (ds *DataSource) migrate() error {
	markerName := ds.markerName()
	marker, err := ds.manager.CreateTable(markerName)
	if nil != err {
		return err
	}
	defer ds.closeTable(markerName)

	completed, err := ds.loadMarker(marker)
	if nil != err {
		return err
	}
	if completed {
		ds.log.Infof("%s: migration completed at: %s  copied: %d  skipped: %d",
			ds.Name(), ds.status.Finished.Format(time.RFC3339), ds.status.Copied, ds.status.Skipped)
		return nil
	}

	legacyName := shard.LegacyTableName(ds.domain, ds.chainID)
	legacy, err := ds.manager.OpenTable(legacyName)
	if nil != err {
		return err
	}
	defer ds.closeTable(legacyName)

	ds.log.Infof("%s: migrating: %q", ds.Name(), legacyName)

	limiter := ratelimit.New(ds.migration.Rate, migrationBatchSize)
	cursor := storage.NewFetchCursor(legacy)
	copied := uint64(0)
	skipped := uint64(0)

sweep:
	for {
		elements, err := cursor.Fetch(migrationBatchSize)
		if nil != err {
			return err
		}
		if 0 == len(elements) {
			break sweep
		}

		n, s, err := ds.copyElements(elements, limiter)
		if nil != err {
			return err
		}
		copied += n
		skipped += s
		ds.log.Debugf("%s: migrated: %d  skipped: %d", ds.Name(), copied, skipped)
	}

	finished := time.Now().UTC()
	record := util.PackVarint64s(copied, skipped, uint64(finished.Unix()))
	if err := marker.Put(markerKey, record); nil != err {
		return err
	}

	ds.status.Completed = true
	ds.status.Copied = copied
	ds.status.Skipped = skipped
	ds.status.Finished = time.Unix(finished.Unix(), 0).UTC()

	ds.log.Infof("%s: migration finished  copied: %d  skipped: %d", ds.Name(), copied, skipped)
	return nil
}

// write one sweep of legacy rows, returns copied and skipped counts
func (ds *DataSource) copyElements(elements []storage.Element, limiter *rate.Limiter) (uint64, uint64, error) {
	keys := make([][]byte, len(elements))
	for i, e := range elements {
		keys[i] = e.Key
	}
	groups := shard.Group(keys)

	copied := uint64(0)
	skipped := uint64(0)
	for _, n := range shard.Indexes(groups) {
		table := ds.shards[n]

		batch := storage.AcquireBatch()
		for _, i := range groups[n] {
			e := elements[i]
			if ds.migration.SkipExisting {
				exists, err := table.Has(e.Key)
				if nil != err {
					storage.ReleaseBatch(batch)
					return copied, skipped, err
				}
				if exists {
					skipped += 1
					continue
				}
			}
			batch.Put(e.Key, e.Value)
		}

		count := batch.Len()
		err := table.Write(batch)
		storage.ReleaseBatch(batch)
		if nil != err {
			return copied, skipped, err
		}
		copied += uint64(count)
		ratelimit.LimitN(limiter, count)
	}
	return copied, skipped, nil
}

// set status from the marker table if it exists, without creating it
//
// caller must hold the write lock
func (ds *DataSource) readMarker() error {
	markerName := ds.markerName()
	if !ds.manager.ExistTable(markerName) {
		return nil
	}

	marker, err := ds.manager.OpenTable(markerName)
	if nil != err {
		return err
	}
	defer ds.closeTable(markerName)

	_, err = ds.loadMarker(marker)
	return err
}

// close a table that is only needed during migration
func (ds *DataSource) closeTable(name string) error {
	err := ds.manager.CloseTable(name)
	if nil != err {
		ds.log.Errorf("%s: close table: %q  error: %s", ds.Name(), name, err)
	}
	return err
}

func (ds *DataSource) loadMarker(marker storage.Table) (bool, error) {
	record, err := marker.Get(markerKey)
	if nil != err {
		return false, err
	}
	if nil == record {
		return false, nil
	}

	values, n := util.UnpackVarint64s(record, 3)
	if 0 == n {
		ds.log.Errorf("%s: migration marker: %x  error: %s", ds.Name(), record, fault.ErrRecordTruncated)
		return false, fault.ErrRecordTruncated
	}

	ds.status.Completed = true
	ds.status.Copied = values[0]
	ds.status.Skipped = values[1]
	ds.status.Finished = time.Unix(int64(values[2]), 0).UTC()
	return true, nil
}
