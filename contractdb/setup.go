// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"github.com/bitmark-inc/contractd/shard"
	"github.com/bitmark-inc/contractd/storage"
)

// Init - open all shard tables, migrating legacy data if enabled
//
// calling Init on a live data source does nothing.  On failure the
// error is logged and returned, the data source stays dead and every
// key operation reports fault.ErrNotInitialised
func (ds *DataSource) Init() error {
	ds.Lock()
	defer ds.Unlock()

	if ds.alive {
		ds.log.Debugf("%s: already initialised", ds.Name())
		return nil
	}

	ds.log.Infof("%s: initialising at: %q", ds.Name(), ds.root)

	if err := ds.open(); nil != err {
		ds.log.Errorf("%s: initialise error: %s", ds.Name(), err)
		ds.teardown()
		return err
	}

	ds.alive = true
	ds.log.Infof("%s: initialised %d shards", ds.Name(), shard.Count)
	return nil
}

// caller must hold the write lock
func (ds *DataSource) open() error {
	manager, err := storage.Open(ds.root, ds.options)
	if nil != err {
		return err
	}
	ds.manager = manager

	for i, name := range shard.TableNames(ds.domain, ds.chainID) {
		table, err := manager.CreateTable(name)
		if nil != err {
			return err
		}
		ds.shards[i] = table
	}

	// the legacy table is only ever opened by migrate
	legacyName := shard.LegacyTableName(ds.domain, ds.chainID)
	ds.status = MigrationStatus{
		LegacyPresent: manager.ExistTable(legacyName),
	}
	if ds.status.LegacyPresent {
		ds.log.Infof("%s: found legacy table: %q", ds.Name(), legacyName)
	}

	if ds.status.LegacyPresent && ds.migration.Enabled {
		return ds.migrate()
	}
	return ds.readMarker()
}

// caller must hold the write lock
func (ds *DataSource) teardown() error {
	for i := range ds.shards {
		ds.shards[i] = nil
	}
	if nil == ds.manager {
		return nil
	}
	err := ds.manager.Close()
	ds.manager = nil
	return err
}

// Close - close all tables
//
// waits for running operations to finish; the data source may be
// initialised again afterwards
func (ds *DataSource) Close() error {
	ds.Lock()
	defer ds.Unlock()

	if !ds.alive && nil == ds.manager {
		return nil
	}

	ds.alive = false
	err := ds.teardown()
	if nil != err {
		ds.log.Errorf("%s: close error: %s", ds.Name(), err)
	} else {
		ds.log.Infof("%s: closed", ds.Name())
	}
	return err
}

// Reset - waits for running operations, data is left untouched
func (ds *DataSource) Reset() error {
	ds.Lock()
	defer ds.Unlock()

	ds.log.Debugf("%s: reset", ds.Name())
	return nil
}

// IsAlive - true after a successful Init and before Close
func (ds *DataSource) IsAlive() bool {
	ds.RLock()
	defer ds.RUnlock()

	return ds.alive
}
