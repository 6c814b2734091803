// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/contractd/chain"
	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/shard"
)

func TestNewValidation(t *testing.T) {
	configuration := DefaultConfiguration("somewhere")

	_, err := New(chain.ID(0), configuration)
	assert.Equal(t, fault.ErrInvalidChainID, err, "zero chain id")

	_, err = New(testChain, nil)
	assert.Equal(t, fault.ErrMissingDataDirectory, err, "nil configuration")

	_, err = New(testChain, &Configuration{})
	assert.Equal(t, fault.ErrMissingDataDirectory, err, "empty data directory")

	configuration.ErrorPolicy = "ignore"
	_, err = New(testChain, configuration)
	assert.Equal(t, fault.ErrInvalidErrorPolicy, err, "bad policy")

	configuration.ErrorPolicy = ""
	configuration.Domain = ""
	ds, err := New(testChain, configuration)
	assert.Nil(t, err, "new error")
	assert.Equal(t, "contract_2", ds.Name(), "wrong name")
	assert.Equal(t, testChain, ds.ChainID(), "wrong chain")
	assert.Equal(t, Swallow, ds.ErrorPolicy(), "wrong default policy")
	assert.False(t, ds.IsAlive(), "alive before init")
}

func TestRootPath(t *testing.T) {
	configuration := DefaultConfiguration("/var/lib/node")
	assert.Equal(t, "/var/lib/node/smart-contract/contracts", configuration.RootPath())
}

func TestParseErrorPolicy(t *testing.T) {
	items := []struct {
		text   string
		policy ErrorPolicy
		err    error
	}{
		{"", Swallow, nil},
		{"swallow", Swallow, nil},
		{" Propagate ", Propagate, nil},
		{"PROPAGATE", Propagate, nil},
		{"raise", Swallow, fault.ErrInvalidErrorPolicy},
	}

	for i, item := range items {
		policy, err := ParseErrorPolicy(item.text)
		assert.Equal(t, item.err, err, "%d: error for: %q", i, item.text)
		assert.Equal(t, item.policy, policy, "%d: policy for: %q", i, item.text)
	}
	assert.Equal(t, "propagate", Propagate.String())
}

func TestOperationsBeforeInit(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds, err := New(testChain, configuration)
	assert.Nil(t, err, "new error")
	defer teardown(ds, dir)

	_, err = ds.Get([]byte{0x01})
	assert.Equal(t, fault.ErrNotInitialised, err, "get")
	assert.Equal(t, fault.ErrNotInitialised, ds.Put([]byte{0x01}, []byte{0x02}), "put")
	assert.Equal(t, fault.ErrNotInitialised, ds.Delete([]byte{0x01}), "delete")
	assert.Equal(t, fault.ErrNotInitialised, ds.UpdateBatch([]Row{{Key: []byte{0x01}}}), "batch")
	assert.Equal(t, fault.ErrNotInitialised, ds.MigrateLegacy(), "migrate")
	assert.Nil(t, ds.Close(), "close of never initialised")
}

func TestInitCreatesShardTables(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	assert.True(t, ds.IsAlive(), "not alive")

	names, err := ds.manager.ListTables()
	assert.Nil(t, err, "list tables error")
	assert.Equal(t, shard.Count, len(names), "wrong table count")
	for _, name := range names {
		id, _, ok := shard.ParseTableName(DefaultDomain, name)
		assert.True(t, ok, "not a shard table: %q", name)
		assert.Equal(t, testChain, id, "wrong chain in: %q", name)
	}

	status := ds.Migration()
	assert.False(t, status.LegacyPresent, "legacy present")
	assert.False(t, status.Completed, "migration completed")
}

func TestInitIsIdempotent(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	first := ds.shards[17]
	assert.Nil(t, ds.Put([]byte{0x11, 0x01}, []byte("kept")), "put error")

	assert.Nil(t, ds.Init(), "second init error")
	assert.True(t, ds.IsAlive(), "not alive")
	assert.Equal(t, first, ds.shards[17], "shard handle replaced")

	value, err := ds.Get([]byte{0x11, 0x01})
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte("kept"), value, "wrong value")
}

func TestInitFailureLeavesDataSourceDead(t *testing.T) {
	dir, err := ioutil.TempDir(testingDirName, "broken")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	defer teardown(nil, dir)

	// a file where the data directory should be
	blocker := filepath.Join(dir, "data")
	if err := ioutil.WriteFile(blocker, []byte("x"), 0600); nil != err {
		t.Fatalf("write file error: %s", err)
	}

	configuration := DefaultConfiguration(blocker)
	ds, err := New(testChain, configuration)
	assert.Nil(t, err, "new error")

	assert.NotNil(t, ds.Init(), "init should fail")
	assert.False(t, ds.IsAlive(), "alive after failed init")

	_, err = ds.Get([]byte{0x01})
	assert.Equal(t, fault.ErrNotInitialised, err, "get after failed init")
	assert.Equal(t, fault.ErrNotInitialised, ds.Put([]byte{0x01}, []byte{0x01}), "put after failed init")
	assert.Nil(t, ds.Close(), "close after failed init")
}

func TestPutGetDelete(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	key := []byte{0x01, 0x02, 0x03}

	value, err := ds.Get(key)
	assert.Nil(t, err, "get of absent key error")
	assert.Nil(t, value, "absent key has value")

	assert.Nil(t, ds.Put(key, []byte{0xaa}), "put error")
	value, err = ds.Get(key)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte{0xaa}, value, "wrong value")

	assert.Nil(t, ds.Put(key, []byte{0xbb, 0xcc}), "overwrite error")
	value, _ = ds.Get(key)
	assert.Equal(t, []byte{0xbb, 0xcc}, value, "overwrite not visible")

	assert.Nil(t, ds.Delete(key), "delete error")
	value, err = ds.Get(key)
	assert.Nil(t, err, "get after delete error")
	assert.Nil(t, value, "value after delete")

	assert.Nil(t, ds.Delete(key), "delete of absent key")

	// the row lives in shard 1 only
	stored, err := ds.shards[1].Get(key)
	assert.Nil(t, err)
	assert.Nil(t, stored)
}

func TestKeysAreRoutedToTheirShard(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	keys := [][]byte{{0x00, 0x01}, {0x05}, {0x7f, 0x7f}, {0x80}, {0x82, 0x01}, {0xff, 0x00}}
	for _, key := range keys {
		assert.Nil(t, ds.Put(key, key), "put: %x", key)
	}
	for _, key := range keys {
		n := shard.Index(key)
		value, err := ds.shards[n].Get(key)
		assert.Nil(t, err, "shard: %d get error", n)
		assert.Equal(t, key, value, "key: %x not in shard: %d", key, n)
	}
}

func TestInvalidKey(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	_, err := ds.Get(nil)
	assert.Equal(t, fault.ErrInvalidKey, err, "get")
	assert.Equal(t, fault.ErrInvalidKey, ds.Put([]byte{}, []byte{0x01}), "put")
	assert.Equal(t, fault.ErrInvalidKey, ds.Delete(nil), "delete")

	rows := []Row{
		{Key: []byte{0x01}, Value: []byte{0x01}},
		{Key: nil, Value: []byte{0x02}},
	}
	assert.Equal(t, fault.ErrInvalidKey, ds.UpdateBatch(rows), "batch")

	value, _ := ds.Get([]byte{0x01})
	assert.Nil(t, value, "rejected batch was partly applied")
}

func TestUnsupportedOperations(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	_, err := ds.PrefixLookup([]byte{0x01}, 1)
	assert.True(t, fault.IsErrUnsupported(err), "prefix lookup: %v", err)

	keys, err := ds.Keys()
	assert.True(t, fault.IsErrUnsupported(err), "keys: %v", err)
	assert.Nil(t, keys, "keys returned data")

	assert.False(t, ds.Flush(), "flush")
	assert.Nil(t, ds.Reset(), "reset")
	assert.True(t, ds.IsAlive(), "reset changed alive")
}

func TestUpdateBatch(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	assert.Nil(t, ds.Put([]byte{0x40, 0x01}, []byte("old")), "put error")

	rows := []Row{
		{Key: []byte{0x01, 0x01}, Value: []byte("one")},
		{Key: []byte{0x82, 0x01}, Value: []byte("two")},
		{Key: []byte{0x40, 0x01}, Value: nil},
		{Key: []byte{0x01, 0x02}, Value: []byte("first")},
		{Key: []byte{0x01, 0x02}, Value: []byte("last")},
		{Key: []byte{0x7e, 0x09}, Value: []byte{}},
	}
	assert.Nil(t, ds.UpdateBatch(rows), "batch error")

	expected := map[string][]byte{
		"\x01\x01": []byte("one"),
		"\x82\x01": []byte("two"),
		"\x40\x01": nil,
		"\x01\x02": []byte("last"),
		"\x7e\x09": {},
	}
	for k, v := range expected {
		value, err := ds.Get([]byte(k))
		assert.Nil(t, err, "get: %x error", k)
		assert.Equal(t, v, value, "key: %x", k)
	}

	assert.Nil(t, ds.UpdateBatch(nil), "empty batch")
}

func TestCloseAndReopen(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	assert.Nil(t, ds.Put([]byte{0x33}, []byte("persisted")), "put error")
	assert.Nil(t, ds.Close(), "close error")
	assert.False(t, ds.IsAlive(), "alive after close")
	assert.Nil(t, ds.Close(), "second close error")

	_, err := ds.Get([]byte{0x33})
	assert.Equal(t, fault.ErrNotInitialised, err, "get after close")

	assert.Nil(t, ds.Init(), "reinit error")
	value, err := ds.Get([]byte{0x33})
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte("persisted"), value, "value lost over reopen")
}

func TestChainIsolation(t *testing.T) {
	configuration, dir := testConfiguration(t)
	defer teardown(nil, dir)

	key := []byte{0x0a, 0x0b}

	ds2 := setupDataSource(t, configuration, chain.ID(2))
	assert.Nil(t, ds2.Put(key, []byte("chain 2")), "put error")
	assert.Nil(t, ds2.Close(), "close error")

	// one data source open at a time keeps the descriptor count low
	ds3 := setupDataSource(t, configuration, chain.ID(3))
	value, err := ds3.Get(key)
	assert.Nil(t, err, "get error")
	assert.Nil(t, value, "chain 3 sees chain 2 data")
	assert.Nil(t, ds3.Put(key, []byte("chain 3")), "put error")
	assert.Nil(t, ds3.Close(), "close error")

	assert.Nil(t, ds2.Init(), "reinit error")
	value, _ = ds2.Get(key)
	assert.Equal(t, []byte("chain 2"), value, "chain 2 data overwritten")
	assert.Nil(t, ds2.Close(), "close error")
}

func TestConcurrentDisjointPuts(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w += 1 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i += 1 {
				key := []byte(fmt.Sprintf("%c-%03d", 'a'+w, i))
				assert.Nil(t, ds.Put(key, key), "put: %q", key)
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < writers; w += 1 {
		for i := 0; i < perWriter; i += 1 {
			key := []byte(fmt.Sprintf("%c-%03d", 'a'+w, i))
			value, err := ds.Get(key)
			assert.Nil(t, err, "get: %q", key)
			assert.Equal(t, key, value, "key: %q", key)
		}
	}
}

func TestStats(t *testing.T) {
	configuration, dir := testConfiguration(t)
	ds := setupDataSource(t, configuration, testChain)
	defer teardown(ds, dir)

	assert.True(t, ds.Stats().IsZero(), "stats before use")

	_ = ds.Put([]byte{0x01}, []byte{0x01})
	_ = ds.Put([]byte{0x02}, []byte{0x02})
	_, _ = ds.Get([]byte{0x01})
	_ = ds.Delete([]byte{0x02})
	_ = ds.UpdateBatch([]Row{{Key: []byte{0x03}, Value: []byte{0x03}}})

	previous := Stats{}
	delta := ds.StatsSince(&previous)
	assert.Equal(t, Stats{Gets: 1, Puts: 2, Deletes: 1, Batches: 1}, delta, "first delta")
	assert.Equal(t, ds.Stats(), previous, "previous not updated")

	_, _ = ds.Get([]byte{0x03})
	delta = ds.StatsSince(&previous)
	assert.Equal(t, Stats{Gets: 1}, delta, "second delta")
	assert.Equal(t, uint64(2), ds.Stats().Gets, "total gets")
}

func TestSetErrorPolicy(t *testing.T) {
	ds, err := New(testChain, DefaultConfiguration("unused"))
	assert.Nil(t, err, "new error")

	ds.SetErrorPolicy(Propagate)
	assert.Equal(t, Propagate, ds.ErrorPolicy())
	ds.SetErrorPolicy(Swallow)
	assert.Equal(t, Swallow, ds.ErrorPolicy())
}
