// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTablePutGetDelete(t *testing.T) {
	m, dir := setupManager(t)
	defer teardownManager(m, dir)

	table, err := m.CreateTable("kv")
	assert.Nil(t, err, "create error")

	key := []byte("key-one")

	value, err := table.Get(key)
	assert.Nil(t, err, "absent key returned error")
	assert.Nil(t, value, "absent key returned value")

	assert.Nil(t, table.Put(key, []byte("data-one")), "put error")

	value, err = table.Get(key)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte("data-one"), value, "wrong value")

	found, err := table.Has(key)
	assert.Nil(t, err, "has error")
	assert.True(t, found, "key not found")

	assert.Nil(t, table.Delete(key), "delete error")

	value, err = table.Get(key)
	assert.Nil(t, err, "get error")
	assert.Nil(t, value, "deleted key returned value")
}

func TestTableWriteBatch(t *testing.T) {
	m, dir := setupManager(t)
	defer teardownManager(m, dir)

	table, err := m.CreateTable("batch")
	assert.Nil(t, err, "create error")

	assert.Nil(t, table.Put([]byte("old"), []byte("x")), "put error")

	batch := AcquireBatch()
	batch.Put([]byte("new"), []byte("y"))
	batch.Delete([]byte("old"))
	err = table.Write(batch)
	ReleaseBatch(batch)
	assert.Nil(t, err, "write error")

	value, _ := table.Get([]byte("new"))
	assert.Equal(t, []byte("y"), value, "batch put lost")
	value, _ = table.Get([]byte("old"))
	assert.Nil(t, value, "batch delete lost")
}

func TestReleasedBatchIsEmpty(t *testing.T) {
	batch := AcquireBatch()
	batch.Put([]byte("a"), []byte("b"))
	assert.Equal(t, 1, batch.Len(), "wrong batch length")
	ReleaseBatch(batch)
	assert.Equal(t, 0, batch.Len(), "released batch not reset")

	ReleaseBatch(nil)
}

func TestCursorFetch(t *testing.T) {
	m, dir := setupManager(t)
	defer teardownManager(m, dir)

	table, err := m.CreateTable("cursor")
	assert.Nil(t, err, "create error")

	expected := []Element{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("a\x00"), Value: []byte("2")},
		{Key: []byte("b"), Value: []byte("3")},
		{Key: []byte("c"), Value: []byte("4")},
		{Key: []byte("d"), Value: []byte("5")},
	}
	for _, e := range expected {
		assert.Nil(t, table.Put(e.Key, e.Value), "put error")
	}

	cursor := NewFetchCursor(table)
	actual := []Element{}
	for {
		elements, err := cursor.Fetch(2)
		assert.Nil(t, err, "fetch error")
		if 0 == len(elements) {
			break
		}
		actual = append(actual, elements...)
	}
	assert.Equal(t, expected, actual, "cursor skipped or repeated elements")

	elements, err := NewFetchCursor(table).Seek([]byte("c")).Fetch(10)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, expected[3:], elements, "seek returned wrong elements")
}

func TestCursorWithoutTable(t *testing.T) {
	_, err := NewFetchCursor(nil).Fetch(1)
	assert.NotNil(t, err, "nil table accepted")
}
