// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockheight

import (
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/contractd/chain"
	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/storage"
	"github.com/bitmark-inc/logger"
)

// TableName - the table holding one record per chain
const TableName = "txsBlockHeight"

// Path - root directory of the block height table
func Path(dataDirectory string) string {
	return filepath.Join(dataDirectory, "smart-contract", "blocks")
}

const (
	cacheExpiration = 10 * time.Minute
	cacheCleanup    = 20 * time.Minute
)

// Store - block height records keyed by chain id
type Store struct {
	log   *logger.L
	table storage.Table
	cache *cache.Cache
}

// New - open the block height table, creating it if missing
func New(manager *storage.Manager) (*Store, error) {
	if nil == manager {
		return nil, fault.ErrNotInitialised
	}

	table, err := manager.CreateTable(TableName)
	if nil != err {
		return nil, err
	}

	return newStore(table), nil
}

func newStore(table storage.Table) *Store {
	return &Store{
		log:   logger.New("blockheight"),
		table: table,
		cache: cache.New(cacheExpiration, cacheCleanup),
	}
}

// Get - the record of a chain, nil if none was saved
//
// an undecodable record is logged and reported as absent
func (s *Store) Get(chainID chain.ID) (*BlockHeight, error) {
	if !chain.Valid(chainID) {
		return nil, fault.ErrInvalidChainID
	}

	cacheKey := chainID.String()
	if obj, found := s.cache.Get(cacheKey); found {
		return obj.(*BlockHeight).clone(), nil
	}

	record, err := s.table.Get(chainID.Bytes())
	if nil != err {
		s.log.Errorf("get chain: %s  error: %s", chainID, err)
		return nil, err
	}
	if nil == record {
		return nil, nil
	}

	b, err := Unpack(record)
	if nil != err {
		s.log.Errorf("chain: %s  record: %x  error: %s", chainID, record, err)
		return nil, nil
	}

	s.cache.Set(cacheKey, b, cache.DefaultExpiration)
	return b.clone(), nil
}

// SaveOrUpdate - replace the record of a chain
func (s *Store) SaveOrUpdate(chainID chain.ID, b *BlockHeight) error {
	if !chain.Valid(chainID) {
		return fault.ErrInvalidChainID
	}
	if nil == b {
		return fault.ErrMissingBlockHeight
	}

	cacheKey := chainID.String()
	s.cache.Delete(cacheKey)

	if err := s.table.Put(chainID.Bytes(), b.Pack()); nil != err {
		s.log.Errorf("save chain: %s  error: %s", chainID, err)
		return err
	}

	s.cache.Set(cacheKey, b.clone(), cache.DefaultExpiration)
	s.log.Debugf("chain: %s  height: %s", chainID, b)
	return nil
}

func (b *BlockHeight) clone() *BlockHeight {
	hash := make([]byte, len(b.Hash))
	copy(hash, b.Hash)
	return &BlockHeight{
		Height: b.Height,
		Hash:   hash,
	}
}
