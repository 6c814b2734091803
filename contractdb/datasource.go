// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/contractd/chain"
	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/shard"
	"github.com/bitmark-inc/contractd/storage"
	"github.com/bitmark-inc/logger"
)

// DataSource - the sharded contract state of one chain
type DataSource struct {
	sync.RWMutex // exclusive: lifecycle, shared: key operations

	log       *logger.L
	chainID   chain.ID
	domain    string
	root      string
	options   storage.Options
	migration MigrationConfiguration
	policy    int32

	alive   bool
	manager *storage.Manager
	shards  [shard.Count]storage.Table
	status  MigrationStatus

	stats statistics
}

// New - create a data source for a chain
//
// nothing is opened until Init
func New(chainID chain.ID, configuration *Configuration) (*DataSource, error) {
	if !chain.Valid(chainID) {
		return nil, fault.ErrInvalidChainID
	}
	if nil == configuration || "" == configuration.DataDirectory {
		return nil, fault.ErrMissingDataDirectory
	}

	policy, err := ParseErrorPolicy(configuration.ErrorPolicy)
	if nil != err {
		return nil, err
	}

	domain := configuration.Domain
	if "" == domain {
		domain = DefaultDomain
	}

	return &DataSource{
		log:       logger.New("contractdb"),
		chainID:   chainID,
		domain:    domain,
		root:      configuration.RootPath(),
		options:   configuration.Storage,
		migration: configuration.Migration,
		policy:    int32(policy),
	}, nil
}

// Name - the common name of the tables of this data source
func (ds *DataSource) Name() string {
	return shard.LegacyTableName(ds.domain, ds.chainID)
}

// ChainID - the chain served
func (ds *DataSource) ChainID() chain.ID {
	return ds.chainID
}

// ErrorPolicy - current policy
func (ds *DataSource) ErrorPolicy() ErrorPolicy {
	return ErrorPolicy(atomic.LoadInt32(&ds.policy))
}

// SetErrorPolicy - change the policy, may be called at any time
func (ds *DataSource) SetErrorPolicy(policy ErrorPolicy) {
	old := ErrorPolicy(atomic.SwapInt32(&ds.policy, int32(policy)))
	if old != policy {
		ds.log.Infof("%s: error policy: %s -> %s", ds.Name(), old, policy)
	}
}
