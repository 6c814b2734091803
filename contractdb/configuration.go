// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/storage"
)

// defaults
const (
	DefaultDomain      = "contract"
	DefaultErrorPolicy = "swallow"

	contractsDirectory = "smart-contract"
	contractsSubdir    = "contracts"

	// rows read from the legacy table per sweep
	migrationBatchSize = 1000
)

// MigrationConfiguration - copying of a legacy unsharded table
type MigrationConfiguration struct {
	Enabled      bool `gluamapper:"enabled" json:"enabled"`
	SkipExisting bool `gluamapper:"skip_existing" json:"skip_existing"`
	Rate         int  `gluamapper:"rate" json:"rate"` // rows per second, 0 = unlimited
}

// Configuration - settings shared by the data sources of all chains
type Configuration struct {
	DataDirectory string                 `gluamapper:"directory" json:"directory"`
	Domain        string                 `gluamapper:"domain" json:"domain"`
	Storage       storage.Options        `gluamapper:"storage" json:"storage"`
	ErrorPolicy   string                 `gluamapper:"error_policy" json:"error_policy"`
	Migration     MigrationConfiguration `gluamapper:"migration" json:"migration"`
}

// DefaultConfiguration - settings for a data directory
func DefaultConfiguration(dataDirectory string) *Configuration {
	return &Configuration{
		DataDirectory: dataDirectory,
		Domain:        DefaultDomain,
		Storage:       storage.DefaultOptions(),
		ErrorPolicy:   DefaultErrorPolicy,
		Migration: MigrationConfiguration{
			Enabled:      true,
			SkipExisting: true,
		},
	}
}

// RootPath - directory holding all contract tables
func (c *Configuration) RootPath() string {
	return filepath.Join(c.DataDirectory, contractsDirectory, contractsSubdir)
}

// ErrorPolicy - what Get, Put and Delete report after an engine failure
type ErrorPolicy int32

// policies
const (
	// Swallow - log, then report absent (Get) or success (Put, Delete)
	Swallow ErrorPolicy = iota

	// Propagate - log, then return a *fault.IOFailure
	Propagate
)

// ParseErrorPolicy - decode a configuration value, empty means Swallow
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "swallow":
		return Swallow, nil
	case "propagate":
		return Propagate, nil
	default:
		return Swallow, fault.ErrInvalidErrorPolicy
	}
}

func (p ErrorPolicy) String() string {
	switch p {
	case Swallow:
		return "swallow"
	case Propagate:
		return "propagate"
	default:
		return "*unknown*"
	}
}
