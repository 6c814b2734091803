// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/contractd/blockheight"
	"github.com/bitmark-inc/contractd/chain"
	"github.com/bitmark-inc/contractd/configuration"
	"github.com/bitmark-inc/contractd/contractdb"
	"github.com/bitmark-inc/contractd/storage"
	"github.com/bitmark-inc/contractd/util"
	"github.com/bitmark-inc/logger"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultStatsInterval     = 60 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "contractd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - location and naming of the tables
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Domain    string `gluamapper:"domain" json:"domain"`
}

// Configuration - the daemon settings
type Configuration struct {
	DataDirectory string                            `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                            `gluamapper:"pidfile" json:"pidfile"`
	Chains        []int                             `gluamapper:"chains" json:"chains"`
	Database      DatabaseType                      `gluamapper:"database" json:"database"`
	Storage       storage.Options                   `gluamapper:"storage" json:"storage"`
	ErrorPolicy   string                            `gluamapper:"error_policy" json:"error_policy"`
	Migration     contractdb.MigrationConfiguration `gluamapper:"migration" json:"migration"`
	StatsInterval int                               `gluamapper:"stats_interval" json:"stats_interval"`
	Logging       logger.Configuration              `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	defaults := contractdb.DefaultConfiguration(defaultDatabaseDirectory)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chains:        []int{int(chain.MinimumID)},

		Database: DatabaseType{
			Directory: defaults.DataDirectory,
			Domain:    defaults.Domain,
		},
		Storage:       defaults.Storage,
		ErrorPolicy:   defaults.ErrorPolicy,
		Migration:     defaults.Migration,
		StatsInterval: defaultStatsInterval,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if 0 == len(options.Chains) {
		return nil, fmt.Errorf("Chains: at least one chain is required")
	}
	seen := make(map[int]struct{})
	for _, id := range options.Chains {
		if id < 0 || !chain.Valid(chain.ID(id)) {
			return nil, fmt.Errorf("Chains: %d is not a valid chain id", id)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("Chains: %d is duplicated", id)
		}
		seen[id] = struct{}{}
	}

	if _, err := contractdb.ParseErrorPolicy(options.ErrorPolicy); nil != err {
		return nil, fmt.Errorf("ErrorPolicy: %q  error: %s", options.ErrorPolicy, err)
	}

	if options.StatsInterval <= 0 {
		options.StatsInterval = defaultStatsInterval
	}
	if options.Migration.Rate < 0 {
		options.Migration.Rate = 0
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
		&options.Database.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// settings for the contract data sources
func (c *Configuration) contracts() *contractdb.Configuration {
	return &contractdb.Configuration{
		DataDirectory: c.Database.Directory,
		Domain:        c.Database.Domain,
		Storage:       c.Storage,
		ErrorPolicy:   c.ErrorPolicy,
		Migration:     c.Migration,
	}
}

// root of the block height table
func (c *Configuration) blocksDirectory() string {
	return blockheight.Path(c.Database.Directory)
}

func (c *Configuration) chainIDs() []chain.ID {
	ids := make([]chain.ID, len(c.Chains))
	for i, id := range c.Chains {
		ids[i] = chain.ID(id)
	}
	return ids
}

func (c *Configuration) statsInterval() time.Duration {
	return time.Duration(c.StatsInterval) * time.Second
}
