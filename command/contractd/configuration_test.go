// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/contractd/chain"
)

func writeConfiguration(t *testing.T, text string) (string, string) {
	dir, err := ioutil.TempDir("", "contractd")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	fileName := filepath.Join(dir, "contractd.conf")
	if err := ioutil.WriteFile(fileName, []byte(text), 0600); nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
	return dir, fileName
}

func TestSampleConfiguration(t *testing.T) {
	sample, err := ioutil.ReadFile("contractd.conf.sample")
	if nil != err {
		t.Fatalf("read sample error: %s", err)
	}
	dir, fileName := writeConfiguration(t, string(sample))
	defer os.RemoveAll(dir)

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "sample configuration error")

	assert.Equal(t, filepath.Clean(dir), c.DataDirectory, "data directory")
	assert.Equal(t, []chain.ID{1, 2}, c.chainIDs(), "chains")
	assert.Equal(t, filepath.Join(dir, "data"), c.Database.Directory, "database directory")
	assert.Equal(t, filepath.Join(dir, "log"), c.Logging.Directory, "log directory")
	assert.Equal(t, 32*1024*1024, c.Storage.BlockCacheSize, "block cache")
	assert.True(t, c.Migration.Enabled, "migration")
	assert.Equal(t, time.Minute, c.statsInterval(), "stats interval")

	contracts := c.contracts()
	assert.Equal(t, filepath.Join(dir, "data", "smart-contract", "contracts"), contracts.RootPath(), "contracts root")
	assert.Equal(t, filepath.Join(dir, "data", "smart-contract", "blocks"), c.blocksDirectory(), "blocks root")
}

func TestMinimalConfiguration(t *testing.T) {
	dir, fileName := writeConfiguration(t, `return { data_directory = "." }`)
	defer os.RemoveAll(dir)

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "minimal configuration error")
	assert.Equal(t, []int{1}, c.Chains, "default chains")
	assert.Equal(t, "contract", c.Database.Domain, "default domain")
	assert.Equal(t, "swallow", c.ErrorPolicy, "default policy")
	assert.Equal(t, "", c.PidFile, "default pid file")

	_, err = os.Stat(c.Database.Directory)
	assert.Nil(t, err, "database directory not created")
}

func TestInvalidConfigurations(t *testing.T) {
	scripts := []string{
		`return { }`,
		`return { data_directory = "~" }`,
		`return { data_directory = ".", chains = { } }`,
		`return { data_directory = ".", chains = { 0 } }`,
		`return { data_directory = ".", chains = { 70000 } }`,
		`return { data_directory = ".", chains = { 3, 3 } }`,
		`return { data_directory = ".", error_policy = "ignore" }`,
		`return { data_directory = ".", logging = { file = "sub/contractd.log" } }`,
		`return { data_directory = "/no/such/directory/anywhere" }`,
	}

	for i, script := range scripts {
		dir, fileName := writeConfiguration(t, script)
		_, err := getConfiguration(fileName)
		assert.NotNil(t, err, "%d: accepted: %s", i, script)
		os.RemoveAll(dir)
	}
}

func TestPidFileIsMadeAbsolute(t *testing.T) {
	dir, fileName := writeConfiguration(t, `return { data_directory = ".", pidfile = "contractd.pid", stats_interval = -5 }`)
	defer os.RemoveAll(dir)

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")
	assert.Equal(t, filepath.Join(dir, "contractd.pid"), c.PidFile, "pid file")
	assert.Equal(t, time.Minute, c.statsInterval(), "stats interval reset to default")
}
