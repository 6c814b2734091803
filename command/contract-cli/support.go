// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/bitmark-inc/contractd/chain"
	"github.com/bitmark-inc/contractd/contractdb"
	"github.com/bitmark-inc/contractd/storage"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

func checkChain(c *cli.Context) (chain.ID, error) {
	n := c.Uint("chain")
	id := chain.ID(n)
	if uint(id) != n || !chain.Valid(id) {
		return 0, fmt.Errorf("invalid chain: %d", n)
	}
	return id, nil
}

func checkHex(name string, s string, required bool) ([]byte, error) {
	if "" == s {
		if required {
			return nil, fmt.Errorf("%s is required", name)
		}
		return []byte{}, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if nil != err {
		return nil, fmt.Errorf("%s: %q is not hex: %s", name, s, err)
	}
	return b, nil
}

// settings for a data source opened from the command line
//
// migration is only done by the migrate command and errors are
// always reported
func contractConfiguration(m *metadata) *contractdb.Configuration {
	configuration := contractdb.DefaultConfiguration(m.directory)
	configuration.Domain = m.domain
	configuration.ErrorPolicy = contractdb.Propagate.String()
	configuration.Migration.Enabled = false
	return configuration
}

func openDataSource(m *metadata, chainID chain.ID, configuration *contractdb.Configuration) (*contractdb.DataSource, error) {
	ds, err := contractdb.New(chainID, configuration)
	if nil != err {
		return nil, err
	}
	if err := ds.Init(); nil != err {
		return nil, err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "opened: %s  at: %q\n", ds.Name(), configuration.RootPath())
	}
	return ds, nil
}

func openManager(m *metadata) (*storage.Manager, error) {
	root := contractConfiguration(m).RootPath()
	options := storage.DefaultOptions()
	options.CreateIfMissing = false
	return storage.Open(root, options)
}

// ask on the controlling terminal, true only for an explicit yes
func confirm(m *metadata, question string) (bool, error) {
	if m.yes {
		return true, nil
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, os.ModePerm)
	if nil != err {
		return false, fmt.Errorf("tty open error: %s (use --yes)", err)
	}
	defer tty.Close()

	oldState, err := terminal.MakeRaw(int(tty.Fd()))
	if nil != err {
		return false, err
	}
	defer terminal.Restore(int(tty.Fd()), oldState)

	console := terminal.NewTerminal(tty, question+" [y/N]: ")
	line, err := console.ReadLine()
	if nil != err {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
