// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/contractd/shard"
)

type tableInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Chain string `json:"chain,omitempty"`
	Shard *int   `json:"shard,omitempty"`
}

type tablesSummary struct {
	Root   string      `json:"root"`
	Tables []tableInfo `json:"tables"`
}

func runTables(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	manager, err := openManager(m)
	if nil != err {
		return err
	}
	defer manager.Close()

	names, err := manager.ListTables()
	if nil != err {
		return err
	}

	summary := tablesSummary{
		Root:   manager.Root(),
		Tables: make([]tableInfo, 0, len(names)),
	}
	for _, name := range names {
		summary.Tables = append(summary.Tables, classifyTable(m.domain, name))
	}

	return printJson(m.w, summary)
}

func classifyTable(domain string, name string) tableInfo {
	if chainID, index, ok := shard.ParseTableName(domain, name); ok {
		return tableInfo{
			Name:  name,
			Kind:  "shard",
			Chain: chainID.String(),
			Shard: &index,
		}
	}

	prefix := domain + shard.Separator
	if strings.HasPrefix(name, prefix) {
		rest := strings.TrimPrefix(name, prefix)
		if _, err := strconv.ParseUint(rest, 10, 32); nil == err {
			return tableInfo{Name: name, Kind: "legacy", Chain: rest}
		}
		if parts := strings.Split(rest, shard.Separator); 2 == len(parts) && "migration" == parts[1] {
			return tableInfo{Name: name, Kind: "migration", Chain: parts[0]}
		}
	}
	return tableInfo{Name: name, Kind: "other"}
}
