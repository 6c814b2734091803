// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/contractd/shard"
	"github.com/bitmark-inc/contractd/storage"
)

type row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type dumpResult struct {
	Table string `json:"table"`
	Rows  []row  `json:"rows"`
	Next  string `json:"next,omitempty"`
}

func runDump(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	chainID, err := checkChain(c)
	if nil != err {
		return err
	}

	index := c.Int("shard")
	legacy := c.Bool("legacy")

	name := ""
	switch {
	case legacy && index >= 0:
		return fmt.Errorf("only one of shard or legacy is allowed")
	case legacy:
		name = shard.LegacyTableName(m.domain, chainID)
	case index >= 0 && index < shard.Count:
		name = shard.TableName(m.domain, chainID, index)
	default:
		return fmt.Errorf("shard must be 0..%d or legacy must be set", shard.Count-1)
	}

	start, err := checkHex("start", c.String("start"), false)
	if nil != err {
		return err
	}

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	if m.verbose {
		fmt.Fprintf(m.e, "table: %s\n", name)
		fmt.Fprintf(m.e, "start: %x\n", start)
		fmt.Fprintf(m.e, "count: %d\n", count)
	}

	manager, err := openManager(m)
	if nil != err {
		return err
	}
	defer manager.Close()

	table, err := manager.OpenTable(name)
	if nil != err {
		return fmt.Errorf("table: %s  error: %s", name, err)
	}

	// one extra row to report where the next page starts
	elements, err := storage.NewFetchCursor(table).Seek(start).Fetch(count + 1)
	if nil != err {
		return err
	}

	result := dumpResult{
		Table: name,
		Rows:  make([]row, 0, len(elements)),
	}
	if len(elements) > count {
		result.Next = hex.EncodeToString(elements[count].Key)
		elements = elements[:count]
	}
	for _, e := range elements {
		result.Rows = append(result.Rows, row{
			Key:   hex.EncodeToString(e.Key),
			Value: hex.EncodeToString(e.Value),
		})
	}

	return printJson(m.w, result)
}
