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
)

type valueInfo struct {
	Chain string `json:"chain"`
	Shard int    `json:"shard"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

func runGet(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	chainID, err := checkChain(c)
	if nil != err {
		return err
	}
	key, err := checkHex("key", c.String("key"), true)
	if nil != err {
		return err
	}

	ds, err := openDataSource(m, chainID, contractConfiguration(m))
	if nil != err {
		return err
	}
	defer ds.Close()

	value, err := ds.Get(key)
	if nil != err {
		return err
	}

	return printJson(m.w, valueInfo{
		Chain: chainID.String(),
		Shard: shard.Index(key),
		Key:   hex.EncodeToString(key),
		Value: hex.EncodeToString(value),
		Found: nil != value,
	})
}

func runPut(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	chainID, err := checkChain(c)
	if nil != err {
		return err
	}
	key, err := checkHex("key", c.String("key"), true)
	if nil != err {
		return err
	}
	value, err := checkHex("value", c.String("value"), false)
	if nil != err {
		return err
	}

	ds, err := openDataSource(m, chainID, contractConfiguration(m))
	if nil != err {
		return err
	}
	defer ds.Close()

	if err := ds.Put(key, value); nil != err {
		return err
	}

	return printJson(m.w, valueInfo{
		Chain: chainID.String(),
		Shard: shard.Index(key),
		Key:   hex.EncodeToString(key),
		Value: hex.EncodeToString(value),
		Found: true,
	})
}

func runDelete(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	chainID, err := checkChain(c)
	if nil != err {
		return err
	}
	key, err := checkHex("key", c.String("key"), true)
	if nil != err {
		return err
	}

	ds, err := openDataSource(m, chainID, contractConfiguration(m))
	if nil != err {
		return err
	}
	defer ds.Close()

	value, err := ds.Get(key)
	if nil != err {
		return err
	}
	if nil == value {
		return fmt.Errorf("key: %x not found", key)
	}

	fmt.Fprintf(m.w, "%x → %x\n", key, value)
	ok, err := confirm(m, fmt.Sprintf("delete from %s", ds.Name()))
	if nil != err {
		return err
	}
	if !ok {
		fmt.Fprintf(m.w, "not deleted\n")
		return nil
	}

	if err := ds.Delete(key); nil != err {
		return err
	}
	fmt.Fprintf(m.w, "deleted\n")
	return nil
}
