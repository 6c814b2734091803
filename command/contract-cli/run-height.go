// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/contractd/blockheight"
	"github.com/bitmark-inc/contractd/storage"
)

type heightInfo struct {
	Chain  string `json:"chain"`
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
	Found  bool   `json:"found"`
}

func runHeight(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	chainID, err := checkChain(c)
	if nil != err {
		return err
	}

	set := c.Bool("set")
	hash, err := checkHex("hash", c.String("hash"), set)
	if nil != err {
		return err
	}

	manager, err := storage.Open(blockheight.Path(m.directory), storage.DefaultOptions())
	if nil != err {
		return err
	}
	defer manager.Close()

	store, err := blockheight.New(manager)
	if nil != err {
		return err
	}

	if set {
		b := &blockheight.BlockHeight{
			Height: c.Uint64("height"),
			Hash:   hash,
		}
		if err := store.SaveOrUpdate(chainID, b); nil != err {
			return err
		}
	}

	b, err := store.Get(chainID)
	if nil != err {
		return err
	}

	info := heightInfo{
		Chain: chainID.String(),
	}
	if nil != b {
		info.Height = b.Height
		info.Hash = hex.EncodeToString(b.Hash)
		info.Found = true
	}
	return printJson(m.w, info)
}
