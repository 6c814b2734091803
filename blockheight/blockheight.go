// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockheight - last processed block of each chain
package blockheight

import (
	"fmt"

	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/contractd/util"
)

// BlockHeight - position of a chain
type BlockHeight struct {
	Height uint64 `json:"height"`
	Hash   []byte `json:"hash"`
}

// Pack - encode as: Varint64 height ++ Varint64 hash length ++ hash
func (b *BlockHeight) Pack() []byte {
	record := util.PackVarint64s(b.Height, uint64(len(b.Hash)))
	return append(record, b.Hash...)
}

// Unpack - decode a packed record
//
// trailing bytes are rejected
func Unpack(record []byte) (*BlockHeight, error) {
	values, n := util.UnpackVarint64s(record, 2)
	if 0 == n {
		return nil, fault.ErrRecordTruncated
	}
	height, length := values[0], values[1]
	record = record[n:]

	if uint64(len(record)) != length {
		return nil, fault.ErrRecordTruncated
	}

	hash := make([]byte, len(record))
	copy(hash, record)
	return &BlockHeight{
		Height: height,
		Hash:   hash,
	}, nil
}

func (b BlockHeight) String() string {
	return fmt.Sprintf("%d:%x", b.Height, b.Hash)
}
