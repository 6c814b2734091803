// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockheight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/contractd/fault"
)

func TestPack(t *testing.T) {
	b := BlockHeight{
		Height: 300,
		Hash:   []byte{0xde, 0xad},
	}
	assert.Equal(t, []byte{0xac, 0x02, 0x02, 0xde, 0xad}, b.Pack(), "wrong packing")

	empty := BlockHeight{}
	assert.Equal(t, []byte{0x00, 0x00}, empty.Pack(), "wrong empty packing")
}

func TestUnpack(t *testing.T) {
	b, err := Unpack([]byte{0xac, 0x02, 0x02, 0xde, 0xad})
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, uint64(300), b.Height, "height")
	assert.Equal(t, []byte{0xde, 0xad}, b.Hash, "hash")
	assert.Equal(t, "300:dead", b.String(), "string")
}

func TestUnpackInvalid(t *testing.T) {
	records := [][]byte{
		{},
		{0x80},
		{0x05},
		{0x05, 0x02, 0x01},
		{0x05, 0x01, 0x01, 0x02},
	}
	for i, record := range records {
		b, err := Unpack(record)
		assert.Equal(t, fault.ErrRecordTruncated, err, "%d: record: %x", i, record)
		assert.Nil(t, b, "%d: record: %x", i, record)
	}
}
