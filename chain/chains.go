// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"encoding/binary"
	"strconv"

	"github.com/bitmark-inc/contractd/fault"
)

// ID - identifies one blockchain instance within a multi-chain node
type ID uint32

// limits of a chain id
const (
	MinimumID ID = 1
	MaximumID ID = 65535

	// IDBytes - size of a chain id as a record key
	IDBytes = 4
)

// Valid - validate a chain id
func Valid(id ID) bool {
	return id >= MinimumID && id <= MaximumID
}

// Bytes - fixed width big endian key
func (id ID) Bytes() []byte {
	buffer := make([]byte, IDBytes)
	binary.BigEndian.PutUint32(buffer, uint32(id))
	return buffer
}

// String - decimal form, as used in table names
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// FromBytes - decode a key produced by Bytes
func FromBytes(buffer []byte) (ID, error) {
	if IDBytes != len(buffer) {
		return 0, fault.ErrInvalidChainID
	}
	id := ID(binary.BigEndian.Uint32(buffer))
	if !Valid(id) {
		return 0, fault.ErrInvalidChainID
	}
	return id, nil
}
