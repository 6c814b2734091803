// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// Varint64MaximumBytes - maximum possible number of bytes in Varint64
const Varint64MaximumBytes = 9

// ToVarint64 - seven bits per byte, low bits first, high bit set while
// more bytes follow; the ninth byte carries a full eight bits
func ToVarint64(value uint64) []byte {
	result := make([]byte, 0, Varint64MaximumBytes)
	for n := 1; n < Varint64MaximumBytes; n += 1 {
		if value < 0x80 {
			return append(result, byte(value))
		}
		result = append(result, byte(value)|0x80)
		value >>= 7
	}
	return append(result, byte(value))
}

// FromVarint64 - decode a Varint64 from the start of buffer
//
// returns the value and the number of bytes used, or 0, 0 if truncated
func FromVarint64(buffer []byte) (uint64, int) {
	value := uint64(0)
	shift := uint(0)
	for i, b := range buffer {
		if Varint64MaximumBytes-1 == i {
			return value | uint64(b)<<shift, i + 1
		}
		value |= uint64(b&0x7f) << shift
		if 0 == b&0x80 {
			return value, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// PackVarint64s - concatenate the Varint64 encodings of values
func PackVarint64s(values ...uint64) []byte {
	record := make([]byte, 0, len(values)*2)
	for _, v := range values {
		record = append(record, ToVarint64(v)...)
	}
	return record
}

// UnpackVarint64s - decode count values from the start of buffer
//
// returns the values and the number of bytes used, or nil, 0 if truncated
func UnpackVarint64s(buffer []byte, count int) ([]uint64, int) {
	values := make([]uint64, count)
	used := 0
	for i := range values {
		v, n := FromVarint64(buffer[used:])
		if 0 == n {
			return nil, 0
		}
		values[i] = v
		used += n
	}
	return values, used
}
