// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// contract-cli - inspect and repair contract state tables
//
// operates directly on the table directories, contractd must not be
// running on the same data directory
package main
