// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk tables
//
// A Manager owns one root directory.  Each table is an independent
// LevelDB database in a sub-directory named after the table:
//
//   <root>/<table name>/          - LevelDB files for one table
//
// Tables are opened once and stay open until closed through the
// Manager; the Manager keeps the set of open handles.
//
// Notes:
// 1. table names must be plain names: no path separators, not "." or ".."
// 2. Get returns nil for an absent key, never leveldb.ErrNotFound
// 3. engine tuning comes from Options, see DefaultOptions
package storage
