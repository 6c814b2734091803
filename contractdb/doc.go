// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contractdb - persistent contract state of one chain
//
// A DataSource spreads the keys of a chain over shard.Count tables
// below <data directory>/smart-contract/contracts and serialises its
// lifecycle against ongoing reads and writes:
//
//   Get, Put, Delete, UpdateBatch  - shared lock, run concurrently
//   Init, Close, Reset, Migrate    - exclusive lock
//
// Engine failures are retried where the operation allows it:
//
//   Get          - one retry, then absent (or an error, see ErrorPolicy)
//   Put, Delete  - no retry, logged (or an error, see ErrorPolicy)
//   UpdateBatch  - whole batch retried once, then always an error
//
// An UpdateBatch is atomic per shard only; shards are written in
// ascending index order, so a failure part way through leaves the
// earlier shards committed.
package contractdb
