// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/contractd/contractdb"
	"github.com/bitmark-inc/logger"
)

const (
	mega = 1048576
)

// periodic report of operation counts
type statsReporter struct {
	log         *logger.L
	interval    time.Duration
	memory      bool
	dataSources []*contractdb.DataSource
}

func newStatsReporter(interval time.Duration, memory bool, dataSources []*contractdb.DataSource) *statsReporter {
	return &statsReporter{
		log:         logger.New("stats"),
		interval:    interval,
		memory:      memory,
		dataSources: dataSources,
	}
}

func (r *statsReporter) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Infof("starting…  interval: %s", r.interval)

	previous := make([]contractdb.Stats, len(r.dataSources))

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(r.interval):
			r.report(previous)
		}
	}

	// counts of the final partial interval
	r.report(previous)
	r.log.Info("stopped")
}

func (r *statsReporter) report(previous []contractdb.Stats) {
	for i, ds := range r.dataSources {
		delta := ds.StatsSince(&previous[i])
		if delta.IsZero() {
			continue
		}
		r.log.Infof("%s: gets: %d  puts: %d  deletes: %d  batches: %d  retries: %d  failures: %d",
			ds.Name(), delta.Gets, delta.Puts, delta.Deletes, delta.Batches, delta.Retries, delta.Failures)
		if delta.Failures > 0 {
			r.log.Warnf("%s: %d failed operations in the last interval", ds.Name(), delta.Failures)
		}
	}

	if r.memory {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		r.log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", m.Alloc/mega, m.TotalAlloc/mega, m.Sys/mega)
	}
}
