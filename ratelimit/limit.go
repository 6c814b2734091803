// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// New - a limiter for perSecond items, nil if unlimited
//
// the burst allows one full batch of maximumCount items
func New(perSecond int, maximumCount int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := perSecond
	if maximumCount > burst {
		burst = maximumCount
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// LimitN - wait until count items may proceed
//
// a nil limiter never waits, returns the time spent waiting
func LimitN(limiter *rate.Limiter, count int) time.Duration {
	if nil == limiter || count <= 0 {
		return 0
	}
	if count > limiter.Burst() {
		count = limiter.Burst()
	}

	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return 0
	}
	delay := r.Delay()
	time.Sleep(delay)
	return delay
}
