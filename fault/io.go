// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
)

// IOFailure - an engine error together with the number of attempts
// that were made before giving up
//
// a single attempt is transient, two or more is permanent
type IOFailure struct {
	Operation string
	Attempts  int
	Err       error
}

// NewIOFailure - wrap an engine error
func NewIOFailure(operation string, attempts int, err error) *IOFailure {
	return &IOFailure{
		Operation: operation,
		Attempts:  attempts,
		Err:       err,
	}
}

func (e *IOFailure) Error() string {
	kind := "permanent"
	if e.Transient() {
		kind = "transient"
	}
	return fmt.Sprintf("%s %s failure after %d attempt(s): %v", kind, e.Operation, e.Attempts, e.Err)
}

// Unwrap - the underlying engine error
func (e *IOFailure) Unwrap() error {
	return e.Err
}

// Transient - true if only a single attempt was made
func (e *IOFailure) Transient() bool {
	return e.Attempts < 2
}

// IsErrTransient - a single failed attempt
func IsErrTransient(e error) bool {
	f, ok := e.(*IOFailure)
	return ok && f.Transient()
}

// IsErrPermanent - failed after retrying
func IsErrPermanent(e error) bool {
	f, ok := e.(*IOFailure)
	return ok && !f.Transient()
}
