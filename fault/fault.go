// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type UnsupportedError GenericError

// common errors - keep in alphabetic order
var (
	ErrConfigurationFileNotFound = NotFoundError("configuration file not found")
	ErrInvalidChainID            = InvalidError("invalid chain id")
	ErrInvalidErrorPolicy        = InvalidError("invalid error policy")
	ErrInvalidKey                = InvalidError("invalid key")
	ErrInvalidStructPointer      = InvalidError("invalid struct pointer")
	ErrInvalidTableName          = InvalidError("invalid table name")
	ErrKeysNotSupported          = UnsupportedError("key enumeration is not supported")
	ErrMissingBlockHeight        = InvalidError("block height is required")
	ErrMissingDataDirectory      = InvalidError("data directory is required")
	ErrNoConfigurationTable      = InvalidError("configuration did not return a table")
	ErrNotInitialised            = NotFoundError("not initialised")
	ErrPrefixLookupNotSupported  = UnsupportedError("prefix lookup is not supported")
	ErrRecordTruncated           = InvalidError("record is truncated")
	ErrTableClosed               = ProcessError("table is closed")
	ErrTableNotFound             = NotFoundError("table not found")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e InvalidError) Error() string     { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e ProcessError) Error() string     { return string(e) }
func (e UnsupportedError) Error() string { return string(e) }

// determine the class of an error
func IsErrInvalid(e error) bool     { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool    { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool     { _, ok := e.(ProcessError); return ok }
func IsErrUnsupported(e error) bool { _, ok := e.(UnsupportedError); return ok }
