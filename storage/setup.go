// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/contractd/fault"
	"github.com/bitmark-inc/logger"
)

// Manager - the set of tables below one root directory
type Manager struct {
	sync.RWMutex

	log     *logger.L
	root    string
	options Options
	tables  map[string]*TableHandle
	closed  bool
}

// Open - prepare a root directory for tables
//
// no table is opened here, only the directory is created if allowed
func Open(root string, options Options) (*Manager, error) {
	if "" == root {
		return nil, fault.ErrMissingDataDirectory
	}

	root, err := filepath.Abs(filepath.Clean(root))
	if nil != err {
		return nil, err
	}

	if options.CreateIfMissing {
		if err := os.MkdirAll(root, 0700); nil != err {
			return nil, err
		}
	} else if fileInfo, err := os.Stat(root); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fault.ErrMissingDataDirectory
	}

	log := logger.New("storage")
	log.Infof("open: %q", root)
	if unsupported := options.Unsupported(); len(unsupported) > 0 {
		log.Debugf("settings without effect on leveldb: %s", strings.Join(unsupported, ", "))
	}

	return &Manager{
		log:     log,
		root:    root,
		options: options,
		tables:  make(map[string]*TableHandle),
	}, nil
}

// Root - absolute path of the root directory
func (m *Manager) Root() string {
	return m.root
}

// ListTables - names of all tables on disk, sorted
func (m *Manager) ListTables() ([]string, error) {
	m.RLock()
	defer m.RUnlock()

	if m.closed {
		return nil, fault.ErrNotInitialised
	}

	entries, err := ioutil.ReadDir(m.root)
	if nil != err {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ExistTable - true if the table is open or present on disk
func (m *Manager) ExistTable(name string) bool {
	m.RLock()
	defer m.RUnlock()

	if _, ok := m.tables[name]; ok {
		return true
	}
	if nil != validName(name) {
		return false
	}
	fileInfo, err := os.Stat(m.path(name))
	return nil == err && fileInfo.IsDir()
}

// IsOpen - true if the table has an open handle
func (m *Manager) IsOpen(name string) bool {
	m.RLock()
	defer m.RUnlock()

	_, ok := m.tables[name]
	return ok
}

// CreateTable - open a table, creating it if it does not exist
func (m *Manager) CreateTable(name string) (Table, error) {
	return m.open(name, true)
}

// OpenTable - open an existing table
func (m *Manager) OpenTable(name string) (Table, error) {
	return m.open(name, false)
}

func (m *Manager) open(name string, create bool) (Table, error) {
	if err := validName(name); nil != err {
		return nil, err
	}

	m.Lock()
	defer m.Unlock()

	if m.closed {
		return nil, fault.ErrNotInitialised
	}

	if t, ok := m.tables[name]; ok {
		return t, nil
	}

	path := m.path(name)
	if !create {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fault.ErrTableNotFound
		}
	}

	opt := m.options.leveldb()
	opt.ErrorIfMissing = !create

	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		m.log.Errorf("open table: %q  error: %s", name, err)
		return nil, err
	}

	t := newTableHandle(name, db)
	m.tables[name] = t
	m.log.Debugf("opened table: %q", name)
	return t, nil
}

// CloseTable - close a table if it is open
func (m *Manager) CloseTable(name string) error {
	m.Lock()
	defer m.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return nil
	}
	delete(m.tables, name)
	m.log.Debugf("close table: %q", name)
	err := t.Close()
	if nil != err {
		m.log.Errorf("close table: %q  error: %s", name, err)
	}
	return err
}

// Close - close every open table
//
// the manager cannot be used afterwards
func (m *Manager) Close() error {
	m.Lock()
	defer m.Unlock()

	if m.closed {
		return nil
	}

	var firstErr error
	for name, t := range m.tables {
		if err := t.Close(); nil != err {
			m.log.Errorf("close table: %q  error: %s", name, err)
			if nil == firstErr {
				firstErr = err
			}
		}
	}
	m.tables = make(map[string]*TableHandle)
	m.closed = true
	m.log.Infof("closed: %q", m.root)
	m.log.Flush()
	return firstErr
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.root, name)
}

func validName(name string) error {
	if "" == name || "." == name || ".." == name || strings.ContainsAny(name, `/\`) {
		return fault.ErrInvalidTableName
	}
	return nil
}
