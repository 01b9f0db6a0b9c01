// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lockedfile serializes access to shared cache directories across
// processes with an exclusive advisory lock on a sidecar file.
package lockedfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mutex is an inter-process mutex backed by the file at Path.
type Mutex struct {
	Path string
}

// MutexAt returns a Mutex locking the file at path.
func MutexAt(path string) *Mutex {
	return &Mutex{Path: path}
}

// Lock blocks until the lock is held and returns a function releasing it.
func (mu *Mutex) Lock() (func(), error) {
	if mu.Path == "" {
		return nil, fmt.Errorf("lockedfile: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(mu.Path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(mu.Path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lockedfile: lock %s: %w", mu.Path, err)
	}
	return func() {
		unlockFile(f)
		f.Close()
	}, nil
}
