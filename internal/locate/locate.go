// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package locate turns a configured source into a directory on disk.
package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goplus/syslib/pkgs/config"
)

// ErrNotDirectory is returned when a local source path exists but is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// ErrUnknownTag is returned when a version-like git reference is not one of
// the remote's tags.
var ErrUnknownTag = errors.New("unknown tag")

// Locator materializes a source into a local directory.
type Locator interface {
	Locate(ctx context.Context, src config.Source) (*Workdir, error)
}

// Workdir is a located source tree. Callers must Close it once the build
// using it has finished.
type Workdir struct {
	// Path is the absolute directory holding the sources.
	Path string
	// Revision is the checked out commit for remote sources.
	Revision string

	once    sync.Once
	release func() error
	err     error
}

// Close releases the working directory. It is safe to call more than once.
func (w *Workdir) Close() error {
	if w == nil {
		return nil
	}
	w.once.Do(func() {
		if w.release != nil {
			w.err = w.release()
		}
	})
	return w.err
}

// Local locates SourceDir sources.
type Local struct{}

// Locate resolves the directory to an absolute, cleaned path. It never
// modifies the directory.
func (Local) Locate(_ context.Context, src config.Source) (*Workdir, error) {
	dir, ok := src.(config.SourceDir)
	if !ok {
		return nil, fmt.Errorf("local locator: unsupported source %s", src)
	}
	if dir.Path == "" {
		return nil, errors.New("local locator: empty path")
	}
	abs, err := filepath.Abs(dir.Path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}
	return &Workdir{Path: abs}, nil
}

// Mux dispatches each source to the locator handling its kind.
type Mux struct {
	Local Locator
	Git   Locator
}

// New returns a Mux with a Local locator and the given git locator.
func New(git *Git) *Mux {
	return &Mux{Local: Local{}, Git: git}
}

func (m *Mux) Locate(ctx context.Context, src config.Source) (*Workdir, error) {
	var l Locator
	switch src.Kind() {
	case config.SourceLocal:
		l = m.Local
	case config.SourceGit:
		l = m.Git
	}
	if l == nil {
		return nil, fmt.Errorf("no locator for %s", src.Kind())
	}
	return l.Locate(ctx, src)
}
