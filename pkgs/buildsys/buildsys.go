// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

// ErrMissingArtifact is returned when a build finished but did not produce the
// library it was expected to produce.
var ErrMissingArtifact = errors.New("expected artifact missing")

// Backend drives one native build system. Each backend maps its option bag
// from the Config to a native invocation, runs it to completion and collects
// the installed headers and libraries into a LinkInfo.
type Backend interface {
	Kind() config.Kind
	Build(ctx context.Context, req Request) (*linkinfo.LinkInfo, error)
}

// Request is the input of one backend build.
type Request struct {
	// Name is the library base name expected among the installed artifacts.
	Name string
	// SourceDir is an existing directory holding the sources.
	SourceDir string
	// InstallDir receives include/ and lib/. Backends recreate it.
	InstallDir string
	// Static asks for static libraries.
	Static bool
	// Config carries the backend option bags.
	Config config.Config
}

// Detect picks a backend from the layout of dir: CMakeLists.txt selects CMake,
// configure or configure.ac selects autotools, anything else is compiled
// directly.
func Detect(dir string) config.Kind {
	switch {
	case exists(filepath.Join(dir, "CMakeLists.txt")):
		return config.KindCMake
	case exists(filepath.Join(dir, "configure")), exists(filepath.Join(dir, "configure.ac")):
		return config.KindAutotools
	}
	return config.KindCc
}

// Select returns the backend for kind, detecting it from dir when kind is
// KindAuto.
func Select(backends []Backend, kind config.Kind, dir string) (Backend, error) {
	if kind == config.KindAuto {
		kind = Detect(dir)
	}
	for _, b := range backends {
		if b.Kind() == kind {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no %s backend registered", kind)
}

// PrepareInstallDir empties dir so that artifacts of an earlier build never
// leak into the next LinkInfo.
func PrepareInstallDir(dir string) error {
	if dir == "" {
		return errors.New("install dir not set")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Output returns w, or io.Discard when w is nil.
func Output(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
