// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package autotools builds libraries with ./configure && make && make install.
package autotools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

// Backend is the autotools build backend.
type Backend struct {
	runner buildsys.Runner
	make   string
}

var _ buildsys.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithMake sets a custom make executable, such as gmake.
func WithMake(path string) Option {
	return func(b *Backend) {
		b.make = path
	}
}

// New creates an autotools backend running processes through r.
func New(r buildsys.Runner, opts ...Option) *Backend {
	b := &Backend{runner: r, make: "make"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (*Backend) Kind() config.Kind { return config.KindAutotools }

// Build runs an out-of-tree configure, make and make install, then collects
// the installed library. Trees without a generated configure script, such as
// fresh git checkouts, are bootstrapped with autoreconf first.
func (b *Backend) Build(ctx context.Context, req buildsys.Request) (*linkinfo.LinkInfo, error) {
	if err := buildsys.PrepareInstallDir(req.InstallDir); err != nil {
		return nil, fmt.Errorf("autotools: %w", err)
	}
	buildDir, err := os.MkdirTemp("", "syslib-autotools-")
	if err != nil {
		return nil, fmt.Errorf("autotools: %w", err)
	}
	defer os.RemoveAll(buildDir)

	opts := req.Config.Autotools
	a := &AutoTools{
		runner:     b.runner,
		make:       b.make,
		sourceDir:  req.SourceDir,
		buildDir:   buildDir,
		installDir: req.InstallDir,
		env:        opts.Env,
	}

	if opts.Reconf || !fileExists(filepath.Join(req.SourceDir, "configure")) {
		if err := a.Reconf(ctx); err != nil {
			return nil, fmt.Errorf("autoreconf: %w", err)
		}
	}
	args := []string{}
	if req.Static {
		args = append(args, "--enable-static", "--disable-shared")
	}
	args = append(args, opts.Args...)
	if err := a.Configure(ctx, args...); err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}

	makeArgs := append([]string{}, opts.MakeTargets...)
	if opts.Jobs > 0 {
		makeArgs = append([]string{"-j" + strconv.Itoa(opts.Jobs)}, makeArgs...)
	}
	if err := a.Build(ctx, makeArgs...); err != nil {
		return nil, fmt.Errorf("make: %w", err)
	}
	if err := a.Install(ctx); err != nil {
		return nil, fmt.Errorf("make install: %w", err)
	}
	return buildsys.Collect(linkinfo.ProviderAutotools, req.InstallDir, req.Name, req.Static)
}

// AutoTools holds the autotools invocation for one source tree.
type AutoTools struct {
	runner     buildsys.Runner
	make       string
	sourceDir  string
	buildDir   string
	installDir string
	env        map[string]string
}

// Reconf regenerates configure in the source tree.
func (a *AutoTools) Reconf(ctx context.Context) error {
	return a.run(ctx, "autoreconf", []string{"-fi"}, a.sourceDir)
}

// Configure runs the source tree's configure script from the build directory.
func (a *AutoTools) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(a.buildDir, 0o755); err != nil {
		return err
	}
	exe, err := filepath.Abs(filepath.Join(a.sourceDir, "configure"))
	if err != nil {
		return err
	}
	configArgs := []string{}
	if a.installDir != "" {
		configArgs = append(configArgs, "--prefix="+a.installDir)
	}
	configArgs = append(configArgs, args...)
	return a.run(ctx, exe, configArgs, a.buildDir)
}

// Build runs make with args in the build directory.
func (a *AutoTools) Build(ctx context.Context, args ...string) error {
	return a.run(ctx, a.make, args, a.buildDir)
}

// Install runs make install in the build directory.
func (a *AutoTools) Install(ctx context.Context) error {
	return a.run(ctx, a.make, []string{"install"}, a.buildDir)
}

func (a *AutoTools) run(ctx context.Context, bin string, args []string, dir string) error {
	return a.runner.Run(ctx, buildsys.Command{Path: bin, Args: args, Dir: dir, Env: a.env})
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
