// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmake builds libraries with CMake: configure into a temporary build
// tree, build, and install into the request's install directory.
package cmake

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

// Backend is the CMake build backend.
type Backend struct {
	runner buildsys.Runner
	binary string
}

var _ buildsys.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithBinary sets a custom cmake executable path.
func WithBinary(path string) Option {
	return func(b *Backend) {
		b.binary = path
	}
}

// New creates a CMake backend running processes through r.
func New(r buildsys.Runner, opts ...Option) *Backend {
	b := &Backend{runner: r, binary: "cmake"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (*Backend) Kind() config.Kind { return config.KindCMake }

// Build configures, builds and installs req.SourceDir and collects the
// installed library.
func (b *Backend) Build(ctx context.Context, req buildsys.Request) (*linkinfo.LinkInfo, error) {
	if err := buildsys.PrepareInstallDir(req.InstallDir); err != nil {
		return nil, fmt.Errorf("cmake: %w", err)
	}
	buildDir, err := os.MkdirTemp("", "syslib-cmake-")
	if err != nil {
		return nil, fmt.Errorf("cmake: %w", err)
	}
	defer os.RemoveAll(buildDir)

	opts := req.Config.CMake
	c := b.project(req.SourceDir, buildDir, req.InstallDir)
	c.Generator(opts.Generator).Toolchain(opts.Toolchain)
	if opts.BuildType != "" {
		c.BuildType(opts.BuildType)
	}
	c.DefineBool("BUILD_SHARED_LIBS", !req.Static)
	for k, v := range opts.Defines {
		c.Define(k, v)
	}
	for k, v := range opts.Env {
		c.Env(k, v)
	}

	if err := c.Configure(ctx, opts.Args...); err != nil {
		return nil, fmt.Errorf("cmake configure: %w", err)
	}
	var buildArgs []string
	if opts.Target != "" {
		buildArgs = append(buildArgs, "--target", opts.Target)
	}
	if err := c.Build(ctx, buildArgs...); err != nil {
		return nil, fmt.Errorf("cmake build: %w", err)
	}
	if err := c.Install(ctx); err != nil {
		return nil, fmt.Errorf("cmake install: %w", err)
	}
	return buildsys.Collect(linkinfo.ProviderCMake, req.InstallDir, req.Name, req.Static)
}

type defineValue struct {
	value    string
	typeName string
}

// Project holds the CMake invocation for one source tree.
type Project struct {
	runner     buildsys.Runner
	binary     string
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	defines    map[string]defineValue
	env        map[string]string
}

func (b *Backend) project(sourceDir, buildDir, installDir string) *Project {
	return &Project{
		runner:     b.runner,
		binary:     b.binary,
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		buildType:  "Release",
		defines:    map[string]defineValue{},
		env:        map[string]string{},
	}
}

func (c *Project) Generator(name string) *Project {
	c.generator = name
	return c
}

func (c *Project) BuildType(name string) *Project {
	c.buildType = name
	return c
}

func (c *Project) Toolchain(path string) *Project {
	c.toolchain = path
	return c
}

func (c *Project) Define(key, value string) *Project {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

func (c *Project) DefineBool(key string, value bool) *Project {
	if value {
		c.defines[key] = defineValue{value: "ON", typeName: "BOOL"}
		return c
	}
	c.defines[key] = defineValue{value: "OFF", typeName: "BOOL"}
	return c
}

func (c *Project) Env(key, value string) *Project {
	c.env[key] = value
	return c
}

func (c *Project) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

func (c *Project) Build(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(ctx, cmdArgs)
}

func (c *Project) Install(ctx context.Context, args ...string) error {
	cmdArgs := []string{"--install", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(ctx, cmdArgs)
}

func (c *Project) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.defines[k]
		args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
	}
	return args
}

func (c *Project) run(ctx context.Context, args []string) error {
	return c.runner.Run(ctx, buildsys.Command{Path: c.binary, Args: args, Env: c.env})
}
