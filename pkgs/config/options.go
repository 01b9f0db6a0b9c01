// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"maps"
	"slices"
)

// CcOptions configures the compiler-direct backend. All fields are optional.
type CcOptions struct {
	// Compiler overrides $CC (default "cc").
	Compiler string `yaml:"compiler,omitempty" json:"compiler,omitempty"`
	// Archiver overrides $AR (default "ar").
	Archiver string `yaml:"archiver,omitempty" json:"archiver,omitempty"`
	// Files lists sources relative to the source directory. Empty means every
	// C and C++ source in the directory root.
	Files []string `yaml:"files,omitempty" json:"files,omitempty"`
	// IncludeDirs are extra include directories relative to the source directory.
	IncludeDirs []string          `yaml:"include_dirs,omitempty" json:"include_dirs,omitempty"`
	Defines     map[string]string `yaml:"defines,omitempty" json:"defines,omitempty"`
	Flags       []string          `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// AutotoolsOptions configures the autotools backend. All fields are optional.
type AutotoolsOptions struct {
	// Args are appended to ./configure.
	Args []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env  map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	// MakeTargets are built instead of the default target.
	MakeTargets []string `yaml:"make_targets,omitempty" json:"make_targets,omitempty"`
	// Reconf runs autoreconf -fi before configure.
	Reconf bool `yaml:"reconf,omitempty" json:"reconf,omitempty"`
	Jobs   int  `yaml:"jobs,omitempty" json:"jobs,omitempty" validate:"gte=0"`
}

// CMakeOptions configures the CMake backend. All fields are optional.
type CMakeOptions struct {
	Generator string `yaml:"generator,omitempty" json:"generator,omitempty"`
	// BuildType defaults to Release.
	BuildType string            `yaml:"build_type,omitempty" json:"build_type,omitempty"`
	Toolchain string            `yaml:"toolchain,omitempty" json:"toolchain,omitempty"`
	Defines   map[string]string `yaml:"defines,omitempty" json:"defines,omitempty"`
	// Target limits cmake --build to one target.
	Target string            `yaml:"target,omitempty" json:"target,omitempty"`
	Args   []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env    map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

func (o CcOptions) clone() CcOptions {
	o.Files = slices.Clone(o.Files)
	o.IncludeDirs = slices.Clone(o.IncludeDirs)
	o.Defines = maps.Clone(o.Defines)
	o.Flags = slices.Clone(o.Flags)
	return o
}

func (o CcOptions) equal(p CcOptions) bool {
	return o.Compiler == p.Compiler && o.Archiver == p.Archiver &&
		slices.Equal(o.Files, p.Files) &&
		slices.Equal(o.IncludeDirs, p.IncludeDirs) &&
		maps.Equal(o.Defines, p.Defines) &&
		slices.Equal(o.Flags, p.Flags)
}

func (o AutotoolsOptions) clone() AutotoolsOptions {
	o.Args = slices.Clone(o.Args)
	o.Env = maps.Clone(o.Env)
	o.MakeTargets = slices.Clone(o.MakeTargets)
	return o
}

func (o AutotoolsOptions) equal(p AutotoolsOptions) bool {
	return slices.Equal(o.Args, p.Args) &&
		maps.Equal(o.Env, p.Env) &&
		slices.Equal(o.MakeTargets, p.MakeTargets) &&
		o.Reconf == p.Reconf && o.Jobs == p.Jobs
}

func (o CMakeOptions) clone() CMakeOptions {
	o.Defines = maps.Clone(o.Defines)
	o.Args = slices.Clone(o.Args)
	o.Env = maps.Clone(o.Env)
	return o
}

func (o CMakeOptions) equal(p CMakeOptions) bool {
	return o.Generator == p.Generator && o.BuildType == p.BuildType &&
		o.Toolchain == p.Toolchain && o.Target == p.Target &&
		maps.Equal(o.Defines, p.Defines) &&
		slices.Equal(o.Args, p.Args) &&
		maps.Equal(o.Env, p.Env)
}
