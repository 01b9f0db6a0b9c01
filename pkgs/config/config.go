// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config describes a single library request and the capabilities
// that decide which resolution steps may run.
//
// A Config is an immutable value. Builder methods have value receivers and
// return an updated copy, so a partially built Config can be shared, cloned
// and compared without surprises.
package config

// Kind names a build backend.
type Kind string

const (
	// KindAuto picks a backend from the layout of the source tree.
	KindAuto      Kind = ""
	KindCc        Kind = "cc"
	KindAutotools Kind = "autotools"
	KindCMake     Kind = "cmake"
)

// FallbackPolicy controls what happens when building from one source fails
// while another source is still configured.
type FallbackPolicy string

const (
	// FailFast aborts resolution on the first source failure.
	FailFast FallbackPolicy = "fail-fast"
	// NextSource retries with the next configured source (local, then git).
	NextSource FallbackPolicy = "next-source"
)

// Library describes a system library candidate.
type Library struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	// Version is an optional minimum version.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Config is one library request.
type Config struct {
	// Name is the library base name. Built libraries are linked as -l<Name>.
	Name string `yaml:"name" json:"name" validate:"required,excludesall=/"`

	Library   *Library   `yaml:"library,omitempty" json:"library,omitempty"`
	SourceDir *SourceDir `yaml:"source_dir,omitempty" json:"source_dir,omitempty"`
	GitRepo   *GitRepo   `yaml:"git_repo,omitempty" json:"git_repo,omitempty"`

	Backend   Kind             `yaml:"backend,omitempty" json:"backend,omitempty" validate:"omitempty,oneof=cc autotools cmake"`
	Cc        CcOptions        `yaml:"cc,omitempty" json:"cc,omitempty"`
	Autotools AutotoolsOptions `yaml:"autotools,omitempty" json:"autotools,omitempty"`
	CMake     CMakeOptions     `yaml:"cmake,omitempty" json:"cmake,omitempty"`

	Fallback FallbackPolicy `yaml:"fallback,omitempty" json:"fallback,omitempty" validate:"omitempty,oneof=fail-fast next-source"`
}

// New returns a Config for the named library that also looks for a system
// library of the same name. An empty version means any version will do.
func New(name, version string) Config {
	return Config{
		Name:    name,
		Library: &Library{Name: name, Version: version},
	}
}

// WithLibrary replaces the system library candidate.
func (c Config) WithLibrary(name, version string) Config {
	c.Library = &Library{Name: name, Version: version}
	return c
}

// WithoutLibrary disables system library discovery for this request.
func (c Config) WithoutLibrary() Config {
	c.Library = nil
	return c
}

// WithSourceDir sets the local source directory.
func (c Config) WithSourceDir(path string) Config {
	c.SourceDir = &SourceDir{Path: path}
	return c
}

// WithGitRepo sets the remote repository. An empty ref means the default
// branch.
func (c Config) WithGitRepo(repo, ref string) Config {
	c.GitRepo = &GitRepo{Repo: repo, Reference: ref}
	return c
}

// WithBackend forces a backend instead of detecting one.
func (c Config) WithBackend(k Kind) Config {
	c.Backend = k
	return c
}

// WithCc selects the compiler-direct backend with opts.
func (c Config) WithCc(opts CcOptions) Config {
	c.Backend = KindCc
	c.Cc = opts.clone()
	return c
}

// WithAutotools selects the autotools backend with opts.
func (c Config) WithAutotools(opts AutotoolsOptions) Config {
	c.Backend = KindAutotools
	c.Autotools = opts.clone()
	return c
}

// WithCMake selects the CMake backend with opts.
func (c Config) WithCMake(opts CMakeOptions) Config {
	c.Backend = KindCMake
	c.CMake = opts.clone()
	return c
}

// WithFallback sets the source fallback policy.
func (c Config) WithFallback(p FallbackPolicy) Config {
	c.Fallback = p
	return c
}

// Policy returns the effective fallback policy; unset means FailFast.
func (c Config) Policy() FallbackPolicy {
	if c.Fallback == "" {
		return FailFast
	}
	return c.Fallback
}

// Sources returns the configured sources in priority order, ignoring
// capabilities.
func (c Config) Sources() []Source {
	var srcs []Source
	if c.SourceDir != nil {
		srcs = append(srcs, *c.SourceDir)
	}
	if c.GitRepo != nil {
		srcs = append(srcs, *c.GitRepo)
	}
	return srcs
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	if c.Library != nil {
		lib := *c.Library
		c.Library = &lib
	}
	if c.SourceDir != nil {
		d := *c.SourceDir
		c.SourceDir = &d
	}
	if c.GitRepo != nil {
		g := *c.GitRepo
		c.GitRepo = &g
	}
	c.Cc = c.Cc.clone()
	c.Autotools = c.Autotools.clone()
	c.CMake = c.CMake.clone()
	return c
}

// Equal reports whether c and o describe the same request.
func (c Config) Equal(o Config) bool {
	return c.Name == o.Name &&
		ptrEqual(c.Library, o.Library) &&
		ptrEqual(c.SourceDir, o.SourceDir) &&
		ptrEqual(c.GitRepo, o.GitRepo) &&
		c.Backend == o.Backend &&
		c.Cc.equal(o.Cc) &&
		c.Autotools.equal(o.Autotools) &&
		c.CMake.equal(o.CMake) &&
		c.Policy() == o.Policy()
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
