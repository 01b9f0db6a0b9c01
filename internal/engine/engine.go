// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine resolves a library configuration into link information.
//
// Resolution tries the enabled system probes first, then builds from the
// first usable source with the selected build backend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/goplus/syslib/internal/env"
	"github.com/goplus/syslib/internal/locate"
	"github.com/goplus/syslib/internal/probe"
	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/buildsys/autotools"
	"github.com/goplus/syslib/pkgs/buildsys/cc"
	"github.com/goplus/syslib/pkgs/buildsys/cmake"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

// Engine runs resolutions. It holds no per-library state, so one Engine may
// serve any number of sequential Build calls.
type Engine struct {
	caps      config.Capabilities
	log       zerolog.Logger
	pkgConfig probe.Probe
	vcpkg     probe.Probe
	locator   locate.Locator
	backends  []buildsys.Backend
	runner    buildsys.Runner
	outDir    string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the sink for diagnostic records.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithPkgConfig replaces the pkg-config probe.
func WithPkgConfig(p probe.Probe) Option {
	return func(e *Engine) { e.pkgConfig = p }
}

// WithVcpkg replaces the vcpkg probe.
func WithVcpkg(p probe.Probe) Option {
	return func(e *Engine) { e.vcpkg = p }
}

// WithLocator replaces the source locator.
func WithLocator(l locate.Locator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithBackend registers a backend, replacing any default of the same kind.
func WithBackend(b buildsys.Backend) Option {
	return func(e *Engine) { e.backends = append(e.backends, b) }
}

// WithRunner sets the process runner of the default backends.
func WithRunner(r buildsys.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithOutDir sets the directory receiving build outputs, one subdirectory
// per library.
func WithOutDir(dir string) Option {
	return func(e *Engine) { e.outDir = dir }
}

// New returns an Engine restricted to caps.
func New(caps config.Capabilities, opts ...Option) *Engine {
	e := &Engine{caps: caps, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.pkgConfig == nil {
		p := probe.NewPkgConfig()
		p.Logger = e.log
		e.pkgConfig = p
	}
	if e.vcpkg == nil {
		e.vcpkg = probe.NewVcpkg()
	}
	if e.runner == nil {
		e.runner = buildsys.ExecRunner{}
	}
	for _, b := range []buildsys.Backend{cmake.New(e.runner), autotools.New(e.runner), cc.New(e.runner)} {
		if !e.hasBackend(b.Kind()) {
			e.backends = append(e.backends, b)
		}
	}
	return e
}

// Capabilities returns the capabilities the engine was created with.
func (e *Engine) Capabilities() config.Capabilities { return e.caps }

func (e *Engine) hasBackend(k config.Kind) bool {
	for _, b := range e.backends {
		if b.Kind() == k {
			return true
		}
	}
	return false
}

// Build resolves cfg into link information.
func (e *Engine) Build(ctx context.Context, cfg config.Config) (*linkinfo.LinkInfo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Step: "validate", Name: cfg.Name, Err: err}
	}
	log := e.log.With().Str("library", cfg.Name).Logger()

	if cfg.Library != nil {
		if info := e.probe(ctx, log, *cfg.Library); info != nil {
			return info, nil
		}
	} else {
		log.Debug().Str("step", "probe").Msg("skipped, no library identity")
	}

	sources := e.sources(log, cfg)
	if len(sources) == 0 {
		return nil, &Error{
			Kind: ErrNoSourceAvailable,
			Step: "select",
			Name: cfg.Name,
			Err:  errors.New(e.remedy(cfg)),
		}
	}

	var lastErr error
	for i, src := range sources {
		info, err := e.buildFrom(ctx, log, cfg, src)
		if err == nil {
			return info, nil
		}
		lastErr = err
		if cfg.Policy() != config.NextSource || i == len(sources)-1 {
			break
		}
		log.Warn().Err(err).Str("source", src.String()).Msg("source failed, trying next")
	}
	return nil, lastErr
}

// Probe runs only the enabled system probes. It returns nil when none of
// them found the library.
func (e *Engine) Probe(ctx context.Context, lib config.Library) *linkinfo.LinkInfo {
	return e.probe(ctx, e.log.With().Str("library", lib.Name).Logger(), lib)
}

type probeSlot struct {
	name    string
	enabled bool
	p       probe.Probe
}

func (e *Engine) probe(ctx context.Context, log zerolog.Logger, lib config.Library) *linkinfo.LinkInfo {
	slots := []probeSlot{
		{linkinfo.ProviderPkgConfig, e.caps.PkgConfig, e.pkgConfig},
		{linkinfo.ProviderVcpkg, e.caps.Vcpkg, e.vcpkg},
	}
	var active []probe.Probe
	for _, s := range slots {
		if !s.enabled {
			log.Debug().Str("step", "probe").Str("probe", s.name).Msg("skipped, disabled")
			continue
		}
		active = append(active, s.p)
	}
	static := e.caps.StaticLinking

	if e.caps.ParallelProbes && len(active) > 1 {
		infos := make([]*linkinfo.LinkInfo, len(active))
		errs := make([]error, len(active))
		var g errgroup.Group
		for i, p := range active {
			g.Go(func() error {
				infos[i], errs[i] = p.Probe(ctx, lib, static)
				return nil
			})
		}
		g.Wait()
		for i, p := range active {
			if report(log, p, infos[i], errs[i]) {
				return infos[i]
			}
		}
		return nil
	}

	for _, p := range active {
		info, err := p.Probe(ctx, lib, static)
		if report(log, p, info, err) {
			return info
		}
	}
	return nil
}

// report logs one probe outcome and reports whether it is a usable result.
func report(log zerolog.Logger, p probe.Probe, info *linkinfo.LinkInfo, err error) bool {
	log = log.With().Str("step", "probe").Str("probe", p.Name()).Logger()
	switch {
	case err == nil && info != nil:
		if info.Provider == "" {
			info.Provider = p.Name()
		}
		log.Info().Str("version", info.Version).Msg("found")
		return true
	case err == nil:
		log.Warn().Msg("probe returned no result")
	case probe.Absent(err):
		log.Info().Err(err).Msg("not found")
	default:
		log.Warn().Err(err).Msg("probe failed")
	}
	return false
}

// sources returns the configured sources allowed by the capabilities, in
// priority order.
func (e *Engine) sources(log zerolog.Logger, cfg config.Config) []config.Source {
	var out []config.Source
	for _, src := range cfg.Sources() {
		enabled := false
		switch src.Kind() {
		case config.SourceLocal:
			enabled = e.caps.SourceDir
		case config.SourceGit:
			enabled = e.caps.Git
		}
		if !enabled {
			log.Debug().Str("step", "select").Str("source", src.String()).Msg("skipped, disabled")
			continue
		}
		out = append(out, src)
	}
	return out
}

// remedy explains how to make a library without sources resolvable.
func (e *Engine) remedy(cfg config.Config) string {
	var hints []string
	if !e.caps.SystemDiscovery() {
		hints = append(hints, "enable pkg-config or vcpkg discovery")
	} else if cfg.Library == nil {
		hints = append(hints, "set a library name for system discovery")
	} else {
		hints = append(hints, "install the library system-wide")
	}
	switch {
	case cfg.SourceDir == nil && cfg.GitRepo == nil:
		hints = append(hints, "configure source_dir or git_repo")
	default:
		if cfg.SourceDir != nil && !e.caps.SourceDir {
			hints = append(hints, "enable the source_dir capability")
		}
		if cfg.GitRepo != nil && !e.caps.Git {
			hints = append(hints, "enable the git capability")
		}
	}
	return strings.Join(hints, ", or ")
}

func (e *Engine) buildFrom(ctx context.Context, log zerolog.Logger, cfg config.Config, src config.Source) (*linkinfo.LinkInfo, error) {
	log = log.With().Str("source", src.String()).Logger()
	fail := func(kind error, step string, err error) error {
		return &Error{Kind: kind, Step: step, Name: cfg.Name, Source: src.String(), Err: err}
	}

	locator, err := e.locatorFor(src)
	if err != nil {
		return nil, fail(ErrSourceResolutionFailed, "locate", err)
	}
	log.Debug().Str("step", "locate").Msg("locating")
	wd, err := locator.Locate(ctx, src)
	if err != nil {
		return nil, fail(ErrSourceResolutionFailed, "locate", err)
	}
	defer func() {
		if err := wd.Close(); err != nil {
			log.Warn().Err(err).Str("dir", wd.Path).Msg("release working directory")
		}
	}()

	backend, err := buildsys.Select(e.backends, cfg.Backend, wd.Path)
	if err != nil {
		return nil, fail(ErrBackendExecutionFailed, "dispatch", err)
	}
	outDir := e.outDir
	if outDir == "" {
		if outDir, err = env.OutDir(); err != nil {
			return nil, fail(ErrBackendExecutionFailed, "build", err)
		}
	}
	req := buildsys.Request{
		Name:       cfg.Name,
		SourceDir:  wd.Path,
		InstallDir: filepath.Join(outDir, cfg.Name),
		Static:     e.caps.StaticLinking,
		Config:     cfg,
	}

	log.Info().Str("step", "build").Str("backend", string(backend.Kind())).Str("dir", wd.Path).Msg("building")
	info, err := backend.Build(ctx, req)
	if err != nil {
		return nil, fail(ErrBackendExecutionFailed, "build", err)
	}
	if info == nil || info.Empty() {
		return nil, fail(ErrBackendExecutionFailed, "build",
			fmt.Errorf("%s backend: %w: nothing to link in %s", backend.Kind(), buildsys.ErrMissingArtifact, req.InstallDir))
	}
	if info.Provider == "" {
		info.Provider = string(backend.Kind())
	}
	log.Info().Str("step", "build").Str("backend", string(backend.Kind())).Strs("libs", info.Libs).Msg("built")
	return info, nil
}

func (e *Engine) locatorFor(src config.Source) (locate.Locator, error) {
	if e.locator != nil {
		return e.locator, nil
	}
	if src.Kind() == config.SourceLocal {
		return locate.Local{}, nil
	}
	g, err := locate.NewGit(locate.WithKeep(e.caps.KeepCheckouts), locate.WithLogger(e.log))
	if err != nil {
		return nil, err
	}
	return locate.New(g), nil
}
