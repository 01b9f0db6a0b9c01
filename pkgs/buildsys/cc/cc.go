// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cc builds a static library by invoking the C compiler directly on
// each source file and archiving the objects.
package cc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

var sourceExts = map[string]bool{".c": true, ".cc": true, ".cpp": true, ".cxx": true}

// Backend is the compiler-direct build backend.
type Backend struct {
	runner buildsys.Runner
}

var _ buildsys.Backend = (*Backend)(nil)

// New creates a compiler-direct backend running processes through r.
func New(r buildsys.Runner) *Backend {
	return &Backend{runner: r}
}

func (*Backend) Kind() config.Kind { return config.KindCc }

// Build compiles the sources into objects, archives lib<name>.a into
// <install>/lib and copies the headers at the source root into
// <install>/include. The result is always a static library.
func (b *Backend) Build(ctx context.Context, req buildsys.Request) (*linkinfo.LinkInfo, error) {
	opts := req.Config.Cc
	files, err := sourceFiles(req.SourceDir, opts.Files)
	if err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("cc: %w: no C or C++ sources in %s", buildsys.ErrMissingArtifact, req.SourceDir)
	}
	if err := buildsys.PrepareInstallDir(req.InstallDir); err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	objDir, err := os.MkdirTemp("", "syslib-cc-")
	if err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	defer os.RemoveAll(objDir)

	compiler := firstNonEmpty(opts.Compiler, os.Getenv("CC"), "cc")
	archiver := firstNonEmpty(opts.Archiver, os.Getenv("AR"), "ar")

	args := []string{"-I" + req.SourceDir}
	for _, dir := range opts.IncludeDirs {
		args = append(args, "-I"+filepath.Join(req.SourceDir, dir))
	}
	keys := make([]string, 0, len(opts.Defines))
	for k := range opts.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := opts.Defines[k]; v != "" {
			args = append(args, "-D"+k+"="+v)
		} else {
			args = append(args, "-D"+k)
		}
	}
	args = append(args, opts.Flags...)

	objs := make([]string, 0, len(files))
	for i, f := range files {
		obj := filepath.Join(objDir, fmt.Sprintf("%d_%s.o", i, strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))))
		cmdArgs := append(append([]string{}, args...), "-c", f, "-o", obj)
		if err := b.runner.Run(ctx, buildsys.Command{Path: compiler, Args: cmdArgs, Dir: req.SourceDir}); err != nil {
			return nil, fmt.Errorf("cc compile %s: %w", f, err)
		}
		objs = append(objs, obj)
	}

	libDir := filepath.Join(req.InstallDir, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	archive := filepath.Join(libDir, "lib"+req.Name+".a")
	arArgs := append([]string{"rcs", archive}, objs...)
	if err := b.runner.Run(ctx, buildsys.Command{Path: archiver, Args: arArgs, Dir: req.SourceDir}); err != nil {
		return nil, fmt.Errorf("cc archive: %w", err)
	}

	if err := copyHeaders(req.SourceDir, filepath.Join(req.InstallDir, "include")); err != nil {
		return nil, fmt.Errorf("cc: %w", err)
	}
	if _, err := os.Stat(archive); err != nil {
		return nil, fmt.Errorf("cc: %w: %s", buildsys.ErrMissingArtifact, archive)
	}

	info := linkinfo.New(linkinfo.ProviderCc)
	if inc := filepath.Join(req.InstallDir, "include"); dirExists(inc) {
		info.AddInclude(inc)
	}
	info.AddLinkDir(libDir)
	info.AddLib(req.Name)
	for _, k := range keys {
		if v := opts.Defines[k]; v != "" {
			info.Define(k, &v)
		} else {
			info.Define(k, nil)
		}
	}
	return info, nil
}

// sourceFiles returns the absolute paths of the configured files, or of every
// C/C++ source at the root of dir.
func sourceFiles(dir string, files []string) ([]string, error) {
	if len(files) > 0 {
		out := make([]string, 0, len(files))
		for _, f := range files {
			p := filepath.Join(dir, f)
			if _, err := os.Stat(p); err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && sourceExts[filepath.Ext(e.Name())] {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func copyHeaders(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || (filepath.Ext(e.Name()) != ".h" && filepath.Ext(e.Name()) != ".hpp") {
			continue
		}
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return err
		}
		if err := copyFile(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
