// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/goplus/syslib/pkgs/config"
)

// capFlags are the command line switches overriding capabilities. Only flags
// given explicitly override the environment and the manifest.
type capFlags struct {
	pkgConfig, vcpkg, sourceDir, git bool
	static, keep, parallel           bool
}

func (c *capFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&c.pkgConfig, "pkg-config", true, "Probe with pkg-config")
	fs.BoolVar(&c.vcpkg, "vcpkg", true, "Probe with vcpkg")
	fs.BoolVar(&c.sourceDir, "source-dir", true, "Allow building from local source directories")
	fs.BoolVar(&c.git, "git", true, "Allow building from git repositories")
	fs.BoolVar(&c.static, "static", false, "Prefer static libraries")
	fs.BoolVar(&c.keep, "keep-checkouts", false, "Keep git checkouts after building")
	fs.BoolVar(&c.parallel, "parallel-probes", false, "Run system probes concurrently")
}

func (c *capFlags) apply(fs *pflag.FlagSet, caps config.Capabilities) config.Capabilities {
	set := func(name string, dst *bool, v bool) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("pkg-config", &caps.PkgConfig, c.pkgConfig)
	set("vcpkg", &caps.Vcpkg, c.vcpkg)
	set("source-dir", &caps.SourceDir, c.sourceDir)
	set("git", &caps.Git, c.git)
	set("static", &caps.StaticLinking, c.static)
	set("keep-checkouts", &caps.KeepCheckouts, c.keep)
	set("parallel-probes", &caps.ParallelProbes, c.parallel)
	return caps
}

// parseLibraryArg parses a library argument in the form "name@version" or "name".
func parseLibraryArg(arg string) (name, version string) {
	if i := strings.LastIndexByte(arg, '@'); i >= 0 {
		return arg[:i], arg[i+1:]
	}
	return arg, ""
}
