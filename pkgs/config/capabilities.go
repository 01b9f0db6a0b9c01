// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by CapabilitiesFromEnv.
const EnvPrefix = "SYSLIB"

// Capabilities gates each resolution step. It is handed to the engine at
// construction, so every branch can be exercised without rebuilding.
type Capabilities struct {
	// PkgConfig enables the pkg-config probe.
	PkgConfig bool `yaml:"use_pkgconfig" envconfig:"PKG_CONFIG" default:"true"`
	// Vcpkg enables the vcpkg probe.
	Vcpkg bool `yaml:"use_vcpkg" envconfig:"VCPKG" default:"true"`
	// SourceDir enables building from a local source directory.
	SourceDir bool `yaml:"source_dir" envconfig:"SOURCE_DIR" default:"true"`
	// Git enables building from a remote git repository.
	Git bool `yaml:"git" envconfig:"GIT" default:"true"`
	// StaticLinking prefers static libraries from probes and backends.
	StaticLinking bool `yaml:"static_linking" envconfig:"STATIC" default:"false"`
	// KeepCheckouts keeps git working directories after a build so the next
	// build only has to fetch.
	KeepCheckouts bool `yaml:"keep_checkouts" envconfig:"KEEP_CHECKOUTS" default:"false"`
	// ParallelProbes runs the system probes concurrently. Priority order still
	// decides the winner.
	ParallelProbes bool `yaml:"parallel_probes" envconfig:"PARALLEL_PROBES" default:"false"`
}

// DefaultCapabilities enables every probe and source with dynamic linking.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		PkgConfig: true,
		Vcpkg:     true,
		SourceDir: true,
		Git:       true,
	}
}

// SystemDiscovery reports whether any system probe is enabled.
func (c Capabilities) SystemDiscovery() bool {
	return c.PkgConfig || c.Vcpkg
}

// CapabilitiesFromEnv returns the defaults overridden by SYSLIB_* variables,
// for example SYSLIB_PKG_CONFIG=false or SYSLIB_STATIC=true.
func CapabilitiesFromEnv() (Capabilities, error) {
	var c Capabilities
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return Capabilities{}, fmt.Errorf("reading %s_* capabilities: %w", EnvPrefix, err)
	}
	return c, nil
}
