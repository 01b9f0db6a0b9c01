// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultManifest is the manifest file name looked up in the working directory.
const DefaultManifest = "syslib.yaml"

// Manifest is the project-level description of the libraries to resolve.
//
//	capabilities:
//	  use_vcpkg: false
//	libraries:
//	  - name: z
//	    library: {name: zlib, version: "1.2.11"}
//	    git_repo: {repo: https://github.com/madler/zlib, reference: v1.3.1}
//	    backend: cmake
//	overrides:
//	  z:
//	    source_dir: {path: third_party/zlib}
type Manifest struct {
	Capabilities Capabilities     `yaml:"capabilities"`
	Libraries    []Config         `yaml:"libraries"`
	Overrides    map[string]Patch `yaml:"overrides"`
}

// Patch overrides selected Config fields by library name. Unset fields leave
// the Config untouched.
type Patch struct {
	Library *Library `yaml:"library,omitempty"`
	// NoLibrary disables system discovery for the library.
	NoLibrary bool              `yaml:"no_library,omitempty"`
	SourceDir *SourceDir        `yaml:"source_dir,omitempty"`
	GitRepo   *GitRepo          `yaml:"git_repo,omitempty"`
	Backend   *Kind             `yaml:"backend,omitempty"`
	Cc        *CcOptions        `yaml:"cc,omitempty"`
	Autotools *AutotoolsOptions `yaml:"autotools,omitempty"`
	CMake     *CMakeOptions     `yaml:"cmake,omitempty"`
	Fallback  *FallbackPolicy   `yaml:"fallback,omitempty"`
}

// Apply returns c with p layered on top.
func (p Patch) Apply(c Config) Config {
	c = c.Clone()
	if p.Library != nil {
		c = c.WithLibrary(p.Library.Name, p.Library.Version)
	}
	if p.NoLibrary {
		c = c.WithoutLibrary()
	}
	if p.SourceDir != nil {
		c = c.WithSourceDir(p.SourceDir.Path)
	}
	if p.GitRepo != nil {
		c = c.WithGitRepo(p.GitRepo.Repo, p.GitRepo.Reference)
	}
	if p.Cc != nil {
		c = c.WithCc(*p.Cc)
	}
	if p.Autotools != nil {
		c = c.WithAutotools(*p.Autotools)
	}
	if p.CMake != nil {
		c = c.WithCMake(*p.CMake)
	}
	if p.Backend != nil {
		c = c.WithBackend(*p.Backend)
	}
	if p.Fallback != nil {
		c = c.WithFallback(*p.Fallback)
	}
	return c
}

// ApplyOverrides layers the override for c.Name, if any, on top of c.
func (m *Manifest) ApplyOverrides(c Config) Config {
	if p, ok := m.Overrides[c.Name]; ok {
		return p.Apply(c)
	}
	return c
}

// Configs returns every library with overrides applied.
func (m *Manifest) Configs() []Config {
	out := make([]Config, 0, len(m.Libraries))
	for _, c := range m.Libraries {
		out = append(out, m.ApplyOverrides(c))
	}
	return out
}

// Lookup returns the named library with overrides applied.
func (m *Manifest) Lookup(name string) (Config, bool) {
	for _, c := range m.Libraries {
		if c.Name == name {
			return m.ApplyOverrides(c), true
		}
	}
	return Config{}, false
}

// LoadManifest reads a manifest file. Capabilities missing from the file keep
// the values in base.
func LoadManifest(path string, base Capabilities) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes manifest YAML and validates every library.
func ParseManifest(data []byte, base Capabilities) (*Manifest, error) {
	m := &Manifest{Capabilities: base}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Libraries))
	for _, c := range m.Configs() {
		if seen[c.Name] {
			return nil, fmt.Errorf("library %q listed twice", c.Name)
		}
		seen[c.Name] = true
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return m, nil
}
