// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linkinfo defines LinkInfo, the normalized description of how a
// dependent build links against a resolved library.
//
// The JSON field names of LinkInfo are consumed by downstream tooling and must
// stay stable. New fields are only ever appended.
package linkinfo

import (
	"maps"
	"slices"
)

// Providers recorded in LinkInfo.Provider.
const (
	ProviderPkgConfig = "pkg-config"
	ProviderVcpkg     = "vcpkg"
	ProviderCc        = "cc"
	ProviderAutotools = "autotools"
	ProviderCMake     = "cmake"
)

// LinkInfo is the result of one successful resolution. The engine keeps no
// reference to it after returning.
type LinkInfo struct {
	IncludeDirs []string           `json:"include_dirs"`
	LinkDirs    []string           `json:"link_dirs"`
	Libs        []string           `json:"libs"`
	Defines     map[string]*string `json:"defines"`

	// Provider names the probe or backend that produced the result.
	Provider string `json:"provider,omitempty"`
	// Version is the library version when the provider knows it.
	Version string `json:"version,omitempty"`
}

// New returns an empty LinkInfo with non-nil collections, so that it encodes
// as empty lists rather than null.
func New(provider string) *LinkInfo {
	return &LinkInfo{
		IncludeDirs: []string{},
		LinkDirs:    []string{},
		Libs:        []string{},
		Defines:     map[string]*string{},
		Provider:    provider,
	}
}

// AddInclude appends include directories, skipping ones already present.
func (l *LinkInfo) AddInclude(dirs ...string) {
	l.IncludeDirs = appendUnique(l.IncludeDirs, dirs...)
}

// AddLinkDir appends library search directories, skipping duplicates.
func (l *LinkInfo) AddLinkDir(dirs ...string) {
	l.LinkDirs = appendUnique(l.LinkDirs, dirs...)
}

// AddLib appends libraries to link, skipping duplicates.
func (l *LinkInfo) AddLib(names ...string) {
	l.Libs = appendUnique(l.Libs, names...)
}

// Define records a preprocessor define. A nil value defines the name without
// a value. A later call for the same name replaces the earlier value.
func (l *LinkInfo) Define(name string, value *string) {
	if l.Defines == nil {
		l.Defines = map[string]*string{}
	}
	if value != nil {
		v := *value
		value = &v
	}
	l.Defines[name] = value
}

// HasLib reports whether name is among the libraries to link.
func (l *LinkInfo) HasLib(name string) bool {
	return slices.Contains(l.Libs, name)
}

// Empty reports whether l carries nothing a dependent build could use.
func (l *LinkInfo) Empty() bool {
	return len(l.IncludeDirs) == 0 && len(l.LinkDirs) == 0 && len(l.Libs) == 0 && len(l.Defines) == 0
}

// Merge appends the contents of other to l. Defines from other win.
func (l *LinkInfo) Merge(other *LinkInfo) {
	if other == nil {
		return
	}
	l.AddInclude(other.IncludeDirs...)
	l.AddLinkDir(other.LinkDirs...)
	l.AddLib(other.Libs...)
	for k, v := range other.Defines {
		l.Define(k, v)
	}
	if l.Version == "" {
		l.Version = other.Version
	}
}

// Clone returns a deep copy of l.
func (l *LinkInfo) Clone() *LinkInfo {
	if l == nil {
		return nil
	}
	c := *l
	c.IncludeDirs = slices.Clone(l.IncludeDirs)
	c.LinkDirs = slices.Clone(l.LinkDirs)
	c.Libs = slices.Clone(l.Libs)
	c.Defines = make(map[string]*string, len(l.Defines))
	for k, v := range l.Defines {
		c.Define(k, v)
	}
	return &c
}

// DefineNames returns the define names in sorted order.
func (l *LinkInfo) DefineNames() []string {
	return slices.Sorted(maps.Keys(l.Defines))
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		if it == "" || slices.Contains(dst, it) {
			continue
		}
		dst = append(dst, it)
	}
	return dst
}
