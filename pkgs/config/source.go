// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

// SourceKind tells local and remote sources apart.
type SourceKind int

const (
	SourceLocal SourceKind = iota + 1
	SourceGit
)

func (k SourceKind) String() string {
	switch k {
	case SourceLocal:
		return "source_dir"
	case SourceGit:
		return "git_repo"
	}
	return "unknown"
}

// Source is a place to build a library from: a SourceDir or a GitRepo.
type Source interface {
	Kind() SourceKind
	String() string
}

// SourceDir is a local source directory.
type SourceDir struct {
	Path string `yaml:"path" json:"path" validate:"required"`
}

func (SourceDir) Kind() SourceKind { return SourceLocal }

func (d SourceDir) String() string { return "source_dir " + d.Path }

// GitRepo is a remote git repository and an optional branch, tag or commit.
type GitRepo struct {
	Repo      string `yaml:"repo" json:"repo" validate:"required"`
	Reference string `yaml:"reference,omitempty" json:"reference,omitempty"`
}

func (GitRepo) Kind() SourceKind { return SourceGit }

func (g GitRepo) String() string {
	if g.Reference == "" {
		return "git_repo " + g.Repo
	}
	return "git_repo " + g.Repo + "@" + g.Reference
}
