// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"github.com/goplus/syslib/internal/env"
	"github.com/goplus/syslib/internal/lockedfile"
	"github.com/goplus/syslib/internal/vcs"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/version"
)

// Git locates GitRepo sources by syncing them into a working directory under
// Root. Each repository URL always maps to the same directory, so repeated
// builds refresh one checkout instead of cloning again.
type Git struct {
	VCS  vcs.VCS
	Root string
	// Keep leaves the checkout on disk when the Workdir is closed.
	Keep   bool
	Logger zerolog.Logger
}

// GitOption configures a Git locator.
type GitOption func(*Git)

// WithVCS replaces the git command line client.
func WithVCS(v vcs.VCS) GitOption {
	return func(g *Git) { g.VCS = v }
}

// WithRoot sets the directory holding checkouts.
func WithRoot(dir string) GitOption {
	return func(g *Git) { g.Root = dir }
}

// WithKeep keeps checkouts after use.
func WithKeep(keep bool) GitOption {
	return func(g *Git) { g.Keep = keep }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) GitOption {
	return func(g *Git) { g.Logger = l }
}

// NewGit returns a Git locator. Without WithRoot, checkouts live in the
// cache directory.
func NewGit(opts ...GitOption) (*Git, error) {
	g := &Git{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.VCS == nil {
		g.VCS = vcs.NewGitVCS()
	}
	if g.Root == "" {
		root, err := env.GitDir()
		if err != nil {
			return nil, err
		}
		g.Root = root
	}
	return g, nil
}

// CheckoutDir returns the working directory used for repo.
func (g *Git) CheckoutDir(repo string) string {
	return filepath.Join(g.Root, uuid.NewSHA1(uuid.NameSpaceURL, []byte(repo)).String())
}

// Locate syncs the repository and returns its checkout. The checkout stays
// locked against other processes until the Workdir is closed.
func (g *Git) Locate(ctx context.Context, src config.Source) (*Workdir, error) {
	repo, ok := src.(config.GitRepo)
	if !ok {
		return nil, fmt.Errorf("git locator: unsupported source %s", src)
	}
	if repo.Repo == "" {
		return nil, errors.New("git locator: empty repository")
	}
	dir := g.CheckoutDir(repo.Repo)
	log := g.Logger.With().Str("source", repo.String()).Str("dir", dir).Logger()

	unlock, err := lockedfile.MutexAt(dir + ".lock").Lock()
	if err != nil {
		return nil, err
	}
	done := false
	defer func() {
		if !done {
			unlock()
		}
	}()

	ref := repo.Reference
	if ref == "" {
		if ref, err = g.VCS.Latest(ctx, repo.Repo); err != nil {
			return nil, err
		}
		log.Debug().Str("ref", ref).Msg("resolved remote HEAD")
	}

	log.Debug().Str("ref", ref).Msg("syncing")
	if err := g.VCS.Sync(ctx, repo.Repo, ref, dir); err != nil {
		g.discard(dir)
		return nil, g.checkTag(ctx, repo.Repo, ref, err)
	}
	rev, err := g.VCS.Head(ctx, dir)
	if err != nil {
		g.discard(dir)
		return nil, err
	}
	log.Info().Str("revision", rev).Msg("checked out")

	done = true
	return &Workdir{
		Path:     dir,
		Revision: rev,
		release: func() error {
			defer unlock()
			if g.Keep {
				return nil
			}
			return os.RemoveAll(dir)
		},
	}, nil
}

// checkTag explains a failed sync of a version-like ref that the remote does
// not tag, listing the newest tags it does have.
func (g *Git) checkTag(ctx context.Context, remote, ref string, err error) error {
	if !semver.IsValid("v" + strings.TrimPrefix(ref, "v")) {
		return err
	}
	tags, terr := g.VCS.Tags(ctx, remote)
	if terr != nil || slices.Contains(tags, ref) {
		return err
	}
	slices.SortFunc(tags, func(a, b string) int { return version.Compare(b, a) })
	if len(tags) > 5 {
		tags = tags[:5]
	}
	avail := "none"
	if len(tags) > 0 {
		avail = strings.Join(tags, ", ")
	}
	return fmt.Errorf("%w %q in %s (newest: %s): %w", ErrUnknownTag, ref, remote, avail, err)
}

func (g *Git) discard(dir string) {
	if !g.Keep {
		os.RemoveAll(dir)
	}
}
