// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/syslib/internal/locate"
	"github.com/goplus/syslib/pkgs/config"
)

var (
	locateSrc     string
	locateGitRepo string
	locateGitRef  string
)

var locateCmd = &cobra.Command{
	Use:   "locate (--src dir | --git-repo url [--git-ref ref])",
	Short: "Materialize a source tree and print its directory",
	Long: `Locate resolves a local source directory, or checks out a git repository
into the cache, and prints the resulting directory. Checkouts are kept.`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func init() {
	fs := locateCmd.Flags()
	fs.StringVar(&locateSrc, "src", "", "Local source directory")
	fs.StringVar(&locateGitRepo, "git-repo", "", "Git repository URL")
	fs.StringVar(&locateGitRef, "git-ref", "", "Git branch, tag or commit (default: remote HEAD)")
	locateCmd.MarkFlagsMutuallyExclusive("src", "git-repo")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	var src config.Source
	switch {
	case locateSrc != "":
		src = config.SourceDir{Path: locateSrc}
	case locateGitRepo != "":
		src = config.GitRepo{Repo: locateGitRepo, Reference: locateGitRef}
	default:
		return errors.New("one of --src or --git-repo is required")
	}

	git, err := locate.NewGit(locate.WithKeep(true), locate.WithLogger(newLogger()))
	if err != nil {
		return err
	}
	wd, err := locate.New(git).Locate(cmd.Context(), src)
	if err != nil {
		return fmt.Errorf("syslib: locate %s: %w", src, err)
	}
	defer wd.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, wd.Path)
	if wd.Revision != "" {
		fmt.Fprintln(out, wd.Revision)
	}
	return nil
}
