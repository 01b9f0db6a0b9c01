// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goplus/syslib/pkgs/buildsys"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "syslib",
	Short: "syslib finds or builds native libraries",
	Long: `syslib locates a native library through pkg-config or vcpkg, or builds it
from a local directory or a git repository, and prints the include
directories, link directories and libraries needed to link against it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and build output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newLogger returns the human-readable logger of the command line.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// newRunner returns the process runner for build backends. Build tool output
// is only shown in verbose mode; failures always carry its tail.
func newRunner() buildsys.Runner {
	if verbose {
		return buildsys.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr}
	}
	return buildsys.ExecRunner{}
}
