// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/syslib/internal/engine"
	"github.com/goplus/syslib/internal/probe"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

var (
	probeVersion string
	probeFormat  string
	probeCaps    capFlags
)

var probeCmd = &cobra.Command{
	Use:   "probe name[@version]",
	Short: "Look a library up with the system probes only",
	Long:  `Probe queries pkg-config and vcpkg, in that order, without building anything.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func init() {
	fs := probeCmd.Flags()
	fs.StringVar(&probeVersion, "version", "", "Minimum version")
	fs.StringVar(&probeFormat, "format", string(linkinfo.FormatJSON), "Output format: json, cgo, flags or directives")
	probeCaps.register(fs)
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	format, err := linkinfo.ParseFormat(probeFormat)
	if err != nil {
		return err
	}
	caps, err := config.CapabilitiesFromEnv()
	if err != nil {
		return err
	}
	caps = probeCaps.apply(cmd.Flags(), caps)

	name, version := parseLibraryArg(args[0])
	if probeVersion != "" {
		version = probeVersion
	}
	eng := engine.New(caps, engine.WithLogger(newLogger()))
	info := eng.Probe(cmd.Context(), config.Library{Name: name, Version: version})
	if info == nil {
		return fmt.Errorf("syslib: probe %s: %w", name, probe.ErrNotFound)
	}
	return linkinfo.Write(cmd.OutOrStdout(), info, format)
}
