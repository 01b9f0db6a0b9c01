// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/syslib/internal/engine"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

var (
	buildManifest string
	buildFormat   string
	buildOutDir   string
	buildCaps     capFlags
	buildAdHoc    adHocFlags
)

// adHocFlags describe a single library without a manifest.
type adHocFlags struct {
	name, version   string
	src             string
	gitRepo, gitRef string
	backend         string
	fallback        string
}

func (a *adHocFlags) set() bool {
	return a.name != "" || a.src != "" || a.gitRepo != ""
}

var buildCmd = &cobra.Command{
	Use:   "build [name[@version]...]",
	Short: "Resolve libraries and print their link information",
	Long: `Build resolves each library through the enabled system probes, falling back
to building it from source, and prints the resulting link information.

Libraries come from the manifest (syslib.yaml by default) or, with --name,
--src or --git-repo, from the command line.`,
	RunE: runBuild,
}

func init() {
	fs := buildCmd.Flags()
	fs.StringVarP(&buildManifest, "file", "f", "", "Manifest file (default "+config.DefaultManifest+" when present)")
	fs.StringVar(&buildFormat, "format", string(linkinfo.FormatJSON), "Output format: json, cgo, flags or directives")
	fs.StringVar(&buildOutDir, "out-dir", "", "Directory receiving build outputs")
	buildCaps.register(fs)
	fs.StringVar(&buildAdHoc.name, "name", "", "Library name")
	fs.StringVar(&buildAdHoc.version, "version", "", "Minimum version for system probes")
	fs.StringVar(&buildAdHoc.src, "src", "", "Local source directory")
	fs.StringVar(&buildAdHoc.gitRepo, "git-repo", "", "Git repository URL")
	fs.StringVar(&buildAdHoc.gitRef, "git-ref", "", "Git branch, tag or commit")
	fs.StringVar(&buildAdHoc.backend, "backend", "", "Build backend: cc, autotools or cmake (default: detect)")
	fs.StringVar(&buildAdHoc.fallback, "fallback", "", "Fallback policy: fail-fast or next-source")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	format, err := linkinfo.ParseFormat(buildFormat)
	if err != nil {
		return err
	}
	caps, err := config.CapabilitiesFromEnv()
	if err != nil {
		return err
	}

	var cfgs []config.Config
	if buildAdHoc.set() {
		cfg, err := buildAdHoc.config(args)
		if err != nil {
			return err
		}
		cfgs = []config.Config{cfg}
	} else {
		m, dir, err := loadManifest(buildManifest, caps)
		if err != nil {
			return err
		}
		caps = m.Capabilities
		if cfgs, err = selectLibraries(m, dir, args); err != nil {
			return err
		}
	}
	caps = buildCaps.apply(cmd.Flags(), caps)

	opts := []engine.Option{engine.WithLogger(newLogger()), engine.WithRunner(newRunner())}
	if buildOutDir != "" {
		abs, err := filepath.Abs(buildOutDir)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithOutDir(abs))
	}
	eng := engine.New(caps, opts...)

	results := make([]*linkinfo.LinkInfo, 0, len(cfgs))
	for _, cfg := range cfgs {
		info, err := eng.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		results = append(results, info)
	}
	return writeResults(cmd.OutOrStdout(), cfgs, results, format)
}

func (a *adHocFlags) config(args []string) (config.Config, error) {
	name, version := a.name, a.version
	switch {
	case name == "" && len(args) == 1:
		name, version = parseLibraryArg(args[0])
		if a.version != "" {
			version = a.version
		}
	case len(args) > 0:
		return config.Config{}, errors.New("ad-hoc builds take one library argument, and none with --name")
	case name == "" && a.src != "":
		name = filepath.Base(filepath.Clean(a.src))
	case name == "":
		name = strings.TrimSuffix(path.Base(a.gitRepo), ".git")
	}
	cfg := config.New(name, version)
	if a.src != "" {
		cfg = cfg.WithSourceDir(a.src)
	}
	if a.gitRepo != "" {
		cfg = cfg.WithGitRepo(a.gitRepo, a.gitRef)
	}
	if a.backend != "" {
		cfg = cfg.WithBackend(config.Kind(a.backend))
	}
	if a.fallback != "" {
		cfg = cfg.WithFallback(config.FallbackPolicy(a.fallback))
	}
	return cfg, cfg.Validate()
}

// loadManifest reads the manifest file, or syslib.yaml in the working
// directory when file is empty. It also returns the manifest directory,
// which relative source directories are resolved against.
func loadManifest(file string, caps config.Capabilities) (*config.Manifest, string, error) {
	if file == "" {
		file = config.DefaultManifest
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("no %s in the working directory; pass -f or describe the library with --name, --src or --git-repo", file)
		}
	}
	m, err := config.LoadManifest(file, caps)
	if err != nil {
		return nil, "", err
	}
	dir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, "", err
	}
	return m, dir, nil
}

// selectLibraries returns the named manifest libraries, or all of them.
// A name@version argument overrides the minimum version.
func selectLibraries(m *config.Manifest, dir string, args []string) ([]config.Config, error) {
	var cfgs []config.Config
	if len(args) == 0 {
		cfgs = m.Configs()
	}
	for _, arg := range args {
		name, version := parseLibraryArg(arg)
		cfg, ok := m.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("library %q not in manifest", name)
		}
		if version != "" {
			libName := name
			if cfg.Library != nil {
				libName = cfg.Library.Name
			}
			cfg = cfg.WithLibrary(libName, version)
		}
		cfgs = append(cfgs, cfg)
	}
	if len(cfgs) == 0 {
		return nil, errors.New("manifest lists no libraries")
	}
	for i, cfg := range cfgs {
		if cfg.SourceDir != nil && !filepath.IsAbs(cfg.SourceDir.Path) {
			cfgs[i] = cfg.WithSourceDir(filepath.Join(dir, cfg.SourceDir.Path))
		}
	}
	return cfgs, nil
}

// writeResults prints one LinkInfo as is. Several are printed as a JSON
// object keyed by library name, or merged for the text formats.
func writeResults(w io.Writer, cfgs []config.Config, results []*linkinfo.LinkInfo, format linkinfo.Format) error {
	if len(results) == 1 {
		return linkinfo.Write(w, results[0], format)
	}
	if format == linkinfo.FormatJSON {
		byName := make(map[string]*linkinfo.LinkInfo, len(results))
		for i, info := range results {
			byName[cfgs[i].Name] = info
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(byName)
	}
	merged := linkinfo.New("")
	for _, info := range results {
		merged.Merge(info)
	}
	return linkinfo.Write(w, merged, format)
}
