// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
	"github.com/goplus/syslib/pkgs/version"
)

// Vcpkg probes libraries installed in a vcpkg tree.
type Vcpkg struct {
	// Root is the vcpkg root. It defaults to $VCPKG_ROOT.
	Root string
	// Triplet selects the installed flavor. It defaults to
	// $VCPKG_DEFAULT_TRIPLET, then to the triplet of the running platform.
	Triplet string
}

// NewVcpkg returns a vcpkg probe configured from the environment.
func NewVcpkg() *Vcpkg {
	return &Vcpkg{}
}

func (v *Vcpkg) Name() string { return linkinfo.ProviderVcpkg }

func (v *Vcpkg) Probe(ctx context.Context, lib config.Library, static bool) (*linkinfo.LinkInfo, error) {
	root := v.Root
	if root == "" {
		root = os.Getenv("VCPKG_ROOT")
	}
	if root == "" {
		return nil, fmt.Errorf("vcpkg %s: %w: VCPKG_ROOT not set", lib.Name, ErrNotFound)
	}
	triplet := v.Triplet
	if triplet == "" {
		triplet = os.Getenv("VCPKG_DEFAULT_TRIPLET")
	}
	if triplet == "" {
		var ok bool
		if triplet, ok = Triplet(runtime.GOOS, runtime.GOARCH, static); !ok {
			return nil, fmt.Errorf("vcpkg: no triplet for %s/%s", runtime.GOOS, runtime.GOARCH)
		}
	}
	installed := filepath.Join(root, "installed")

	f, err := os.Open(filepath.Join(installed, "vcpkg", "status"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("vcpkg %s: %w: nothing installed in %s", lib.Name, ErrNotFound, root)
		}
		return nil, err
	}
	defer f.Close()
	entries, err := parseStatus(f)
	if err != nil {
		return nil, fmt.Errorf("vcpkg: %w", err)
	}

	port := strings.ToLower(lib.Name)
	e, ok := findInstalled(entries, port, triplet)
	if !ok {
		return nil, fmt.Errorf("vcpkg %s:%s: %w", port, triplet, ErrNotFound)
	}
	if !version.AtLeast(e.Version, lib.Version) {
		return nil, fmt.Errorf("vcpkg %s:%s: %w: have %s, want >= %s",
			port, triplet, ErrVersionTooLow, e.Version, lib.Version)
	}

	libs, err := listedLibs(filepath.Join(installed, "vcpkg", "info"), port, triplet)
	if err != nil {
		return nil, err
	}

	info := linkinfo.New(linkinfo.ProviderVcpkg)
	info.Version = e.Version
	info.AddInclude(filepath.Join(installed, triplet, "include"))
	info.AddLinkDir(filepath.Join(installed, triplet, "lib"))
	info.AddLib(libs...)
	return info, nil
}

// Triplet returns the vcpkg triplet for a Go platform. Windows defaults to
// dynamic linkage, so static builds select the -static variant there.
func Triplet(goos, goarch string, static bool) (string, bool) {
	var arch string
	switch goarch {
	case "amd64":
		arch = "x64"
	case "386":
		arch = "x86"
	case "arm64", "arm":
		arch = goarch
	default:
		return "", false
	}
	switch goos {
	case "windows":
		if static {
			return arch + "-windows-static", true
		}
		return arch + "-windows", true
	case "darwin":
		return arch + "-osx", true
	case "linux", "freebsd", "openbsd", "android":
		return arch + "-" + goos, true
	}
	return "", false
}

// statusEntry is one paragraph of installed/vcpkg/status.
type statusEntry struct {
	Package      string
	Version      string
	PortVersion  string
	Architecture string
	Feature      string
	Status       string
}

func (e *statusEntry) installed() bool {
	return strings.HasSuffix(e.Status, "install ok installed")
}

// parseStatus reads the control-file paragraphs of the vcpkg status
// database. Later paragraphs supersede earlier ones for the same package.
func parseStatus(r io.Reader) ([]*statusEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []*statusEntry
	var current *statusEntry
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current != nil {
				entries = append(entries, current)
				current = nil
			}
			continue
		}
		// Continuation line
		if line[0] == ' ' || line[0] == '\t' {
			continue
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if current == nil {
			current = &statusEntry{}
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(field) {
		case "Package":
			current.Package = value
		case "Version":
			current.Version = value
		case "Port-Version":
			current.PortVersion = value
		case "Architecture":
			current.Architecture = value
		case "Feature":
			current.Feature = value
		case "Status":
			current.Status = value
		}
	}
	if current != nil {
		entries = append(entries, current)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning status file: %w", err)
	}
	return entries, nil
}

func findInstalled(entries []*statusEntry, port, triplet string) (*statusEntry, bool) {
	var last *statusEntry
	for _, e := range entries {
		if e.Package == port && e.Architecture == triplet && e.Feature == "" {
			last = e
		}
	}
	if last == nil || !last.installed() {
		return nil, false
	}
	return last, true
}

// listedLibs returns the link names of the release libraries recorded in the
// port's file list.
func listedLibs(infoDir, port, triplet string) ([]string, error) {
	lists, err := filepath.Glob(filepath.Join(infoDir, port+"_*_"+triplet+".list"))
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("vcpkg %s:%s: %w: no file list", port, triplet, ErrNotFound)
	}
	data, err := os.ReadFile(lists[0])
	if err != nil {
		return nil, err
	}
	var libs []string
	prefix := triplet + "/lib/"
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok || rest == "" || strings.Contains(rest, "/") {
			continue
		}
		if name, _, ok := buildsys.LibName(path.Base(rest)); ok {
			libs = append(libs, name)
		}
	}
	return libs, nil
}
