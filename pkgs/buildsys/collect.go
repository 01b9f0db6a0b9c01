// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildsys

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/goplus/syslib/pkgs/linkinfo"
)

// Collect builds the LinkInfo for library name installed under prefix. It
// reports prefix/include when present and the first of prefix/lib and
// prefix/lib64 that holds the library. A library of the requested linkage is
// preferred; the other linkage is accepted when it is all there is.
func Collect(provider, prefix, name string, static bool) (*linkinfo.LinkInfo, error) {
	info := linkinfo.New(provider)
	if dir := filepath.Join(prefix, "include"); isDir(dir) {
		info.AddInclude(dir)
	}

	var found []string
	for _, sub := range []string{"lib", "lib64"} {
		dir := filepath.Join(prefix, sub)
		libs := scanLibs(dir)
		for _, l := range libs {
			found = append(found, l.String())
		}
		if l, ok := pick(libs, name, static); ok {
			info.AddLinkDir(dir)
			info.AddLib(l.name)
			info.Version = pcVersion(filepath.Join(dir, "pkgconfig", name+".pc"))
			return info, nil
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: no libraries installed under %s", ErrMissingArtifact, prefix)
	}
	return nil, fmt.Errorf("%w: lib%s not among installed libraries [%s]",
		ErrMissingArtifact, name, strings.Join(found, " "))
}

type libFile struct {
	name   string
	file   string
	static bool
}

func (l libFile) String() string { return l.file }

// LibName extracts the link name from a library file name: libfoo.a,
// libfoo.so.1.2 and libfoo.dylib yield foo; on Windows foo.lib yields foo.
func LibName(file string) (name string, static, ok bool) {
	if runtime.GOOS == "windows" {
		if base, ok := strings.CutSuffix(file, ".lib"); ok {
			return strings.TrimPrefix(base, "lib"), true, true
		}
		if base, ok := strings.CutSuffix(file, ".dll.a"); ok {
			return strings.TrimPrefix(base, "lib"), false, true
		}
		return "", false, false
	}
	base, ok := strings.CutPrefix(file, "lib")
	if !ok {
		return "", false, false
	}
	switch {
	case strings.HasSuffix(base, ".a"):
		return strings.TrimSuffix(base, ".a"), true, true
	case strings.HasSuffix(base, ".dylib"):
		return strings.TrimSuffix(base, ".dylib"), false, true
	}
	if i := strings.Index(base, ".so"); i > 0 && (len(base) == i+3 || base[i+3] == '.') {
		return base[:i], false, true
	}
	return "", false, false
}

func scanLibs(dir string) []libFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var libs []libFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, static, ok := LibName(e.Name()); ok {
			libs = append(libs, libFile{name: name, file: e.Name(), static: static})
		}
	}
	return libs
}

func pick(libs []libFile, name string, static bool) (libFile, bool) {
	i := slices.IndexFunc(libs, func(l libFile) bool { return l.name == name && l.static == static })
	if i < 0 {
		i = slices.IndexFunc(libs, func(l libFile) bool { return l.name == name })
	}
	if i < 0 {
		return libFile{}, false
	}
	return libs[i], true
}

// pcVersion returns the Version field of a pkg-config file, or "".
func pcVersion(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if v, ok := strings.CutPrefix(sc.Text(), "Version:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
