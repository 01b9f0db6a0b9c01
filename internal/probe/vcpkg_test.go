package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goplus/syslib/pkgs/config"
)

const testStatus = `Package: zlib
Version: 1.3.1
Port-Version: 0
Architecture: x64-linux
Multi-Arch: same
Description: A compression library
  spanning two lines
Status: install ok installed

Package: curl
Feature: ssl
Architecture: x64-linux
Status: install ok installed

Package: curl
Version: 8.8.0
Architecture: x64-linux
Status: install ok installed

Package: curl
Version: 8.8.0
Architecture: x64-linux
Status: purge ok not-installed

Package: zlib
Version: 1.2.13
Architecture: x86-windows
Status: install ok installed
`

func newVcpkgTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("installed/vcpkg/status", testStatus)
	write("installed/vcpkg/info/zlib_1.3.1_x64-linux.list", strings.Join([]string{
		"x64-linux/",
		"x64-linux/include/",
		"x64-linux/include/zlib.h",
		"x64-linux/lib/",
		"x64-linux/lib/libz.a",
		"x64-linux/lib/pkgconfig/zlib.pc",
		"x64-linux/debug/lib/libz.a",
	}, "\n"))
	return root
}

func TestVcpkg(t *testing.T) {
	root := newVcpkgTree(t)
	v := &Vcpkg{Root: root, Triplet: "x64-linux"}

	info, err := v.Probe(context.Background(), config.Library{Name: "ZLIB", Version: "1.2"}, true)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Version != "1.3.1" {
		t.Errorf("Version = %q", info.Version)
	}
	if !slices.Equal(info.Libs, []string{"z"}) {
		t.Errorf("Libs = %v", info.Libs)
	}
	wantInc := filepath.Join(root, "installed", "x64-linux", "include")
	if !slices.Equal(info.IncludeDirs, []string{wantInc}) {
		t.Errorf("IncludeDirs = %v, want %s", info.IncludeDirs, wantInc)
	}
	wantLib := filepath.Join(root, "installed", "x64-linux", "lib")
	if !slices.Equal(info.LinkDirs, []string{wantLib}) {
		t.Errorf("LinkDirs = %v, want %s", info.LinkDirs, wantLib)
	}
}

func TestVcpkgAbsent(t *testing.T) {
	root := newVcpkgTree(t)
	ctx := context.Background()
	tests := []struct {
		name    string
		triplet string
		lib     config.Library
		want    error
	}{
		{"unknown port", "x64-linux", config.Library{Name: "png"}, ErrNotFound},
		{"removed port", "x64-linux", config.Library{Name: "curl"}, ErrNotFound},
		{"other triplet", "arm64-osx", config.Library{Name: "zlib"}, ErrNotFound},
		{"too old", "x86-windows", config.Library{Name: "zlib", Version: "1.3"}, ErrVersionTooLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vcpkg{Root: root, Triplet: tt.triplet}
			if _, err := v.Probe(ctx, tt.lib, false); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVcpkgNoRoot(t *testing.T) {
	t.Setenv("VCPKG_ROOT", "")
	_, err := NewVcpkg().Probe(context.Background(), config.Library{Name: "zlib"}, false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVcpkgEnv(t *testing.T) {
	t.Setenv("VCPKG_ROOT", newVcpkgTree(t))
	t.Setenv("VCPKG_DEFAULT_TRIPLET", "x64-linux")
	if _, err := NewVcpkg().Probe(context.Background(), config.Library{Name: "zlib"}, false); err != nil {
		t.Fatalf("Probe: %v", err)
	}
}

func TestTriplet(t *testing.T) {
	tests := []struct {
		goos, goarch string
		static       bool
		want         string
	}{
		{"linux", "amd64", false, "x64-linux"},
		{"darwin", "arm64", false, "arm64-osx"},
		{"windows", "amd64", false, "x64-windows"},
		{"windows", "386", true, "x86-windows-static"},
	}
	for _, tt := range tests {
		if got, ok := Triplet(tt.goos, tt.goarch, tt.static); !ok || got != tt.want {
			t.Errorf("Triplet(%s, %s, %v) = %q, %v, want %q", tt.goos, tt.goarch, tt.static, got, ok, tt.want)
		}
	}
	if _, ok := Triplet("plan9", "amd64", false); ok {
		t.Error("Triplet(plan9) ok")
	}
}

func TestParseStatus(t *testing.T) {
	entries, err := parseStatus(strings.NewReader(testStatus))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	if e := entries[0]; e.Package != "zlib" || e.Version != "1.3.1" || e.PortVersion != "0" || !e.installed() {
		t.Errorf("entries[0] = %+v", e)
	}
	if entries[1].Feature != "ssl" {
		t.Errorf("entries[1].Feature = %q", entries[1].Feature)
	}
}
