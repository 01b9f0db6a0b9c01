package cc

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/config"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuildInvocation(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"a.c":       "",
		"b.cpp":     "",
		"notes.txt": "",
		"bar.h":     "#define BAR 1\n",
		"sub/c.c":   "",
	})
	var cmds []buildsys.Command
	runner := buildsys.RunnerFunc(func(_ context.Context, cmd buildsys.Command) error {
		cmds = append(cmds, cmd)
		if cmd.Path == "llvm-ar" {
			return os.WriteFile(cmd.Args[1], nil, 0o644)
		}
		return nil
	})
	install := filepath.Join(t.TempDir(), "out")
	cfg := config.New("bar", "").WithCc(config.CcOptions{
		Compiler:    "clang",
		Archiver:    "llvm-ar",
		IncludeDirs: []string{"sub"},
		Defines:     map[string]string{"BAR_STATIC": "", "BAR_LEVEL": "2"},
		Flags:       []string{"-O2"},
	})

	info, err := New(runner).Build(context.Background(), buildsys.Request{
		Name: "bar", SourceDir: src, InstallDir: install, Config: cfg,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(cmds) != 3 {
		t.Fatalf("ran %d commands, want 2 compiles and 1 archive: %v", len(cmds), cmds)
	}
	compile := strings.Join(cmds[0].Args, " ")
	wantPrefix := "-I" + src + " -I" + filepath.Join(src, "sub") + " -DBAR_LEVEL=2 -DBAR_STATIC -O2 -c " + filepath.Join(src, "a.c")
	if cmds[0].Path != "clang" || !strings.HasPrefix(compile, wantPrefix) {
		t.Errorf("compile = %s %s, want prefix %s", cmds[0].Path, compile, wantPrefix)
	}
	if !strings.Contains(strings.Join(cmds[1].Args, " "), filepath.Join(src, "b.cpp")) {
		t.Errorf("second compile = %v", cmds[1].Args)
	}
	archive := filepath.Join(install, "lib", "libbar.a")
	if cmds[2].Args[0] != "rcs" || cmds[2].Args[1] != archive || len(cmds[2].Args) != 4 {
		t.Errorf("archive = %v", cmds[2].Args)
	}

	if _, err := os.Stat(filepath.Join(install, "include", "bar.h")); err != nil {
		t.Errorf("header not copied: %v", err)
	}
	if !info.HasLib("bar") || info.LinkDirs[0] != filepath.Join(install, "lib") {
		t.Errorf("LinkInfo = %+v", info)
	}
	if v, ok := info.Defines["BAR_STATIC"]; !ok || v != nil {
		t.Errorf("BAR_STATIC = %v, %v", v, ok)
	}
	if v := info.Defines["BAR_LEVEL"]; v == nil || *v != "2" {
		t.Errorf("BAR_LEVEL = %v", v)
	}
}

func TestBuildNoSources(t *testing.T) {
	_, err := New(buildsys.RunnerFunc(func(context.Context, buildsys.Command) error { return nil })).
		Build(context.Background(), buildsys.Request{
			Name: "bar", SourceDir: t.TempDir(), InstallDir: t.TempDir(), Config: config.New("bar", ""),
		})
	if !errors.Is(err, buildsys.ErrMissingArtifact) {
		t.Fatalf("Build = %v, want ErrMissingArtifact", err)
	}
}

func TestBuildExplicitFiles(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"src/x.c": ""})
	var compiled []string
	runner := buildsys.RunnerFunc(func(_ context.Context, cmd buildsys.Command) error {
		if cmd.Args[0] == "rcs" {
			return os.WriteFile(cmd.Args[1], nil, 0o644)
		}
		for i, a := range cmd.Args {
			if a == "-c" {
				compiled = append(compiled, cmd.Args[i+1])
			}
		}
		return nil
	})
	cfg := config.New("x", "").WithCc(config.CcOptions{Files: []string{"src/x.c"}})
	if _, err := New(runner).Build(context.Background(), buildsys.Request{
		Name: "x", SourceDir: src, InstallDir: t.TempDir(), Config: cfg,
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(compiled) != 1 || compiled[0] != filepath.Join(src, "src", "x.c") {
		t.Errorf("compiled %v", compiled)
	}

	cfg = config.New("x", "").WithCc(config.CcOptions{Files: []string{"missing.c"}})
	if _, err := New(runner).Build(context.Background(), buildsys.Request{
		Name: "x", SourceDir: src, InstallDir: t.TempDir(), Config: cfg,
	}); err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestBuildE2E(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix toolchain")
	}
	for _, tool := range []string{"cc", "ar"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found in PATH", tool)
		}
	}
	t.Setenv("CC", "")
	t.Setenv("AR", "")
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"hello.c": "#include \"hello.h\"\nint hello(void) { return HELLO; }\n",
		"hello.h": "int hello(void);\n",
	})
	install := filepath.Join(t.TempDir(), "out")
	cfg := config.New("hello", "").WithCc(config.CcOptions{Defines: map[string]string{"HELLO": "7"}})
	info, err := New(buildsys.ExecRunner{}).Build(context.Background(), buildsys.Request{
		Name: "hello", SourceDir: src, InstallDir: install, Config: cfg,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := os.Stat(filepath.Join(install, "lib", "libhello.a")); err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	if !info.HasLib("hello") {
		t.Errorf("Libs = %q", info.Libs)
	}
}
