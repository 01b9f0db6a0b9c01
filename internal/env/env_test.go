package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv(CacheDirEnv, "")
	home := t.TempDir()
	// os.UserCacheDir honours these on the platforms we test on.
	t.Setenv("XDG_CACHE_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("LocalAppData", home)

	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() returned error: %v", err)
	}
	if want := filepath.Join(userCacheDir, ".syslib"); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("CacheDir() created a file instead of a directory")
	}
}

func TestDirsFromEnv(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	out := filepath.Join(t.TempDir(), "out")
	t.Setenv(CacheDirEnv, root)
	t.Setenv(OutDirEnv, out)

	git, err := GitDir()
	if err != nil {
		t.Fatalf("GitDir() returned error: %v", err)
	}
	if want := filepath.Join(root, "git"); git != want {
		t.Errorf("GitDir() = %q, want %q", git, want)
	}
	got, err := OutDir()
	if err != nil {
		t.Fatalf("OutDir() returned error: %v", err)
	}
	if got != out {
		t.Errorf("OutDir() = %q, want %q", got, out)
	}
	for _, dir := range []string{git, out} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("%s not created: %v", dir, err)
		}
	}

	t.Setenv(OutDirEnv, "")
	got, err = OutDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, "out"); got != want {
		t.Errorf("OutDir() = %q, want %q", got, want)
	}
}
