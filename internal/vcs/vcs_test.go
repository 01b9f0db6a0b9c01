package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// newRemote creates a local repository with two tagged commits and returns
// its file:// URL.
func newRemote(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	git("init", "--quiet")
	write("foo.c", "int foo(void) { return 1; }\n")
	git("add", ".")
	git("commit", "--quiet", "-m", "v1")
	git("tag", "v1.0.0")
	write("foo.c", "int foo(void) { return 2; }\n")
	git("commit", "--quiet", "-am", "v2")
	git("tag", "v2.0.0")
	return "file://" + dir
}

func TestGitVCS_Tags(t *testing.T) {
	remote := newRemote(t)
	tags, err := NewGitVCS().Tags(context.Background(), remote)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	slices.Sort(tags)
	if want := []string{"v1.0.0", "v2.0.0"}; !slices.Equal(tags, want) {
		t.Errorf("Tags = %v, want %v", tags, want)
	}
}

func TestGitVCS_Latest(t *testing.T) {
	remote := newRemote(t)
	hash, err := NewGitVCS().Latest(context.Background(), remote)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(hash) != 40 {
		t.Errorf("expected 40-char hash, got %d chars: %s", len(hash), hash)
	}
}

func TestGitVCS_Sync(t *testing.T) {
	remote := newRemote(t)
	vcs := NewGitVCS()
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "nested", "checkout")

	if err := vcs.Sync(ctx, remote, "v1.0.0", dir); err != nil {
		t.Fatalf("Sync (clone) failed: %v", err)
	}
	hash1, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	assertContent(t, filepath.Join(dir, "foo.c"), "return 1")

	// Local garbage must not survive a refresh.
	stray := filepath.Join(dir, "stray.o")
	if err := os.WriteFile(stray, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "foo.c"), []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := vcs.Sync(ctx, remote, "v2.0.0", dir); err != nil {
		t.Fatalf("Sync (update) failed: %v", err)
	}
	hash2, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if hash1 == hash2 {
		t.Errorf("HEAD should have changed after switching tags, got %s both times", hash1)
	}
	assertContent(t, filepath.Join(dir, "foo.c"), "return 2")
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Errorf("untracked file survived sync: %v", err)
	}
}

func TestGitVCS_SyncDefaultRef(t *testing.T) {
	remote := newRemote(t)
	vcs := NewGitVCS()
	ctx := context.Background()
	dir := t.TempDir()

	if err := vcs.Sync(ctx, remote, "", dir); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	latest, err := vcs.Latest(ctx, remote)
	if err != nil {
		t.Fatal(err)
	}
	head, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if head != latest {
		t.Errorf("Head = %s, want remote HEAD %s", head, latest)
	}
}

func TestGitVCS_SyncUnknownRef(t *testing.T) {
	remote := newRemote(t)
	err := NewGitVCS().Sync(context.Background(), remote, "v9.9.9", t.TempDir())
	if err == nil {
		t.Fatal("expected error for unknown ref")
	}
}

func TestGitVCS_MissingBinary(t *testing.T) {
	vcs := NewGitVCS(WithGitPath(filepath.Join(t.TempDir(), "no-git")))
	if _, err := vcs.Latest(context.Background(), "file:///nowhere"); err == nil {
		t.Fatal("expected error with missing git binary")
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), want) {
		t.Errorf("%s = %q, want it to contain %q", path, data, want)
	}
}
