package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew(t *testing.T) {
	c := New("foo", "1.2.0")
	require.NotNil(t, c.Library)
	assert.Equal(t, Library{Name: "foo", Version: "1.2.0"}, *c.Library)
	assert.Nil(t, c.SourceDir)
	assert.Nil(t, c.GitRepo)
	assert.Equal(t, FailFast, c.Policy())
	assert.NoError(t, c.Validate())
}

func TestBuilderReturnsCopies(t *testing.T) {
	base := New("foo", "")
	withDir := base.WithSourceDir("./src")
	withGit := withDir.WithGitRepo("https://example/foo.git", "v1")

	assert.Nil(t, base.SourceDir, "WithSourceDir mutated the receiver")
	assert.Nil(t, withDir.GitRepo, "WithGitRepo mutated the receiver")
	require.NotNil(t, withGit.SourceDir)
	assert.Equal(t, "./src", withGit.SourceDir.Path)
	assert.Equal(t, GitRepo{Repo: "https://example/foo.git", Reference: "v1"}, *withGit.GitRepo)

	none := withGit.WithoutLibrary()
	assert.NotNil(t, withGit.Library)
	assert.Nil(t, none.Library)
}

func TestWithOptionsDoesNotAlias(t *testing.T) {
	opts := CMakeOptions{Defines: map[string]string{"A": "1"}, Args: []string{"-Wno-dev"}}
	c := New("bar", "").WithCMake(opts)
	opts.Defines["A"] = "2"
	opts.Args[0] = "changed"

	assert.Equal(t, KindCMake, c.Backend)
	assert.Equal(t, "1", c.CMake.Defines["A"])
	assert.Equal(t, "-Wno-dev", c.CMake.Args[0])

	clone := c.Clone()
	clone.CMake.Defines["A"] = "3"
	assert.Equal(t, "1", c.CMake.Defines["A"])
	assert.True(t, c.Equal(c.Clone()))
	assert.False(t, c.Equal(clone))
}

func TestSourcesOrder(t *testing.T) {
	c := New("foo", "").WithGitRepo("https://example/foo.git", "").WithSourceDir("local")
	srcs := c.Sources()
	require.Len(t, srcs, 2)
	assert.Equal(t, SourceLocal, srcs[0].Kind())
	assert.Equal(t, SourceGit, srcs[1].Kind())
	assert.Equal(t, "git_repo https://example/foo.git", srcs[1].String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing name", Config{}, "Name is required"},
		{"bad backend", New("foo", "").WithBackend("scons"), "Backend must be one of"},
		{"empty repo", New("foo", "").WithGitRepo("", "main"), "GitRepo.Repo is required"},
		{"empty dir", New("foo", "").WithSourceDir(""), "SourceDir.Path is required"},
		{"bad fallback", New("foo", "").WithFallback("retry"), "Fallback must be one of"},
		{"slash in name", New("a/b", ""), "Name must not contain"},
		{"negative jobs", New("foo", "").WithAutotools(AutotoolsOptions{Jobs: -1}), "Autotools.Jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuilderPropertyNeverMutatesReceiver(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-z][a-z0-9]{0,8}`).Draw(t, "name")
		ver := rapid.StringMatching(`(\d\.\d\.\d)?`).Draw(t, "version")
		base := New(name, ver)
		snapshot := base.Clone()

		steps := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 8).Draw(t, "steps")
		cur := base
		for _, s := range steps {
			switch s {
			case 0:
				cur = cur.WithSourceDir(rapid.String().Draw(t, "dir"))
			case 1:
				cur = cur.WithGitRepo(rapid.String().Draw(t, "repo"), rapid.String().Draw(t, "ref"))
			case 2:
				cur = cur.WithoutLibrary()
			case 3:
				cur = cur.WithCMake(CMakeOptions{Defines: map[string]string{"K": rapid.String().Draw(t, "v")}})
			case 4:
				cur = cur.WithFallback(NextSource)
			case 5:
				cur = cur.WithCc(CcOptions{Files: []string{rapid.String().Draw(t, "file")}})
			}
		}
		if !base.Equal(snapshot) {
			t.Fatalf("builder chain mutated the base config")
		}
	})
}
