// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"os"
	"path/filepath"
)

// Environment variables overriding the default directories.
const (
	CacheDirEnv = "SYSLIB_CACHE_DIR"
	OutDirEnv   = "SYSLIB_OUT_DIR"
)

// CacheDir returns the syslib cache root, creating it if needed. It defaults
// to <user cache dir>/.syslib.
func CacheDir() (string, error) {
	dir := os.Getenv(CacheDirEnv)
	if dir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(userCacheDir, ".syslib")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// GitDir returns the directory holding remote checkouts.
func GitDir() (string, error) {
	return subdir("git")
}

// OutDir returns the directory receiving build outputs, one subdirectory
// per library.
func OutDir() (string, error) {
	if dir := os.Getenv(OutDirEnv); dir != "" {
		return dir, os.MkdirAll(dir, 0o755)
	}
	return subdir("out")
}

func subdir(name string) (string, error) {
	root, err := CacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
