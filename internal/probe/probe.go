// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package probe finds libraries already installed on the host.
package probe

import (
	"context"
	"errors"

	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
)

var (
	// ErrNotFound reports that the library is not installed.
	ErrNotFound = errors.New("library not found")
	// ErrVersionTooLow reports an installed library older than required.
	ErrVersionTooLow = errors.New("installed version too low")
)

// Probe queries one system package source.
//
// An absent library is reported as an error wrapping ErrNotFound or
// ErrVersionTooLow. Any other error means the probe itself could not run.
type Probe interface {
	Name() string
	Probe(ctx context.Context, lib config.Library, static bool) (*linkinfo.LinkInfo, error)
}

// Absent reports whether err means the library is simply not available, as
// opposed to the probe failing.
func Absent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionTooLow)
}
