// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goplus/syslib/pkgs/buildsys"
	"github.com/goplus/syslib/pkgs/config"
	"github.com/goplus/syslib/pkgs/linkinfo"
	"github.com/goplus/syslib/pkgs/version"
)

// PkgConfig probes libraries through the pkg-config tool.
type PkgConfig struct {
	// Binary is the pkg-config executable. It defaults to $PKG_CONFIG, then
	// pkg-config.
	Binary string
	// Env overrides environment variables such as PKG_CONFIG_PATH.
	Env    map[string]string
	Logger zerolog.Logger
}

// NewPkgConfig returns a pkg-config probe using the default binary.
func NewPkgConfig() *PkgConfig {
	return &PkgConfig{Logger: zerolog.Nop()}
}

func (p *PkgConfig) Name() string { return linkinfo.ProviderPkgConfig }

func (p *PkgConfig) Probe(ctx context.Context, lib config.Library, static bool) (*linkinfo.LinkInfo, error) {
	have, err := p.run(ctx, "--modversion", lib.Name)
	if err != nil {
		var ee *buildsys.ExecError
		if errors.As(err, &ee) && ee.ExitCode > 0 {
			return nil, fmt.Errorf("pkg-config %s: %w", lib.Name, ErrNotFound)
		}
		return nil, err
	}
	if !version.AtLeast(have, lib.Version) {
		return nil, fmt.Errorf("pkg-config %s: %w: have %s, want >= %s",
			lib.Name, ErrVersionTooLow, have, lib.Version)
	}

	cflags, err := p.run(ctx, "--cflags", lib.Name)
	if err != nil {
		return nil, err
	}
	libsArgs := []string{"--libs", lib.Name}
	if static {
		libsArgs = append([]string{"--static"}, libsArgs...)
	}
	libs, err := p.run(ctx, libsArgs...)
	if err != nil {
		return nil, err
	}

	info, ignored, err := linkinfo.ParseFlags(linkinfo.ProviderPkgConfig, cflags, libs)
	if err != nil {
		return nil, fmt.Errorf("pkg-config %s: %w", lib.Name, err)
	}
	if len(ignored) > 0 {
		p.Logger.Debug().Str("library", lib.Name).Strs("flags", ignored).Msg("ignored pkg-config flags")
	}
	info.Version = have
	return info, nil
}

func (p *PkgConfig) binary() string {
	if p.Binary != "" {
		return p.Binary
	}
	if b := os.Getenv("PKG_CONFIG"); b != "" {
		return b
	}
	return "pkg-config"
}

func (p *PkgConfig) run(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	r := buildsys.ExecRunner{Stdout: &out}
	if err := r.Run(ctx, buildsys.Command{Path: p.binary(), Args: args, Env: p.Env}); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}
