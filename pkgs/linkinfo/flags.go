// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linkinfo

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ParseFlags builds a LinkInfo from compiler and linker flags in the form
// printed by pkg-config --cflags and --libs. It understands -I, -D, -L and -l,
// both joined ("-Ifoo") and separated ("-I foo"). Other flags carry nothing the
// output contract can express and are returned in ignored.
func ParseFlags(provider, cflags, libs string) (info *LinkInfo, ignored []string, err error) {
	info = New(provider)
	for _, s := range []string{cflags, libs} {
		args, err := shellquote.Split(s)
		if err != nil {
			return nil, nil, fmt.Errorf("splitting %q: %w", s, err)
		}
		for i := 0; i < len(args); i++ {
			arg := args[i]
			if len(arg) < 2 || arg[0] != '-' {
				ignored = append(ignored, arg)
				continue
			}
			flag, val := arg[:2], arg[2:]
			switch flag {
			case "-I", "-L", "-l", "-D":
			default:
				ignored = append(ignored, arg)
				continue
			}
			if val == "" {
				if i+1 == len(args) {
					return nil, nil, fmt.Errorf("flag %s: missing argument", flag)
				}
				i++
				val = args[i]
			}
			switch flag {
			case "-I":
				info.AddInclude(val)
			case "-L":
				info.AddLinkDir(val)
			case "-l":
				info.AddLib(val)
			case "-D":
				if k, v, ok := strings.Cut(val, "="); ok {
					info.Define(k, &v)
				} else {
					info.Define(val, nil)
				}
			}
		}
	}
	return info, ignored, nil
}
