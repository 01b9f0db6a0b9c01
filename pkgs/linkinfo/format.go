// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linkinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Format selects an output encoding for LinkInfo.
type Format string

const (
	// FormatJSON is the machine-readable contract.
	FormatJSON Format = "json"
	// FormatCgo emits #cgo CFLAGS/LDFLAGS directives.
	FormatCgo Format = "cgo"
	// FormatFlags emits one line of compiler and linker flags.
	FormatFlags Format = "flags"
	// FormatDirectives emits one key=value line per item.
	FormatDirectives Format = "directives"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCgo, FormatFlags, FormatDirectives}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Write encodes info to w in the given format.
func Write(w io.Writer, info *LinkInfo, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case FormatCgo:
		_, err := fmt.Fprintf(w, "#cgo CFLAGS: %s\n#cgo LDFLAGS: %s\n",
			shellquote.Join(info.CFlags()...), shellquote.Join(info.LDFlags()...))
		return err
	case FormatFlags:
		flags := append(info.CFlags(), info.LDFlags()...)
		_, err := fmt.Fprintln(w, shellquote.Join(flags...))
		return err
	case FormatDirectives:
		return writeDirectives(w, info)
	}
	return fmt.Errorf("unknown format %q", format)
}

// CFlags returns the unquoted compiler flags for info: include dirs then
// defines.
func (l *LinkInfo) CFlags() []string {
	flags := make([]string, 0, len(l.IncludeDirs)+len(l.Defines))
	for _, dir := range l.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	for _, name := range l.DefineNames() {
		if v := l.Defines[name]; v != nil {
			flags = append(flags, "-D"+name+"="+*v)
		} else {
			flags = append(flags, "-D"+name)
		}
	}
	return flags
}

// LDFlags returns the unquoted linker flags for info: search dirs then
// libraries.
func (l *LinkInfo) LDFlags() []string {
	flags := make([]string, 0, len(l.LinkDirs)+len(l.Libs))
	for _, dir := range l.LinkDirs {
		flags = append(flags, "-L"+dir)
	}
	for _, lib := range l.Libs {
		flags = append(flags, "-l"+lib)
	}
	return flags
}

func writeDirectives(w io.Writer, info *LinkInfo) error {
	var b strings.Builder
	for _, dir := range info.IncludeDirs {
		fmt.Fprintf(&b, "include=%s\n", dir)
	}
	for _, dir := range info.LinkDirs {
		fmt.Fprintf(&b, "link-search=%s\n", dir)
	}
	for _, lib := range info.Libs {
		fmt.Fprintf(&b, "link-lib=%s\n", lib)
	}
	for _, name := range info.DefineNames() {
		if v := info.Defines[name]; v != nil {
			fmt.Fprintf(&b, "define=%s=%s\n", name, *v)
		} else {
			fmt.Fprintf(&b, "define=%s\n", name)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
