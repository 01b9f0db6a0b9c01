// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"errors"
	"strings"
)

// Failure kinds of a resolution. Every error returned by Engine.Build is an
// *Error matching exactly one of them with errors.Is.
var (
	ErrInvalidConfig          = errors.New("invalid config")
	ErrNoSourceAvailable      = errors.New("no source available")
	ErrSourceResolutionFailed = errors.New("source resolution failed")
	ErrBackendExecutionFailed = errors.New("backend execution failed")
)

// Error describes a failed resolution step.
type Error struct {
	Kind   error
	Step   string
	Name   string
	Source string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("syslib: ")
	b.WriteString(e.Step)
	if e.Name != "" {
		b.WriteString(" " + e.Name)
	}
	if e.Source != "" {
		b.WriteString(" (" + e.Source + ")")
	}
	b.WriteString(": " + e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the failure kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
