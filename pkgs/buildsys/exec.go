// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buildsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

// outputTail is how much process output an ExecError keeps.
const outputTail = 8 << 10

// Command is one external process invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Env overrides entries of the current environment.
	Env map[string]string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner runs external processes to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecError reports a failed external process. Output holds the tail of the
// combined stdout and stderr.
type ExecError struct {
	Cmd      Command
	ExitCode int
	Output   string
	Err      error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec. Process output is copied to Stdout
// and Stderr when set, and always kept for error reports.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), c.Env)
	}
	tail := &tailBuffer{max: outputTail}
	cmd.Stdout = io.MultiWriter(Output(r.Stdout), tail)
	cmd.Stderr = io.MultiWriter(Output(r.Stderr), tail)

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExecError{Cmd: c, ExitCode: code, Output: tail.String(), Err: err}
	}
	return nil
}

// tailBuffer keeps the last max bytes written to it. Stdout and stderr are
// copied by separate goroutines, so writes are serialized.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, cmd Command) error

func (f RunnerFunc) Run(ctx context.Context, cmd Command) error { return f(ctx, cmd) }
