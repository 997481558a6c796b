/*
Copyright 2024 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package kubectl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/mattn/go-shellwords"
)

// DefaultExecutable is the name of the kubectl binary looked up in PATH.
const DefaultExecutable = "kubectl"

// exitCodeNotFound mirrors the shell exit code for a missing executable.
const exitCodeNotFound = 127

// waitDelay bounds the wait for the output pipe to close once the
// context is done, child processes of kubectl may still hold it open.
const waitDelay = time.Second

// Runner executes a kubectl command and returns its standard output.
type Runner interface {
	// Run executes the command suffix. When ignoreErrors is true, a nonzero
	// exit is logged and nil output is returned without an error.
	Run(ctx context.Context, command string, ignoreErrors bool) ([]byte, error)
}

// Executor runs '<executable> <global options> <command>' as a single
// shell-style invocation. Quoting is honoured, standard error is discarded.
type Executor struct {
	executable    string
	globalOptions string
	log           logr.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used to report ignored failures.
func WithLogger(log logr.Logger) ExecutorOption {
	return func(e *Executor) {
		e.log = log
	}
}

// NewExecutor returns an Executor for the given binary and global options.
// An empty executable defaults to kubectl.
func NewExecutor(executable, globalOptions string, opts ...ExecutorOption) *Executor {
	if executable == "" {
		executable = DefaultExecutable
	}
	e := &Executor{
		executable:    executable,
		globalOptions: strings.TrimSpace(globalOptions),
		log:           logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CommandLine returns the full command line for the given command suffix.
func (e *Executor) CommandLine(command string) string {
	parts := []string{e.executable}
	if e.globalOptions != "" {
		parts = append(parts, e.globalOptions)
	}
	if command = strings.TrimSpace(command); command != "" {
		parts = append(parts, command)
	}
	return strings.Join(parts, " ")
}

// Run executes the command and returns its standard output.
// A nonzero exit yields a *ProcessExecutionError unless ignoreErrors is set.
func (e *Executor) Run(ctx context.Context, command string, ignoreErrors bool) ([]byte, error) {
	line := e.CommandLine(command)
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parsing command '%s' failed: %w", line, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("parsing command '%s' failed: empty command", line)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = os.Environ()

	// Stderr is left unset so the child writes it to the null device.
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.WaitDelay = waitDelay

	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("executing '%s' failed: %w", line, ctx.Err())
	}
	if err == nil {
		return stdout.Bytes(), nil
	}

	perr := &ProcessExecutionError{Command: line, Output: stdout.Bytes()}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		perr.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		perr.ExitCode = exitCodeNotFound
		perr.Err = err
	default:
		return nil, fmt.Errorf("executing '%s' failed: %w", line, err)
	}

	if ignoreErrors {
		e.log.Info(fmt.Sprintf("warning: %s, continuing", perr.Error()))
		return nil, nil
	}

	return nil, perr
}
