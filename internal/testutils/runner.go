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

package testutils

import (
	"context"
	"strings"
	"sync"

	"github.com/kubeark/kubeark/pkg/kubectl"
)

// FakeResponse is the scripted result of a kubectl command.
type FakeResponse struct {
	Output   []byte
	ExitCode int
}

// FakeRunner is a kubectl.Runner that replays scripted responses keyed by
// the command suffix, e.g. '-n viya get pods -o json'. Unknown commands
// fail with exit code 1. It is safe for concurrent use.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	calls     []string
}

// NewFakeRunner returns a runner without any scripted responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: map[string]FakeResponse{}}
}

// On scripts a successful response.
func (f *FakeRunner) On(command string, output []byte) *FakeRunner {
	return f.respond(command, FakeResponse{Output: output})
}

// Fail scripts a failed response with the given exit code and standard output.
func (f *FakeRunner) Fail(command string, exitCode int, output []byte) *FakeRunner {
	return f.respond(command, FakeResponse{Output: output, ExitCode: exitCode})
}

func (f *FakeRunner) respond(command string, r FakeResponse) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[strings.TrimSpace(command)] = r
	return f
}

// Run replays the response scripted for the command, following the
// error handling of kubectl.Executor.
func (f *FakeRunner) Run(ctx context.Context, command string, ignoreErrors bool) ([]byte, error) {
	command = strings.TrimSpace(command)

	f.mu.Lock()
	f.calls = append(f.calls, command)
	r, ok := f.responses[command]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !ok {
		r = FakeResponse{ExitCode: 1}
	}
	if r.ExitCode == 0 {
		return r.Output, nil
	}
	if ignoreErrors {
		return nil, nil
	}
	return nil, &kubectl.ProcessExecutionError{
		Command:  kubectl.DefaultExecutable + " " + command,
		ExitCode: r.ExitCode,
		Output:   r.Output,
	}
}

// Calls returns the commands received so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
