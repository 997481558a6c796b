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
	"errors"
	"fmt"
)

// ProcessExecutionError is returned when a kubectl invocation exits with a nonzero code.
type ProcessExecutionError struct {
	// Command is the full command line that was executed.
	Command string
	// ExitCode is the exit code of the process, 127 if the executable was not found.
	ExitCode int
	// Output is the captured standard output.
	Output []byte
	// Err is the underlying error when the process could not be started.
	Err error
}

func (e *ProcessExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command '%s' failed with exit code %d: %s", e.Command, e.ExitCode, e.Err.Error())
	}
	return fmt.Sprintf("command '%s' failed with exit code %d", e.Command, e.ExitCode)
}

func (e *ProcessExecutionError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by a ProcessExecutionError in the
// error chain. The second value is false for any other error.
func ExitCode(err error) (int, bool) {
	var perr *ProcessExecutionError
	if errors.As(err, &perr) {
		return perr.ExitCode, true
	}
	return 0, false
}

// ConnectionError is returned when the cluster cannot be reached through kubectl.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "a connection to the Kubernetes cluster could not be established, " +
		"make sure that kubectl is properly configured and that KUBECONFIG points to a valid config: " +
		e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NamespaceNotFoundError is returned when the target namespace does not
// exist or cannot be determined from the current context.
type NamespaceNotFoundError struct {
	Namespace string
}

func (e *NamespaceNotFoundError) Error() string {
	if e.Namespace == "" {
		return "the namespace could not be determined from the current context, " +
			"update KUBECONFIG or provide a namespace with the '--namespace' flag"
	}
	return fmt.Sprintf("namespace '%s' not found", e.Namespace)
}
