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

package report

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPods is returned when the namespace has no pods.
	ErrNoPods = errors.New("no pods found")

	// ErrNoMatchingPods is returned when no pod matched the components filter.
	ErrNoMatchingPods = errors.New("no pods matched the components filter")
)

// RequestForbiddenError is returned when a listing required by a report fails.
type RequestForbiddenError struct {
	// Request describes the denied request, e.g. 'listing pods'.
	Request   string
	Namespace string
	Err       error
}

func (e *RequestForbiddenError) Error() string {
	return fmt.Sprintf("%s is forbidden in namespace '%s', make sure KUBECONFIG is correctly set "+
		"and that the correct namespace is targeted with the '--namespace' flag: %s",
		e.Request, e.Namespace, e.Err.Error())
}

func (e *RequestForbiddenError) Unwrap() error {
	return e.Err
}
