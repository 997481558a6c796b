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

package main

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/kubeark/kubeark/pkg/kubectl"
)

// newRunner returns the runner backing all cluster requests,
// unit tests replace it with a scripted fake.
var newRunner = func(log logr.Logger) kubectl.Runner {
	return kubectl.NewExecutor(rootArgs.kubectl.String(), kubectlGlobalOptions(), kubectl.WithLogger(log))
}

// newKubectl verifies the connection to the cluster and binds
// the requests to the namespace set with --namespace.
func newKubectl(ctx context.Context) (*kubectl.Kubectl, error) {
	log := LoggerFrom(ctx)
	return kubectl.New(ctx, newRunner(log), kubectl.Options{
		Namespace: *kubeconfigArgs.Namespace,
	})
}
