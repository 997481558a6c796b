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
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

// completeNamespaceList completes a Cobra argument or flag with
// a Kubernetes namespace, based on the current context in ~/.kube/config
func completeNamespaceList(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	k := kubectl.NewForNamespace(newRunner(LoggerFrom(ctx)), "")
	namespaces, err := k.GetResources(ctx, resources.TypeNamespaces)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var completions []string
	for _, ns := range namespaces {
		if strings.HasPrefix(ns.Name(), toComplete) {
			completions = append(completions, ns.Name())
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeKindList completes a Cobra argument with the kinds served by the cluster.
func completeKindList(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	k := kubectl.NewForNamespace(newRunner(LoggerFrom(ctx)), *kubeconfigArgs.Namespace)
	catalog, err := k.APIResources(ctx, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var completions []string
	for _, kind := range catalog.Kinds() {
		name := catalog.QualifiedName(kind)
		if strings.HasPrefix(name, toComplete) {
			completions = append(completions, name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
