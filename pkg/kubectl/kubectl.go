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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	clientcmdv1 "k8s.io/client-go/tools/clientcmd/api/v1"

	"github.com/kubeark/kubeark/pkg/resources"
)

// DefaultLogTail is the number of log lines fetched when LogOptions.Tail is negative.
const DefaultLogTail = 10

// Interface is the set of kubectl operations used by the report generators.
// It is implemented by Kubectl and by test fakes.
type Interface interface {
	// Namespace returns the namespace targeted by all namespaced operations.
	Namespace() string
	// Do runs an arbitrary kubectl command and returns its standard output.
	Do(ctx context.Context, command string, ignoreErrors bool) ([]byte, error)

	APIResources(ctx context.Context, ignoreErrors bool) (*resources.APIResources, error)
	APIVersions(ctx context.Context, ignoreErrors bool) ([]string, error)
	CanI(ctx context.Context, action string, allNamespaces bool) (bool, error)
	ConfigView(ctx context.Context, ignoreErrors bool) (*clientcmdv1.Config, error)
	ClusterInfo(ctx context.Context) ([]byte, error)
	ManageResource(ctx context.Context, action, file string, ignoreErrors bool) ([]byte, error)
	GetResources(ctx context.Context, resourceType string) ([]*resources.Resource, error)
	GetResourcesRaw(ctx context.Context, resourceType string) (map[string]any, error)
	GetResource(ctx context.Context, resourceType, name string, ignoreErrors bool) (*resources.Resource, error)
	GetResourceRaw(ctx context.Context, resourceType, name string, ignoreErrors bool) ([]byte, error)
	Logs(ctx context.Context, pod string, opts LogOptions) ([]string, error)
	TopNodes(ctx context.Context, ignoreErrors bool) (*resources.Metrics, error)
	TopPods(ctx context.Context, ignoreErrors bool) (*resources.Metrics, error)
	Version(ctx context.Context, ignoreErrors bool) (map[string]any, error)
}

// LogOptions holds the options of a 'kubectl logs' request.
type LogOptions struct {
	// Container selects a single container, all containers are fetched when empty.
	Container string
	// Tail is the number of recent lines to fetch, DefaultLogTail when negative.
	Tail int
	// Prefix prepends the pod and container name to each line.
	Prefix bool
	// IgnoreErrors suppresses a failed request.
	IgnoreErrors bool
}

// Options holds the settings used by New.
type Options struct {
	// Namespace to target, resolved from the current context when empty.
	Namespace string
}

// Kubectl issues requests to a Kubernetes cluster through the kubectl binary.
type Kubectl struct {
	runner    Runner
	namespace string
}

// New verifies the connection to the cluster, resolves the target namespace
// and returns a Kubectl bound to it.
//
// An explicit namespace is checked against the cluster's namespaces, a
// listing failure is tolerated since it only means the check cannot be made.
// Without a namespace, the one set on the current kubeconfig context is used.
func New(ctx context.Context, runner Runner, opts Options) (*Kubectl, error) {
	k := &Kubectl{runner: runner}

	// 'kubectl version' needs no namespace but does connect to the cluster.
	if _, err := k.Version(ctx, false); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &ConnectionError{Err: err}
	}

	namespace := opts.Namespace
	if namespace != "" {
		list, err := k.GetResources(ctx, resources.TypeNamespaces)
		if err != nil {
			var perr *ProcessExecutionError
			if !errors.As(err, &perr) {
				return nil, err
			}
			// Listing namespaces is not allowed, assume the namespace exists.
		} else if !containsName(list, namespace) {
			return nil, &NamespaceNotFoundError{Namespace: namespace}
		}
	} else {
		cfg, err := k.ConfigView(ctx, false)
		if err != nil {
			return nil, err
		}
		namespace = CurrentNamespace(cfg)
		if namespace == "" {
			return nil, &NamespaceNotFoundError{}
		}
	}

	k.namespace = namespace
	return k, nil
}

// NewForNamespace returns a Kubectl bound to the given namespace without
// contacting the cluster. An empty namespace leaves the choice to kubectl.
func NewForNamespace(runner Runner, namespace string) *Kubectl {
	return &Kubectl{runner: runner, namespace: namespace}
}

// CurrentNamespace returns the namespace set on the current context of the config.
func CurrentNamespace(cfg *clientcmdv1.Config) string {
	if cfg == nil || cfg.CurrentContext == "" {
		return ""
	}
	for _, c := range cfg.Contexts {
		if c.Name == cfg.CurrentContext {
			return c.Context.Namespace
		}
	}
	return ""
}

func containsName(list []*resources.Resource, name string) bool {
	for _, r := range list {
		if r.Name() == name {
			return true
		}
	}
	return false
}

func (k *Kubectl) Namespace() string {
	return k.namespace
}

// Do runs the command against the target namespace.
func (k *Kubectl) Do(ctx context.Context, command string, ignoreErrors bool) ([]byte, error) {
	if k.namespace != "" {
		command = fmt.Sprintf("-n %s %s", k.namespace, command)
	}
	return k.runner.Run(ctx, command, ignoreErrors)
}

// APIResources returns the catalog of kinds served by the cluster.
//
//	kubectl api-resources -o wide
func (k *Kubectl) APIResources(ctx context.Context, ignoreErrors bool) (*resources.APIResources, error) {
	out, err := k.Do(ctx, "api-resources -o wide", ignoreErrors)
	if err != nil {
		return nil, err
	}
	return ParseAPIResources(out), nil
}

// APIVersions returns the group/versions served by the cluster.
//
//	kubectl api-versions
func (k *Kubectl) APIVersions(ctx context.Context, ignoreErrors bool) ([]string, error) {
	out, err := k.Do(ctx, "api-versions", ignoreErrors)
	if err != nil {
		return nil, err
	}
	versions := []string{}
	for _, line := range splitLines(out) {
		if line = strings.TrimSpace(line); line != "" {
			versions = append(versions, line)
		}
	}
	return versions, nil
}

// CanI reports whether the current user is allowed to perform the action.
// In quiet mode kubectl signals a denial with exit code 1, any other
// nonzero code is returned as an error.
//
//	kubectl auth can-i <action> --quiet [--all-namespaces]
func (k *Kubectl) CanI(ctx context.Context, action string, allNamespaces bool) (bool, error) {
	cmd := fmt.Sprintf("auth can-i %s --quiet", action)
	if allNamespaces {
		cmd += " --all-namespaces"
	}

	if _, err := k.Do(ctx, cmd, false); err != nil {
		if code, ok := ExitCode(err); ok && code == 1 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ConfigView returns the merged kubeconfig.
//
//	kubectl config view -o json
func (k *Kubectl) ConfigView(ctx context.Context, ignoreErrors bool) (*clientcmdv1.Config, error) {
	out, err := k.runner.Run(ctx, "config view -o json", ignoreErrors)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	cfg := &clientcmdv1.Config{}
	if err := json.Unmarshal(out, cfg); err != nil {
		return nil, fmt.Errorf("decoding kubeconfig failed: %w", err)
	}
	return cfg, nil
}

// ClusterInfo returns the output of 'kubectl cluster-info'.
func (k *Kubectl) ClusterInfo(ctx context.Context) ([]byte, error) {
	return k.Do(ctx, "cluster-info", false)
}

// ManageResource runs an action such as apply, create or delete with a manifest file.
//
//	kubectl <action> -f <file>
func (k *Kubectl) ManageResource(ctx context.Context, action, file string, ignoreErrors bool) ([]byte, error) {
	return k.Do(ctx, fmt.Sprintf("%s -f %s", action, file), ignoreErrors)
}

// GetResources returns all objects of the given type.
//
//	kubectl get <type> -o json
func (k *Kubectl) GetResources(ctx context.Context, resourceType string) ([]*resources.Resource, error) {
	raw, err := k.GetResourcesRaw(ctx, resourceType)
	if err != nil {
		return nil, err
	}

	items, _ := raw[resources.KeyItems].([]any)
	list := make([]*resources.Resource, 0, len(items))
	for _, item := range items {
		r, err := resources.NewResource(item)
		if err != nil {
			return nil, fmt.Errorf("decoding %s failed: %w", resourceType, err)
		}
		list = append(list, r)
	}
	return list, nil
}

// GetResourcesRaw returns the decoded list document for the given type.
func (k *Kubectl) GetResourcesRaw(ctx context.Context, resourceType string) (map[string]any, error) {
	out, err := k.Do(ctx, fmt.Sprintf("get %s -o json", resourceType), false)
	if err != nil {
		return nil, err
	}
	r, err := resources.NewResource(out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s failed: %w", resourceType, err)
	}
	return r.Object(), nil
}

// GetResource returns a single object, or nil when the request failed and
// ignoreErrors is set.
//
//	kubectl get <type> <name> -o json
func (k *Kubectl) GetResource(ctx context.Context, resourceType, name string, ignoreErrors bool) (*resources.Resource, error) {
	out, err := k.GetResourceRaw(ctx, resourceType, name, ignoreErrors)
	if err != nil || out == nil {
		return nil, err
	}
	return resources.NewResource(out)
}

// GetResourceRaw returns the JSON document of a single object.
func (k *Kubectl) GetResourceRaw(ctx context.Context, resourceType, name string, ignoreErrors bool) ([]byte, error) {
	return k.Do(ctx, fmt.Sprintf("get %s %s -o json", resourceType, name), ignoreErrors)
}

// Logs returns the log lines of a pod.
//
//	kubectl logs <pod> [<container>] --tail=<n> [--all-containers] [--prefix]
func (k *Kubectl) Logs(ctx context.Context, pod string, opts LogOptions) ([]string, error) {
	tail := opts.Tail
	if tail < 0 {
		tail = DefaultLogTail
	}

	var sb strings.Builder
	sb.WriteString("logs " + pod)
	if opts.Container != "" {
		sb.WriteString(" " + opts.Container)
	}
	sb.WriteString(fmt.Sprintf(" --tail=%d", tail))
	if opts.Container == "" {
		sb.WriteString(" --all-containers")
	}
	if opts.Prefix {
		sb.WriteString(" --prefix")
	}

	out, err := k.Do(ctx, sb.String(), opts.IgnoreErrors)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []string{}, nil
	}
	return strings.Split(strings.TrimSuffix(string(out), "\n"), "\n"), nil
}

// TopNodes returns the CPU and memory usage of the cluster nodes.
//
//	kubectl top nodes --no-headers=true
func (k *Kubectl) TopNodes(ctx context.Context, ignoreErrors bool) (*resources.Metrics, error) {
	out, err := k.Do(ctx, "top nodes --no-headers=true", ignoreErrors)
	if err != nil {
		return nil, err
	}
	return ParseNodeMetrics(out), nil
}

// TopPods returns the CPU and memory usage of the pods in the namespace.
//
//	kubectl top pods --no-headers=true
func (k *Kubectl) TopPods(ctx context.Context, ignoreErrors bool) (*resources.Metrics, error) {
	out, err := k.Do(ctx, "top pods --no-headers=true", ignoreErrors)
	if err != nil {
		return nil, err
	}
	return ParsePodMetrics(out), nil
}

// Version returns the decoded client and server version information,
// or nil when the request failed and ignoreErrors is set.
//
//	kubectl version -o json
func (k *Kubectl) Version(ctx context.Context, ignoreErrors bool) (map[string]any, error) {
	out, err := k.Do(ctx, "version -o json", ignoreErrors)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	r, err := resources.NewResource(out)
	if err != nil {
		return nil, fmt.Errorf("decoding version failed: %w", err)
	}
	return r.Object(), nil
}
