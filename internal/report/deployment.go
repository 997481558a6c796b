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
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

// DeploymentMetadataConfigMap holds the cadence of a vendor deployment.
const DeploymentMetadataConfigMap = "sas-deployment-metadata"

const cadenceKey = "cadence"

var cadenceQuery = apiv1.ResourceQuery{
	Type: resources.TypeConfigMaps,
	Name: DeploymentMetadataConfigMap,
	Expressions: map[string]string{
		cadenceKey: `.data | "\(.SAS_CADENCE_DISPLAY_NAME) \(.SAS_CADENCE_VERSION) (\(.SAS_CADENCE_RELEASE))"`,
	},
	Optional: true,
}

// GatherDeployment collects the cluster details and groups the pods of the
// namespace into vendor components. Listing the API resources and the pods
// is required, every other detail is gathered on a best effort basis.
func GatherDeployment(ctx context.Context, k kubectl.Interface) (*apiv1.DeploymentReport, error) {
	log := logr.FromContextOrDiscard(ctx)
	namespace := k.Namespace()

	report := &apiv1.DeploymentReport{
		TypeMeta:   apiv1.DeploymentReportKind.TypeMeta(),
		GatheredAt: time.Now().UTC().Format(time.RFC3339),
		Kubernetes: apiv1.KubernetesDetails{
			Namespace: namespace,
		},
	}

	catalog, err := k.APIResources(ctx, false)
	if err != nil {
		return nil, &RequestForbiddenError{Request: "listing API resources", Namespace: namespace, Err: err}
	}
	report.Kubernetes.APIResources = catalog.AsMap()

	if versions, err := k.APIVersions(ctx, true); err == nil {
		report.Kubernetes.APIVersions = versions
	}

	if raw, err := k.Version(ctx, true); err == nil && raw != nil {
		if info, err := kubectl.ToVersionInfo(raw); err == nil {
			if info.ServerVersion != nil {
				report.Kubernetes.ServerVersion = info.ServerVersion.GitVersion
			}
			if info.ClientVersion != nil {
				report.Kubernetes.ClientVersion = info.ClientVersion.GitVersion
			}
		}
	}

	report.Kubernetes.IngressController = resources.IngressControllerFor(catalog, func(resourceType string) bool {
		list, err := k.GetResources(ctx, resourceType)
		return err == nil && len(list) > 0
	})

	values, err := NewResourceReader(k).Read(ctx, []apiv1.ResourceQuery{cadenceQuery})
	if err != nil {
		log.V(1).Info("cadence not available", "error", err.Error())
	}
	report.Kubernetes.Cadence = values[cadenceKey]

	if catalog.IsAvailable(resources.KindNode) {
		nodes, err := k.GetResources(ctx, resources.TypeNodes)
		if err != nil {
			log.V(1).Info("listing nodes failed", "error", err.Error())
			report.UnavailableResources = append(report.UnavailableResources, resources.TypeNodes)
		} else {
			metrics := topMetrics(ctx, k.TopNodes, catalog.IsAvailable(resources.KindNodeMetrics))
			report.Kubernetes.Nodes = nodeDetails(nodes, metrics)
		}
	}

	pods, err := k.GetResources(ctx, resources.TypePods)
	if err != nil {
		return nil, &RequestForbiddenError{Request: "listing pods", Namespace: namespace, Err: err}
	}
	metrics := topMetrics(ctx, k.TopPods, catalog.IsAvailable(resources.KindPodMetrics))
	report.Components, report.OtherPods = groupPods(pods, metrics)

	return report, nil
}

// topMetrics returns the usage table, or an empty one when the metrics API
// is not served or the request failed.
func topMetrics(ctx context.Context, top func(context.Context, bool) (*resources.Metrics, error), served bool) *resources.Metrics {
	if !served {
		return resources.NewMetrics(nil)
	}
	m, err := top(ctx, true)
	if err != nil || m == nil {
		return resources.NewMetrics(nil)
	}
	return m
}

func nodeDetails(nodes []*resources.Resource, metrics *resources.Metrics) []apiv1.NodeDetails {
	details := make([]apiv1.NodeDetails, 0, len(nodes))
	for _, r := range nodes {
		n := &corev1.Node{}
		if err := r.ToTyped(n); err != nil {
			details = append(details, apiv1.NodeDetails{Name: r.Name()})
			continue
		}

		d := apiv1.NodeDetails{
			Name:             n.Name,
			KubeletVersion:   n.Status.NodeInfo.KubeletVersion,
			OSImage:          n.Status.NodeInfo.OSImage,
			ContainerRuntime: n.Status.NodeInfo.ContainerRuntimeVersion,
		}
		for _, c := range n.Status.Conditions {
			if c.Type == corev1.NodeReady {
				d.Ready = c.Status == corev1.ConditionTrue
			}
		}
		if q, ok := n.Status.Capacity[corev1.ResourceCPU]; ok {
			d.CPU = q.String()
		}
		if q, ok := n.Status.Capacity[corev1.ResourceMemory]; ok {
			d.Memory = q.String()
		}
		if reading, ok := metrics.Reading(n.Name); ok {
			d.Metrics = &reading
		}
		details = append(details, d)
	}

	slices.SortFunc(details, func(a, b apiv1.NodeDetails) int {
		return strings.Compare(a.Name, b.Name)
	})
	return details
}

// groupPods assigns the pods annotated with a component name to their
// component, the other pods are returned separately.
func groupPods(pods []*resources.Resource, metrics *resources.Metrics) ([]apiv1.Component, []apiv1.PodDetails) {
	components := map[string]*apiv1.Component{}
	var others []apiv1.PodDetails

	for _, r := range pods {
		d := podDetails(r, metrics)

		name, ok := r.ComponentName()
		if !ok || name == "" {
			others = append(others, d)
			continue
		}

		c, found := components[name]
		if !found {
			version, _ := r.ComponentVersion()
			c = &apiv1.Component{Name: name, Version: version}
			components[name] = c
		}
		c.Pods = append(c.Pods, d)
	}

	byName := func(a, b apiv1.PodDetails) int {
		return strings.Compare(a.Name, b.Name)
	}

	result := make([]apiv1.Component, 0, len(components))
	for _, c := range components {
		slices.SortFunc(c.Pods, byName)
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b apiv1.Component) int {
		return strings.Compare(a.Name, b.Name)
	})
	slices.SortFunc(others, byName)

	return result, others
}

func podDetails(r *resources.Resource, metrics *resources.Metrics) apiv1.PodDetails {
	d := apiv1.PodDetails{Name: r.Name()}
	if reading, ok := metrics.Reading(r.Name()); ok {
		d.Metrics = &reading
	}

	p := &corev1.Pod{}
	if err := r.ToTyped(p); err != nil {
		return d
	}

	d.Phase = string(p.Status.Phase)
	d.NodeName = p.Spec.NodeName
	for _, cs := range p.Status.ContainerStatuses {
		d.Containers = append(d.Containers, apiv1.ContainerDetails{
			Name:         cs.Name,
			Image:        cs.Image,
			Ready:        cs.Ready,
			RestartCount: cs.RestartCount,
			State:        containerState(cs.State),
		})
	}
	return d
}

func containerState(s corev1.ContainerState) string {
	switch {
	case s.Running != nil:
		return "running"
	case s.Terminated != nil:
		return "terminated: " + s.Terminated.Reason
	case s.Waiting != nil:
		return "waiting: " + s.Waiting.Reason
	default:
		return ""
	}
}
