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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubeark/kubeark/pkg/resources"
)

// DeploymentReport holds the details gathered about the cluster
// and the vendor components deployed to a namespace.
type DeploymentReport struct {
	metav1.TypeMeta `json:",inline"`

	// GatheredAt is the timestamp (UTC RFC3339) of the report.
	GatheredAt string `json:"gatheredAt"`

	// Kubernetes contains the cluster details.
	Kubernetes KubernetesDetails `json:"kubernetes"`

	// Components lists the vendor components, sorted by name.
	// +optional
	Components []Component `json:"components,omitempty"`

	// OtherPods lists the pods that do not belong to a vendor component.
	// +optional
	OtherPods []PodDetails `json:"otherPods,omitempty"`

	// UnavailableResources lists the resource types that could not be read.
	// +optional
	UnavailableResources []string `json:"unavailableResources,omitempty"`
}

// KubernetesDetails describes the cluster the report was gathered from.
type KubernetesDetails struct {
	// Namespace is the namespace targeted by the report.
	Namespace string `json:"namespace"`

	// ServerVersion is the Kubernetes API server version.
	// +optional
	ServerVersion string `json:"serverVersion,omitempty"`

	// ClientVersion is the kubectl version.
	// +optional
	ClientVersion string `json:"clientVersion,omitempty"`

	// Cadence is the release cadence of the vendor deployment.
	// +optional
	Cadence string `json:"cadence,omitempty"`

	// IngressController is the detected ingress controller.
	// +optional
	IngressController resources.IngressController `json:"ingressController,omitempty"`

	// APIVersions lists the group/versions served by the cluster.
	// +optional
	APIVersions []string `json:"apiVersions,omitempty"`

	// APIResources is the catalog of kinds served by the cluster.
	// +optional
	APIResources map[string]resources.APIResource `json:"apiResources,omitempty"`

	// Nodes lists the cluster nodes, sorted by name.
	// +optional
	Nodes []NodeDetails `json:"nodes,omitempty"`
}

// NodeDetails describes a cluster node.
type NodeDetails struct {
	Name             string `json:"name"`
	Ready            bool   `json:"ready"`
	KubeletVersion   string `json:"kubeletVersion,omitempty"`
	OSImage          string `json:"osImage,omitempty"`
	ContainerRuntime string `json:"containerRuntime,omitempty"`
	CPU              string `json:"cpu,omitempty"`
	Memory           string `json:"memory,omitempty"`

	// Metrics is the node usage, absent when the metrics API is not served.
	// +optional
	Metrics *resources.Reading `json:"metrics,omitempty"`
}

// Component groups the pods annotated with the same component name.
type Component struct {
	Name    string       `json:"name"`
	Version string       `json:"version,omitempty"`
	Pods    []PodDetails `json:"pods"`
}

// PodDetails describes a pod and its containers.
type PodDetails struct {
	Name       string             `json:"name"`
	Phase      string             `json:"phase,omitempty"`
	NodeName   string             `json:"nodeName,omitempty"`
	Containers []ContainerDetails `json:"containers,omitempty"`

	// Metrics is the pod usage, absent when the metrics API is not served.
	// +optional
	Metrics *resources.Reading `json:"metrics,omitempty"`
}

// ContainerDetails describes the status of a container.
type ContainerDetails struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	Ready        bool   `json:"ready"`
	RestartCount int32  `json:"restartCount"`
	State        string `json:"state,omitempty"`
}

// Component returns the named component, or nil.
func (r *DeploymentReport) Component(name string) *Component {
	for i := range r.Components {
		if r.Components[i].Name == name {
			return &r.Components[i]
		}
	}
	return nil
}
