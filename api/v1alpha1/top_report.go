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

// TopReport holds the CPU and memory usage of the nodes and of the pods in a namespace.
type TopReport struct {
	metav1.TypeMeta `json:",inline"`

	// GatheredAt is the timestamp (UTC RFC3339) of the report.
	GatheredAt string `json:"gatheredAt"`

	// Namespace is the namespace of the pods.
	Namespace string `json:"namespace"`

	// Nodes is the node usage keyed by node name.
	Nodes map[string]resources.Reading `json:"nodes"`

	// Pods is the pod usage keyed by pod name.
	Pods map[string]resources.Reading `json:"pods"`

	// Files lists the absolute paths of the written data files.
	// +optional
	Files []string `json:"files,omitempty"`
}
