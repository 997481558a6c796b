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

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

// LogDownload summarizes a pod log download.
type LogDownload struct {
	metav1.TypeMeta `json:",inline"`

	// OutputDir is the absolute path of the directory holding the log files.
	OutputDir string `json:"outputDir"`

	// Files lists the written log files, relative to OutputDir.
	// +optional
	Files []string `json:"files,omitempty"`

	// TimedOutPods lists the pods whose logs were not retrieved in time.
	// +optional
	TimedOutPods []string `json:"timedOutPods,omitempty"`

	// Failures lists the containers whose logs could not be retrieved.
	// +optional
	Failures []ContainerRef `json:"failures,omitempty"`
}

// ContainerRef identifies a container in a pod. An empty container
// refers to the pod as a whole.
type ContainerRef struct {
	Pod       string `json:"pod"`
	Container string `json:"container,omitempty"`
}

// String returns the reference in the 'pod/container' format.
func (r ContainerRef) String() string {
	if r.Container == "" {
		return r.Pod
	}
	return r.Pod + "/" + r.Container
}
