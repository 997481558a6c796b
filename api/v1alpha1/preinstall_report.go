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

// CheckStatus is the outcome of a pre-install check.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "Passed"
	CheckFailed  CheckStatus = "Failed"
	CheckSkipped CheckStatus = "Skipped"
)

// PreInstallReport holds the results of the checks made against a cluster
// and a namespace before installing a deployment into it.
type PreInstallReport struct {
	metav1.TypeMeta `json:",inline"`

	// GatheredAt is the timestamp (UTC RFC3339) of the report.
	GatheredAt string `json:"gatheredAt"`

	// Namespace is the namespace targeted by the checks.
	Namespace string `json:"namespace"`

	// Kubernetes is the server version check.
	Kubernetes VersionCheck `json:"kubernetes"`

	// ControlPlane is the 'kubectl cluster-info' check.
	ControlPlane ControlPlaneCheck `json:"controlPlane"`

	// StorageClasses is the storage class check.
	StorageClasses StorageClassCheck `json:"storageClasses"`

	// Permissions lists the access checks in the order they were made.
	Permissions []PermissionCheck `json:"permissions"`

	// Issues is the number of failed checks.
	Issues int `json:"issues"`
}

// VersionCheck compares the server version with the minimum supported one.
type VersionCheck struct {
	ServerVersion string      `json:"serverVersion,omitempty"`
	Minimum       string      `json:"minimum"`
	Status        CheckStatus `json:"status"`
	// +optional
	Message string `json:"message,omitempty"`
}

// ControlPlaneCheck holds the control plane endpoint reported by the cluster.
type ControlPlaneCheck struct {
	// +optional
	Endpoint string      `json:"endpoint,omitempty"`
	Status   CheckStatus `json:"status"`
	// +optional
	Message string `json:"message,omitempty"`
}

// StorageClassCheck lists the storage classes of the cluster. It fails
// when there is none or when more than one is marked as default.
type StorageClassCheck struct {
	Classes []StorageClassDetails `json:"classes"`
	Status  CheckStatus           `json:"status"`
	// +optional
	Message string `json:"message,omitempty"`
}

// StorageClassDetails describes one storage class.
type StorageClassDetails struct {
	Name        string `json:"name"`
	Provisioner string `json:"provisioner"`
	Default     bool   `json:"default"`

	// StorageType is the disk or SKU parameter of the provisioner, e.g. 'Premium_LRS'.
	// +optional
	StorageType string `json:"storageType,omitempty"`
}

// PermissionCheck is the result of an access check for one verb and resource type.
type PermissionCheck struct {
	// Verb is the checked action, e.g. 'create'.
	Verb string `json:"verb"`

	// Resource is the fully-qualified resource type, e.g. 'roles.rbac.authorization.k8s.io'.
	Resource string `json:"resource"`

	// ClusterScoped is set for resource types that are not namespaced.
	ClusterScoped bool `json:"clusterScoped"`

	// DryRun is set when the check submitted a manifest with a server side dry run.
	// +optional
	DryRun bool `json:"dryRun,omitempty"`

	Status CheckStatus `json:"status"`
	// +optional
	Message string `json:"message,omitempty"`
}
