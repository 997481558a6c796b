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

const (
	// Group is the API group of the kubeark report documents.
	Group = "report.kubeark.dev"

	// Version is the API version of the kubeark report documents.
	Version = "v1alpha1"

	// GroupVersion is the apiVersion set on every report document.
	GroupVersion = Group + "/" + Version
)

// ReportKind is an enumeration of the documents produced by kubeark.
type ReportKind string

// String returns the string representation of the ReportKind.
func (k ReportKind) String() string {
	return string(k)
}

// TypeMeta returns the apiVersion and kind of the document.
func (k ReportKind) TypeMeta() metav1.TypeMeta {
	return metav1.TypeMeta{
		APIVersion: GroupVersion,
		Kind:       k.String(),
	}
}

const (
	// DeploymentReportKind is the kind of the deployment report.
	DeploymentReportKind ReportKind = "DeploymentReport"

	// TopReportKind is the kind of the top report.
	TopReportKind ReportKind = "TopReport"

	// LogDownloadKind is the kind of the pod log download summary.
	LogDownloadKind ReportKind = "LogDownload"

	// PreInstallReportKind is the kind of the pre-install check report.
	PreInstallReportKind ReportKind = "PreInstallReport"
)
