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

package resources

// Section identifies where a well-known key lives inside a resource document.
type Section string

const (
	// SectionRoot is the top level of the document.
	SectionRoot Section = ""
	// SectionMetadata is the metadata object.
	SectionMetadata Section = "metadata"
	// SectionAnnotations is the metadata.annotations object.
	SectionAnnotations Section = "metadata.annotations"
)

// KeyPath locates a well-known key inside a resource document.
type KeyPath struct {
	Section Section
	Key     string
}

// Fields returns the full path of the key, suitable for the unstructured helpers.
func (p KeyPath) Fields() []string {
	switch p.Section {
	case SectionMetadata:
		return []string{"metadata", p.Key}
	case SectionAnnotations:
		return []string{"metadata", "annotations", p.Key}
	default:
		return []string{p.Key}
	}
}

// Logical names of the keys resolved through KeyPaths.
const (
	KeyAPIVersion        = "apiVersion"
	KeyKind              = "kind"
	KeyMetadata          = "metadata"
	KeySpec              = "spec"
	KeyStatus            = "status"
	KeyItems             = "items"
	KeyParameters        = "parameters"
	KeyProvisioner       = "provisioner"
	KeyName              = "name"
	KeyNamespace         = "namespace"
	KeyUID               = "uid"
	KeyLabels            = "labels"
	KeyAnnotations       = "annotations"
	KeyCreationTimestamp = "creationTimestamp"
	KeyGeneration        = "generation"
	KeyResourceVersion   = "resourceVersion"
	KeySelfLink          = "selfLink"

	KeyComponentName    = "componentName"
	KeyComponentVersion = "componentVersion"
	KeyVersion          = "version"
)

// Annotation keys set on vendor resources.
const (
	AnnotationComponentName    = "sas.com/component-name"
	AnnotationComponentVersion = "sas.com/component-version"
	AnnotationVersion          = "sas.com/version"
	AnnotationProxyBodySize    = "nginx.ingress.kubernetes.io/proxy-body-size"
)

// Label keys commonly found on vendor resources.
const (
	LabelManagedBy     = "app.kubernetes.io/managed-by"
	LabelDeployment    = "sas.com/deployment"
	LabelCASNodeType   = "cas-node-type"
	LabelCASServer     = "cas-server"
	LabelPGCluster     = "pg-cluster"
	LabelPGDeployment  = "deployment-name"
	LabelPGServiceName = "service-name"
)

// Spec and status keys used by the report generators.
const (
	KeyContainers        = "containers"
	KeyInitContainers    = "initContainers"
	KeyContainerStatuses = "containerStatuses"
	KeyNodeName          = "nodeName"
	KeyNodeInfo          = "nodeInfo"
	KeyPhase             = "phase"
	KeyOwnerReferences   = "ownerReferences"
)

// KeyPaths maps the logical key names to their location in a resource document.
var KeyPaths = map[string]KeyPath{
	KeyAPIVersion:  {Section: SectionRoot, Key: "apiVersion"},
	KeyKind:        {Section: SectionRoot, Key: "kind"},
	KeyMetadata:    {Section: SectionRoot, Key: "metadata"},
	KeySpec:        {Section: SectionRoot, Key: "spec"},
	KeyStatus:      {Section: SectionRoot, Key: "status"},
	KeyItems:       {Section: SectionRoot, Key: "items"},
	KeyParameters:  {Section: SectionRoot, Key: "parameters"},
	KeyProvisioner: {Section: SectionRoot, Key: "provisioner"},

	KeyName:              {Section: SectionMetadata, Key: "name"},
	KeyNamespace:         {Section: SectionMetadata, Key: "namespace"},
	KeyUID:               {Section: SectionMetadata, Key: "uid"},
	KeyLabels:            {Section: SectionMetadata, Key: "labels"},
	KeyAnnotations:       {Section: SectionMetadata, Key: "annotations"},
	KeyCreationTimestamp: {Section: SectionMetadata, Key: "creationTimestamp"},
	KeyGeneration:        {Section: SectionMetadata, Key: "generation"},
	KeyResourceVersion:   {Section: SectionMetadata, Key: "resourceVersion"},
	KeySelfLink:          {Section: SectionMetadata, Key: "selfLink"},

	KeyComponentName:    {Section: SectionAnnotations, Key: AnnotationComponentName},
	KeyComponentVersion: {Section: SectionAnnotations, Key: AnnotationComponentVersion},
	KeyVersion:          {Section: SectionAnnotations, Key: AnnotationVersion},
}
