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

// Kinds commonly found in a vendor deployment. The full list served by
// a cluster is available through the API resources catalog.
const (
	KindCASDeployment         = "CASDeployment"
	KindConfigMap             = "ConfigMap"
	KindCronJob               = "CronJob"
	KindDeployment            = "Deployment"
	KindEndpoint              = "Endpoint"
	KindIngress               = "Ingress"
	KindIstioVirtualService   = "VirtualService"
	KindContourHTTPProxy      = "HTTPProxy"
	KindOpenShiftRoute        = "Route"
	KindJob                   = "Job"
	KindNode                  = "Node"
	KindNodeMetrics           = "NodeMetrics"
	KindPod                   = "Pod"
	KindPodMetrics            = "PodMetrics"
	KindReplicaSet            = "ReplicaSet"
	KindService               = "Service"
	KindStatefulSet           = "StatefulSet"
	KindStorageClass          = "StorageClass"
	KindCrunchyPGCluster      = "Pgcluster"
	KindCrunchyPGBackup       = "Pgbackup"
	KindCrunchyPGReplica      = "Pgreplica"
	KindCrunchyPGPolicy       = "Pgpolicy"
	KindCrunchyPGTask         = "Pgtask"
	KindNamespace             = "Namespace"
	KindPersistentVolumeClaim = "PersistentVolumeClaim"
	KindRole                  = "Role"
	KindRoleBinding           = "RoleBinding"
	KindServiceAccount        = "ServiceAccount"
	KindCustomResourceDefine  = "CustomResourceDefinition"
)

// API groups of the fully-qualified resource types.
const (
	GroupApps            = "apps"
	GroupBatch           = "batch"
	GroupExtensions      = "extensions"
	GroupMetrics         = "metrics.k8s.io"
	GroupNetworking      = "networking.k8s.io"
	GroupRBAC            = "rbac.authorization.k8s.io"
	GroupStorage         = "storage.k8s.io"
	GroupViya            = "viya.sas.com"
	GroupWebInfDSvr      = "webinfdsvr.sas.com"
	GroupContour         = "projectcontour.io"
	GroupIstioNetworking = "networking.istio.io"
	GroupOpenShiftRoute  = "route.openshift.io"
)

// Fully-qualified resource types, usable with 'kubectl get' without
// ambiguity between kinds that share a name across groups.
// Core types cannot carry a group.
const (
	TypeCASDeployments       = "casdeployments." + GroupViya
	TypeDeployments          = "deployments." + GroupApps
	TypeReplicaSets          = "replicasets." + GroupApps
	TypeStatefulSets         = "statefulsets." + GroupApps
	TypeCronJobs             = "cronjobs." + GroupBatch
	TypeJobs                 = "jobs." + GroupBatch
	TypeConfigMaps           = "configmaps"
	TypeNamespaces           = "namespaces"
	TypeNodes                = "nodes"
	TypePods                 = "pods"
	TypeServices             = "services"
	TypeExtensionsIngresses  = "ingresses." + GroupExtensions
	TypeNodeMetrics          = "nodes." + GroupMetrics
	TypePodMetrics           = "pods." + GroupMetrics
	TypeIngresses            = "ingresses." + GroupNetworking
	TypeStorageClasses       = "storageclasses." + GroupStorage
	TypeRoles                = "roles." + GroupRBAC
	TypeRoleBindings         = "rolebindings." + GroupRBAC
	TypePGClusters           = "pgclusters." + GroupWebInfDSvr
	TypeContourHTTPProxies   = "httpproxies." + GroupContour
	TypeIstioVirtualServices = "virtualservices." + GroupIstioNetworking
	TypeOpenShiftRoutes      = "routes." + GroupOpenShiftRoute
)
