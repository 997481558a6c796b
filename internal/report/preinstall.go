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
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

// DefaultMinKubernetesVersion is the oldest Kubernetes release accepted by the pre-install checks.
const DefaultMinKubernetesVersion = "1.28"

const (
	defaultClassAnnotation     = "storageclass.kubernetes.io/is-default-class"
	betaDefaultClassAnnotation = "storageclass.beta.kubernetes.io/is-default-class"

	// dryRunObjectName names the objects submitted with a server side dry run.
	dryRunObjectName = "kubeark-preinstall-check"
	dryRunAction     = "create --dry-run=server"
)

// storageTypeParameters name the disk or SKU type across the Azure and AWS provisioners.
var storageTypeParameters = []string{"skuName", "storageaccounttype", "type"}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type accessRule struct {
	verb string
	kind string
}

// preInstallAccess lists the access a deployment needs, in report order.
var preInstallAccess = []accessRule{
	{"create", resources.KindCustomResourceDefine},
	{"delete", resources.KindCustomResourceDefine},
	{"get", resources.KindStorageClass},
	{"create", resources.KindRole},
	{"delete", resources.KindRole},
	{"create", resources.KindRoleBinding},
	{"delete", resources.KindRoleBinding},
	{"create", resources.KindServiceAccount},
	{"delete", resources.KindServiceAccount},
	{"create", resources.KindPersistentVolumeClaim},
	{"delete", resources.KindPersistentVolumeClaim},
	{"create", resources.KindDeployment},
	{"create", resources.KindService},
	{"create", resources.KindIngress},
}

// PreInstallOptions holds the settings of GatherPreInstall.
type PreInstallOptions struct {
	// MinKubernetesVersion is the oldest supported release, e.g. '1.28'.
	MinKubernetesVersion string

	// ManifestDir is where the manifests submitted with a server side
	// dry run are written. No dry run is made when empty.
	ManifestDir string
}

// GatherPreInstall checks that a namespace is ready for a deployment: the
// server version, the control plane, the storage classes and the access of
// the current user. Only listing the API resources is required, a check
// that cannot be made is reported as failed or skipped.
func GatherPreInstall(ctx context.Context, k kubectl.Interface, opts PreInstallOptions) (*apiv1.PreInstallReport, error) {
	log := logr.FromContextOrDiscard(ctx)
	namespace := k.Namespace()

	if opts.MinKubernetesVersion == "" {
		opts.MinKubernetesVersion = DefaultMinKubernetesVersion
	}
	constraint, err := semver.NewConstraint(">= " + opts.MinKubernetesVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum Kubernetes version '%s': %w", opts.MinKubernetesVersion, err)
	}

	report := &apiv1.PreInstallReport{
		TypeMeta:   apiv1.PreInstallReportKind.TypeMeta(),
		GatheredAt: time.Now().UTC().Format(time.RFC3339),
		Namespace:  namespace,
	}

	catalog, err := k.APIResources(ctx, false)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &RequestForbiddenError{Request: "listing API resources", Namespace: namespace, Err: err}
	}

	if report.Kubernetes, err = checkServerVersion(ctx, k, constraint, opts.MinKubernetesVersion); err != nil {
		return nil, err
	}
	if report.ControlPlane, err = checkControlPlane(ctx, k); err != nil {
		return nil, err
	}
	if report.StorageClasses, err = checkStorageClasses(ctx, k, catalog); err != nil {
		return nil, err
	}

	for _, rule := range preInstallAccess {
		check, err := checkAccess(ctx, k, catalog, rule)
		if err != nil {
			return nil, err
		}
		report.Permissions = append(report.Permissions, check)
	}

	if opts.ManifestDir != "" {
		checks, err := dryRunManifests(ctx, k, catalog, opts.ManifestDir)
		if err != nil {
			return nil, err
		}
		report.Permissions = append(report.Permissions, checks...)
	}

	report.Issues = countFailed(report)
	log.V(1).Info("pre-install checks done", "namespace", namespace, "issues", report.Issues)

	return report, nil
}

func countFailed(report *apiv1.PreInstallReport) int {
	statuses := []apiv1.CheckStatus{
		report.Kubernetes.Status,
		report.ControlPlane.Status,
		report.StorageClasses.Status,
	}
	for _, p := range report.Permissions {
		statuses = append(statuses, p.Status)
	}

	n := 0
	for _, s := range statuses {
		if s == apiv1.CheckFailed {
			n++
		}
	}
	return n
}

func checkServerVersion(ctx context.Context, k kubectl.Interface, constraint *semver.Constraints, minimum string) (apiv1.VersionCheck, error) {
	check := apiv1.VersionCheck{Minimum: minimum}

	ver, err := kubectl.ServerVersion(ctx, k)
	if err != nil {
		if ctx.Err() != nil {
			return check, ctx.Err()
		}
		check.Status = apiv1.CheckFailed
		check.Message = err.Error()
		return check, nil
	}
	check.ServerVersion = ver.String()

	// Provider builds such as 'v1.29.8-eks-a737599' carry a pre-release
	// suffix which the constraint would otherwise reject.
	release, err := ver.SetPrerelease("")
	if err != nil {
		release = *ver
	}
	if !constraint.Check(&release) {
		check.Status = apiv1.CheckFailed
		check.Message = fmt.Sprintf("Kubernetes %d.%d is not supported, the minimum version is %s",
			ver.Major(), ver.Minor(), minimum)
		return check, nil
	}

	check.Status = apiv1.CheckPassed
	return check, nil
}

func checkControlPlane(ctx context.Context, k kubectl.Interface) (apiv1.ControlPlaneCheck, error) {
	check := apiv1.ControlPlaneCheck{}

	out, err := k.ClusterInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return check, ctx.Err()
		}
		check.Status = apiv1.CheckFailed
		check.Message = "cluster information not available, check permissions"
		return check, nil
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = ansiEscape.ReplaceAllString(line, "")
		if !strings.HasPrefix(line, "Kubernetes") {
			continue
		}
		if _, endpoint, found := strings.Cut(line, " is running at "); found {
			check.Endpoint = strings.TrimSpace(endpoint)
		}
		check.Status = apiv1.CheckPassed
		return check, nil
	}

	check.Status = apiv1.CheckFailed
	check.Message = "the control plane is not reported by 'kubectl cluster-info'"
	return check, nil
}

func checkStorageClasses(ctx context.Context, k kubectl.Interface, catalog *resources.APIResources) (apiv1.StorageClassCheck, error) {
	check := apiv1.StorageClassCheck{Classes: []apiv1.StorageClassDetails{}}

	if !catalog.IsAvailable(resources.KindStorageClass) {
		check.Status = apiv1.CheckSkipped
		check.Message = "storage classes are not served by the cluster"
		return check, nil
	}

	list, err := k.GetResources(ctx, catalog.QualifiedName(resources.KindStorageClass))
	if err != nil {
		if ctx.Err() != nil {
			return check, ctx.Err()
		}
		check.Status = apiv1.CheckFailed
		check.Message = "listing storage classes is not allowed"
		return check, nil
	}

	var defaults []string
	for _, r := range list {
		details := apiv1.StorageClassDetails{
			Name:        r.Name(),
			Provisioner: r.Provisioner(),
			Default:     isDefaultClass(r),
		}
		for _, key := range storageTypeParameters {
			if v, ok := r.ParameterValue(key); ok {
				details.StorageType = fmt.Sprint(v)
				break
			}
		}
		if details.Default {
			defaults = append(defaults, details.Name)
		}
		check.Classes = append(check.Classes, details)
	}

	switch {
	case len(check.Classes) == 0:
		check.Status = apiv1.CheckFailed
		check.Message = "no storage class found"
	case len(defaults) > 1:
		check.Status = apiv1.CheckFailed
		check.Message = "multiple default storage classes found: " + strings.Join(defaults, ", ")
	default:
		check.Status = apiv1.CheckPassed
	}
	return check, nil
}

func isDefaultClass(r *resources.Resource) bool {
	for _, key := range []string{defaultClassAnnotation, betaDefaultClassAnnotation} {
		if v, ok := r.Annotation(key); ok && v == "true" {
			return true
		}
	}
	return false
}

// checkAccess asks 'kubectl auth can-i' for the rule when the cluster
// serves the kind and the kind supports the verb.
func checkAccess(ctx context.Context, k kubectl.Interface, catalog *resources.APIResources, rule accessRule) (apiv1.PermissionCheck, error) {
	check := apiv1.PermissionCheck{Verb: rule.verb, Resource: strings.ToLower(rule.kind)}

	kind, ok := catalog.Kind(rule.kind)
	if !ok {
		check.Status = apiv1.CheckSkipped
		check.Message = fmt.Sprintf("%s is not served by the cluster", rule.kind)
		return check, nil
	}
	check.Resource = catalog.QualifiedName(rule.kind)
	check.ClusterScoped = !kind.Namespaced

	if !kind.HasVerb(rule.verb) {
		check.Status = apiv1.CheckSkipped
		check.Message = fmt.Sprintf("%s does not support '%s'", rule.kind, rule.verb)
		return check, nil
	}

	allowed, err := k.CanI(ctx, rule.verb+" "+check.Resource, false)
	switch {
	case err != nil && ctx.Err() != nil:
		return check, ctx.Err()
	case err != nil:
		check.Status = apiv1.CheckFailed
		check.Message = err.Error()
	case !allowed:
		check.Status = apiv1.CheckFailed
		check.Message = "insufficient permissions"
	default:
		check.Status = apiv1.CheckPassed
	}
	return check, nil
}

// dryRunManifests submits a service account, a role and a role binding
// with a server side dry run, which runs the admission chain without
// persisting the objects.
func dryRunManifests(ctx context.Context, k kubectl.Interface, catalog *resources.APIResources, dir string) ([]apiv1.PermissionCheck, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory failed: %w", err)
	}

	var checks []apiv1.PermissionCheck
	for _, m := range preInstallManifests(k.Namespace()) {
		check := apiv1.PermissionCheck{Verb: "create", Resource: m.resource, DryRun: true}

		kind, ok := catalog.Kind(m.kind)
		if !ok || !kind.HasVerb("create") {
			check.Status = apiv1.CheckSkipped
			check.Message = fmt.Sprintf("%s cannot be created on the cluster", m.kind)
			checks = append(checks, check)
			continue
		}

		data, err := yaml.Marshal(m.object)
		if err != nil {
			return nil, fmt.Errorf("encoding %s manifest failed: %w", m.kind, err)
		}
		file := filepath.Join(dir, strings.ToLower(m.kind)+".yaml")
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s failed: %w", file, err)
		}

		if _, err := k.ManageResource(ctx, dryRunAction, file, false); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			check.Status = apiv1.CheckFailed
			check.Message = err.Error()
		} else {
			check.Status = apiv1.CheckPassed
		}
		checks = append(checks, check)
	}
	return checks, nil
}

type manifest struct {
	kind     string
	resource string
	object   any
}

func preInstallManifests(namespace string) []manifest {
	meta := metav1.ObjectMeta{
		Name:      dryRunObjectName,
		Namespace: namespace,
		Labels:    map[string]string{"app.kubernetes.io/managed-by": "kubeark"},
	}

	return []manifest{
		{
			kind:     resources.KindServiceAccount,
			resource: "serviceaccounts",
			object: &corev1.ServiceAccount{
				TypeMeta:   metav1.TypeMeta{APIVersion: corev1.SchemeGroupVersion.String(), Kind: resources.KindServiceAccount},
				ObjectMeta: meta,
			},
		},
		{
			kind:     resources.KindRole,
			resource: resources.TypeRoles,
			object: &rbacv1.Role{
				TypeMeta:   metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: resources.KindRole},
				ObjectMeta: meta,
				Rules: []rbacv1.PolicyRule{{
					APIGroups: []string{""},
					Resources: []string{"pods"},
					Verbs:     []string{"get", "list"},
				}},
			},
		},
		{
			kind:     resources.KindRoleBinding,
			resource: resources.TypeRoleBindings,
			object: &rbacv1.RoleBinding{
				TypeMeta:   metav1.TypeMeta{APIVersion: rbacv1.SchemeGroupVersion.String(), Kind: resources.KindRoleBinding},
				ObjectMeta: meta,
				Subjects: []rbacv1.Subject{{
					Kind:      rbacv1.ServiceAccountKind,
					Name:      dryRunObjectName,
					Namespace: namespace,
				}},
				RoleRef: rbacv1.RoleRef{
					APIGroup: rbacv1.GroupName,
					Kind:     resources.KindRole,
					Name:     dryRunObjectName,
				},
			},
		},
	}
}
