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

package kubectl_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	clientcmdv1 "k8s.io/client-go/tools/clientcmd/api/v1"

	"github.com/kubeark/kubeark/internal/testutils"
	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the namespace from the current context", func(t *testing.T) {
		g := testutils.NewWithT(t)

		k, err := kubectl.New(ctx, g.SetupFakeCluster("viya"), kubectl.Options{})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(k.Namespace()).To(Equal("viya"))
	})

	t.Run("accepts an existing namespace", func(t *testing.T) {
		g := testutils.NewWithT(t)

		r := g.SetupFakeCluster("kube-system")
		k, err := kubectl.New(ctx, r, kubectl.Options{Namespace: "kube-system"})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(k.Namespace()).To(Equal("kube-system"))

		_, err = k.TopNodes(ctx, false)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(r.Calls()).To(ContainElement("-n kube-system top nodes --no-headers=true"))
	})

	t.Run("rejects an unknown namespace", func(t *testing.T) {
		g := testutils.NewWithT(t)

		_, err := kubectl.New(ctx, g.SetupFakeCluster("viya"), kubectl.Options{Namespace: "missing"})
		var nerr *kubectl.NamespaceNotFoundError
		g.Expect(errors.As(err, &nerr)).To(BeTrue())
		g.Expect(nerr.Namespace).To(Equal("missing"))
	})

	t.Run("assumes the namespace exists when listing is forbidden", func(t *testing.T) {
		g := testutils.NewWithT(t)

		r := g.SetupFakeCluster("restricted")
		r.Fail("get namespaces -o json", 1, nil)

		k, err := kubectl.New(ctx, r, kubectl.Options{Namespace: "restricted"})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(k.Namespace()).To(Equal("restricted"))
	})

	t.Run("fails without a context namespace", func(t *testing.T) {
		g := testutils.NewWithT(t)

		r := g.SetupFakeCluster("viya")
		r.On("config view -o json", []byte(`{"current-context":"other","contexts":[{"name":"other","context":{"cluster":"dev"}}]}`))

		_, err := kubectl.New(ctx, r, kubectl.Options{})
		var nerr *kubectl.NamespaceNotFoundError
		g.Expect(errors.As(err, &nerr)).To(BeTrue())
		g.Expect(nerr.Namespace).To(BeEmpty())
	})

	t.Run("fails when the cluster is unreachable", func(t *testing.T) {
		g := testutils.NewWithT(t)

		r := testutils.NewFakeRunner().Fail("version -o json", 1, nil)

		_, err := kubectl.New(ctx, r, kubectl.Options{Namespace: "viya"})
		var cerr *kubectl.ConnectionError
		g.Expect(errors.As(err, &cerr)).To(BeTrue())

		code, ok := kubectl.ExitCode(err)
		g.Expect(ok).To(BeTrue())
		g.Expect(code).To(Equal(1))
	})

	t.Run("returns the context error when cancelled", func(t *testing.T) {
		g := testutils.NewWithT(t)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		r := testutils.NewFakeRunner()
		_, err := kubectl.New(cctx, r, kubectl.Options{Namespace: "viya"})
		g.Expect(errors.Is(err, context.Canceled)).To(BeTrue())

		var cerr *kubectl.ConnectionError
		g.Expect(errors.As(err, &cerr)).To(BeFalse())
	})
}

func TestCurrentNamespace(t *testing.T) {
	g := NewWithT(t)

	g.Expect(kubectl.CurrentNamespace(nil)).To(BeEmpty())
	g.Expect(kubectl.CurrentNamespace(&clientcmdv1.Config{})).To(BeEmpty())
	g.Expect(kubectl.CurrentNamespace(&clientcmdv1.Config{
		CurrentContext: "b",
		Contexts: []clientcmdv1.NamedContext{
			{Name: "a", Context: clientcmdv1.Context{Namespace: "ns-a"}},
			{Name: "b", Context: clientcmdv1.Context{Namespace: "ns-b"}},
		},
	})).To(Equal("ns-b"))
}

func TestKubectl_Commands(t *testing.T) {
	ctx := context.Background()
	g := testutils.NewWithT(t)

	r := testutils.NewFakeRunner()
	k := kubectl.NewForNamespace(r, "viya")

	_, _ = k.ClusterInfo(ctx)
	_, _ = k.ManageResource(ctx, "apply", "/tmp/manifest.yaml", true)
	_, _ = k.GetResourceRaw(ctx, resources.TypeDeployments, "sas-logon-app", true)
	_, _ = k.Logs(ctx, "sas-logon-app-0", kubectl.LogOptions{IgnoreErrors: true})
	_, _ = k.Logs(ctx, "sas-logon-app-0", kubectl.LogOptions{Container: "sas-logon-app", Tail: 500, Prefix: true, IgnoreErrors: true})
	_, _ = k.CanI(ctx, "list pods", true)
	_, _ = k.Do(ctx, "get events", true)
	_, _ = k.ConfigView(ctx, true)

	g.Expect(r.Calls()).To(Equal([]string{
		"-n viya cluster-info",
		"-n viya apply -f /tmp/manifest.yaml",
		"-n viya get deployments.apps sas-logon-app -o json",
		"-n viya logs sas-logon-app-0 --tail=10 --all-containers",
		"-n viya logs sas-logon-app-0 sas-logon-app --tail=500 --prefix",
		"-n viya auth can-i list pods --quiet --all-namespaces",
		"-n viya get events",
		"config view -o json",
	}))
}

func TestKubectl_Queries(t *testing.T) {
	ctx := context.Background()
	g := testutils.NewWithT(t)

	k, _ := g.NewFakeKubectl()

	catalog, err := k.APIResources(ctx, false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(catalog.IsAvailable(resources.KindCASDeployment)).To(BeTrue())
	g.Expect(catalog.QualifiedName(resources.KindCASDeployment)).To(Equal(resources.TypeCASDeployments))
	g.Expect(catalog.QualifiedName(resources.KindNodeMetrics)).To(Equal(resources.TypeNodeMetrics))
	g.Expect(catalog.Verbs("SelfSubjectAccessReview")).To(BeEmpty())
	g.Expect(catalog.ShortName(resources.KindJob)).To(BeEmpty())
	namespaced, _ := catalog.IsNamespaced(resources.KindNamespace)
	g.Expect(namespaced).To(BeFalse())

	versions, err := k.APIVersions(ctx, false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(versions).To(HaveLen(8))
	g.Expect(versions).To(ContainElement("viya.sas.com/v1alpha1"))

	pods, err := k.GetResources(ctx, resources.TypePods)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(pods).To(HaveLen(3))
	g.Expect(pods[0].Kind()).To(Equal(resources.KindPod))

	raw, err := k.GetResourcesRaw(ctx, resources.TypeNodes)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(raw).To(HaveKey("items"))

	nodes, err := k.TopNodes(ctx, false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(nodes.Names()).To(Equal([]string{"node-1", "node-2"}))

	podMetrics, err := k.TopPods(ctx, false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(podMetrics.Len()).To(Equal(3))

	cfg, err := k.ConfigView(ctx, false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(cfg.CurrentContext).To(Equal("dev"))

	version, err := kubectl.ServerVersion(ctx, k)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(version.String()).To(Equal("1.30.4+k3s1"))
	g.Expect(version.Original()).To(Equal("v1.30.4+k3s1"))
}

func TestKubectl_IgnoredErrors(t *testing.T) {
	ctx := context.Background()
	g := testutils.NewWithT(t)

	k := kubectl.NewForNamespace(testutils.NewFakeRunner(), "viya")

	r, err := k.GetResource(ctx, resources.TypePods, "missing", true)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(r).To(BeNil())

	v, err := k.Version(ctx, true)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(v).To(BeNil())

	m, err := k.TopPods(ctx, true)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(m.Len()).To(BeZero())

	logs, err := k.Logs(ctx, "missing", kubectl.LogOptions{IgnoreErrors: true})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(logs).To(BeEmpty())

	_, err = k.GetResources(ctx, resources.TypePods)
	g.Expect(err).To(HaveOccurred())

	_, err = kubectl.ServerVersion(ctx, k)
	g.Expect(err).To(MatchError(ContainSubstring("reading server version failed")))
}

func TestKubectl_GetResource(t *testing.T) {
	ctx := context.Background()
	g := testutils.NewWithT(t)

	k, r := g.NewFakeKubectl()
	r.On("-n viya get pods prometheus-0 -o json", []byte(`{"kind":"Pod","metadata":{"name":"prometheus-0"}}`))

	pod, err := k.GetResource(ctx, resources.TypePods, "prometheus-0", false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(pod.Name()).To(Equal("prometheus-0"))
	g.Expect(pod.IsVendorResource()).To(BeFalse())
}

func TestKubectl_Logs(t *testing.T) {
	ctx := context.Background()
	g := testutils.NewWithT(t)

	k, r := g.NewFakeKubectl()
	r.On("-n viya logs prometheus-0 prometheus --tail=2", []byte("line one\nline two\n"))
	r.On("-n viya logs prometheus-0 --tail=10 --all-containers --prefix", []byte("[pod/prometheus-0/prometheus] ready\n"))
	r.On("-n viya logs prometheus-0 prometheus --tail=0", nil)
	r.On("-n viya logs prometheus-0 prometheus --tail=1", []byte("\n"))

	lines, err := k.Logs(ctx, "prometheus-0", kubectl.LogOptions{Container: "prometheus", Tail: 2})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(lines).To(Equal([]string{"line one", "line two"}))

	t.Run("uses the default tail when negative", func(t *testing.T) {
		g := NewWithT(t)
		lines, err := k.Logs(ctx, "prometheus-0", kubectl.LogOptions{Tail: -1, Prefix: true})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(lines).To(Equal([]string{"[pod/prometheus-0/prometheus] ready"}))
	})

	t.Run("passes a zero tail", func(t *testing.T) {
		g := NewWithT(t)
		lines, err := k.Logs(ctx, "prometheus-0", kubectl.LogOptions{Container: "prometheus", Tail: 0})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(lines).To(BeEmpty())
		g.Expect(lines).ToNot(BeNil())
	})

	t.Run("keeps blank lines", func(t *testing.T) {
		g := NewWithT(t)
		lines, err := k.Logs(ctx, "prometheus-0", kubectl.LogOptions{Container: "prometheus", Tail: 1})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(lines).To(Equal([]string{""}))
	})
}

func TestKubectl_CanI(t *testing.T) {
	ctx := context.Background()
	g := testutils.NewWithT(t)

	k, r := g.NewFakeKubectl()
	r.Fail("-n viya auth can-i get secrets --quiet", 2, nil)

	allowed, err := k.CanI(ctx, "list pods", false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(allowed).To(BeTrue())

	allowed, err = k.CanI(ctx, "delete nodes", false)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(allowed).To(BeFalse())

	_, err = k.CanI(ctx, "get secrets", false)
	code, ok := kubectl.ExitCode(err)
	g.Expect(ok).To(BeTrue())
	g.Expect(code).To(Equal(2))
}

func TestToVersionInfo(t *testing.T) {
	g := NewWithT(t)

	info, err := kubectl.ToVersionInfo(map[string]any{
		"clientVersion":    map[string]any{"gitVersion": "v1.31.1"},
		"kustomizeVersion": "v5.4.2",
	})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(info.ClientVersion.GitVersion).To(Equal("v1.31.1"))
	g.Expect(info.KustomizeVersion).To(Equal("v5.4.2"))
	g.Expect(info.ServerVersion).To(BeNil())

	_, err = info.Server()
	g.Expect(err).To(MatchError(ContainSubstring("server version not reported")))
}

func TestVersionInfo_Server(t *testing.T) {
	g := NewWithT(t)

	info, err := kubectl.ToVersionInfo(map[string]any{
		"serverVersion": map[string]any{"gitVersion": "v1.29.8-eks-a737599"},
	})
	g.Expect(err).ToNot(HaveOccurred())

	ver, err := info.Server()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ver.Major()).To(Equal(uint64(1)))
	g.Expect(ver.Minor()).To(Equal(uint64(29)))
	g.Expect(ver.Prerelease()).To(Equal("eks-a737599"))

	info, err = kubectl.ToVersionInfo(map[string]any{
		"serverVersion": map[string]any{"gitVersion": "unknown"},
	})
	g.Expect(err).ToNot(HaveOccurred())
	_, err = info.Server()
	g.Expect(err).To(MatchError(ContainSubstring("parsing server version failed")))
}
