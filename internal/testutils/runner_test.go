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

package testutils

import (
	"context"
	"testing"

	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/onsi/gomega"
)

func TestFakeRunner(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	r := NewFakeRunner().
		On("get pods -o json", []byte(`{"items":[]}`)).
		Fail("auth can-i delete pods --quiet", 1, []byte("no"))

	out, err := r.Run(ctx, "get pods -o json ", false)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(string(out)).To(gomega.Equal(`{"items":[]}`))

	_, err = r.Run(ctx, "auth can-i delete pods --quiet", false)
	code, ok := kubectl.ExitCode(err)
	g.Expect(ok).To(gomega.BeTrue())
	g.Expect(code).To(gomega.Equal(1))

	out, err = r.Run(ctx, "unknown", true)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(out).To(gomega.BeNil())

	g.Expect(r.Calls()).To(gomega.Equal([]string{
		"get pods -o json",
		"auth can-i delete pods --quiet",
		"unknown",
	}))
}

func TestSetupFakeCluster(t *testing.T) {
	g := NewWithT(t)

	k, _ := g.NewFakeKubectl()
	g.Expect(k.Namespace()).To(gomega.Equal(FakeClusterNamespace))

	pods, err := k.GetResources(context.Background(), "pods")
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(pods).To(gomega.HaveLen(3))
}
