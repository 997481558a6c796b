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

package main

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
	"sigs.k8s.io/yaml"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
)

func TestVersion(t *testing.T) {
	g := NewWithT(t)
	output, _, err := executeCommand("version -o yaml")
	g.Expect(err).ToNot(HaveOccurred())

	var data map[string]interface{}
	err = yaml.Unmarshal([]byte(output), &data)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(data).To(HaveKeyWithValue("api", apiv1.GroupVersion))
	g.Expect(data).To(HaveKey("client"))
	g.Expect(data).To(HaveKey("kubectl"))
}

func TestVersion_JSON(t *testing.T) {
	g := NewWithT(t)
	output, _, err := executeCommand("version --kubectl /opt/bin/kubectl -o json")
	g.Expect(err).ToNot(HaveOccurred())

	var data map[string]string
	g.Expect(json.Unmarshal([]byte(output), &data)).To(Succeed())
	g.Expect(data).To(HaveKeyWithValue("kubectl", "/opt/bin/kubectl"))
}

func TestVersion_InvalidFormat(t *testing.T) {
	g := NewWithT(t)
	_, _, err := executeCommand("version -o table")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("output format must be one of"))
}

func TestVersion_Server(t *testing.T) {
	t.Run("prints the server version", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		output, _, err := executeCommand("version --server -o json")
		g.Expect(err).ToNot(HaveOccurred())

		var data map[string]string
		g.Expect(json.Unmarshal([]byte(output), &data)).To(Succeed())
		g.Expect(data).To(HaveKeyWithValue("server", "1.30.4+k3s1"))
		g.Expect(data).To(HaveKeyWithValue("api", apiv1.GroupVersion))
	})

	t.Run("omits the server version by default", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		output, _, err := executeCommand("version -o json")
		g.Expect(err).ToNot(HaveOccurred())

		var data map[string]string
		g.Expect(json.Unmarshal([]byte(output), &data)).To(Succeed())
		g.Expect(data).ToNot(HaveKey("server"))
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		g := NewWithT(t)
		r := fakeCluster(t)
		r.Fail("version -o json", 1, nil)

		_, _, err := executeCommand("version --server")
		g.Expect(err).To(HaveOccurred())
		g.Expect(exitCodeFor(err)).To(Equal(exitCodeConnection))
	})
}
