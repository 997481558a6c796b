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

	"github.com/kubeark/kubeark/pkg/resources"
)

func TestAPIResources(t *testing.T) {
	t.Run("prints a table", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		output, _, err := executeCommand("api-resources")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(output).To(ContainSubstring("NAME"))
		g.Expect(output).To(ContainSubstring("VERBS"))
		g.Expect(output).To(MatchRegexp(`casdeployments\s+casdeploy\s+viya.sas.com/v1alpha1\s+true\s+CASDeployment`))
	})

	t.Run("prints the catalog as JSON", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		output, _, err := executeCommand("api-resources -o json")
		g.Expect(err).ToNot(HaveOccurred())

		catalog := map[string]resources.APIResource{}
		g.Expect(json.Unmarshal([]byte(output), &catalog)).To(Succeed())
		g.Expect(catalog).To(HaveKeyWithValue(resources.KindPod, resources.APIResource{
			Name:       "pods",
			ShortName:  "po",
			APIGroup:   "v1",
			Namespaced: true,
			Verbs:      []string{"create", "delete", "deletecollection", "get", "list", "patch", "update", "watch"},
		}))
	})

	t.Run("fails when listing is not allowed", func(t *testing.T) {
		g := NewWithT(t)
		r := fakeCluster(t)
		r.Fail("-n viya api-resources -o wide", 1, nil)

		_, _, err := executeCommand("api-resources")
		g.Expect(err).To(HaveOccurred())
		g.Expect(exitCodeFor(err)).To(Equal(exitCodeRuntime))
	})
}

func TestAPIVersions(t *testing.T) {
	g := NewWithT(t)
	fakeCluster(t)

	output, _, err := executeCommand("api-versions")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(output).To(HavePrefix("apps/v1\n"))
	g.Expect(output).To(ContainSubstring("\nv1\n"))
}

func TestCanI(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		output, _, err := executeCommand("can-i list pods")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(output).To(ContainSubstring("yes"))
	})

	t.Run("denied", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		output, _, err := executeCommand("can-i delete nodes")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(output).To(ContainSubstring("no"))
	})

	t.Run("all namespaces", func(t *testing.T) {
		g := NewWithT(t)
		r := fakeCluster(t)
		r.On("-n viya auth can-i get secrets --quiet --all-namespaces", nil)

		output, _, err := executeCommand("can-i get secrets -A")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(output).To(ContainSubstring("yes"))
	})

	t.Run("probe failure", func(t *testing.T) {
		g := NewWithT(t)
		r := fakeCluster(t)
		r.Fail("-n viya auth can-i list pods --quiet", 2, nil)

		_, _, err := executeCommand("can-i list pods")
		g.Expect(err).To(HaveOccurred())
		g.Expect(err.Error()).To(ContainSubstring("checking access failed"))
	})

	t.Run("requires a verb and a resource", func(t *testing.T) {
		g := NewWithT(t)
		fakeCluster(t)

		_, _, err := executeCommand("can-i list")
		g.Expect(err).To(HaveOccurred())
	})
}
