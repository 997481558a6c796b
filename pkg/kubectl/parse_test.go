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

package kubectl

import (
	"fmt"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

const apiResourcesRow = "%-7s%-13s%-11s%-13s%-7s%s\n"

func apiResourcesTable(header string, rows ...[]string) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(apiResourcesRow, "NAME", "SHORTNAMES", header, "NAMESPACED", "KIND", "VERBS"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf(apiResourcesRow, r[0], r[1], r[2], r[3], r[4], r[5]))
	}
	return []byte(sb.String())
}

func TestParseAPIResources(t *testing.T) {
	g := NewWithT(t)

	data := apiResourcesTable("APIGROUP",
		[]string{"pods", "po", "", "true", "Pod", "[get list watch]"},
		[]string{"nodes", "no", "", "false", "Node", "[get list]"},
		[]string{"jobs", "", "batch", "true", "Job", "[create delete]"},
		[]string{"bindings", "", "", "true", "Binding", "[]"},
	)
	// trailing blank line as emitted by kubectl
	data = append(data, '\n')

	c := ParseAPIResources(data)
	g.Expect(c.Len()).To(Equal(4))

	pod, ok := c.Kind("Pod")
	g.Expect(ok).To(BeTrue())
	g.Expect(pod.Name).To(Equal("pods"))
	g.Expect(pod.ShortName).To(Equal("po"))
	g.Expect(pod.APIGroup).To(BeEmpty())
	g.Expect(pod.Namespaced).To(BeTrue())
	g.Expect(pod.Verbs).To(Equal([]string{"get", "list", "watch"}))

	job, ok := c.Kind("Job")
	g.Expect(ok).To(BeTrue())
	g.Expect(job.ShortName).To(BeEmpty())
	g.Expect(job.APIGroup).To(Equal("batch"))

	g.Expect(c.Verbs("Binding")).To(Equal([]string{}))
}

func TestParseAPIResources_NamespacedFalse(t *testing.T) {
	g := NewWithT(t)

	data := apiResourcesTable("APIGROUP",
		[]string{"nodes", "no", "", "false", "Node", "[get list]"},
		[]string{"widgets", "", "", "True", "Widget", "[get]"},
	)

	c := ParseAPIResources(data)

	namespaced, ok := c.IsNamespaced("Node")
	g.Expect(ok).To(BeTrue())
	g.Expect(namespaced).To(BeFalse())

	node, _ := c.Kind("Node")
	g.Expect(node.Namespaced).To(BeFalse())
	g.Expect(c.AsMap()["Node"].Namespaced).To(BeFalse())

	namespaced, _ = c.IsNamespaced("Widget")
	g.Expect(namespaced).To(BeFalse())
}

func TestParseAPIResources_APIVersionHeader(t *testing.T) {
	g := NewWithT(t)

	data := apiResourcesTable("APIVERSION",
		[]string{"deployments", "deploy", "apps/v1", "true", "Deployment", "[get list]"},
	)

	c := ParseAPIResources(data)
	g.Expect(c.APIGroup("Deployment")).To(Equal("apps/v1"))
	g.Expect(c.QualifiedName("Deployment")).To(Equal("deployments.apps"))
}

func TestParseAPIResources_Empty(t *testing.T) {
	g := NewWithT(t)

	g.Expect(ParseAPIResources(nil).Len()).To(BeZero())
	g.Expect(ParseAPIResources([]byte("error: the server doesn't have a resource type\n")).Len()).To(BeZero())
}

func TestParseNodeMetrics(t *testing.T) {
	g := NewWithT(t)

	data := []byte("node-1   250m   6%    2048Mi   13%\r\n" +
		"node-2   <unknown>   <unknown>   <unknown>\n" +
		"\n" +
		"node-3   1200m  30%   8192Mi   51%\n")

	m := ParseNodeMetrics(data)
	g.Expect(m.Names()).To(Equal([]string{"node-1", "node-3"}))

	cpu, _ := m.CPUCores("node-1")
	g.Expect(cpu).To(Equal("250m"))
	used, ok := m.CPUUsed("node-1")
	g.Expect(ok).To(BeTrue())
	g.Expect(used).To(Equal("6%"))
	mem, _ := m.MemoryBytes("node-3")
	g.Expect(mem).To(Equal("8192Mi"))
	memUsed, ok := m.MemoryUsed("node-1")
	g.Expect(ok).To(BeTrue())
	g.Expect(memUsed).To(Equal("13%"))
}

func TestParsePodMetrics(t *testing.T) {
	g := NewWithT(t)

	data := []byte("sas-annotations-58db55fd65-l2jrw   5m     150Mi\n" +
		"NAME CPU(cores) MEMORY(bytes) extra\n" +
		"prometheus-0   20m   300Mi\n")

	m := ParsePodMetrics(data)
	g.Expect(m.Len()).To(Equal(2))

	cpu, ok := m.CPUCores("prometheus-0")
	g.Expect(ok).To(BeTrue())
	g.Expect(cpu).To(Equal("20m"))

	_, ok = m.CPUUsed("prometheus-0")
	g.Expect(ok).To(BeFalse())
	_, ok = m.MemoryUsed("prometheus-0")
	g.Expect(ok).To(BeFalse())

	g.Expect(ParsePodMetrics(nil).Len()).To(BeZero())
}
