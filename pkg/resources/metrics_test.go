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

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
)

func ptr(s string) *string {
	return &s
}

func TestMetrics_Accessors(t *testing.T) {
	g := NewWithT(t)

	m := NewMetrics(map[string]Reading{
		"node-1": {CPUCores: "250m", CPUUsed: ptr("6%"), MemoryBytes: "2048Mi", MemoryUsed: ptr("13%")},
		"pod-a":  {CPUCores: "5m", MemoryBytes: "150Mi"},
	})

	g.Expect(m.Len()).To(Equal(2))
	g.Expect(m.Names()).To(Equal([]string{"node-1", "pod-a"}))

	cpu, ok := m.CPUCores("node-1")
	g.Expect(ok).To(BeTrue())
	g.Expect(cpu).To(Equal("250m"))

	used, ok := m.CPUUsed("node-1")
	g.Expect(ok).To(BeTrue())
	g.Expect(used).To(Equal("6%"))

	mem, ok := m.MemoryBytes("pod-a")
	g.Expect(ok).To(BeTrue())
	g.Expect(mem).To(Equal("150Mi"))

	_, ok = m.CPUUsed("pod-a")
	g.Expect(ok).To(BeFalse())
	_, ok = m.MemoryUsed("pod-a")
	g.Expect(ok).To(BeFalse())

	_, ok = m.CPUCores("missing")
	g.Expect(ok).To(BeFalse())
	_, ok = m.Reading("missing")
	g.Expect(ok).To(BeFalse())
}

func TestMetrics_AsMap(t *testing.T) {
	g := NewWithT(t)

	m := NewMetrics(map[string]Reading{
		"node-1": {CPUCores: "250m", CPUUsed: ptr("6%"), MemoryBytes: "2048Mi", MemoryUsed: ptr("13%")},
	})

	readings := m.AsMap()
	g.Expect(readings).To(HaveKey("node-1"))

	*readings["node-1"].CPUUsed = "99%"
	readings["pod-a"] = Reading{CPUCores: "5m"}
	delete(readings, "node-1")

	g.Expect(m.Len()).To(Equal(1))
	g.Expect(m.Names()).To(Equal([]string{"node-1"}))
	used, ok := m.CPUUsed("node-1")
	g.Expect(ok).To(BeTrue())
	g.Expect(used).To(Equal("6%"))
}

func TestReading_Quantities(t *testing.T) {
	g := NewWithT(t)

	r := Reading{CPUCores: "250m", MemoryBytes: "1Gi"}

	cpu, err := r.CPUQuantity()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(cpu.MilliValue()).To(Equal(int64(250)))

	mem, err := r.MemoryQuantity()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(mem.Value()).To(Equal(int64(1 << 30)))

	_, err = Reading{CPUCores: "n/a"}.CPUQuantity()
	g.Expect(err).To(HaveOccurred())
}

func TestMetrics_JSON(t *testing.T) {
	g := NewWithT(t)

	m := NewMetrics(map[string]Reading{
		"pod-a": {CPUCores: "5m", MemoryBytes: "150Mi"},
	})

	data, err := json.Marshal(m)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(data)).To(MatchJSON(`{"pod-a":{"cpuCores":"5m","cpuUsed":null,"memoryBytes":"150Mi","memoryUsed":null}}`))

	decoded := &Metrics{}
	g.Expect(json.Unmarshal(data, decoded)).To(Succeed())
	g.Expect(decoded.AsMap()).To(Equal(m.AsMap()))
}
