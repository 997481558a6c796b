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
	"sort"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Reading is a point-in-time CPU and memory sample for a node or pod.
// Usage percentages are only reported for nodes.
type Reading struct {
	CPUCores    string  `json:"cpuCores"`
	CPUUsed     *string `json:"cpuUsed"`
	MemoryBytes string  `json:"memoryBytes"`
	MemoryUsed  *string `json:"memoryUsed"`
}

// CPUQuantity parses the CPU value, e.g. '250m'.
func (r Reading) CPUQuantity() (resource.Quantity, error) {
	return resource.ParseQuantity(r.CPUCores)
}

// MemoryQuantity parses the memory value, e.g. '1024Mi'.
func (r Reading) MemoryQuantity() (resource.Quantity, error) {
	return resource.ParseQuantity(r.MemoryBytes)
}

// Metrics is the table returned by 'kubectl top', keyed by node or pod name.
type Metrics struct {
	readings map[string]Reading
}

// NewMetrics creates a metrics table from the given readings.
func NewMetrics(readings map[string]Reading) *Metrics {
	if readings == nil {
		readings = map[string]Reading{}
	}
	return &Metrics{readings: readings}
}

// Reading returns the sample recorded for name.
func (m *Metrics) Reading(name string) (Reading, bool) {
	r, ok := m.readings[name]
	return r, ok
}

func (m *Metrics) CPUCores(name string) (string, bool) {
	r, ok := m.readings[name]
	return r.CPUCores, ok
}

func (m *Metrics) MemoryBytes(name string) (string, bool) {
	r, ok := m.readings[name]
	return r.MemoryBytes, ok
}

// CPUUsed returns the CPU usage percentage, always absent for pods.
func (m *Metrics) CPUUsed(name string) (string, bool) {
	r, ok := m.readings[name]
	if !ok || r.CPUUsed == nil {
		return "", false
	}
	return *r.CPUUsed, true
}

// MemoryUsed returns the memory usage percentage, always absent for pods.
func (m *Metrics) MemoryUsed(name string) (string, bool) {
	r, ok := m.readings[name]
	if !ok || r.MemoryUsed == nil {
		return "", false
	}
	return *r.MemoryUsed, true
}

// Names returns the node or pod names in sorted order.
func (m *Metrics) Names() []string {
	names := make([]string, 0, len(m.readings))
	for k := range m.readings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (m *Metrics) Len() int {
	return len(m.readings)
}

// AsMap returns a copy of the readings mapping.
func (m *Metrics) AsMap() map[string]Reading {
	readings := make(map[string]Reading, len(m.readings))
	for name, r := range m.readings {
		readings[name] = r.clone()
	}
	return readings
}

func (r Reading) clone() Reading {
	if r.CPUUsed != nil {
		v := *r.CPUUsed
		r.CPUUsed = &v
	}
	if r.MemoryUsed != nil {
		v := *r.MemoryUsed
		r.MemoryUsed = &v
	}
	return r
}

// MarshalJSON emits the table as {name: reading}.
func (m *Metrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.readings)
}

func (m *Metrics) UnmarshalJSON(data []byte) error {
	readings := map[string]Reading{}
	if err := json.Unmarshal(data, &readings); err != nil {
		return err
	}
	m.readings = readings
	return nil
}
