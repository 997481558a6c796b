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
	"strings"
	"unicode"

	"github.com/kubeark/kubeark/pkg/resources"
)

// Column headers of 'kubectl api-resources -o wide'.
// APIGROUP was renamed to APIVERSION in kubectl 1.20.
const (
	headerName       = "NAME"
	headerShortNames = "SHORTNAMES"
	headerAPIGroup   = "APIGROUP"
	headerAPIVersion = "APIVERSION"
	headerNamespaced = "NAMESPACED"
	headerKind       = "KIND"
	headerVerbs      = "VERBS"
)

const (
	nodeMetricsFields = 5
	podMetricsFields  = 3
)

// ParseAPIResources converts the output of 'kubectl api-resources -o wide'
// into a catalog keyed by kind.
//
// The column offsets are discovered from the header line and every value is
// read from its column offset up to the first whitespace, which tolerates
// the variable column widths kubectl emits. Lines without a name are skipped.
func ParseAPIResources(data []byte) *resources.APIResources {
	lines := splitLines(data)
	kinds := map[string]resources.APIResource{}
	if len(lines) == 0 {
		return resources.NewAPIResources(kinds)
	}

	header := lines[0]
	nameIdx := strings.Index(header, headerName)
	if nameIdx < 0 {
		return resources.NewAPIResources(kinds)
	}
	shortNameIdx := strings.Index(header, headerShortNames)
	groupIdx := strings.Index(header, headerAPIGroup)
	if groupIdx < 0 {
		groupIdx = strings.Index(header, headerAPIVersion)
	}
	namespacedIdx := strings.Index(header, headerNamespaced)
	kindIdx := strings.Index(header, headerKind)
	verbsIdx := strings.Index(header, headerVerbs)

	for _, line := range lines[1:] {
		name := tokenAt(line, nameIdx)
		if name == "" {
			continue
		}

		kind := tokenAt(line, kindIdx)
		kinds[kind] = resources.APIResource{
			Name:       name,
			ShortName:  tokenAt(line, shortNameIdx),
			APIGroup:   tokenAt(line, groupIdx),
			Namespaced: tokenAt(line, namespacedIdx) == "true",
			Verbs:      verbsAt(line, verbsIdx),
		}
	}

	return resources.NewAPIResources(kinds)
}

// ParseNodeMetrics converts the output of 'kubectl top nodes --no-headers=true'.
// Lines that do not have exactly five fields are skipped.
func ParseNodeMetrics(data []byte) *resources.Metrics {
	readings := map[string]resources.Reading{}
	for _, line := range splitLines(data) {
		fields := strings.Fields(line)
		if len(fields) != nodeMetricsFields {
			continue
		}
		cpuUsed, memoryUsed := fields[2], fields[4]
		readings[fields[0]] = resources.Reading{
			CPUCores:    fields[1],
			CPUUsed:     &cpuUsed,
			MemoryBytes: fields[3],
			MemoryUsed:  &memoryUsed,
		}
	}
	return resources.NewMetrics(readings)
}

// ParsePodMetrics converts the output of 'kubectl top pods --no-headers=true'.
// Lines that do not have exactly three fields are skipped.
func ParsePodMetrics(data []byte) *resources.Metrics {
	readings := map[string]resources.Reading{}
	for _, line := range splitLines(data) {
		fields := strings.Fields(line)
		if len(fields) != podMetricsFields {
			continue
		}
		readings[fields[0]] = resources.Reading{
			CPUCores:    fields[1],
			MemoryBytes: fields[2],
		}
	}
	return resources.NewMetrics(readings)
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// tokenAt returns the text starting at offset up to the first whitespace.
func tokenAt(line string, offset int) string {
	if offset < 0 || offset >= len(line) {
		return ""
	}
	rest := line[offset:]
	if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
		return rest[:end]
	}
	return rest
}

// verbsAt returns the bracketed verb list starting at offset, e.g. '[get list watch]'.
func verbsAt(line string, offset int) []string {
	if offset < 0 || offset >= len(line) {
		return []string{}
	}
	rest := strings.TrimLeft(line[offset:], "[")
	if end := strings.IndexByte(rest, ']'); end >= 0 {
		rest = rest[:end]
	}
	return strings.Fields(rest)
}
