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
	"maps"
	"slices"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// APIResource describes one kind served by the cluster.
type APIResource struct {
	Name       string   `json:"name"`
	ShortName  string   `json:"shortname"`
	APIGroup   string   `json:"apiGroup"`
	Namespaced bool     `json:"namespaced"`
	Verbs      []string `json:"verbs"`
}

// HasVerb reports whether the kind supports the given verb.
func (r APIResource) HasVerb(verb string) bool {
	return sets.New(r.Verbs...).Has(verb)
}

// APIResources is the catalog of kinds returned by 'kubectl api-resources',
// keyed by kind. Lookups for unknown kinds return zero values.
type APIResources struct {
	kinds map[string]APIResource
}

// NewAPIResources creates a catalog from the given kind descriptors.
func NewAPIResources(kinds map[string]APIResource) *APIResources {
	if kinds == nil {
		kinds = map[string]APIResource{}
	}
	return &APIResources{kinds: kinds}
}

// IsAvailable reports whether the kind is served by the cluster.
func (a *APIResources) IsAvailable(kind string) bool {
	_, ok := a.kinds[kind]
	return ok
}

// Kind returns a copy of the descriptor for the given kind.
func (a *APIResources) Kind(kind string) (*APIResource, bool) {
	r, ok := a.kinds[kind]
	if !ok {
		return nil, false
	}
	r.Verbs = slices.Clone(r.Verbs)
	return &r, true
}

// Name returns the plural resource name of the kind, usable in 'kubectl get'.
func (a *APIResources) Name(kind string) string {
	return a.kinds[kind].Name
}

// QualifiedName returns the resource name suffixed with its API group,
// e.g. 'deployments.apps'. Core kinds have no group suffix.
func (a *APIResources) QualifiedName(kind string) string {
	r, ok := a.kinds[kind]
	if !ok {
		return ""
	}
	group := apiGroupOf(r.APIGroup)
	if group == "" {
		return r.Name
	}
	return r.Name + "." + group
}

// apiGroupOf handles both the APIGROUP column ('apps') and the
// APIVERSION column reported since kubectl 1.20 ('apps/v1', 'v1').
func apiGroupOf(value string) string {
	if group, _, found := strings.Cut(value, "/"); found {
		return group
	}
	if len(value) > 1 && value[0] == 'v' && value[1] >= '0' && value[1] <= '9' {
		return ""
	}
	return value
}

func (a *APIResources) ShortName(kind string) string {
	return a.kinds[kind].ShortName
}

func (a *APIResources) APIGroup(kind string) string {
	return a.kinds[kind].APIGroup
}

// IsNamespaced returns the scope of the kind, the second value
// is false when the kind is unknown.
func (a *APIResources) IsNamespaced(kind string) (bool, bool) {
	r, ok := a.kinds[kind]
	return r.Namespaced, ok
}

// Verbs returns the verbs supported by the kind, or nil when the kind is unknown.
func (a *APIResources) Verbs(kind string) []string {
	r, ok := a.kinds[kind]
	if !ok {
		return nil
	}
	return slices.Clone(r.Verbs)
}

// Kinds returns all kinds in sorted order.
func (a *APIResources) Kinds() []string {
	kinds := make([]string, 0, len(a.kinds))
	for k := range a.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Len returns the number of kinds in the catalog.
func (a *APIResources) Len() int {
	return len(a.kinds)
}

// AsMap returns a copy of the catalog mapping.
func (a *APIResources) AsMap() map[string]APIResource {
	kinds := maps.Clone(a.kinds)
	for kind, r := range kinds {
		r.Verbs = slices.Clone(r.Verbs)
		kinds[kind] = r
	}
	return kinds
}

// MarshalJSON emits the catalog as {kind: descriptor}.
func (a *APIResources) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.kinds)
}

func (a *APIResources) UnmarshalJSON(data []byte) error {
	kinds := map[string]APIResource{}
	if err := json.Unmarshal(data, &kinds); err != nil {
		return err
	}
	a.kinds = kinds
	return nil
}
