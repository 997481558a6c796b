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

package v1alpha1

import (
	"fmt"
	"strings"
)

// ResourceQuery holds the data needed to extract field values
// from a cluster object using jq expressions.
type ResourceQuery struct {
	// Type is the fully-qualified resource type, e.g. 'configmaps' or 'deployments.apps'.
	Type string `json:"type"`

	// Name of the object.
	Name string `json:"name"`

	// Expressions is a map with key values in the format '<key>: <jq expression>'.
	Expressions map[string]string `json:"selector"`

	// Optional is a flag for ignoring objects that cannot be read.
	Optional bool `json:"optional"`
}

// ParseResourceQuery parses a query in the format '<type>/<name>'
// with expressions in the format '<key>=<jq expression>'.
func ParseResourceQuery(query string, expressions []string, optional bool) (*ResourceQuery, error) {
	resourceType, name, found := strings.Cut(query, "/")
	if !found || resourceType == "" || name == "" {
		return nil, fmt.Errorf("failed to parse '%s': query must be in the format '<type>/<name>'", query)
	}

	q := &ResourceQuery{
		Type:        resourceType,
		Name:        name,
		Expressions: map[string]string{},
		Optional:    optional,
	}

	for _, e := range expressions {
		key, exp, found := strings.Cut(e, "=")
		if !found || key == "" || exp == "" {
			return nil, fmt.Errorf("failed to parse '%s': expression must be in the format '<key>=<jq expression>'", e)
		}
		q.Expressions[key] = exp
	}

	return q, nil
}
