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

package report

import (
	"context"
	"fmt"
	"maps"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

// ResourceReader fetches objects from the cluster and extracts field values.
type ResourceReader struct {
	kubectl kubectl.Interface
}

// NewResourceReader creates a resource reader for the given cluster.
func NewResourceReader(k kubectl.Interface) *ResourceReader {
	return &ResourceReader{
		kubectl: k,
	}
}

// Read fetches the objects from the cluster and runs the jq expressions
// to select the desired values.
func (r *ResourceReader) Read(ctx context.Context, queries []apiv1.ResourceQuery) (map[string]string, error) {
	result := make(map[string]string)

	for _, q := range queries {
		obj, err := r.kubectl.GetResource(ctx, q.Type, q.Name, false)
		if err != nil {
			if q.Optional {
				continue
			}
			return result, fmt.Errorf("query error for %s/%s: %w", q.Type, q.Name, err)
		}

		m, err := r.getValues(obj, q.Expressions)
		if err != nil {
			return result, fmt.Errorf("can't extract values from %s/%s: %w", q.Type, q.Name, err)
		}

		maps.Copy(result, m)
	}

	return result, nil
}

func (r *ResourceReader) getValues(obj *resources.Resource, selectors map[string]string) (map[string]string, error) {
	result := make(map[string]string)
	for key, exp := range selectors {
		values, err := obj.Query(exp)
		if err != nil {
			return result, fmt.Errorf("%s: %w", key, err)
		}
		if len(values) != 1 {
			return result, fmt.Errorf("'%s' returned %d values, expected one", exp, len(values))
		}

		switch v := values[0].(type) {
		case nil:
			result[key] = ""
		case string:
			result[key] = v
		case map[string]any, []any:
			return result, fmt.Errorf("unsupported type returned by '%s'", exp)
		default:
			result[key] = fmt.Sprintf("%v", v)
		}
	}

	return result, nil
}
