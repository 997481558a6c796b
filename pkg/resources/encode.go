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
	"bytes"
	"encoding/json"
	"io"
)

// Native returns the mapping wrapped by a Resource, APIResources or Metrics value.
// Any other value is returned unchanged.
func Native(v any) any {
	switch o := v.(type) {
	case *Resource:
		return o.Object()
	case *APIResources:
		return o.AsMap()
	case *Metrics:
		return o.AsMap()
	default:
		return v
	}
}

// Encode writes v as JSON to w. Resources, API resource catalogs and metrics
// tables are emitted as the mapping they wrap, everything else falls back to
// its own field mapping. HTML characters are not escaped.
func Encode(w io.Writer, v any, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(Native(v))
}

// MarshalIndent returns the two-space indented JSON encoding of v.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
