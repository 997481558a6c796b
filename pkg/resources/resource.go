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
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/itchyny/gojq"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utiljson "k8s.io/apimachinery/pkg/util/json"
)

const (
	vendorKeyContains  = "sas.com"
	vendorNamePrefix   = "sas-"
	vendorNameContains = "-sas-"
)

// MalformedInputError is returned when a Resource is constructed
// from a value that is not a document, raw JSON bytes or JSON text.
type MalformedInputError struct {
	Input any
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed resource input of type %T: %s", e.Input, e.Err.Error())
	}
	return fmt.Sprintf("malformed resource input of type %T: must be one of map[string]any, []byte or string", e.Input)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Resource holds the JSON document of a Kubernetes object
// and provides accessors for its well-known fields.
// Accessors never fail, a missing path yields the zero value.
type Resource struct {
	object map[string]any
}

// NewResource creates a Resource from a decoded document,
// from raw JSON bytes or from JSON text.
func NewResource(v any) (*Resource, error) {
	switch in := v.(type) {
	case map[string]any:
		if in == nil {
			in = map[string]any{}
		}
		return &Resource{object: in}, nil
	case []byte:
		return decodeResource(v, in)
	case string:
		return decodeResource(v, []byte(in))
	default:
		return nil, &MalformedInputError{Input: v}
	}
}

func decodeResource(input any, data []byte) (*Resource, error) {
	object := map[string]any{}
	if err := utiljson.Unmarshal(data, &object); err != nil {
		return nil, &MalformedInputError{Input: input, Err: err}
	}
	return &Resource{object: object}, nil
}

// Object returns the backing document.
func (r *Resource) Object() map[string]any {
	return r.object
}

// MarshalJSON emits the backing document.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.object)
}

// UnmarshalJSON replaces the backing document.
func (r *Resource) UnmarshalJSON(data []byte) error {
	object := map[string]any{}
	if err := utiljson.Unmarshal(data, &object); err != nil {
		return err
	}
	r.object = object
	return nil
}

// Get returns the top-level value mapped to key.
func (r *Resource) Get(key string) (any, bool) {
	v, ok := r.object[key]
	return v, ok
}

// Set maps key to value at the top level of the document.
func (r *Resource) Set(key string, value any) {
	if r.object == nil {
		r.object = map[string]any{}
	}
	r.object[key] = value
}

// Delete removes key from the top level of the document.
func (r *Resource) Delete(key string) {
	delete(r.object, key)
}

// Len returns the number of top-level keys.
func (r *Resource) Len() int {
	return len(r.object)
}

// Keys returns the top-level keys in sorted order.
func (r *Resource) Keys() []string {
	keys := make([]string, 0, len(r.object))
	for k := range r.object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for each top-level key in sorted order until fn returns false.
func (r *Resource) Range(fn func(key string, value any) bool) {
	for _, k := range r.Keys() {
		if !fn(k, r.object[k]) {
			return
		}
	}
}

func (r *Resource) lookup(name string) (any, bool) {
	p, ok := KeyPaths[name]
	if !ok {
		return nil, false
	}
	return r.field(p.Fields()...)
}

func (r *Resource) field(fields ...string) (any, bool) {
	v, found, err := unstructured.NestedFieldNoCopy(r.object, fields...)
	if err != nil || !found {
		return nil, false
	}
	return v, true
}

func (r *Resource) str(name string) string {
	v, ok := r.lookup(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (r *Resource) mapping(name string) map[string]any {
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

func (r *Resource) stringMap(name string) map[string]string {
	m := r.mapping(name)
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// APIVersion returns the apiVersion of the resource.
func (r *Resource) APIVersion() string {
	return r.str(KeyAPIVersion)
}

// Kind returns the kind of the resource.
func (r *Resource) Kind() string {
	return r.str(KeyKind)
}

// Metadata returns the metadata object, or nil.
func (r *Resource) Metadata() map[string]any {
	return r.mapping(KeyMetadata)
}

// Spec returns the spec object, or nil.
func (r *Resource) Spec() map[string]any {
	return r.mapping(KeySpec)
}

// Status returns the status object, or nil.
func (r *Resource) Status() map[string]any {
	return r.mapping(KeyStatus)
}

// MetadataValue returns metadata.<key>.
func (r *Resource) MetadataValue(key string) (any, bool) {
	return r.field(KeyMetadata, key)
}

// SpecValue returns spec.<key>.
func (r *Resource) SpecValue(key string) (any, bool) {
	return r.field(KeySpec, key)
}

// StatusValue returns status.<key>.
func (r *Resource) StatusValue(key string) (any, bool) {
	return r.field(KeyStatus, key)
}

// ParameterValue returns parameters.<key>, as found on storage classes.
func (r *Resource) ParameterValue(key string) (any, bool) {
	return r.field(KeyParameters, key)
}

// Provisioner returns the top-level provisioner of a storage class.
func (r *Resource) Provisioner() string {
	return r.str(KeyProvisioner)
}

func (r *Resource) Name() string              { return r.str(KeyName) }
func (r *Resource) Namespace() string         { return r.str(KeyNamespace) }
func (r *Resource) UID() string               { return r.str(KeyUID) }
func (r *Resource) CreationTimestamp() string { return r.str(KeyCreationTimestamp) }
func (r *Resource) ResourceVersion() string   { return r.str(KeyResourceVersion) }
func (r *Resource) SelfLink() string          { return r.str(KeySelfLink) }

// Generation returns metadata.generation.
func (r *Resource) Generation() (int64, bool) {
	v, ok := r.lookup(KeyGeneration)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Labels returns the metadata labels, or nil.
func (r *Resource) Labels() map[string]string {
	return r.stringMap(KeyLabels)
}

// Label returns the value of the given label.
func (r *Resource) Label(key string) (string, bool) {
	v, ok := r.Labels()[key]
	return v, ok
}

// Annotations returns the metadata annotations, or nil.
func (r *Resource) Annotations() map[string]string {
	return r.stringMap(KeyAnnotations)
}

// Annotation returns the value of the given annotation.
func (r *Resource) Annotation(key string) (string, bool) {
	v, ok := r.Annotations()[key]
	return v, ok
}

// ComponentName returns the sas.com/component-name annotation.
func (r *Resource) ComponentName() (string, bool) {
	return r.annotationKey(KeyComponentName)
}

// ComponentVersion returns the sas.com/component-version annotation.
func (r *Resource) ComponentVersion() (string, bool) {
	return r.annotationKey(KeyComponentVersion)
}

// Version returns the sas.com/version annotation.
func (r *Resource) Version() (string, bool) {
	return r.annotationKey(KeyVersion)
}

func (r *Resource) annotationKey(name string) (string, bool) {
	v, ok := r.lookup(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IsVendorResource reports whether the resource belongs to a vendor component,
// judged by its annotation and label keys or by its name.
func (r *Resource) IsVendorResource() bool {
	name := r.Name()
	if name == "" {
		return false
	}

	for k := range r.Annotations() {
		if strings.Contains(k, vendorKeyContains) {
			return true
		}
	}

	for k := range r.Labels() {
		if strings.Contains(k, vendorKeyContains) {
			return true
		}
	}

	return strings.HasPrefix(name, vendorNamePrefix) || strings.Contains(name, vendorNameContains)
}

// ToTyped converts the document into a typed API object such as *corev1.Pod.
func (r *Resource) ToTyped(obj any) error {
	return runtime.DefaultUnstructuredConverter.FromUnstructured(r.object, obj)
}

// Query evaluates a jq expression against the document and returns all results.
func (r *Resource) Query(expr string) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression '%s' failed: %w", expr, err)
	}

	// gojq only accepts the encoding/json value types.
	data, err := json.Marshal(r.object)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, err
	}

	var results []any
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("evaluating jq expression '%s' failed: %w", expr, err)
		}
		results = append(results, v)
	}
	return results, nil
}
