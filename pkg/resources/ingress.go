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

// IngressController is the display name of a supported ingress controller.
type IngressController string

const (
	IngressContour   IngressController = "Contour"
	IngressIstio     IngressController = "Istio"
	IngressNGINX     IngressController = "NGINX"
	IngressOpenShift IngressController = "OpenShift"
	IngressUnknown   IngressController = ""
)

// Namespace returns the namespace the controller is conventionally deployed to.
func (c IngressController) Namespace() string {
	switch c {
	case IngressContour:
		return "projectcontour"
	case IngressIstio:
		return "istio-system"
	case IngressNGINX:
		return "ingress-nginx"
	case IngressOpenShift:
		return "openshift-ingress-operator"
	default:
		return ""
	}
}

// ingressResourceTypes is ordered: Ingress objects can coexist with any
// other controller, so NGINX must be evaluated last.
var ingressResourceTypes = []struct {
	controller IngressController
	types      []string
}{
	{IngressContour, []string{TypeContourHTTPProxies}},
	{IngressIstio, []string{TypeIstioVirtualServices}},
	{IngressOpenShift, []string{TypeOpenShiftRoutes}},
	{IngressNGINX, []string{TypeIngresses, TypeExtensionsIngresses}},
}

// IngressResourceTypes returns the resource types used by the controller.
func IngressResourceTypes(controller IngressController) []string {
	for _, e := range ingressResourceTypes {
		if e.controller == controller {
			return e.types
		}
	}
	return nil
}

// IngressControllerFor returns the first controller whose resource types are
// served by the cluster and have objects defined. The present function reports
// whether objects of a fully-qualified resource type exist, a nil function
// only checks the catalog.
func IngressControllerFor(catalog *APIResources, present func(resourceType string) bool) IngressController {
	served := map[string]bool{}
	for _, kind := range catalog.Kinds() {
		served[catalog.QualifiedName(kind)] = true
	}

	for _, e := range ingressResourceTypes {
		for _, t := range e.types {
			if !served[t] {
				continue
			}
			if present == nil || present(t) {
				return e.controller
			}
		}
	}
	return IngressUnknown
}
