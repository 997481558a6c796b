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
	"testing"

	. "github.com/onsi/gomega"
)

func TestIngressControllerFor(t *testing.T) {
	nginx := APIResource{Name: "ingresses", APIGroup: "networking.k8s.io/v1", Namespaced: true}
	istio := APIResource{Name: "virtualservices", APIGroup: "networking.istio.io/v1beta1", Namespaced: true}
	contour := APIResource{Name: "httpproxies", APIGroup: "projectcontour.io/v1", Namespaced: true}
	route := APIResource{Name: "routes", APIGroup: "route.openshift.io/v1", Namespaced: true}

	tests := []struct {
		name    string
		kinds   map[string]APIResource
		present func(string) bool
		want    IngressController
	}{
		{
			name:  "nginx only",
			kinds: map[string]APIResource{KindIngress: nginx},
			want:  IngressNGINX,
		},
		{
			name:  "istio preferred over nginx",
			kinds: map[string]APIResource{KindIngress: nginx, KindIstioVirtualService: istio},
			want:  IngressIstio,
		},
		{
			name:  "contour first",
			kinds: map[string]APIResource{KindIngress: nginx, KindContourHTTPProxy: contour, KindOpenShiftRoute: route},
			want:  IngressContour,
		},
		{
			name:    "served but no objects",
			kinds:   map[string]APIResource{KindIngress: nginx, KindIstioVirtualService: istio},
			present: func(t string) bool { return t == TypeIngresses },
			want:    IngressNGINX,
		},
		{
			name:    "nothing defined",
			kinds:   map[string]APIResource{KindIngress: nginx},
			present: func(string) bool { return false },
			want:    IngressUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			got := IngressControllerFor(NewAPIResources(tt.kinds), tt.present)
			g.Expect(got).To(Equal(tt.want))
		})
	}
}

func TestIngressController_Namespace(t *testing.T) {
	g := NewWithT(t)

	g.Expect(IngressNGINX.Namespace()).To(Equal("ingress-nginx"))
	g.Expect(IngressUnknown.Namespace()).To(BeEmpty())
	g.Expect(IngressResourceTypes(IngressOpenShift)).To(Equal([]string{TypeOpenShiftRoutes}))
	g.Expect(IngressResourceTypes(IngressUnknown)).To(BeNil())
}
