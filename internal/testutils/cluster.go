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

package testutils

import (
	"embed"
	"fmt"
	"path"

	"github.com/kubeark/kubeark/pkg/kubectl"
)

//go:embed testdata
var testdata embed.FS

// FakeClusterNamespace is the namespace set on the current context of the fake cluster.
const FakeClusterNamespace = "viya"

// Testdata returns the content of a file under testdata.
func Testdata(name string) []byte {
	data, err := testdata.ReadFile(path.Join("testdata", name))
	if err != nil {
		panic(fmt.Sprintf("testdata %s not found: %s", name, err))
	}
	return data
}

// SetupFakeCluster returns a runner scripted with the responses of a small
// cluster: three namespaces, two nodes, two vendor pods and one other pod.
// Namespaced commands are scripted for the given namespace. The current user
// may manage namespaced objects but not custom resource definitions.
func (t *WithT) SetupFakeCluster(namespace string) *FakeRunner {
	t.Helper()

	r := NewFakeRunner()
	r.On("config view -o json", Testdata("config-view.json"))
	r.On("version -o json", Testdata("version.json"))
	r.On("get namespaces -o json", Testdata("namespaces.json"))

	ns := func(command string) string {
		return fmt.Sprintf("-n %s %s", namespace, command)
	}
	r.On(ns("version -o json"), Testdata("version.json"))
	r.On(ns("api-resources -o wide"), Testdata("api-resources.txt"))
	r.On(ns("api-versions"), Testdata("api-versions.txt"))
	r.On(ns("get namespaces -o json"), Testdata("namespaces.json"))
	r.On(ns("get nodes -o json"), Testdata("nodes.json"))
	r.On(ns("get pods -o json"), Testdata("pods.json"))
	r.On(ns("get ingresses.networking.k8s.io -o json"), Testdata("ingresses.json"))
	r.On(ns("top nodes --no-headers=true"), Testdata("top-nodes.txt"))
	r.On(ns("top pods --no-headers=true"), Testdata("top-pods.txt"))
	r.On(ns("top node"), []byte("NAME     CPU(cores)   CPU%   MEMORY(bytes)   MEMORY%\n"+string(Testdata("top-nodes.txt"))))
	r.On(ns("top pod"), []byte("NAME                               CPU(cores)   MEMORY(bytes)\n"+string(Testdata("top-pods.txt"))))
	r.On(ns("get storageclasses.storage.k8s.io -o json"), Testdata("storageclasses.json"))
	r.On(ns("cluster-info"), Testdata("cluster-info.txt"))
	r.On(ns("auth can-i list pods --quiet"), nil)
	r.Fail(ns("auth can-i delete nodes --quiet"), 1, nil)
	for _, action := range allowedActions {
		r.On(ns("auth can-i "+action+" --quiet"), nil)
	}
	r.Fail(ns("auth can-i create customresourcedefinitions.apiextensions.k8s.io --quiet"), 1, nil)
	r.Fail(ns("auth can-i delete customresourcedefinitions.apiextensions.k8s.io --quiet"), 1, nil)
	return r
}

var allowedActions = []string{
	"get storageclasses.storage.k8s.io",
	"create roles.rbac.authorization.k8s.io",
	"delete roles.rbac.authorization.k8s.io",
	"create rolebindings.rbac.authorization.k8s.io",
	"delete rolebindings.rbac.authorization.k8s.io",
	"create serviceaccounts",
	"delete serviceaccounts",
	"create persistentvolumeclaims",
	"delete persistentvolumeclaims",
	"create deployments.apps",
	"create services",
	"create ingresses.networking.k8s.io",
}

// NewFakeKubectl returns a kubectl.Interface bound to the fake cluster
// and the runner backing it, for scripting extra responses.
func (t *WithT) NewFakeKubectl() (kubectl.Interface, *FakeRunner) {
	t.Helper()

	r := t.SetupFakeCluster(FakeClusterNamespace)
	return kubectl.NewForNamespace(r, FakeClusterNamespace), r
}
