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
	"github.com/kubeark/kubeark/internal/testutils"
)

const metadataConfigMap = `{
  "apiVersion": "v1",
  "kind": "ConfigMap",
  "metadata": {"name": "sas-deployment-metadata", "namespace": "viya"},
  "data": {
    "SAS_CADENCE_DISPLAY_NAME": "Stable",
    "SAS_CADENCE_VERSION": "2024.09",
    "SAS_CADENCE_RELEASE": "20240925.1727273462713",
    "SAS_REPLICAS": "2"
  }
}`

func scriptMetadata(r *testutils.FakeRunner) {
	r.On("-n viya get configmaps sas-deployment-metadata -o json", []byte(metadataConfigMap))
}
