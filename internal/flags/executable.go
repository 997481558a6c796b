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

package flags

import "os"

// ExecutableEnvVar overrides the default kubectl binary.
const ExecutableEnvVar = "KUBEARK_KUBECTL"

type Executable string

func (f *Executable) String() string {
	if f == nil || string(*f) == "" {
		return f.Default()
	}
	return string(*f)
}

func (f *Executable) Set(str string) error {
	*f = Executable(str)
	return nil
}

func (f *Executable) Type() string {
	return "path"
}

func (f *Executable) Default() string {
	if v := os.Getenv(ExecutableEnvVar); v != "" {
		return v
	}
	return "kubectl"
}

func (f *Executable) Description() string {
	return "The kubectl binary used to query the cluster, can be set with the '" + ExecutableEnvVar + "' env var."
}
