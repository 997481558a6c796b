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

import (
	"fmt"
	"strings"
)

var supportedOutputFormats = []string{"json", "yaml"}

type Output string

func (f *Output) String() string {
	if f == nil || string(*f) == "" {
		return f.Default()
	}
	return string(*f)
}

func (f *Output) Set(str string) error {
	str = strings.ToLower(str)
	for _, v := range supportedOutputFormats {
		if v == str {
			*f = Output(str)
			return nil
		}
	}
	return fmt.Errorf("output format must be one of: %s", strings.Join(supportedOutputFormats, ", "))
}

func (f *Output) Type() string {
	return "format"
}

func (f *Output) Default() string {
	return "yaml"
}

func (f *Output) Shorthand() string {
	return "o"
}

func (f *Output) Description() string {
	return fmt.Sprintf("The format in which the result should be printed, can be %s.",
		strings.Join(supportedOutputFormats, " or "))
}
