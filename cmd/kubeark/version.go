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

package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/internal/flags"
	"github.com/kubeark/kubeark/pkg/kubectl"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client, API and Kubernetes server version information.",
	Example: `  # Print the client version information
  kubeark version -o yaml

  # Include the version of the Kubernetes cluster
  kubeark version --server -o json
`,
	Args: cobra.NoArgs,
	RunE: runVersionCmd,
}

type versionFlags struct {
	output flags.Output
	server bool
}

var versionArgs versionFlags

func init() {
	versionCmd.Flags().VarP(&versionArgs.output, "output", versionArgs.output.Shorthand(),
		versionArgs.output.Description())
	versionCmd.Flags().BoolVar(&versionArgs.server, "server", false,
		"Also print the version of the Kubernetes server, read with 'kubectl version'.")
	rootCmd.AddCommand(versionCmd)
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	info := map[string]string{}
	info["client"] = VERSION
	info["api"] = apiv1.GroupVersion
	info["kubectl"] = rootArgs.kubectl.String()

	if versionArgs.server {
		ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
		defer cancel()

		k := kubectl.NewForNamespace(newRunner(LoggerFrom(ctx)), "")
		ver, err := kubectl.ServerVersion(ctx, k)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return &kubectl.ConnectionError{Err: err}
		}
		info["server"] = ver.String()
	}

	var marshalled []byte
	var err error

	if versionArgs.output.String() == "json" {
		marshalled, err = json.MarshalIndent(&info, "", "  ")
		marshalled = append(marshalled, "\n"...)
	} else {
		marshalled, err = yaml.Marshal(&info)
	}

	if err != nil {
		return err
	}

	cmd.OutOrStdout().Write(marshalled)

	return nil
}
