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

	"github.com/spf13/cobra"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/internal/flags"
	"github.com/kubeark/kubeark/internal/logger"
	"github.com/kubeark/kubeark/internal/report"
)

var reportDeploymentCmd = &cobra.Command{
	Use:   "deployment",
	Short: "Prints the details of a deployment and the cluster it runs on",
	Long: `The report deployment command collects the Kubernetes version, the API
resources and versions, the ingress controller, the nodes and the pods of the
target namespace. The vendor pods are grouped into components using their
component-name annotation, node and pod metrics are added when available.`,
	Example: `  # Print the deployment report of the current namespace as YAML
  kubeark report deployment

  # Print the deployment report of a namespace as JSON
  kubeark report deployment -n viya -o json
`,
	Args: cobra.NoArgs,
	RunE: runReportDeploymentCmd,
}

type reportDeploymentFlags struct {
	output flags.Output
}

var reportDeploymentArgs reportDeploymentFlags

func init() {
	reportDeploymentCmd.Flags().VarP(&reportDeploymentArgs.output, "output", reportDeploymentArgs.output.Shorthand(),
		reportDeploymentArgs.output.Description())
	reportCmd.AddCommand(reportDeploymentCmd)
}

func runReportDeploymentCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	var rep *apiv1.DeploymentReport
	indicator := logger.NewIndicator("Gathering deployment details", logger.WithWriter(cmd.ErrOrStderr()))
	err = indicator.Run(func() error {
		var err error
		rep, err = report.GatherDeployment(ctx, k)
		if err != nil {
			indicator.SetExitMessage("FAILED")
		}
		return err
	})
	if err != nil {
		return err
	}

	log := loggerNamespace(ctx, k.Namespace(), rootArgs.prettyLog)
	for _, resource := range rep.UnavailableResources {
		log.Info(logger.ColorizeWarning("listing " + resource + " is not allowed, the report is incomplete"))
	}

	return printObject(cmd.OutOrStdout(), rep, reportDeploymentArgs.output)
}
