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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/internal/flags"
	"github.com/kubeark/kubeark/internal/logger"
	"github.com/kubeark/kubeark/internal/report"
)

var reportPreInstallCmd = &cobra.Command{
	Use:   "preinstall",
	Short: "Checks that a cluster and a namespace are ready for a deployment",
	Long: `The report preinstall command compares the Kubernetes server version with
the minimum supported release, reads the control plane endpoint from
'kubectl cluster-info', lists the storage classes and checks with
'kubectl auth can-i' that the current user can manage the objects of a
deployment. With --dry-run, a service account, a role and a role binding
are also submitted with a server side dry run, nothing is persisted.`,
	Example: `  # Check the current namespace
  kubeark report preinstall

  # Check a namespace against a newer minimum version, with server side dry runs
  kubeark report preinstall -n viya --min-kubernetes-version 1.29 --dry-run -o json
`,
	Args: cobra.NoArgs,
	RunE: runReportPreInstallCmd,
}

type reportPreInstallFlags struct {
	minVersion string
	dryRun     bool
	output     flags.Output
}

var reportPreInstallArgs = reportPreInstallFlags{
	minVersion: report.DefaultMinKubernetesVersion,
}

func init() {
	reportPreInstallCmd.Flags().StringVar(&reportPreInstallArgs.minVersion, "min-kubernetes-version", reportPreInstallArgs.minVersion,
		"The oldest supported Kubernetes release.")
	reportPreInstallCmd.Flags().BoolVar(&reportPreInstallArgs.dryRun, "dry-run", false,
		"Submit sample RBAC objects with a server side dry run.")
	reportPreInstallCmd.Flags().VarP(&reportPreInstallArgs.output, "output", reportPreInstallArgs.output.Shorthand(),
		reportPreInstallArgs.output.Description())
	reportCmd.AddCommand(reportPreInstallCmd)
}

func runReportPreInstallCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	opts := report.PreInstallOptions{MinKubernetesVersion: reportPreInstallArgs.minVersion}
	if reportPreInstallArgs.dryRun {
		dir, err := os.MkdirTemp("", "kubeark-preinstall-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		opts.ManifestDir = dir
	}

	var rep *apiv1.PreInstallReport
	indicator := logger.NewIndicator("Running pre-install checks", logger.WithWriter(cmd.ErrOrStderr()))
	err = indicator.Run(func() error {
		var err error
		rep, err = report.GatherPreInstall(ctx, k, opts)
		if err != nil {
			indicator.SetExitMessage("FAILED")
		}
		return err
	})
	if err != nil {
		return err
	}

	if rep.Issues > 0 {
		log := loggerNamespace(ctx, k.Namespace(), rootArgs.prettyLog)
		log.Info(logger.ColorizeWarning(fmt.Sprintf("%d pre-install checks failed", rep.Issues)))
	}

	return printObject(cmd.OutOrStdout(), rep, reportPreInstallArgs.output)
}
