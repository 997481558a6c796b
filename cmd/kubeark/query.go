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
	"github.com/kubeark/kubeark/internal/report"
)

var queryCmd = &cobra.Command{
	Use:   "query [type]/[name]",
	Short: "Extracts named values from an object with jq expressions",
	Example: `  # Read the cadence of a deployment
  kubeark query configmaps/sas-deployment-metadata \
    --select name=.data.SAS_CADENCE_NAME \
    --select version=.data.SAS_CADENCE_VERSION

  # Print nothing instead of failing when the object is missing
  kubeark query secrets/sas-consul-client --select token=.data.token --optional
`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryCmd,
}

type queryFlags struct {
	output     flags.Output
	selectors  []string
	isOptional bool
}

var queryArgs queryFlags

func init() {
	queryCmd.Flags().VarP(&queryArgs.output, "output", queryArgs.output.Shorthand(), queryArgs.output.Description())
	queryCmd.Flags().StringArrayVar(&queryArgs.selectors, "select", nil,
		"A value to extract in the format '<key>=<jq expression>', this flag can be repeated.")
	queryCmd.Flags().BoolVar(&queryArgs.isOptional, "optional", false,
		"If true, an object that cannot be read yields no values instead of an error.")
	queryCmd.MarkFlagRequired("select")
	rootCmd.AddCommand(queryCmd)
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	q, err := apiv1.ParseResourceQuery(args[0], queryArgs.selectors, queryArgs.isOptional)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	values, err := report.NewResourceReader(k).Read(ctx, []apiv1.ResourceQuery{*q})
	if err != nil {
		return err
	}

	return printObject(cmd.OutOrStdout(), values, queryArgs.output)
}
