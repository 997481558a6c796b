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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubeark/kubeark/internal/flags"
)

var apiResourcesCmd = &cobra.Command{
	Use:   "api-resources",
	Short: "Prints a table of the kinds served by the cluster",
	Example: `  # List the kinds served by the cluster
  kubeark api-resources

  # Print the catalog of kinds as JSON
  kubeark api-resources -o json
`,
	Args: cobra.NoArgs,
	RunE: runAPIResourcesCmd,
}

type apiResourcesFlags struct {
	output flags.Output
}

var apiResourcesArgs apiResourcesFlags

func init() {
	apiResourcesCmd.Flags().VarP(&apiResourcesArgs.output, "output", apiResourcesArgs.output.Shorthand(),
		apiResourcesArgs.output.Description()+" (defaults to a table)")
	rootCmd.AddCommand(apiResourcesCmd)
}

func runAPIResourcesCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	catalog, err := k.APIResources(ctx, false)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("output") {
		return printObject(cmd.OutOrStdout(), catalog, apiResourcesArgs.output)
	}

	var rows [][]string
	for _, kind := range catalog.Kinds() {
		r, _ := catalog.Kind(kind)
		rows = append(rows, []string{
			r.Name,
			r.ShortName,
			r.APIGroup,
			strconv.FormatBool(r.Namespaced),
			kind,
			"[" + strings.Join(r.Verbs, " ") + "]",
		})
	}
	printTable(cmd.OutOrStdout(), []string{"name", "shortnames", "apigroup", "namespaced", "kind", "verbs"}, rows)

	return nil
}
