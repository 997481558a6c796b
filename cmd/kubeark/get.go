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

	"github.com/spf13/cobra"

	"github.com/kubeark/kubeark/internal/flags"
	"github.com/kubeark/kubeark/pkg/resources"
)

var getCmd = &cobra.Command{
	Use:   "get [type] [name]",
	Short: "Prints one object or the list of objects of the given type",
	Example: `  # Print the pods in the current namespace as YAML
  kubeark get pods

  # Print the images used by a deployment
  kubeark get deployments.apps sas-logon-app --jq '.spec.template.spec.containers[].image' -r

  # Print the name of every node as JSON
  kubeark get nodes --jq '[.items[].metadata.name]' -o json
`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeKindList,
	RunE:              runGetCmd,
}

type getFlags struct {
	output    flags.Output
	jq        string
	rawOutput bool
}

var getArgs getFlags

func init() {
	getCmd.Flags().VarP(&getArgs.output, "output", getArgs.output.Shorthand(), getArgs.output.Description())
	getCmd.Flags().StringVar(&getArgs.jq, "jq", "",
		"A jq expression evaluated against the object, each result is printed separately.")
	getCmd.Flags().BoolVarP(&getArgs.rawOutput, "raw-output", "r", false,
		"If true, string results of the jq expression are printed without quotes.")
	rootCmd.AddCommand(getCmd)
}

func runGetCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	var obj *resources.Resource
	if len(args) == 2 {
		obj, err = k.GetResource(ctx, args[0], args[1], false)
	} else {
		var list map[string]any
		if list, err = k.GetResourcesRaw(ctx, args[0]); err == nil {
			obj, err = resources.NewResource(list)
		}
	}
	if err != nil {
		return err
	}

	if getArgs.jq == "" {
		return printObject(cmd.OutOrStdout(), obj, getArgs.output)
	}

	results, err := obj.Query(getArgs.jq)
	if err != nil {
		return err
	}
	for _, result := range results {
		if s, ok := result.(string); ok && getArgs.rawOutput {
			fmt.Fprintln(cmd.OutOrStdout(), s)
			continue
		}
		if err := printObject(cmd.OutOrStdout(), result, getArgs.output); err != nil {
			return err
		}
	}
	return nil
}
