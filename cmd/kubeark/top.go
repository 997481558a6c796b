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

var topCmd = &cobra.Command{
	Use:       "top [nodes|pods]",
	Short:     "Prints the CPU and memory usage of nodes or pods",
	ValidArgs: []string{"nodes", "pods"},
	Example: `  # Print the resource usage of the cluster nodes
  kubeark top nodes

  # Print the resource usage of the pods in a namespace as JSON
  kubeark top pods -n viya -o json
`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: runTopCmd,
}

type topFlags struct {
	output flags.Output
}

var topArgs topFlags

func init() {
	topCmd.Flags().VarP(&topArgs.output, "output", topArgs.output.Shorthand(),
		topArgs.output.Description()+" (defaults to a table)")
	rootCmd.AddCommand(topCmd)
}

func runTopCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	nodes := args[0] == "nodes"

	var metrics *resources.Metrics
	if nodes {
		metrics, err = k.TopNodes(ctx, false)
	} else {
		metrics, err = k.TopPods(ctx, false)
	}
	if err != nil {
		return fmt.Errorf("reading %s metrics failed: %w", args[0], err)
	}

	if cmd.Flags().Changed("output") {
		return printObject(cmd.OutOrStdout(), metrics, topArgs.output)
	}

	var rows [][]string
	for _, name := range metrics.Names() {
		r, _ := metrics.Reading(name)
		if nodes {
			cpuUsed, _ := metrics.CPUUsed(name)
			memoryUsed, _ := metrics.MemoryUsed(name)
			rows = append(rows, []string{name, r.CPUCores, cpuUsed, r.MemoryBytes, memoryUsed})
		} else {
			rows = append(rows, []string{name, r.CPUCores, r.MemoryBytes})
		}
	}

	if nodes {
		printTable(cmd.OutOrStdout(), []string{"name", "cpu(cores)", "cpu%", "memory(bytes)", "memory%"}, rows)
	} else {
		printTable(cmd.OutOrStdout(), []string{"name", "cpu(cores)", "memory(bytes)"}, rows)
	}
	return nil
}
