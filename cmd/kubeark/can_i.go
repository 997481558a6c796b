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
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubeark/kubeark/internal/logger"
)

var canICmd = &cobra.Command{
	Use:   "can-i [verb] [resource]",
	Short: "Checks whether an action is allowed in the target namespace",
	Example: `  # Check if pods can be listed in the current namespace
  kubeark can-i list pods

  # Check if nodes can be read across all namespaces
  kubeark can-i get nodes -A
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCanICmd,
}

type canIFlags struct {
	allNamespaces bool
}

var canIArgs canIFlags

func init() {
	canICmd.Flags().BoolVarP(&canIArgs.allNamespaces, "all-namespaces", "A", false,
		"If true, check the specified action in all namespaces.")
	rootCmd.AddCommand(canICmd)
}

func runCanICmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	allowed, err := k.CanI(ctx, strings.Join(args, " "), canIArgs.allNamespaces)
	if err != nil {
		return fmt.Errorf("checking access failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), logger.ColorizeAllowed(allowed))
	return nil
}
