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
)

var apiVersionsCmd = &cobra.Command{
	Use:     "api-versions",
	Short:   "Prints the group/versions served by the cluster",
	Example: "kubeark api-versions",
	Args:    cobra.NoArgs,
	RunE:    runAPIVersionsCmd,
}

func init() {
	rootCmd.AddCommand(apiVersionsCmd)
}

func runAPIVersionsCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	versions, err := k.APIVersions(ctx, false)
	if err != nil {
		return err
	}

	for _, v := range versions {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
