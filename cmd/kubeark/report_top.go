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
	"github.com/kubeark/kubeark/internal/logger"
	"github.com/kubeark/kubeark/internal/report"
)

var reportTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Writes the output of 'kubectl top' for the nodes and pods to text files",
	Example: `  # Write the top reports to the current directory
  kubeark report top

  # Write the top reports to a directory and print the parsed metrics
  kubeark report top --output-dir ./reports -o yaml
`,
	Args: cobra.NoArgs,
	RunE: runReportTopCmd,
}

type reportTopFlags struct {
	outputDir string
	output    flags.Output
}

var reportTopArgs = reportTopFlags{
	outputDir: ".",
}

func init() {
	reportTopCmd.Flags().StringVarP(&reportTopArgs.outputDir, "output-dir", "d", reportTopArgs.outputDir,
		"The directory where the report files are written.")
	reportTopCmd.Flags().VarP(&reportTopArgs.output, "output", reportTopArgs.output.Shorthand(),
		reportTopArgs.output.Description()+" (defaults to no output)")
	reportCmd.AddCommand(reportTopCmd)
}

func runReportTopCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	var top *report.Top
	indicator := logger.NewIndicator("Gathering node and pod metrics", logger.WithWriter(cmd.ErrOrStderr()))
	err = indicator.Run(func() error {
		var err error
		top, err = report.GatherTop(ctx, k)
		if err != nil {
			indicator.SetExitMessage("FAILED")
		}
		return err
	})
	if err != nil {
		return err
	}

	nodeFile, podFile, err := top.Write(reportTopArgs.outputDir, top.GatheredAt.Format(report.FileTimestampFormat))
	if err != nil {
		return err
	}

	log := loggerNamespace(ctx, k.Namespace(), rootArgs.prettyLog)
	for _, f := range []string{nodeFile, podFile} {
		log.Info(fmt.Sprintf("report written to %s", logger.ColorizeSubject(f)))
	}

	if cmd.Flags().Changed("output") {
		rep := top.Report()
		rep.Files = []string{nodeFile, podFile}
		return printObject(cmd.OutOrStdout(), rep, reportTopArgs.output)
	}
	return nil
}
