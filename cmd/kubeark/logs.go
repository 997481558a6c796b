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
	"time"

	"github.com/spf13/cobra"

	"github.com/kubeark/kubeark/internal/logger"
	"github.com/kubeark/kubeark/internal/report"
)

var logsCmd = &cobra.Command{
	Use:   "logs [component...]",
	Short: "Downloads the container logs of the vendor pods",
	Long: `The logs command writes the logs of each container of the vendor pods
to a timestamped directory, one file per container, prefixed with the
container status. When components are given, only the pods annotated with
one of the component names or running a container with one of the names
are downloaded.`,
	Example: `  # Download the logs of all vendor pods in the current namespace
  kubeark logs

  # Download the last 1000 lines of two components using 4 concurrent requests
  kubeark logs sas-logon-app sas-identities --tail 1000 --processes 4
`,
	RunE: runLogsCmd,
}

type logsFlags struct {
	outputDir string
	processes int
	wait      time.Duration
	tail      int
}

var logsArgs = logsFlags{
	outputDir: report.DefaultLogOutputDir,
	processes: report.DefaultLogProcesses,
	wait:      report.DefaultLogWait,
	tail:      report.DefaultLogTail,
}

func init() {
	logsCmd.Flags().StringVarP(&logsArgs.outputDir, "output-dir", "d", logsArgs.outputDir,
		"The directory where the timestamped log directory is created.")
	logsCmd.Flags().IntVarP(&logsArgs.processes, "processes", "p", logsArgs.processes,
		"The number of pods whose logs are fetched concurrently.")
	logsCmd.Flags().DurationVarP(&logsArgs.wait, "wait", "w", logsArgs.wait,
		"The time allowed for fetching the logs of one pod, 0 means no limit.")
	logsCmd.Flags().IntVarP(&logsArgs.tail, "tail", "t", logsArgs.tail,
		"The number of recent log lines to fetch for each container.")
	rootCmd.AddCommand(logsCmd)
}

func runLogsCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	k, err := newKubectl(ctx)
	if err != nil {
		return err
	}

	log := loggerNamespace(ctx, k.Namespace(), rootArgs.prettyLog)

	downloader, err := report.NewLogDownloader(k, report.LogDownloaderOptions{
		OutputDir: logsArgs.outputDir,
		Processes: logsArgs.processes,
		Wait:      logsArgs.wait,
		Log:       log,
	})
	if err != nil {
		return err
	}

	spin := logger.StartSpinner("downloading logs")
	result, err := downloader.Download(ctx, args, logsArgs.tail)
	spin.Stop()
	if err != nil {
		return err
	}

	for _, pod := range result.TimedOutPods {
		log.Info(logger.ColorizeWarning(fmt.Sprintf("timed out after %s while fetching the logs of %s",
			logsArgs.wait, logger.ColorizeSubject(pod))))
	}
	for _, ref := range result.Failures {
		log.Info(logger.ColorizeWarning(fmt.Sprintf("the logs of %s could not be fetched",
			logger.ColorizeSubject(ref.String()))))
	}

	log.Info(fmt.Sprintf("%d log file(s) written to %s", len(result.Files), logger.ColorizeSubject(result.OutputDir)))
	return nil
}
