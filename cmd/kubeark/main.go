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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"

	"github.com/kubeark/kubeark/internal/flags"
	"github.com/kubeark/kubeark/internal/logger"
	"github.com/kubeark/kubeark/internal/report"
	"github.com/kubeark/kubeark/pkg/kubectl"
)

var VERSION = "0.0.0-dev.0"

// Process exit codes.
const (
	exitCodeError             = 1
	exitCodeConnection        = 3
	exitCodeNamespaceNotFound = 4
	exitCodeRuntime           = 5
	exitCodeForbidden         = 6
)

var rootCmd = &cobra.Command{
	Use:           "kubeark",
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A kubectl driven toolkit for reporting on Kubernetes deployments.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize the console logger just before running
		// a command only if one wasn't provided. This allows other
		// callers (e.g. unit tests) to inject their own logger ahead of time.
		if cliLogger.IsZero() {
			cliLogger = logger.NewConsoleLogger(rootArgs.coloredLog, rootArgs.prettyLog)
		}

		// Inject the logger in the command context.
		ctx := logr.NewContext(context.Background(), cliLogger)
		cmd.SetContext(ctx)
	},
}

type rootFlags struct {
	kubectl    flags.Executable
	timeout    time.Duration
	prettyLog  bool
	coloredLog bool
}

var (
	rootArgs = rootFlags{
		prettyLog:  true,
		coloredLog: !color.NoColor,
		timeout:    5 * time.Minute,
	}
	cliLogger      logr.Logger
	kubeconfigArgs = genericclioptions.NewConfigFlags(false)
)

func init() {
	rootCmd.PersistentFlags().Var(&rootArgs.kubectl, "kubectl", rootArgs.kubectl.Description())
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", rootArgs.timeout,
		"The length of time to wait before giving up on the current operation.")
	rootCmd.PersistentFlags().BoolVar(&rootArgs.prettyLog, "log-pretty", rootArgs.prettyLog,
		"Adds timestamps to the logs.")
	rootCmd.PersistentFlags().BoolVar(&rootArgs.coloredLog, "log-color", rootArgs.coloredLog,
		"Adds colorized output to the logs. (defaults to false when no tty)")

	addKubeConfigFlags(rootCmd)

	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(color.Output)
	rootCmd.SetErr(color.Error)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ensure a logger is initialized even if the rootCmd
		// failed before running its hooks.
		if cliLogger.IsZero() {
			cliLogger = logger.NewConsoleLogger(rootArgs.coloredLog, rootArgs.prettyLog)
		}

		// Set the logger err to nil to pretty print
		// the error message on multiple lines.
		cliLogger.Error(nil, err.Error())
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the error returned by a command to the process exit code.
func exitCodeFor(err error) int {
	var connErr *kubectl.ConnectionError
	var nsErr *kubectl.NamespaceNotFoundError
	var forbiddenErr *report.RequestForbiddenError
	var execErr *kubectl.ProcessExecutionError
	switch {
	case errors.As(err, &connErr):
		return exitCodeConnection
	case errors.As(err, &nsErr):
		return exitCodeNamespaceNotFound
	case errors.As(err, &forbiddenErr):
		return exitCodeForbidden
	case errors.As(err, &execErr):
		return exitCodeRuntime
	default:
		return exitCodeError
	}
}

// addKubeConfigFlags maps the kubectl config flags to the given persistent flags.
// The namespace is resolved from the current kubeconfig context when not set.
func addKubeConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(kubeconfigArgs.KubeConfig, "kubeconfig", "",
		"Path to the kubeconfig file. (defaults to the KUBECONFIG env var or \"$HOME/.kube/config\")")
	cmd.PersistentFlags().StringVar(kubeconfigArgs.Context, "kube-context", "", "The name of the kubeconfig context to use.")
	cmd.PersistentFlags().StringVarP(kubeconfigArgs.Namespace, "namespace", "n", "",
		"The namespace scope for the operation. (defaults to the namespace of the current context)")
	cmd.RegisterFlagCompletionFunc("namespace", completeNamespaceList)
}

// kubectlGlobalOptions converts the kubeconfig flags set on the command line
// into kubectl global options. KUBECONFIG reaches kubectl through the environment.
func kubectlGlobalOptions() string {
	opts := ""
	if v := *kubeconfigArgs.KubeConfig; v != "" {
		opts += fmt.Sprintf(" --kubeconfig='%s'", v)
	}
	if v := *kubeconfigArgs.Context; v != "" {
		opts += fmt.Sprintf(" --context='%s'", v)
	}
	return opts
}
