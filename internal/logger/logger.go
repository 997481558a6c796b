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

package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"

	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

// NewConsoleLogger returns a human-friendly Logger.
// Pretty print adds timestamp, log level and colorized output to the logs.
func NewConsoleLogger(colorize, prettify bool) logr.Logger {
	color.NoColor = !colorize
	zconfig := zerolog.ConsoleWriter{Out: color.Error, NoColor: !colorize}
	if !prettify {
		zconfig.PartsExclude = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
		}
	}

	zlog := zerolog.New(zconfig).With().Timestamp().Logger()

	// Create a logr.Logger using zerolog as sink.
	zerologr.VerbosityFieldName = ""
	return zerologr.New(&zlog)
}

var (
	colorError        = color.New(color.FgHiRed)
	colorReady        = color.New(color.FgHiGreen)
	colorCallerPrefix = color.New(color.FgHiBlack)
	colorNamespace    = color.New(color.FgHiMagenta)
	colorAllowed      = map[bool]*color.Color{
		true:  color.New(color.FgHiGreen),
		false: color.New(color.FgHiRed),
	}
)

func ColorizeJoin(values ...any) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(ColorizeAny(v))
	}
	return sb.String()
}

func ColorizeAny(v any) string {
	switch v := v.(type) {
	case *resources.Resource:
		return ColorizeResource(v)
	case error:
		return ColorizeError(v)
	case bool:
		return ColorizeAllowed(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func ColorizeSubject(subject string) string {
	return color.CyanString(subject)
}

func ColorizeReady(subject string) string {
	return colorReady.Sprint(subject)
}

func ColorizeInfo(subject string) string {
	return color.GreenString(subject)
}

func ColorizeWarning(subject string) string {
	return color.YellowString(subject)
}

// ColorizeResource formats the resource as 'Kind/namespace/name'.
func ColorizeResource(r *resources.Resource) string {
	parts := []string{r.Kind()}
	if ns := r.Namespace(); ns != "" {
		parts = append(parts, ns)
	}
	parts = append(parts, r.Name())
	return ColorizeSubject(strings.Join(parts, "/"))
}

// ColorizeError formats the error, a failed kubectl invocation
// is reported with its exit code.
func ColorizeError(err error) string {
	if code, ok := kubectl.ExitCode(err); ok {
		return colorError.Sprintf("%s (exit code %d)", err.Error(), code)
	}
	return colorError.Sprint(err.Error())
}

// ColorizeAllowed formats the result of a permission check.
func ColorizeAllowed(allowed bool) string {
	if allowed {
		return colorAllowed[true].Sprint("yes")
	}
	return colorAllowed[false].Sprint("no")
}

func ColorizeNamespace(namespace string) string {
	return colorCallerPrefix.Sprint("ns:") + colorNamespace.Sprint(namespace)
}

// StartSpinner starts a spinner with the given message.
func StartSpinner(msg string) interface{ Stop() } {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	return s
}
