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

package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/pkg/kubectl"
	"github.com/kubeark/kubeark/pkg/resources"
)

const (
	DefaultLogOutputDir = "kubeark-logs"
	DefaultLogProcesses = 2
	DefaultLogTail      = 25000
	DefaultLogWait      = 30 * time.Second
)

const logHeaderRule = "##################################################"

// LogDownloaderOptions holds the settings of a LogDownloader.
type LogDownloaderOptions struct {
	// OutputDir is the parent of the timestamped log directory.
	OutputDir string

	// Processes is the number of pods whose logs are fetched concurrently.
	Processes int

	// Wait is the time allowed for fetching the logs of one pod, zero means no limit.
	Wait time.Duration

	// Log receives the progress messages.
	Log logr.Logger
}

// LogDownloader fetches the container logs of the vendor pods in a namespace
// and writes them to one file per container, prefixed with the container status.
type LogDownloader struct {
	kubectl kubectl.Interface
	opts    LogDownloaderOptions
}

// NewLogDownloader validates the options and returns a LogDownloader.
func NewLogDownloader(k kubectl.Interface, opts LogDownloaderOptions) (*LogDownloader, error) {
	if opts.Processes < 1 {
		return nil, fmt.Errorf("the processes value must be greater than 0")
	}
	if opts.Wait < 0 {
		return nil, fmt.Errorf("the wait value must be 0 or greater")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultLogOutputDir
	}
	return &LogDownloader{kubectl: k, opts: opts}, nil
}

// Download writes the logs of the pods matching the components filter, all
// pods when the filter is empty. A pod matches when its component-name
// annotation or one of its container names is in the filter.
func (d *LogDownloader) Download(ctx context.Context, components []string, tail int) (*apiv1.LogDownload, error) {
	namespace := d.kubectl.Namespace()

	pods, err := d.kubectl.GetResources(ctx, resources.TypePods)
	if err != nil {
		return nil, &RequestForbiddenError{Request: "listing pods", Namespace: namespace, Err: err}
	}
	if len(pods) == 0 {
		return nil, fmt.Errorf("%w in namespace '%s'", ErrNoPods, namespace)
	}

	selected := pods
	if len(components) > 0 {
		selected = filterPods(pods, components)
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w in namespace '%s': [%s]", ErrNoMatchingPods, namespace, strings.Join(components, ", "))
		}
	}

	dir := filepath.Join(d.opts.OutputDir, time.Now().Format(FileTimestampFormat))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory failed: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	result := &apiv1.LogDownload{
		TypeMeta:  apiv1.LogDownloadKind.TypeMeta(),
		OutputDir: absDir,
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(d.opts.Processes)

	for _, pod := range selected {
		if !pod.IsVendorResource() {
			continue
		}

		pod := pod
		g.Go(func() error {
			podCtx, cancel := d.podContext(ctx)
			defer cancel()

			files, failures, err := d.writePodLogs(podCtx, absDir, pod, tail)

			mu.Lock()
			defer mu.Unlock()
			result.Files = append(result.Files, files...)
			result.Failures = append(result.Failures, failures...)

			switch {
			case err == nil:
				return nil
			case errors.Is(podCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
				result.TimedOutPods = append(result.TimedOutPods, pod.Name())
				return nil
			default:
				return err
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(result.Files)
	slices.Sort(result.TimedOutPods)
	slices.SortFunc(result.Failures, func(a, b apiv1.ContainerRef) int {
		return strings.Compare(a.String(), b.String())
	})

	return result, nil
}

func (d *LogDownloader) podContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.opts.Wait == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.opts.Wait)
}

func filterPods(pods []*resources.Resource, components []string) []*resources.Resource {
	var selected []*resources.Resource
	for _, pod := range pods {
		if name, ok := pod.ComponentName(); ok && slices.Contains(components, name) {
			selected = append(selected, pod)
			continue
		}

		p := &corev1.Pod{}
		if err := pod.ToTyped(p); err != nil {
			continue
		}
		for _, c := range p.Spec.Containers {
			if slices.Contains(components, c.Name) {
				selected = append(selected, pod)
				break
			}
		}
	}
	return selected
}

// writePodLogs writes one file per container of the pod and returns the
// file names relative to dir and the containers whose logs were not retrieved.
func (d *LogDownloader) writePodLogs(ctx context.Context, dir string, pod *resources.Resource, tail int) ([]string, []apiv1.ContainerRef, error) {
	p := &corev1.Pod{}
	if err := pod.ToTyped(p); err != nil {
		return nil, nil, fmt.Errorf("decoding pod %s failed: %w", pod.Name(), err)
	}

	statuses := p.Status.ContainerStatuses
	if len(statuses) == 0 {
		return nil, []apiv1.ContainerRef{{Pod: p.Name}}, nil
	}

	var files []string
	var failures []apiv1.ContainerRef
	for _, cs := range statuses {
		name := p.Name + ".log"
		if len(statuses) > 1 {
			name = fmt.Sprintf("%s_%s.log", p.Name, cs.Name)
		}

		lines, failed, err := d.containerLogs(ctx, p, cs.Name, tail)
		if err != nil {
			return files, failures, err
		}
		if failed {
			failures = append(failures, apiv1.ContainerRef{Pod: p.Name, Container: cs.Name})
		}

		var sb strings.Builder
		writeStatusHeader(&sb, pod, cs)
		sb.WriteString("Beginning log...\n\n")
		sb.WriteString(strings.Join(lines, "\n"))

		if err := os.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0o644); err != nil {
			return files, failures, fmt.Errorf("writing log of %s/%s failed: %w", p.Name, cs.Name, err)
		}
		files = append(files, name)
		d.opts.Log.V(1).Info("log downloaded", "pod", p.Name, "container", cs.Name)
	}

	return files, failures, nil
}

// containerLogs fetches the log of a container. When the container has no
// log, the partial output is kept and the logs of the init containers are
// appended instead. The second value reports a failed retrieval.
func (d *LogDownloader) containerLogs(ctx context.Context, p *corev1.Pod, container string, tail int) ([]string, bool, error) {
	lines, err := d.kubectl.Logs(ctx, p.Name, kubectl.LogOptions{Container: container, Tail: tail})
	if err == nil {
		return lines, false, nil
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	var perr *kubectl.ProcessExecutionError
	if errors.As(err, &perr) && len(perr.Output) > 0 {
		lines = append(lines, string(perr.Output))
	}

	for _, ic := range p.Spec.InitContainers {
		lines = append(lines, "\n"+logHeaderRule, "# Log from initContainer: "+ic.Name, logHeaderRule)
		initLines, err := d.kubectl.Logs(ctx, p.Name, kubectl.LogOptions{Container: ic.Name, Tail: tail})
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			lines = append(lines, fmt.Sprintf("ERROR: A log could not be retrieved for the container [%s] in pod [%s] in namespace [%s]",
				ic.Name, p.Name, d.kubectl.Namespace()))
			continue
		}
		lines = append(lines, initLines...)
	}

	return lines, true, nil
}

func writeStatusHeader(sb *strings.Builder, pod *resources.Resource, cs corev1.ContainerStatus) {
	componentName, _ := pod.ComponentName()
	componentVersion, _ := pod.ComponentVersion()

	line := func(key, value string) {
		fmt.Fprintf(sb, "# %-25s %s\n", key+":", value)
	}

	sb.WriteString(logHeaderRule + "\n")
	sb.WriteString("# Container Status\n")
	sb.WriteString("#\n")
	line("sas-component-name", componentName)
	line("sas-component-version", componentVersion)
	line("container-name", cs.Name)
	line("container-image", cs.Image)
	line("container-is-started", optionalBool(cs.Started))
	line("container-is-ready", fmt.Sprint(cs.Ready))
	line("container-restarts", fmt.Sprint(cs.RestartCount))

	switch {
	case cs.State.Running != nil:
		line("container-state", "running")
		line("container-started-at", cs.State.Running.StartedAt.UTC().Format(time.RFC3339))
	case cs.State.Terminated != nil:
		line("container-state", "terminated")
		line("container-state-reason", cs.State.Terminated.Reason)
		line("container-started-at", cs.State.Terminated.StartedAt.UTC().Format(time.RFC3339))
		line("container-finished-at", cs.State.Terminated.FinishedAt.UTC().Format(time.RFC3339))
	case cs.State.Waiting != nil:
		line("container-state", "waiting")
		line("container-state-reason", cs.State.Waiting.Reason)
	}

	sb.WriteString(logHeaderRule + "\n\n")
}

func optionalBool(b *bool) string {
	if b == nil {
		return ""
	}
	return fmt.Sprint(*b)
}
