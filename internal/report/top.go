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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apiv1 "github.com/kubeark/kubeark/api/v1alpha1"
	"github.com/kubeark/kubeark/pkg/kubectl"
)

const (
	// FileTimestampFormat is the timestamp layout used in report file and directory names.
	FileTimestampFormat = "2006-01-02T15_04_05"

	topFileTemplate = "kubeark_top_reports_%s_data_%s.txt"
)

// Top holds the raw output of 'kubectl top' for the nodes and the pods of a namespace.
type Top struct {
	GatheredAt time.Time
	Namespace  string
	NodeData   []byte
	PodData    []byte
}

// GatherTop runs 'kubectl top node' and 'kubectl top pod'.
// A failed request is returned as a RequestForbiddenError.
func GatherTop(ctx context.Context, k kubectl.Interface) (*Top, error) {
	gathered := time.Now()

	nodes, err := k.Do(ctx, "top node", false)
	if err != nil {
		return nil, &RequestForbiddenError{Request: "listing top nodes", Namespace: k.Namespace(), Err: err}
	}

	pods, err := k.Do(ctx, "top pod", false)
	if err != nil {
		return nil, &RequestForbiddenError{Request: "listing top pods", Namespace: k.Namespace(), Err: err}
	}

	return &Top{
		GatheredAt: gathered,
		Namespace:  k.Namespace(),
		NodeData:   nodes,
		PodData:    pods,
	}, nil
}

// Write writes the node and pod data to text files in dir and returns
// their absolute paths. A new timestamp is used when none is given.
func (t *Top) Write(dir, timestamp string) (nodeFile string, podFile string, err error) {
	if timestamp == "" {
		timestamp = time.Now().Format(FileTimestampFormat)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output directory failed: %w", err)
	}

	nodeFile, err = writeAbs(filepath.Join(dir, fmt.Sprintf(topFileTemplate, "node", timestamp)), t.NodeData)
	if err != nil {
		return "", "", err
	}

	podFile, err = writeAbs(filepath.Join(dir, fmt.Sprintf(topFileTemplate, "pod", timestamp)), t.PodData)
	if err != nil {
		return "", "", err
	}

	return nodeFile, podFile, nil
}

// Report parses the gathered data into a report document.
func (t *Top) Report() *apiv1.TopReport {
	return &apiv1.TopReport{
		TypeMeta:   apiv1.TopReportKind.TypeMeta(),
		GatheredAt: t.GatheredAt.UTC().Format(time.RFC3339),
		Namespace:  t.Namespace,
		Nodes:      kubectl.ParseNodeMetrics(withoutHeader(t.NodeData)).AsMap(),
		Pods:       kubectl.ParsePodMetrics(withoutHeader(t.PodData)).AsMap(),
	}
}

// withoutHeader drops the column header line of a 'kubectl top' table.
func withoutHeader(data []byte) []byte {
	if !bytes.HasPrefix(data, []byte("NAME")) {
		return data
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[i+1:]
	}
	return nil
}

func writeAbs(path string, data []byte) (string, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s failed: %w", path, err)
	}
	return filepath.Abs(path)
}
