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

package kubectl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"k8s.io/apimachinery/pkg/version"
)

// VersionInfo is the typed form of 'kubectl version -o json'.
type VersionInfo struct {
	ClientVersion    *version.Info `json:"clientVersion,omitempty"`
	KustomizeVersion string        `json:"kustomizeVersion,omitempty"`
	ServerVersion    *version.Info `json:"serverVersion,omitempty"`
}

// ToVersionInfo converts the decoded version document.
func ToVersionInfo(raw map[string]any) (*VersionInfo, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	info := &VersionInfo{}
	if err := json.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("decoding version info failed: %w", err)
	}
	return info, nil
}

// Server parses the git version reported by the server, e.g. 'v1.30.4+k3s1'.
func (v *VersionInfo) Server() (*semver.Version, error) {
	if v.ServerVersion == nil || v.ServerVersion.GitVersion == "" {
		return nil, fmt.Errorf("server version not reported by kubectl")
	}
	ver, err := semver.NewVersion(v.ServerVersion.GitVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing server version failed: %w", err)
	}
	return ver, nil
}

// ServerVersion retrieves and parses the Kubernetes server's version.
func ServerVersion(ctx context.Context, k Interface) (*semver.Version, error) {
	raw, err := k.Version(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("reading server version failed: %w", err)
	}

	info, err := ToVersionInfo(raw)
	if err != nil {
		return nil, err
	}
	return info.Server()
}
