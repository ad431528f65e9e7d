// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

const defaultWorkspaceVersion = "1.0.0"

// VersionManager detects that the on-disk workspace has been replaced
// out from under a running service: it memoizes the version.txt
// contents seen at startup and compares against a fresh read on
// demand. This is unrelated to lib/version, which reports the
// ledgerd binary's own build metadata; VersionManager is about the
// workspace's declared data-format version, not the binary.
type VersionManager struct {
	mu      sync.Mutex
	path    string
	started string
}

// NewVersionManager reads path, creating it with defaultWorkspaceVersion
// if missing, and memoizes the value seen at startup.
func NewVersionManager(path string) (*VersionManager, error) {
	version, err := readOrInitVersion(path)
	if err != nil {
		return nil, err
	}
	return &VersionManager{path: path, started: version}, nil
}

func readOrInitVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("version manager: reading %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(defaultWorkspaceVersion), 0644); err != nil {
			return "", fmt.Errorf("version manager: creating %s: %w", path, err)
		}
		return defaultWorkspaceVersion, nil
	}
	return strings.TrimSpace(string(data)), nil
}

// CheckVersion re-reads the workspace version file and reports
// whether it still matches the version seen at startup.
func (v *VersionManager) CheckVersion() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := os.ReadFile(v.path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == v.started
}

// Started returns the version string memoized at startup.
func (v *VersionManager) Started() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.started
}
