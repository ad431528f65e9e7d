// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// candidateWorkspaces is the closed probe list consulted when no
// workspace argument is given, in preference order.
var candidateWorkspaces = []string{
	"/data/local/tmp/autoledger",
	"/sdcard/autoledger",
	filepath.Join(os.Getenv("HOME"), ".autoledger"),
}

const (
	dbFileName      = "auto_v2.db"
	appsFileName    = "apps.txt"
	versionFileName = "version.txt"
	pidFileName     = "daemon.pid"
	logFileName     = "daemon.log"
	debugFileName   = "debug"
)

// resolveWorkspace returns the workspace directory to use: arg if
// non-empty, otherwise the first existing directory from
// candidateWorkspaces. Returns an error if arg is empty and none of
// the candidates exist.
func resolveWorkspace(arg string) (string, error) {
	if arg != "" {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("workspace %q does not exist", arg)
		}
		return arg, nil
	}

	for _, candidate := range candidateWorkspaces {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no workspace given and none of the candidate directories exist")
}

func (w workspacePaths) String() string {
	return w.root
}

type workspacePaths struct {
	root string
}

func newWorkspacePaths(root string) workspacePaths {
	return workspacePaths{root: root}
}

func (w workspacePaths) dbPath() string      { return filepath.Join(w.root, dbFileName) }
func (w workspacePaths) appsPath() string    { return filepath.Join(w.root, appsFileName) }
func (w workspacePaths) versionPath() string { return filepath.Join(w.root, versionFileName) }
func (w workspacePaths) pidPath() string     { return filepath.Join(w.root, pidFileName) }
func (w workspacePaths) logPath() string     { return filepath.Join(w.root, logFileName) }
func (w workspacePaths) rulesConfigPath() string {
	return filepath.Join(w.root, "rules.yaml")
}
func (w workspacePaths) debugMarkerPath() string { return filepath.Join(w.root, debugFileName) }
