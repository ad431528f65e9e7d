// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pidfile manages the workspace's daemon.pid file: the
// decimal process id of a running daemonized worker, written so a
// later "service stop" or "service status" invocation in a different
// process can find it.
//
// The file is written atomically — to a temporary path in the same
// directory, fsynced, then renamed into place — so a reader never
// observes a partially written pid.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Write atomically writes pid (as decimal text) to path.
func Write(path string, pid int) error {
	data := []byte(strconv.Itoa(pid) + "\n")
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("pidfile: creating temporary file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("pidfile: writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("pidfile: syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("pidfile: closing temporary file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("pidfile: renaming into place: %w", err)
	}

	if parentDirectory, err := os.Open(filepath.Dir(path)); err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Read parses the pid stored at path. When the file does not exist,
// the returned error wraps os.ErrNotExist (testable with errors.Is).
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("pidfile: parsing %s: %w", path, err)
	}
	return pid, nil
}

// Remove deletes the pid file. Idempotent: returns nil when the file
// does not already exist.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pidfile: removing: %w", err)
	}
	return nil
}

// Alive reads the pid at path and checks whether a process with that
// pid currently exists. Returns (0, false, nil) when the file does not
// exist. A positive pid with a signal-0 probe failure (process gone,
// or exists but owned by another user) is reported as not alive.
func Alive(path string) (pid int, alive bool, err error) {
	pid, err = Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	if err := syscall.Kill(pid, 0); err != nil {
		return pid, false, nil
	}
	return pid, true, nil
}
