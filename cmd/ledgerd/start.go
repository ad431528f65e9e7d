// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autoledger/ledgerd/lib/pidfile"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [workspace]",
		Short: "start the service detached from the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := resolveWorkspace(workspaceArg(args))
			if err != nil {
				return withExitCode(err, exitWorkspaceNotFound)
			}
			ws := newWorkspacePaths(workspace)

			if pid, alive, _ := pidfile.Alive(ws.pidPath()); alive {
				return withExitCode(fmt.Errorf("service already running (pid %d)", pid), exitUsageError)
			}

			self, err := os.Executable()
			if err != nil {
				return err
			}

			child := exec.Command(self, "foreground", workspace, "--port", fmt.Sprint(flagPort))
			if flagDebug {
				child.Args = append(child.Args, "--debug")
			}
			child.Env = append(os.Environ(), daemonChildEnvVar+"=1")
			child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
			child.Stdin = nil
			child.Stdout = nil
			child.Stderr = nil

			if err := child.Start(); err != nil {
				return fmt.Errorf("starting detached worker: %w", err)
			}
			// The parent's job ends at handing the detached child its
			// life; the child writes its own PID file once it reaches
			// runDaemonChild, so a pidfile read immediately after this
			// returns may observe a brief window before it appears.
			if err := child.Process.Release(); err != nil {
				return err
			}

			fmt.Printf("started (pid %d)\n", child.Process.Pid)
			return nil
		},
	}
}
