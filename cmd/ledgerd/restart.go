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

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart [workspace]",
		Short: "stop then start the service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := resolveWorkspace(workspaceArg(args))
			if err != nil {
				return withExitCode(err, exitWorkspaceNotFound)
			}
			ws := newWorkspacePaths(workspace)

			if _, alive, _ := pidfile.Alive(ws.pidPath()); alive {
				if err := stopWorkspace(ws); err != nil {
					return err
				}
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
			if err := child.Start(); err != nil {
				return fmt.Errorf("starting detached worker: %w", err)
			}
			return child.Process.Release()
		},
	}
}
