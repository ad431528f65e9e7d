// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/autoledger/ledgerd/lib/logging"
	"github.com/autoledger/ledgerd/lib/pidfile"
)

// daemonChildEnvVar marks a re-exec'd process as the detached child
// that should run the supervisor loop instead of re-spawning again.
const daemonChildEnvVar = "AUTOLEDGER_DAEMON_CHILD"

// runDaemonChild is the body of the detached process: it writes its
// own PID file, installs signal handling, and runs the worker under a
// restart loop until told to stop. Go cannot fork() a running
// multi-threaded process the way the double-fork model assumes; the
// detach step (see start.go) instead re-execs the binary once with
// Setsid, and everything past that point — including "restart the
// worker on non-fatal exit" — happens as an internal goroutine loop
// inside this single detached process rather than by forking a
// second child. SIGCHLD handling from the original model does not
// apply for the same reason: there is no subprocess to reap.
func runDaemonChild(workspace workspacePaths, port int) int {
	if err := pidfile.Write(workspace.pidPath(), os.Getpid()); err != nil {
		fmt.Fprintf(os.Stderr, "writing pid file: %v\n", err)
		return exitBindAddressError
	}
	defer pidfile.Remove(workspace.pidPath())

	logOut, closeLog, err := openLogOutput(os.Stdout, workspace.logPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitBindAddressError
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		runCtx, cancelRun := context.WithCancel(ctx)

		go func() {
			select {
			case <-hup:
				rotated, closeRotated, err := openLogOutput(os.Stdout, workspace.logPath())
				if err == nil {
					logOut, _ = rotated, closeRotated
				}
				cancelRun()
			case <-ctx.Done():
			}
		}()

		runErr := runForeground(runCtx, workspace, port, logOut)
		cancelRun()

		if ctx.Err() != nil {
			return exitSuccess
		}
		if runErr == nil {
			continue // SIGHUP-triggered restart
		}

		code := exitCodeOf(runErr)
		if fatalExitCode(code) {
			fmt.Fprintf(os.Stderr, "worker exited fatally: %v\n", runErr)
			return code
		}
		slog.New(logging.NewDBHandlerToWriter(slog.LevelError, nil, logOut)).
			Error("worker exited, restarting", "error", runErr)
	}
}

// isDaemonChild reports whether this process is the detached worker
// re-exec'd by the start command.
func isDaemonChild() bool {
	return os.Getenv(daemonChildEnvVar) == "1"
}
