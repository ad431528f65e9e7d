// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/autoledger/ledgerd/lib/process"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		code := exitCodeOf(err)
		if code == exitUsageError {
			process.Fatal(err)
		}
		os.Exit(code)
	}
}
