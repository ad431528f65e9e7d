// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sandbox evaluates small, untrusted JavaScript snippets using
// a fresh goja runtime per call. The host exposes a single function,
// print(s), which a script calls at most once to hand a string result
// back to Go code; Eval returns whatever the script printed, or the
// empty string if it printed nothing or raised an exception.
//
// There is no persisted state between calls — no globals, no module
// cache, no result slot shared across evaluations. A fresh interpreter
// paired with a call-local capture cell satisfies the requirement a
// thread-local result map would otherwise exist for, without the
// cross-goroutine bookkeeping such a map would need.
package sandbox
