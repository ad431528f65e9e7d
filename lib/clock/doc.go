// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time.Now source for testability.
//
// Production code accepts a Clock interface parameter instead of
// calling time.Now directly. In production, Real() provides the
// standard library's current time. In tests, Fake() provides a
// deterministic clock that only changes when Set or Advance is called.
//
// # Wiring Pattern
//
// Add a Clock field to structs that need the current time:
//
//	type Handler struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	h := &Handler{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	h := &Handler{clock: c}
//	c.Advance(5 * time.Second)
package clock
