// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token manages per-companion-app authentication tokens: the
// auth table row for an app, and a mirror copy on the companion's own
// filesystem path so the app can read the secret it needs to present
// at login.
//
// Tokens are opaque 32-character strings drawn from a cryptographically
// seeded random source — there is no signing key, no expiry, and no
// per-token scoping; this is deliberate given the Non-goal that rules
// out anything beyond an opaque shared secret.
package token
