// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package form holds the state behind each account screen and runs its
// submission: local validation, the API call, persisting the result and
// choosing the message to show.
//
// There is one controller per screen: [Signup], [Login],
// [ForgotPassword], [ResetPassword] and [Profile]. Each is a record
// owned by the caller (the TUI model or a CLI command) and driven
// through the same small surface:
//
//   - Set records an edit and clears that field's error at once.
//   - Blur re-validates one field against lib/validate's rule table.
//   - Submit validates everything, then calls the API.
//
// Submit is guarded: while one submission is in flight, a second
// returns [ErrInFlight] without touching the network. The guard is
// released on every return path. A submission blocked by local
// validation returns an error matching [ErrInvalid] and never reaches
// the API.
//
// After every Submit the controller's [Banner] holds the one
// form-level message to display: the server's success text, or the
// server's failure detail, or a screen-specific fallback when the
// server gave none. It is never empty after a failed request.
//
// Controllers are safe to read from one goroutine while Submit runs in
// another, which is how the TUI renders a pending request.
package form
