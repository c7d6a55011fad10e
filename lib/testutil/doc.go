// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for portal packages.
//
// [FakeAPI] is an in-memory account API served over httptest. It keeps
// users, issues signed access and reset tokens, counts requests per
// path, and can replace any endpoint's response or hold a request open
// so tests can observe in-flight behaviour.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [UniqueID], [UniqueUsername] and [UniqueEmail] generate distinct
// identifiers for test disambiguation. UniqueUsername uses letters only
// so the result passes username validation.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no portal-internal dependencies.
package testutil
