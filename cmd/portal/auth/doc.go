// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the account commands of the portal CLI:
// signup, login, logout, forgot-password, reset-password and status.
// Each command fills the matching lib/form controller from flags and
// submits it, so the CLI applies exactly the checks and messages the
// terminal UI does. Failures come back as categorized [cli.ToolError]
// values.
package auth
