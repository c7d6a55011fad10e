// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile implements the "portal profile" command group: show
// the signed-in account's profile from the session store, and update
// its optional fields through the API.
package profile
