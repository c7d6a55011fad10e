// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Portal is a terminal client for the account API: sign up, log in,
// recover a password and manage a profile from the command line or an
// interactive terminal UI.
//
// Usage:
//
//	portal signup -u alice -e alice@example.com
//	portal login -e alice@example.com
//	portal status
//	portal profile update --age 34
//	portal ui
//
// Run "portal --help" for the full command list.
package main
