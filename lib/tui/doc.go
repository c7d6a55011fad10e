// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared pieces for portal's terminal screens:
// the colour theme, the key map, an inline choice picker, and
// ANSI-aware line fitting for narrow terminals.
//
// Screens own their own state and layout. This package only supplies
// the look and the keyboard conventions so every screen behaves the
// same way.
package tui
