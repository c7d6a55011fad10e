// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package authui is portal's interactive terminal interface: login,
// signup, forgot password, reset password and profile screens built on
// bubbletea.
//
// The screens are thin views over the lib/form controllers. Every key
// press that edits a field is forwarded to the controller, and every
// submission runs the controller's Submit as a tea.Cmd so the event
// loop never blocks on the network. The controller's in-flight guard
// and the model's own pending flag together keep a second Enter from
// sending a duplicate request.
//
// Timed transitions use tea.Tick: a successful password reset moves
// to the login screen after two seconds, and the profile's success
// message clears after three.
package authui
