// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by portal's screens. Plain
// letters are left to the text fields, so every screen action uses a
// control chord.
type KeyMap struct {
	// Field focus.
	NextField key.Binding
	PrevField key.Binding

	// Choice fields.
	ChoicePrev key.Binding
	ChoiceNext key.Binding

	Submit key.Binding
	Back   key.Binding // Leave edit mode, or return to login.

	// Screen switching.
	ShowLogin   key.Binding
	ShowSignup  key.Binding
	ShowForgot  key.Binding
	ShowProfile key.Binding

	// Profile actions.
	Edit   key.Binding
	Logout key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	ChoicePrev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous choice"),
	),
	ChoiceNext: key.NewBinding(
		key.WithKeys("right", " "),
		key.WithHelp("→", "next choice"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	ShowLogin: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "login"),
	),
	ShowSignup: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "sign up"),
	),
	ShowForgot: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("C-f", "forgot password"),
	),
	ShowProfile: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("C-p", "profile"),
	),
	Edit: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("C-e", "edit"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "log out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// HelpLine renders the help text of bindings as "key action" pairs.
func HelpLine(bindings ...key.Binding) string {
	line := ""
	for _, binding := range bindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if line != "" {
			line += "  "
		}
		line += help.Key + " " + help.Desc
	}
	return line
}
