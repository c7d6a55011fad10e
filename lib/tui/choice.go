// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ChoiceOption is a single selectable item in a Choice.
type ChoiceOption struct {
	Label string // Display text.
	Value string // Value stored in the form.
}

// Choice is an inline single-select field rendered as a row of
// options with the current one highlighted.
type Choice struct {
	Options []ChoiceOption
	Cursor  int
}

// NewChoice returns a Choice over options with value selected. An
// unknown value selects the first option.
func NewChoice(options []ChoiceOption, value string) Choice {
	choice := Choice{Options: options}
	choice.Select(value)
	return choice
}

// Select moves the cursor to the option holding value and reports
// whether one was found.
func (choice *Choice) Select(value string) bool {
	for index, option := range choice.Options {
		if option.Value == value {
			choice.Cursor = index
			return true
		}
	}
	choice.Cursor = 0
	return false
}

// MoveUp moves the cursor back by one, wrapping to the end.
func (choice *Choice) MoveUp() {
	choice.Cursor--
	if choice.Cursor < 0 {
		choice.Cursor = len(choice.Options) - 1
	}
}

// MoveDown moves the cursor forward by one, wrapping to the start.
func (choice *Choice) MoveDown() {
	choice.Cursor++
	if choice.Cursor >= len(choice.Options) {
		choice.Cursor = 0
	}
}

// Value returns the value of the highlighted option, or "" for an
// empty Choice.
func (choice Choice) Value() string {
	if len(choice.Options) == 0 {
		return ""
	}
	return choice.Options[choice.Cursor].Value
}

// Render draws the options on one line. The highlighted option is
// bracketed so it stays visible without colour.
func (choice Choice) Render(theme Theme, focused bool) string {
	normal := lipgloss.NewStyle().Foreground(theme.FaintText)
	selected := lipgloss.NewStyle().Foreground(theme.NormalText)
	if focused {
		selected = lipgloss.NewStyle().
			Background(theme.SelectedBackground).
			Foreground(theme.SelectedForeground).
			Bold(true)
	}

	parts := make([]string, len(choice.Options))
	for index, option := range choice.Options {
		if index == choice.Cursor {
			parts[index] = selected.Render("[" + option.Label + "]")
		} else {
			parts[index] = normal.Render(" " + option.Label + " ")
		}
	}
	return strings.Join(parts, " ")
}
