// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the color palette for portal's terminal screens. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Focused field.
	FocusForeground lipgloss.Color
	FocusBorder     lipgloss.Color

	// Selected choice.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Message colors for field errors and form banners.
	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color
	WarningText lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

// MessageColor returns the color for a message tone: "error",
// "success" or "warning". Anything else is NormalText.
func (theme Theme) MessageColor(tone string) lipgloss.Color {
	switch tone {
	case "error":
		return theme.ErrorText
	case "success":
		return theme.SuccessText
	case "warning":
		return theme.WarningText
	default:
		return theme.NormalText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	FocusForeground: lipgloss.Color("255"),
	FocusBorder:     lipgloss.Color("75"), // blue

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ErrorText:   lipgloss.Color("196"), // red
	SuccessText: lipgloss.Color("114"), // green
	WarningText: lipgloss.Color("220"), // amber

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}

// ColorDisabled reports whether colour output is turned off, either by
// the caller or by a non-empty NO_COLOR environment variable.
func ColorDisabled(noColor bool) bool {
	return noColor || os.Getenv("NO_COLOR") != ""
}

// ApplyColorProfile forces lipgloss to plain ASCII output when colour
// is disabled. Styles still apply bold and layout but emit no colour
// sequences.
func ApplyColorProfile(noColor bool) {
	if ColorDisabled(noColor) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
