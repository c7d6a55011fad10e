// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks a truncated line.
const Ellipsis = "…"

// FitLine truncates a rendered line to width display columns. Escape
// sequences are preserved, so styled text stays styled up to the cut.
// A width of zero or less leaves the line alone.
func FitLine(line string, width int) string {
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, Ellipsis)
}

// FitView applies FitLine to every line of a rendered view.
func FitView(view string, width int) string {
	if width <= 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	for index, line := range lines {
		lines[index] = FitLine(line, width)
	}
	return strings.Join(lines, "\n")
}

// PadLine right-pads a rendered line with spaces to width columns.
// Lines already at or over width are returned unchanged.
func PadLine(line string, width int) string {
	lineWidth := ansi.StringWidth(line)
	if lineWidth >= width {
		return line
	}
	return line + strings.Repeat(" ", width-lineWidth)
}
