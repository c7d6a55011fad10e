// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/portal/lib/tui"
)

// Run shows the interface until the user quits or ctx is cancelled.
// noColor (or NO_COLOR in the environment) drops colour output.
func Run(ctx context.Context, config Config, noColor bool) error {
	if config.Client == nil || config.Sessions == nil {
		return fmt.Errorf("authui: client and session manager are required")
	}
	tui.ApplyColorProfile(noColor)

	program := tea.NewProgram(New(ctx, config), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("authui: %w", err)
	}
	return nil
}
