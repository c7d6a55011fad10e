// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/portal/cmd/portal/auth"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/authui"
)

type uiParams struct {
	cli.Options
	ResetToken string `json:"-" flag:"reset-token" desc:"open the reset password screen with this token"`
	ResetLink  string `json:"-" flag:"reset-link"  desc:"open the reset password screen with the token from this link"`
}

// runUI is replaced in tests; the real interface needs a terminal.
var runUI = authui.Run

func uiCommand(streams cli.Streams) *cli.Command {
	var params uiParams

	return &cli.Command{
		Name:    "ui",
		Summary: "Open the interactive terminal UI",
		Description: `Open the full-screen interface with the login, sign-up, forgot
password, reset password and profile screens. It starts on the profile
when a session is saved, on the reset screen when a reset token or
link is given, and on login otherwise.`,
		Usage:  "portal ui [--reset-link <url>] [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			token, err := auth.ResolveToken(params.ResetToken, params.ResetLink)
			if err != nil {
				return err
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			// The interface owns the terminal; nothing may log to stderr
			// while it runs.
			return runUI(ctx, authui.Config{
				Client:     runtime.Client,
				Sessions:   runtime.Sessions,
				ResetToken: token,
			}, runtime.Config.UI.NoColor)
		},
	}
}
