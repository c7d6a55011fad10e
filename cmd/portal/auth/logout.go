// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/session"
)

type logoutParams struct {
	cli.Options
}

func logoutCommand(streams cli.Streams) *cli.Command {
	var params logoutParams

	return &cli.Command{
		Name:        "logout",
		Summary:     "Remove the saved session",
		Description: "Delete the stored token and profile. Logging out when no session is saved succeeds.",
		Params:      func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := noArgs(args); err != nil {
				return err
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			wasAuthenticated := runtime.Sessions.State(ctx) == session.Authenticated
			if err := runtime.Sessions.Logout(ctx); err != nil {
				return cli.Internal("logging out: %w", err)
			}

			if wasAuthenticated {
				fmt.Fprintln(streams.Out, "Logged out.")
			} else {
				fmt.Fprintln(streams.Out, "Not logged in.")
			}
			return nil
		},
	}
}
