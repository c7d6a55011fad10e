// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/portal/cmd/portal/auth"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/form"
)

type showParams struct {
	cli.Options
	cli.JSONOutput
}

func showCommand(streams cli.Streams) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print the saved profile",
		Description: `Print the profile saved at login or after the last update. No request
is made; the record is read from the session store.`,
		Usage:  "portal profile show [--json]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			controller := form.NewProfile(runtime.Client, runtime.Sessions)
			user, err := controller.Load(ctx)
			if err != nil {
				return auth.SubmitError(err, controller)
			}

			if done, err := params.EmitJSON(streams.Out, user); done {
				return err
			}
			printUser(streams.Out, user)
			return nil
		},
	}
}
