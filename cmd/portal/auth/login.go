// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/form"
	"github.com/bureau-foundation/portal/lib/validate"
)

type loginParams struct {
	cli.Options
	cli.PasswordSource
	cli.JSONOutput
	Email string `json:"email" flag:"email,e" desc:"account email"`
}

func loginCommand(streams cli.Streams) *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and save the session",
		Description: `Exchange an email and password for an access token. On success the
token and the account's profile are saved to the session store,
replacing any previous session. A failed login leaves the store
untouched.`,
		Usage: "portal login --email <address> [flags]",
		Examples: []cli.Example{
			{
				Description: "Sign in interactively",
				Command:     "portal login -e alice@example.com",
			},
			{
				Description: "Sign in from a script",
				Command:     "printf '%s\\n' \"$PASSWORD\" | portal login -e alice@example.com --password-stdin",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := noArgs(args); err != nil {
				return err
			}
			if params.Email == "" {
				return cli.Validation("--email is required")
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			controller := form.NewLogin(runtime.Client, runtime.Sessions)
			controller.Set(validate.FieldEmail, params.Email)
			if err := setPassword(streams, params.PasswordSource, "Password", false, controller, validate.FieldPassword); err != nil {
				return err
			}

			current, err := controller.Submit(ctx)
			if err != nil {
				return SubmitError(err, controller)
			}

			if done, err := params.EmitJSON(streams.Out, current.User); done {
				return err
			}
			fmt.Fprintf(streams.Out, "Logged in as %s <%s>\n", current.User.Username, current.User.Email)
			return nil
		},
	}
}
