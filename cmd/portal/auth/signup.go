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

type signupParams struct {
	cli.Options
	cli.PasswordSource
	cli.JSONOutput
	Username string `json:"username" flag:"username,u" desc:"account username (at least 3 letters, A-Z only)"`
	Email    string `json:"email"    flag:"email,e"    desc:"account email"`
}

type signupResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func signupCommand(streams cli.Streams) *cli.Command {
	var params signupParams

	return &cli.Command{
		Name:    "signup",
		Summary: "Create an account",
		Description: `Register a new account. The username, email and password are checked
locally with the same rules as the sign-up screen before anything is
sent. Without --password-file or --password-stdin the password is
prompted for twice.`,
		Usage: "portal signup --username <name> --email <address> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create an account, reading the password from a file",
				Command:     "portal signup -u alice -e alice@example.com --password-file ~/.portal-password",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := noArgs(args); err != nil {
				return err
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			controller := form.NewSignup(runtime.Client)
			controller.Set(validate.FieldUsername, params.Username)
			controller.Set(validate.FieldEmail, params.Email)
			// Check the plain fields before prompting for a password.
			for _, field := range []string{validate.FieldUsername, validate.FieldEmail} {
				controller.Blur(field)
				if message := controller.Error(field); message != "" {
					return cli.Validation("%s: %s", field, message)
				}
			}

			err = setPassword(streams, params.PasswordSource, "Password", true, controller,
				validate.FieldPassword, validate.FieldConfirmPassword)
			if err != nil {
				return err
			}

			response, err := controller.Submit(ctx)
			if err != nil {
				return SubmitError(err, controller)
			}
			logger.Info("account created", "email", params.Email)

			result := signupResult{
				Message:  controller.Banner().Text,
				Username: params.Username,
				Email:    params.Email,
			}
			if response.Message != "" {
				result.Message = response.Message
			}
			if done, err := params.EmitJSON(streams.Out, result); done {
				return err
			}
			fmt.Fprintln(streams.Out, result.Message)
			return nil
		},
	}
}
