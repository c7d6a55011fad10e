// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/form"
	"github.com/bureau-foundation/portal/lib/validate"
)

type resetPasswordParams struct {
	cli.Options
	cli.PasswordSource
	cli.JSONOutput
	Token string `json:"-" flag:"token" desc:"reset token, used verbatim"`
	Link  string `json:"-" flag:"link"  desc:"reset link from the email; its token query parameter is used"`
}

type resetPasswordResult struct {
	Message string `json:"message"`
}

func resetPasswordCommand(streams cli.Streams) *cli.Command {
	var params resetPasswordParams

	return &cli.Command{
		Name:    "reset-password",
		Summary: "Set a new password with a reset token",
		Description: `Set a new password using the token from a reset email. Give the token
with --token, or the whole link with --link (or as the only argument).
Without a token nothing is sent. The new password is checked with the
sign-up password rules and prompted for twice unless read from a file
or stdin.`,
		Usage: "portal reset-password (--token <token> | --link <url> | <url>) [flags]",
		Examples: []cli.Example{
			{
				Description: "Reset using the link from the email",
				Command:     "portal reset-password 'http://localhost:3000/reset-password?token=eyJhbGciOi...'",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			link := params.Link
			if len(args) > 0 {
				if link != "" || len(args) > 1 {
					return cli.Validation("unexpected argument: %s", args[len(args)-1])
				}
				link = args[0]
			}
			token, err := ResolveToken(params.Token, link)
			if err != nil {
				return err
			}

			runtime, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			controller := form.NewResetPassword(runtime.Client, token)
			if controller.TokenError() != "" {
				return SubmitError(validate.ErrMissingResetToken, controller)
			}

			err = setPassword(streams, params.PasswordSource, "New password", true, controller,
				validate.FieldPassword, validate.FieldConfirmPasswordCamel)
			if err != nil {
				return err
			}

			response, err := controller.Submit(ctx)
			if err != nil {
				return SubmitError(err, controller)
			}

			result := resetPasswordResult{Message: response.Message}
			if done, err := params.EmitJSON(streams.Out, result); done {
				return err
			}
			fmt.Fprintln(streams.Out, result.Message)
			fmt.Fprintln(streams.Err, "Run 'portal login' to sign in with the new password.")
			return nil
		},
	}
}

// ResolveToken picks the token from --token or the link. Giving both is
// an error; giving neither yields "" so the form reports the missing
// token.
func ResolveToken(token, link string) (string, error) {
	switch {
	case token != "" && link != "":
		return "", cli.Validation("--token and --link are mutually exclusive")
	case token != "":
		return token, nil
	case link == "":
		return "", nil
	}

	extracted, err := form.TokenFromLink(link)
	if err != nil && !errors.Is(err, validate.ErrMissingResetToken) {
		return "", cli.Validation("%v", err)
	}
	return extracted, nil
}
