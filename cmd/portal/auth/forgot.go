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

type forgotPasswordParams struct {
	cli.Options
	cli.JSONOutput
	Email string `json:"email" flag:"email,e" desc:"account email"`
}

type forgotPasswordResult struct {
	Message   string `json:"message"`
	Delivered bool   `json:"delivered"`
}

func forgotPasswordCommand(streams cli.Streams) *cli.Command {
	var params forgotPasswordParams

	return &cli.Command{
		Name:    "forgot-password",
		Summary: "Request a password reset email",
		Description: `Ask the API to email a password reset link. When the API accepts the
request but reports that the email could not be sent, the message is
printed as a warning and the command exits with status 1.`,
		Usage:  "portal forgot-password --email <address>",
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

			controller := form.NewForgotPassword(runtime.Client)
			controller.Set(validate.FieldEmail, params.Email)
			response, err := controller.Submit(ctx)
			if err != nil {
				return SubmitError(err, controller)
			}

			banner := controller.Banner()
			result := forgotPasswordResult{Message: banner.Text, Delivered: response.Delivered()}
			if done, err := params.EmitJSON(streams.Out, result); done {
				if err == nil && !result.Delivered {
					return &cli.ExitError{Code: 1}
				}
				return err
			}

			if !result.Delivered {
				logger.Warn("reset email not delivered", "server_error", response.Error)
				fmt.Fprintf(streams.Err, "warning: %s\n", result.Message)
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintln(streams.Out, result.Message)
			return nil
		},
	}
}
