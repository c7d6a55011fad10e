// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/session"
)

type statusParams struct {
	cli.Options
	cli.JSONOutput
}

type statusResult struct {
	State        string              `json:"state"`
	User         *account.UserRecord `json:"user,omitempty"`
	TokenSubject string              `json:"token_subject,omitempty"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	Expired      bool                `json:"expired"`
	Corrupt      bool                `json:"corrupt,omitempty"`
}

func statusCommand(streams cli.Streams) *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Show whether a session is saved",
		Description: `Report the session state: the signed-in account and, when the access
token carries them, its subject and expiry. The token is decoded
locally without checking its signature, so "valid" here only means
"not yet expired". Exits with status 1 when no session is saved.`,
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

			result, err := inspect(ctx, runtime.Sessions, time.Now(), logger)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(streams.Out, result); done {
				if err == nil && result.State != session.Authenticated.String() {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			printStatus(streams, result)
			if result.State != session.Authenticated.String() {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func inspect(ctx context.Context, sessions *session.Manager, now time.Time, logger *slog.Logger) (statusResult, error) {
	current, err := sessions.Load(ctx)
	switch {
	case errors.Is(err, session.ErrAnonymous):
		return statusResult{State: session.Anonymous.String()}, nil
	case errors.Is(err, session.ErrCorrupt):
		logger.Warn("stored session is corrupt", "error", err)
		return statusResult{State: session.Anonymous.String(), Corrupt: true}, nil
	case err != nil:
		return statusResult{}, cli.Internal("reading session: %w", err)
	}

	result := statusResult{State: session.Authenticated.String(), User: &current.User}
	info, err := account.InspectToken(current.Token)
	if err != nil {
		logger.Debug("access token is not a readable JWT", "error", err)
		return result, nil
	}
	result.TokenSubject = info.Subject
	if !info.ExpiresAt.IsZero() {
		expiresAt := info.ExpiresAt
		result.ExpiresAt = &expiresAt
		result.Expired = info.Expired(now)
	}
	return result, nil
}

func printStatus(streams cli.Streams, result statusResult) {
	if result.User == nil {
		if result.Corrupt {
			fmt.Fprintln(streams.Out, "Not logged in (the saved session is unreadable; 'portal login' replaces it).")
			return
		}
		fmt.Fprintln(streams.Out, "Not logged in.")
		return
	}

	fmt.Fprintf(streams.Out, "Logged in as %s <%s>\n", result.User.Username, result.User.Email)
	if result.ExpiresAt == nil {
		return
	}
	expiry := result.ExpiresAt.Local().Format(time.RFC3339)
	if result.Expired {
		fmt.Fprintf(streams.Out, "Token expired at %s\n", expiry)
		fmt.Fprintln(streams.Err, "Run 'portal login' again to renew it.")
		return
	}
	fmt.Fprintf(streams.Out, "Token expires at %s\n", expiry)
}
