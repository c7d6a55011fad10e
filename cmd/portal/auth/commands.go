// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import "github.com/bureau-foundation/portal/cmd/portal/cli"

// Commands returns the account commands in help order.
func Commands(streams cli.Streams) []*cli.Command {
	return []*cli.Command{
		signupCommand(streams),
		loginCommand(streams),
		logoutCommand(streams),
		forgotPasswordCommand(streams),
		resetPasswordCommand(streams),
		statusCommand(streams),
	}
}

// noArgs rejects positional arguments.
func noArgs(args []string) error {
	if len(args) > 0 {
		return cli.Validation("unexpected argument: %s", args[0])
	}
	return nil
}
