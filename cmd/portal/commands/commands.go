// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete portal CLI command tree.
package commands

import (
	"github.com/bureau-foundation/portal/cmd/portal/auth"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	profilecmd "github.com/bureau-foundation/portal/cmd/portal/profile"
)

// Root builds and returns the complete portal CLI command tree.
func Root(streams cli.Streams) *cli.Command {
	subcommands := auth.Commands(streams)
	subcommands = append(subcommands,
		profilecmd.Command(streams),
		uiCommand(streams),
		versionCommand(streams),
	)

	return &cli.Command{
		Name: "portal",
		Description: `portal: terminal client for the account API.

Create an account, sign in, recover a forgotten password and edit your
profile from the command line or the interactive terminal UI. The
signed-in session is kept in a local store (a JSON file by default).`,
		Subcommands: subcommands,
		HelpOutput:  streams.Err,
		Examples: []cli.Example{
			{
				Description: "Sign in and show the saved profile",
				Command:     "portal login -e alice@example.com && portal profile show",
			},
			{
				Description: "Open the terminal UI against a staging API",
				Command:     "portal ui --api-url https://staging.example.com",
			},
		},
	}
}
