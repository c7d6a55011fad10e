// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
)

// Command returns the "profile" command group.
func Command(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Summary: "Show or update the signed-in profile",
		Description: `Show or update the profile of the signed-in account. Both commands
need a saved session; run 'portal login' first.`,
		Subcommands: []*cli.Command{
			showCommand(streams),
			updateCommand(streams),
		},
	}
}

// printUser writes the record as aligned label/value lines, with
// "Not provided" standing in for empty optional fields.
func printUser(w io.Writer, user account.UserRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", user.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
	fmt.Fprintf(tw, "Address:\t%s\n", user.AddressOrDefault())
	fmt.Fprintf(tw, "Gender:\t%s\n", user.GenderOrDefault())
	fmt.Fprintf(tw, "Age:\t%s\n", user.AgeOrDefault())
	tw.Flush()
}
