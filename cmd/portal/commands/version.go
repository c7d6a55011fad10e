// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(streams cli.Streams) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if done, err := params.EmitJSON(streams.Out, version.Current()); done {
				return err
			}
			fmt.Fprintf(streams.Out, "portal %s\n", version.Full())
			return nil
		},
	}
}
