// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the portal binary: a tree
// of [Command] values dispatched by name, flags bound from tagged
// params structs, typo suggestions for commands and flags, categorized
// [ToolError] values, and --json output support.
//
// A command declares its flags either as a params struct (see
// [BindFlags]) or as a hand-built pflag.FlagSet, and receives a
// context, its positional arguments and a logger:
//
//	var params statusParams
//	command := &cli.Command{
//	    Name:   "status",
//	    Params: func() any { return &params },
//	    Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
//	        ...
//	    },
//	}
package cli
