// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/cmd/portal/commands"
)

// TestCommandTree walks the production command tree and checks that
// every command documents itself and that its flags bind without
// conflicts (pflag panics on duplicate names).
func TestCommandTree(t *testing.T) {
	root := commands.Root(cli.StandardStreams())
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands", name)
		}

		defer func() {
			if recovered := recover(); recovered != nil {
				t.Errorf("%s: building flags panicked: %v", name, recovered)
			}
		}()
		var help bytes.Buffer
		command.PrintHelp(&help)
		if !strings.Contains(help.String(), "Usage:") {
			t.Errorf("%s: help has no usage line", name)
		}
	})
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
