// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/portal/lib/secret"
)

// PasswordSource is embedded in params structs of commands that take a
// password. Exactly one of the file, stdin, or an interactive prompt
// supplies it.
type PasswordSource struct {
	PasswordFile  string `json:"-" flag:"password-file" desc:"read the password from a file (trailing newline stripped)"`
	PasswordStdin bool   `json:"-" flag:"password-stdin" desc:"read the password from the first line of stdin"`
}

// Prompter reads secrets for commands. Stdin is consulted for
// --password-stdin and, when it is a terminal, for interactive prompts.
type Prompter struct {
	Stdin  io.Reader
	Stderr io.Writer
}

// DefaultPrompter reads from the process's stdin and prompts on stderr.
func DefaultPrompter() *Prompter {
	return &Prompter{Stdin: os.Stdin, Stderr: os.Stderr}
}

// ReadPassword returns the password from source, prompting with label
// when neither flag is set. With confirm, an interactive prompt asks
// twice and fails when the entries differ; file and stdin input are
// taken as given.
func (p *Prompter) ReadPassword(source PasswordSource, label string, confirm bool) (*secret.Buffer, error) {
	switch {
	case source.PasswordFile != "" && source.PasswordStdin:
		return nil, Validation("--password-file and --password-stdin are mutually exclusive")
	case source.PasswordFile != "":
		buffer, err := secret.ReadFromPath(source.PasswordFile)
		if err != nil {
			return nil, Validation("%v", err)
		}
		return buffer, nil
	case source.PasswordStdin:
		buffer, err := secret.ReadLine(p.Stdin)
		if err != nil {
			return nil, Validation("reading password from stdin: %v", err)
		}
		return buffer, nil
	}

	first, err := p.prompt(label)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return first, nil
	}
	second, err := p.prompt("Confirm " + lowerFirst(label))
	if err != nil {
		first.Close()
		return nil, err
	}
	defer second.Close()
	if !first.Equal(second) {
		first.Close()
		return nil, Validation("passwords do not match")
	}
	return first, nil
}

func (p *Prompter) prompt(label string) (*secret.Buffer, error) {
	file, ok := p.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return nil, Validation("no terminal available for interactive password prompt (use --password-file or --password-stdin)")
	}

	fmt.Fprintf(p.Stderr, "%s: ", label)
	passwordBytes, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(p.Stderr)
	if err != nil {
		return nil, Internal("reading password: %w", err)
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, Validation("%v", err)
	}
	return buffer, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+'a'-'A') + s[1:]
	}
	return s
}
