// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"github.com/bureau-foundation/portal/cmd/portal/cli"
)

// fieldSetter is the Set method every form controller has.
type fieldSetter interface {
	Set(field, value string)
}

// setPassword reads a password from source and stores it in each named
// field of controller.
func setPassword(streams cli.Streams, source cli.PasswordSource, label string, confirm bool, controller fieldSetter, fields ...string) error {
	buffer, err := streams.Prompter().ReadPassword(source, label, confirm)
	if err != nil {
		return err
	}
	defer buffer.Close()

	for _, field := range fields {
		controller.Set(field, buffer.String())
	}
	return nil
}
