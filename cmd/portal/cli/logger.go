// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

var logLevel = func() *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	return level
}()

// SetLogLevel changes the level of every logger returned by
// [NewCommandLogger], including ones already created.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// NewCommandLogger creates a structured logger for command operations.
// When stderr is a terminal it uses slog.TextHandler; when stderr is
// piped or redirected it uses slog.JSONHandler so scripts can parse it.
//
// Commands receive a logger already scoped with "command"; add further
// context with With():
//
//	logger = logger.With("email", email)
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: logLevel}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
