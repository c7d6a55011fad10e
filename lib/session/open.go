// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSealed = "sealed"
	BackendSQLite = "sqlite"
)

// PathEnvVar overrides the default session location.
const PathEnvVar = "PORTAL_SESSION_FILE"

// StoreConfig selects and configures a backend.
type StoreConfig struct {
	// Backend is one of BackendFile, BackendSealed or BackendSQLite.
	// Empty means BackendFile.
	Backend string
	// Path is the session file or database. Empty means DefaultPath.
	Path string
	// IdentityFile holds the age identity for BackendSealed. Empty
	// means Path with ".key" appended.
	IdentityFile string
	Logger       *slog.Logger
}

// Open creates the configured store and wraps it in a Manager.
func Open(config StoreConfig) (*Manager, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendFile
	}
	path := config.Path
	if path == "" {
		path = DefaultPath(backend)
	}

	var store Store
	var err error
	switch backend {
	case BackendFile:
		store, err = NewFileStore(path)
	case BackendSealed:
		identity := config.IdentityFile
		if identity == "" {
			identity = path + ".key"
		}
		store, err = NewSealedStore(path, identity)
	case BackendSQLite:
		store, err = OpenSQLiteStore(path, config.Logger)
	default:
		return nil, fmt.Errorf("session: unknown backend %q (want %s, %s or %s)",
			backend, BackendFile, BackendSealed, BackendSQLite)
	}
	if err != nil {
		return nil, err
	}
	return NewManager(store, config.Logger), nil
}

// DefaultPath returns the session location for backend. It checks
// PORTAL_SESSION_FILE first, then falls back to a file under
// $XDG_CONFIG_HOME/portal (or ~/.config/portal).
func DefaultPath(backend string) string {
	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		return envPath
	}

	name := "session.json"
	switch backend {
	case BackendSealed:
		name = "session.age"
	case BackendSQLite:
		name = "session.db"
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "portal-"+name)
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "portal", name)
}
