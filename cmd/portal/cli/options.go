// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/config"
	"github.com/bureau-foundation/portal/lib/session"
)

// Streams are the standard streams a command reads and writes. Tests
// substitute buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StandardStreams returns the process's stdin, stdout and stderr.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Prompter returns a Prompter reading from s.In and prompting on s.Err.
func (s Streams) Prompter() *Prompter {
	return &Prompter{Stdin: s.In, Stderr: s.Err}
}

// Options holds the flags shared by every command that talks to the
// API or the session store. Embed it in a params struct; [BindFlags]
// registers the flags through AddFlags.
//
//	type loginParams struct {
//	    cli.Options
//	    Email string `flag:"email" desc:"account email"`
//	}
//
//	// In Run:
//	runtime, err := params.Open(logger)
//	if err != nil {
//	    return err
//	}
//	defer runtime.Close()
type Options struct {
	ConfigPath     string
	APIURL         string
	SessionFile    string
	SessionBackend string
	Verbose        bool
	NoColor        bool
}

// AddFlags registers the shared flags. Values given here override the
// configuration file.
func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.ConfigPath, "config", "", "configuration file (default: $"+config.EnvVar+", else built-in defaults)")
	flagSet.StringVar(&o.APIURL, "api-url", "", "account API base URL (overrides api.base_url)")
	flagSet.StringVar(&o.SessionFile, "session-file", "", "session file or database (overrides session.path)")
	flagSet.StringVar(&o.SessionBackend, "session-backend", "", "session backend: file, sealed or sqlite (overrides session.backend)")
	flagSet.BoolVarP(&o.Verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolVar(&o.NoColor, "no-color", false, "disable colour output")
}

// Config resolves the configuration file and applies flag overrides.
// It also sets the command log level.
func (o *Options) Config() (*config.Config, error) {
	cfg, err := config.Resolve(o.ConfigPath)
	if err != nil {
		return nil, Validation("%v", err)
	}

	if o.APIURL != "" {
		cfg.API.BaseURL = o.APIURL
	}
	if o.SessionBackend != "" {
		cfg.Session.Backend = o.SessionBackend
	}
	if o.SessionFile != "" {
		cfg.Session.Path = o.SessionFile
	}
	if o.NoColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid options: %v", err)
	}

	if o.Verbose {
		SetLogLevel(slog.LevelDebug)
	} else {
		SetLogLevel(cfg.LogLevel())
	}
	return cfg, nil
}

// Runtime is what a command needs to talk to the API and keep a
// session: the resolved configuration, an API client and the session
// manager. Close it when the command finishes.
type Runtime struct {
	Config   *config.Config
	Client   *account.Client
	Sessions *session.Manager
}

// Open resolves the configuration and opens the client and session
// store it describes.
func (o *Options) Open(logger *slog.Logger) (*Runtime, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, Validation("%v", err)
	}
	client, err := account.NewClient(account.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, Validation("%v", err)
	}

	sessions, err := session.Open(session.StoreConfig{
		Backend:      cfg.Session.Backend,
		Path:         cfg.Session.Path,
		IdentityFile: cfg.Session.IdentityFile,
		Logger:       logger,
	})
	if err != nil {
		return nil, Internal("opening session store: %w", err)
	}

	logger.Debug("runtime opened",
		"api", client.BaseURL(),
		"session_backend", cfg.Session.Backend,
	)
	return &Runtime{Config: cfg, Client: client, Sessions: sessions}, nil
}

// Close releases the session store.
func (r *Runtime) Close() error {
	if err := r.Sessions.Close(); err != nil {
		return fmt.Errorf("closing session store: %w", err)
	}
	return nil
}
