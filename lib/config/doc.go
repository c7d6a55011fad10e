// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for portal.
//
// Configuration is loaded from a single file named by the --config flag
// (via [LoadFile]) or the PORTAL_CONFIG environment variable (via
// [Load]). [Resolve] picks between the two and falls back to [Default]
// when neither is given. There is no ~/.config discovery and no
// automatic file search.
//
// Files are YAML. A file ending in .json or .jsonc is also accepted:
// comments and trailing commas are stripped with tidwall/jsonc and the
// result parsed as YAML, of which JSON is a subset.
//
// The file may carry environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches, so one file can point at a local API
// during development and the deployed one in production.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_CONFIG_HOME} and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with API, Session, Log and UI sections
//   - [Default] -- returns a Config with development defaults
//   - [Load], [LoadFile] and [Resolve] -- the entry points for loading
//
// This package depends on no other portal packages.
package config
