// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists the signed-in account between runs and
// tracks whether the client is Anonymous or Authenticated.
//
// Durable state is two keys, [KeyToken] and [KeyUser], written and
// removed together through a [Store]. A store holding both keys is an
// authenticated session; holding neither is anonymous; holding exactly
// one is corrupt ([ErrCorrupt]) and is treated as anonymous by
// [Manager.Require].
//
// Three backends implement Store:
//
//   - [FileStore] from [NewFileStore]: one JSON document, mode 0600,
//     replaced atomically by rename.
//   - The same FileStore from [NewSealedStore]: the document encrypted
//     at rest with age (lib/sealed).
//   - [SQLiteStore]: a key-value table updated inside an immediate
//     transaction.
//
// [Open] selects a backend by name for the command line and TUI.
package session
