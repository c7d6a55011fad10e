// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate checks account form fields against a single rule
// table and reports failures as [FieldErrors], a map from field name to
// a human-readable message.
//
// The same table serves both ways forms use it:
//
//   - [Form] validates every listed field at submit time. Submission
//     proceeds only when the result is [FieldErrors.Valid].
//   - [Field] recomputes one field when it loses focus, and [Clear]
//     blanks a field's message as soon as the user edits it.
//
// Rules are checked in table order and the first failure wins, so a
// two-character username reports [KindTooShort] and never
// [KindInvalidChars]. The email rule only requires an "@"; stricter
// address validation is left to the server.
//
// Everything here is pure: no I/O, no clocks, deterministic output.
package validate
