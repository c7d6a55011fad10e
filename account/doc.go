// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package account is the client for the account authentication API.
//
// A [Client] wraps the five endpoints the terminal front ends need:
// signup, login, forgot password, reset password and profile update.
// Each call serializes a JSON body, performs one HTTP request against
// the configured base URL and decodes the JSON response. There are no
// retries and no client-side state: persisting a successful login is
// the caller's job (see lib/session).
//
// Every failure that originates in the request itself is returned as an
// [*Error] tagged with a [Kind]:
//
//   - [KindRequestFailed]: the server answered with a non-2xx status.
//     Detail and Message carry the body's "detail" and "message" fields.
//   - [KindMalformedResponse]: the body, success or error, was not the
//     expected JSON.
//   - [KindTransportFailure]: the request never completed (connection
//     refused, timeout, cancelled context).
//
// [UserMessage] turns any error into text fit for a person, preferring
// the server's detail, then its message, then a caller-supplied
// fallback.
//
// Passwords travel as [*secret.Buffer] values and become strings only
// while the request body is encoded.
package account
