// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts small documents at rest with age. It wraps
// filippo.io/age for the operations the sealed session store needs:
// generate or load an x25519 identity, encrypt to a recipient, and
// decrypt with the identity's private key.
//
// Ciphertext is ASCII-armored (the "-----BEGIN AGE ENCRYPTED FILE-----"
// form) so sealed files survive copy-paste and text-mode tooling.
// Private keys and decrypted plaintext are returned as [secret.Buffer]
// values backed by mmap memory outside the Go heap.
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair in a secret.Buffer
//   - [LoadOrCreateIdentity] -- keypair persisted in a 0600 key file
//   - [Encrypt] / [Decrypt] -- armored age encryption
//   - [ParsePublicKey] -- recipient validation
package sealed
