// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bureau-foundation/portal/lib/sealed"
	"github.com/bureau-foundation/portal/lib/secret"
)

// FileStore keeps all entries in one file, rewritten in full on every
// Write through a temporary file and rename. The file is created with
// mode 0600 inside a 0700 directory since it holds an access token.
type FileStore struct {
	path  string
	codec codec

	mu sync.Mutex
}

// codec transforms the JSON document on its way to and from disk.
type codec interface {
	seal(plaintext []byte) ([]byte, error)
	// open returns the plaintext and a function that releases it.
	open(data []byte) ([]byte, func(), error)
	close() error
}

type plainCodec struct{}

// seal copies so the caller can zero plaintext before the write.
func (plainCodec) seal(plaintext []byte) ([]byte, error) { return bytes.Clone(plaintext), nil }
func (plainCodec) open(data []byte) ([]byte, func(), error) {
	return data, func() {}, nil
}
func (plainCodec) close() error { return nil }

type ageCodec struct {
	keypair *sealed.Keypair
}

func (c ageCodec) seal(plaintext []byte) ([]byte, error) {
	return sealed.Encrypt(plaintext, []string{c.keypair.PublicKey})
}

func (c ageCodec) open(data []byte) ([]byte, func(), error) {
	buffer, err := sealed.Decrypt(data, c.keypair.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return buffer.Bytes(), func() { buffer.Close() }, nil
}

func (c ageCodec) close() error { return c.keypair.Close() }

// NewFileStore returns a store backed by the plain JSON file at path.
// The file need not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session: file store path is required")
	}
	return &FileStore{path: path, codec: plainCodec{}}, nil
}

// NewSealedStore returns a FileStore whose document is age-encrypted to
// the identity kept at identityPath. The identity is generated on first
// use. Losing the identity file loses the session, nothing more.
func NewSealedStore(path, identityPath string) (*FileStore, error) {
	if path == "" || identityPath == "" {
		return nil, fmt.Errorf("session: sealed store needs a path and an identity file")
	}
	keypair, err := sealed.LoadOrCreateIdentity(identityPath)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &FileStore{path: path, codec: ageCodec{keypair: keypair}}, nil
}

// Path returns the file the store writes.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read(ctx context.Context) (Entries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) read() (Entries, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entries{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", s.path, err)
	}
	defer secret.Zero(data)

	plaintext, release, err := s.codec.open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrCorrupt, s.path, err)
	}
	defer release()

	entries := Entries{}
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, s.path, err)
	}
	return entries, nil
}

func (s *FileStore) Write(ctx context.Context, set Entries, remove []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if errors.Is(err, ErrCorrupt) {
		// A full replacement or clear recovers a damaged file.
		entries = Entries{}
	} else if err != nil {
		return err
	}
	for _, key := range remove {
		delete(entries, key)
	}
	for key, value := range set {
		entries[key] = value
	}

	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("session: removing %s: %w", s.path, err)
		}
		return nil
	}

	plaintext, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding document: %w", err)
	}
	plaintext = append(plaintext, '\n')
	data, err := s.codec.seal(plaintext)
	secret.Zero(plaintext)
	if err != nil {
		return fmt.Errorf("session: sealing document: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Close releases the sealing identity, if any.
func (s *FileStore) Close() error {
	return s.codec.close()
}

// writeAtomic replaces path with data so readers see either the old or
// the new file, never a partial one.
func writeAtomic(path string, data []byte) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("session: creating directory %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("session: creating temporary file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0o600); err != nil {
		temporary.Close()
		return fmt.Errorf("session: chmod temporary file: %w", err)
	}
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("session: writing temporary file: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return fmt.Errorf("session: syncing temporary file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("session: closing temporary file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("session: replacing %s: %w", path, err)
	}
	return nil
}
