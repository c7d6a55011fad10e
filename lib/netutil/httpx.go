// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers shared by the account API
// client and its tests.
//
// Response bodies are read through [ReadResponse], which bounds the
// read at [MaxResponseSize] so a misbehaving server cannot exhaust
// memory. [IsTimeout] classifies transport errors for log fields and
// user-facing hints.
package netutil

import (
	"context"
	"errors"
	"io"
	"net"
)

// MaxResponseSize bounds JSON API response reads. Account API payloads
// are a few hundred bytes; 1 MB leaves ample room for verbose error
// pages from reverse proxies.
const MaxResponseSize int64 = 1 << 20

// ReadResponse reads an HTTP response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
