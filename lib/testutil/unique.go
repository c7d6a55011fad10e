// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// UniqueUsername returns prefix followed by a letters-only suffix, e.g.
// "alicea", "aliceb", ... "aliceba".
func UniqueUsername(prefix string) string {
	n := uniqueCounter.Add(1)
	var suffix []byte
	for {
		suffix = append([]byte{byte('a' + n%26)}, suffix...)
		n /= 26
		if n == 0 {
			break
		}
	}
	return prefix + string(suffix)
}

// UniqueEmail returns a distinct address at example.com.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, uniqueCounter.Add(1))
}
