// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name to the message shown beside it. A field
// is invalid only when its key is present with a non-empty message;
// an empty message is the cleared state left by [Clear].
type FieldErrors map[string]string

// fieldOrder is the display order for known fields. Unknown keys sort
// after these, alphabetically.
var fieldOrder = map[string]int{
	FieldUsername:             0,
	FieldEmail:                1,
	FieldPassword:             2,
	FieldConfirmPassword:      3,
	FieldConfirmPasswordCamel: 3,
}

// Valid reports whether no field carries a message.
func (e FieldErrors) Valid() bool {
	for _, message := range e {
		if message != "" {
			return false
		}
	}
	return true
}

// Message returns the message for field, or "" if it is valid.
func (e FieldErrors) Message(field string) string {
	return e[field]
}

// Fields returns the invalid field names in display order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field, message := range e {
		if message != "" {
			fields = append(fields, field)
		}
	}
	sort.Slice(fields, func(i, j int) bool {
		left, leftKnown := fieldOrder[fields[i]]
		right, rightKnown := fieldOrder[fields[j]]
		switch {
		case leftKnown && rightKnown && left != right:
			return left < right
		case leftKnown != rightKnown:
			return leftKnown
		default:
			return fields[i] < fields[j]
		}
	})
	return fields
}

// Error renders all messages on one line so FieldErrors can travel as
// an error value through the CLI.
func (e FieldErrors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}
