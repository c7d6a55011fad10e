// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Kind identifies which rule a field failed.
type Kind string

const (
	// KindTooShort: the value has fewer characters than the rule's minimum.
	KindTooShort Kind = "too_short"
	// KindInvalidChars: the username contains something other than ASCII letters.
	KindInvalidChars Kind = "invalid_chars"
	// KindMissingAt: the email has no "@".
	KindMissingAt Kind = "missing_at"
	// KindMismatch: the confirmation differs from the password.
	KindMismatch Kind = "mismatch"
)

// Field names as they appear in forms and request bodies. The reset
// screen names its confirmation field confirmPassword; signup uses
// confirm_password. Both carry the same rule.
const (
	FieldUsername             = "username"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldConfirmPassword      = "confirm_password"
	FieldConfirmPasswordCamel = "confirmPassword"
)

// Messages shown next to failing fields.
const (
	MessageUsernameTooShort     = "Username must be at least 3 characters"
	MessageUsernameInvalidChars = "Username must contain only letters and no whitespaces"
	MessageEmailMissingAt       = "Enter a valid email"
	MessagePasswordTooShort     = "Password must be at least 6 characters"
	MessagePasswordMismatch     = "Passwords do not match"
	MessageMissingResetToken    = "Invalid or missing reset token."
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// ErrMissingResetToken is returned by [ResetToken] when a reset link
// carried no token. Its text is the message shown on the reset screen.
var ErrMissingResetToken = errors.New(MessageMissingResetToken)

// Values holds the current contents of a form, keyed by field name.
type Values map[string]string

// Violation describes one failed rule.
type Violation struct {
	Field   string
	Kind    Kind
	Message string
}

type rule struct {
	kind    Kind
	message string
	fails   func(value string, values Values) bool
}

var confirmRules = []rule{
	{
		kind:    KindMismatch,
		message: MessagePasswordMismatch,
		fails:   func(value string, values Values) bool { return value != values[FieldPassword] },
	},
}

// rules is the single source of truth for field validation. Order
// within a field's slice is significant: the first failing rule wins.
var rules = map[string][]rule{
	FieldUsername: {
		{
			kind:    KindTooShort,
			message: MessageUsernameTooShort,
			fails:   func(value string, _ Values) bool { return utf8.RuneCountInString(value) < minUsernameLength },
		},
		{
			kind:    KindInvalidChars,
			message: MessageUsernameInvalidChars,
			fails:   func(value string, _ Values) bool { return !onlyASCIILetters(value) },
		},
	},
	FieldEmail: {
		{
			kind:    KindMissingAt,
			message: MessageEmailMissingAt,
			fails:   func(value string, _ Values) bool { return !strings.Contains(value, "@") },
		},
	},
	FieldPassword: {
		{
			kind:    KindTooShort,
			message: MessagePasswordTooShort,
			fails:   func(value string, _ Values) bool { return utf8.RuneCountInString(value) < minPasswordLength },
		},
	},
	FieldConfirmPassword:      confirmRules,
	FieldConfirmPasswordCamel: confirmRules,
}

func onlyASCIILetters(value string) bool {
	for index := 0; index < len(value); index++ {
		character := value[index]
		if (character < 'A' || character > 'Z') && (character < 'a' || character > 'z') {
			return false
		}
	}
	return true
}

// HasRules reports whether field has any validation rules.
func HasRules(field string) bool {
	_, ok := rules[field]
	return ok
}

// Check applies field's rules to its current value in values. It
// returns the first violation, or false when the field is valid or has
// no rules.
func Check(field string, values Values) (Violation, bool) {
	value := values[field]
	for _, candidate := range rules[field] {
		if candidate.fails(value, values) {
			return Violation{Field: field, Kind: candidate.kind, Message: candidate.message}, true
		}
	}
	return Violation{}, false
}

// Form validates each of fields and returns the errors for those that
// fail. The result never contains keys for valid fields.
func Form(values Values, fields ...string) FieldErrors {
	errors := FieldErrors{}
	for _, field := range fields {
		if violation, failed := Check(field, values); failed {
			errors[field] = violation.Message
		}
	}
	return errors
}

// Field recomputes the error for a single field and leaves every other
// entry in errors untouched. A nil map is allocated. The updated map is
// returned for chaining.
func Field(errors FieldErrors, values Values, field string) FieldErrors {
	if errors == nil {
		errors = FieldErrors{}
	}
	if violation, failed := Check(field, values); failed {
		errors[field] = violation.Message
	} else {
		delete(errors, field)
	}
	return errors
}

// Clear blanks the message for field if one is showing. This is the
// optimistic clear applied on every edit: the field is treated as valid
// until the next blur or submit recomputes it.
func Clear(errors FieldErrors, field string) {
	if _, present := errors[field]; present {
		errors[field] = ""
	}
}

// ResetToken fails closed when a reset link carried no token. The token
// is otherwise opaque and is not inspected.
func ResetToken(token string) error {
	if token == "" {
		return ErrMissingResetToken
	}
	return nil
}
