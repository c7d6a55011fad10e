// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		values   Values
		wantKind Kind
		wantMsg  string
	}{
		{"username too short", FieldUsername, Values{FieldUsername: "ab"}, KindTooShort, MessageUsernameTooShort},
		{"username empty", FieldUsername, Values{}, KindTooShort, MessageUsernameTooShort},
		{"username short beats invalid chars", FieldUsername, Values{FieldUsername: "a1"}, KindTooShort, MessageUsernameTooShort},
		{"username with digit", FieldUsername, Values{FieldUsername: "alice1"}, KindInvalidChars, MessageUsernameInvalidChars},
		{"username with space", FieldUsername, Values{FieldUsername: "al ice"}, KindInvalidChars, MessageUsernameInvalidChars},
		{"username non-ascii letter", FieldUsername, Values{FieldUsername: "zoë"}, KindInvalidChars, MessageUsernameInvalidChars},
		{"email without at", FieldEmail, Values{FieldEmail: "alice.example.com"}, KindMissingAt, MessageEmailMissingAt},
		{"email empty", FieldEmail, Values{FieldEmail: ""}, KindMissingAt, MessageEmailMissingAt},
		{"password short", FieldPassword, Values{FieldPassword: "12345"}, KindTooShort, MessagePasswordTooShort},
		{"confirm mismatch", FieldConfirmPassword, Values{FieldPassword: "secret1", FieldConfirmPassword: "secret2"}, KindMismatch, MessagePasswordMismatch},
		{"camel confirm mismatch", FieldConfirmPasswordCamel, Values{FieldPassword: "secret1", FieldConfirmPasswordCamel: ""}, KindMismatch, MessagePasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violation, failed := Check(tt.field, tt.values)
			if !failed {
				t.Fatalf("Check(%q) passed, want %s", tt.field, tt.wantKind)
			}
			if violation.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", violation.Kind, tt.wantKind)
			}
			if violation.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", violation.Message, tt.wantMsg)
			}
			if violation.Field != tt.field {
				t.Errorf("Field = %q, want %q", violation.Field, tt.field)
			}
		})
	}
}

func TestCheck_Passes(t *testing.T) {
	tests := []struct {
		field  string
		values Values
	}{
		{FieldUsername, Values{FieldUsername: "abc"}},
		{FieldUsername, Values{FieldUsername: "Alice"}},
		{FieldEmail, Values{FieldEmail: "a@b"}},
		{FieldEmail, Values{FieldEmail: "@"}},
		{FieldPassword, Values{FieldPassword: "123456"}},
		{FieldConfirmPassword, Values{FieldPassword: "", FieldConfirmPassword: ""}},
		{FieldConfirmPasswordCamel, Values{FieldPassword: "secret1", FieldConfirmPasswordCamel: "secret1"}},
		{"age", Values{"age": "not checked"}},
	}

	for _, tt := range tests {
		if violation, failed := Check(tt.field, tt.values); failed {
			t.Errorf("Check(%q, %v) = %+v, want pass", tt.field, tt.values, violation)
		}
	}
}

func TestCheck_LengthCountsCharacters(t *testing.T) {
	// Six multi-byte characters satisfy the password minimum even though
	// a byte count would be larger; five do not.
	if _, failed := Check(FieldPassword, Values{FieldPassword: "ääääää"}); failed {
		t.Error("six-character password rejected")
	}
	if _, failed := Check(FieldPassword, Values{FieldPassword: "äääää"}); !failed {
		t.Error("five-character password accepted")
	}
}

// samples covers the boundaries of every rule.
var samples = []string{
	"", "a", "ab", "abc", "abc1", "a b", "ABCdef", "@", "x@y", "no-at-sign",
	"12345", "123456", "secret1", "  spaced  ", "ünïcode", "\t",
}

func TestForm_ContainsExactlyFailingFields(t *testing.T) {
	fields := []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword}
	for _, username := range samples {
		for _, password := range samples {
			values := Values{
				FieldUsername:        username,
				FieldEmail:           username,
				FieldPassword:        password,
				FieldConfirmPassword: username,
			}
			errors := Form(values, fields...)
			for _, field := range fields {
				_, failed := Check(field, values)
				message, present := errors[field]
				if failed != present {
					t.Fatalf("values %v: field %q failed=%v but present=%v", values, field, failed, present)
				}
				if present && message == "" {
					t.Fatalf("values %v: field %q present with empty message", values, field)
				}
			}
			if errors.Valid() != (len(errors) == 0) {
				t.Fatalf("values %v: Valid()=%v with %d entries", values, errors.Valid(), len(errors))
			}
		}
	}
}

func TestForm_Deterministic(t *testing.T) {
	values := Values{FieldUsername: "a1", FieldEmail: "nope", FieldPassword: "123", FieldConfirmPassword: "x"}
	fields := []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword}

	first := Form(values, fields...)
	second := Form(values, fields...)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for field, message := range first {
		if second[field] != message {
			t.Errorf("field %q: %q vs %q", field, message, second[field])
		}
	}
}

func TestField_AgreesWithForm(t *testing.T) {
	fields := []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword}
	for _, sample := range samples {
		values := Values{
			FieldUsername:        sample,
			FieldEmail:           sample,
			FieldPassword:        sample,
			FieldConfirmPassword: "secret1",
		}
		whole := Form(values, fields...)
		for _, field := range fields {
			single := Field(nil, values, field)
			if single[field] != whole[field] {
				t.Errorf("sample %q field %q: Field=%q Form=%q", sample, field, single[field], whole[field])
			}
		}
	}
}

func TestField_LeavesOtherEntries(t *testing.T) {
	errors := FieldErrors{FieldEmail: MessageEmailMissingAt}
	values := Values{FieldUsername: "ab", FieldEmail: "still wrong"}

	errors = Field(errors, values, FieldUsername)
	if errors[FieldUsername] != MessageUsernameTooShort {
		t.Errorf("username = %q, want %q", errors[FieldUsername], MessageUsernameTooShort)
	}
	if errors[FieldEmail] != MessageEmailMissingAt {
		t.Errorf("email entry changed to %q", errors[FieldEmail])
	}

	values[FieldUsername] = "alice"
	errors = Field(errors, values, FieldUsername)
	if _, present := errors[FieldUsername]; present {
		t.Errorf("username still present after fix: %q", errors[FieldUsername])
	}
}

func TestClear(t *testing.T) {
	errors := FieldErrors{FieldEmail: MessageEmailMissingAt, FieldPassword: MessagePasswordTooShort}

	Clear(errors, FieldEmail)
	if errors.Message(FieldEmail) != "" {
		t.Errorf("email message = %q after Clear", errors.Message(FieldEmail))
	}
	if errors.Message(FieldPassword) != MessagePasswordTooShort {
		t.Errorf("password message changed to %q", errors.Message(FieldPassword))
	}

	// Clearing an absent field does not add a key.
	Clear(errors, FieldUsername)
	if _, present := errors[FieldUsername]; present {
		t.Error("Clear added a key for an absent field")
	}

	Clear(errors, FieldPassword)
	if !errors.Valid() {
		t.Errorf("Valid() = false with only cleared entries: %v", errors)
	}

	// A nil map is a no-op.
	Clear(nil, FieldEmail)
}

func TestFieldErrors_Fields(t *testing.T) {
	errors := FieldErrors{
		"zeta":               "z",
		FieldConfirmPassword: MessagePasswordMismatch,
		FieldUsername:        MessageUsernameTooShort,
		"age":                "a",
		FieldEmail:           "",
	}
	got := strings.Join(errors.Fields(), ",")
	want := "username,confirm_password,age,zeta"
	if got != want {
		t.Errorf("Fields() = %s, want %s", got, want)
	}
}

func TestFieldErrors_Error(t *testing.T) {
	errors := FieldErrors{FieldEmail: MessageEmailMissingAt, FieldUsername: MessageUsernameTooShort}
	want := "username: " + MessageUsernameTooShort + "; email: " + MessageEmailMissingAt
	if got := errors.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestResetToken(t *testing.T) {
	if err := ResetToken(""); !errors.Is(err, ErrMissingResetToken) {
		t.Errorf("ResetToken(\"\") = %v, want ErrMissingResetToken", err)
	}
	if ErrMissingResetToken.Error() != "Invalid or missing reset token." {
		t.Errorf("message = %q", ErrMissingResetToken.Error())
	}
	if err := ResetToken("abc123"); err != nil {
		t.Errorf("ResetToken(token) = %v", err)
	}
}

func TestHasRules(t *testing.T) {
	for _, field := range []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword, FieldConfirmPasswordCamel} {
		if !HasRules(field) {
			t.Errorf("HasRules(%q) = false", field)
		}
	}
	if HasRules("address") {
		t.Error("HasRules(address) = true")
	}
}
