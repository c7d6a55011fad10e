// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/secret"
	"github.com/bureau-foundation/portal/lib/validate"
)

var (
	// ErrInFlight is returned by Submit while an earlier submission on
	// the same form has not finished.
	ErrInFlight = errors.New("form: submission already in progress")

	// ErrInvalid is returned by Submit when local checks fail. The
	// field errors or banner say why.
	ErrInvalid = errors.New("form: invalid input")
)

// Messages shown when the server gives no usable text.
const (
	FallbackSignup         = "Signup failed"
	FallbackLogin          = "Login failed"
	FallbackForgotPassword = "Something went wrong. Try again."
	FallbackResetPassword  = "Reset failed or token expired"
	FallbackProfile        = "Failed to update profile"
)

// Messages produced locally.
const (
	MessageFillAllFields    = "Please fill in all fields"
	MessageEnterEmail       = "Please enter your email"
	MessageRedirectingLogin = " Redirecting to login..."
	MessageProfileUpdated   = "Profile updated successfully!"
	MessageAgeNotNumber     = "Age must be a whole number"
	MessageGenderInvalid    = "Gender must be Male, Female or Other"
	MessageSessionFailed    = "Signed in, but the session could not be saved"

	// Shown when a successful response carries no message of its own.
	MessageSignedUp  = "Account created"
	MessageResetSent = "Check your inbox for a reset link."
)

// BannerKind classifies a form-level message.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerError
	BannerSuccess
	BannerWarning
)

// Banner is the form-level message under a screen's fields.
type Banner struct {
	Kind BannerKind
	Text string
}

// AccountClient is the subset of *account.Client the forms call.
type AccountClient interface {
	Signup(ctx context.Context, request account.SignupRequest) (*account.SignupResponse, error)
	Login(ctx context.Context, email string, password *secret.Buffer) (*account.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) (*account.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, token string, newPassword *secret.Buffer) (*account.ResetPasswordResponse, error)
	UpdateProfile(ctx context.Context, update account.ProfileUpdate) (*account.ProfileResponse, error)
}

// fields is the state shared by every controller.
type fields struct {
	mu     sync.Mutex
	values validate.Values
	errors validate.FieldErrors
	banner Banner

	// names lists the form's fields in display order.
	names []string
	// blurRules enables rule checks on Blur.
	blurRules bool

	inFlight atomic.Bool
}

func (f *fields) init(blurRules bool, names ...string) {
	f.values = validate.Values{}
	f.errors = validate.FieldErrors{}
	f.names = names
	f.blurRules = blurRules
}

// Fields returns the form's field names in display order.
func (f *fields) Fields() []string {
	return append([]string(nil), f.names...)
}

// Value returns the current contents of field.
func (f *fields) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Set records an edit and clears any error showing for field.
func (f *fields) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	validate.Clear(f.errors, field)
}

// Blur re-validates field after it loses focus. Fields without rules,
// and forms that only validate on submit, are left alone.
func (f *fields) Blur(field string) {
	if !f.blurRules || !validate.HasRules(field) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = validate.Field(f.errors, f.values, field)
}

// Error returns the message showing for field, or "".
func (f *fields) Error(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// Errors returns a copy of every field error.
func (f *fields) Errors() validate.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// Banner returns the current form-level message.
func (f *fields) Banner() Banner {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// ClearBanner removes the form-level message.
func (f *fields) ClearBanner() {
	f.setBanner(BannerNone, "")
}

// InFlight reports whether a submission is pending.
func (f *fields) InFlight() bool {
	return f.inFlight.Load()
}

// Clear empties every value, error and the banner.
func (f *fields) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearLocked()
}

func (f *fields) clearLocked() {
	f.values = validate.Values{}
	f.errors = validate.FieldErrors{}
	f.banner = Banner{}
}

func (f *fields) setBanner(kind BannerKind, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = Banner{Kind: kind, Text: text}
}

// begin claims the in-flight guard. The caller must defer end.
func (f *fields) begin() error {
	if !f.inFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	return nil
}

func (f *fields) end() {
	f.inFlight.Store(false)
}

// snapshot returns a copy of the values for use outside the lock.
func (f *fields) snapshot() validate.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.values)
}

// validateAll replaces the field errors with a full check of names and
// clears the banner. It returns an error matching ErrInvalid when any
// field fails.
func (f *fields) validateAll(names ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = Banner{}
	f.errors = validate.Form(f.values, names...)
	if !f.errors.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalid, maps.Clone(f.errors))
	}
	return nil
}

// failRequest shows the message for a failed API call.
func (f *fields) failRequest(err error, fallback string) {
	f.setBanner(BannerError, account.UserMessage(err, fallback))
}

// passwords moves the named values into secret buffers. The caller must
// close every returned buffer.
func passwords(values validate.Values, names ...string) ([]*secret.Buffer, error) {
	buffers := make([]*secret.Buffer, 0, len(names))
	for _, name := range names {
		buffer, err := secret.NewFromString(values[name])
		if err != nil {
			closeAll(buffers)
			return nil, fmt.Errorf("form: protecting %s: %w", name, err)
		}
		buffers = append(buffers, buffer)
	}
	return buffers, nil
}

func closeAll(buffers []*secret.Buffer) {
	for _, buffer := range buffers {
		buffer.Close()
	}
}
