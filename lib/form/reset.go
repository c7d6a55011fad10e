// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/validate"
)

// ResetPassword sets a new password using the token from a reset link.
// Without a token the form cannot be submitted at all.
type ResetPassword struct {
	fields
	client AccountClient
	token  string

	redirect bool
}

// NewResetPassword returns a reset form for token. An empty token
// leaves the form permanently disabled with [validate.ErrMissingResetToken].
func NewResetPassword(client AccountClient, token string) *ResetPassword {
	form := &ResetPassword{client: client, token: token}
	form.init(true, validate.FieldPassword, validate.FieldConfirmPasswordCamel)
	return form
}

// TokenError returns the non-field error for a missing token, or "".
func (r *ResetPassword) TokenError() string {
	if err := validate.ResetToken(r.token); err != nil {
		return err.Error()
	}
	return ""
}

// CanSubmit reports whether the submit action should be enabled.
func (r *ResetPassword) CanSubmit() bool {
	return r.TokenError() == "" && !r.InFlight()
}

// Redirect reports whether a successful reset has asked the caller to
// move to the login screen.
func (r *ResetPassword) Redirect() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redirect
}

// Submit validates the new password and sends it with the token. On
// success the banner reads the server's message followed by
// [MessageRedirectingLogin] and Redirect becomes true.
func (r *ResetPassword) Submit(ctx context.Context) (*account.ResetPasswordResponse, error) {
	if err := validate.ResetToken(r.token); err != nil {
		return nil, err
	}
	if err := r.begin(); err != nil {
		return nil, err
	}
	defer r.end()

	if err := r.validateAll(r.names...); err != nil {
		return nil, err
	}
	values := r.snapshot()

	buffers, err := passwords(values, validate.FieldPassword)
	if err != nil {
		r.failRequest(err, FallbackResetPassword)
		return nil, err
	}
	defer closeAll(buffers)

	response, err := r.client.ResetPassword(ctx, r.token, buffers[0])
	if err != nil {
		r.failRequest(err, FallbackResetPassword)
		return nil, err
	}

	r.mu.Lock()
	r.errors = validate.FieldErrors{}
	r.banner = Banner{Kind: BannerSuccess, Text: response.Message + MessageRedirectingLogin}
	r.redirect = true
	r.mu.Unlock()
	return response, nil
}

// TokenFromLink extracts the token query parameter from a reset link.
// A bare token (no "?" or scheme) is returned unchanged.
func TokenFromLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "?") && !strings.Contains(link, "://") {
		if link == "" {
			return "", validate.ErrMissingResetToken
		}
		return link, nil
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("form: parsing reset link: %w", err)
	}
	token := parsed.Query().Get("token")
	if token == "" {
		return "", validate.ErrMissingResetToken
	}
	return token, nil
}
