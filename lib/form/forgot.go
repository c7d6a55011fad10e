// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/validate"
)

// ForgotPassword requests a reset link for one email address.
type ForgotPassword struct {
	fields
	client AccountClient
}

// NewForgotPassword returns an empty forgot-password form.
func NewForgotPassword(client AccountClient) *ForgotPassword {
	form := &ForgotPassword{client: client}
	form.init(false, validate.FieldEmail)
	return form
}

// Submit asks the server to mail a reset link. The server's message is
// shown as a success, or as a warning when it reports that delivery
// failed.
func (f *ForgotPassword) Submit(ctx context.Context) (*account.ForgotPasswordResponse, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	f.mu.Lock()
	f.banner = Banner{}
	f.errors = validate.FieldErrors{}
	email := f.values[validate.FieldEmail]
	if email == "" {
		f.errors[validate.FieldEmail] = MessageEnterEmail
	}
	f.mu.Unlock()
	if email == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, MessageEnterEmail)
	}

	response, err := f.client.ForgotPassword(ctx, email)
	if err != nil {
		f.failRequest(err, FallbackForgotPassword)
		return nil, err
	}

	kind := BannerSuccess
	if !response.Delivered() {
		kind = BannerWarning
	}
	message := response.Message
	if message == "" {
		message = MessageResetSent
	}
	f.setBanner(kind, message)
	return response, nil
}
