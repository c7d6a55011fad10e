// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/validate"
)

// Signup is the registration form. Every field is validated on blur and
// again on submit.
type Signup struct {
	fields
	client AccountClient
}

// NewSignup returns an empty signup form.
func NewSignup(client AccountClient) *Signup {
	form := &Signup{client: client}
	form.init(true,
		validate.FieldUsername,
		validate.FieldEmail,
		validate.FieldPassword,
		validate.FieldConfirmPassword,
	)
	return form
}

// Submit validates the form and registers the account. On success the
// server's message becomes the banner and the fields are cleared.
func (s *Signup) Submit(ctx context.Context) (*account.SignupResponse, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := s.validateAll(s.names...); err != nil {
		return nil, err
	}
	values := s.snapshot()

	buffers, err := passwords(values, validate.FieldPassword, validate.FieldConfirmPassword)
	if err != nil {
		s.failRequest(err, FallbackSignup)
		return nil, err
	}
	defer closeAll(buffers)

	response, err := s.client.Signup(ctx, account.SignupRequest{
		Username:        values[validate.FieldUsername],
		Email:           values[validate.FieldEmail],
		Password:        buffers[0],
		ConfirmPassword: buffers[1],
	})
	if err != nil {
		s.failRequest(err, FallbackSignup)
		return nil, err
	}

	message := response.Message
	if message == "" {
		message = MessageSignedUp
	}
	s.mu.Lock()
	s.clearLocked()
	s.banner = Banner{Kind: BannerSuccess, Text: message}
	s.mu.Unlock()
	return response, nil
}
