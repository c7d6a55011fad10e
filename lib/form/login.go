// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/portal/lib/session"
	"github.com/bureau-foundation/portal/lib/validate"
)

// Login is the sign-in form. It only checks that both fields are
// filled; the server judges the credentials.
type Login struct {
	fields
	client   AccountClient
	sessions *session.Manager
}

// NewLogin returns an empty login form that persists successful logins
// through sessions.
func NewLogin(client AccountClient, sessions *session.Manager) *Login {
	form := &Login{client: client, sessions: sessions}
	form.init(false, validate.FieldEmail, validate.FieldPassword)
	return form
}

// Submit exchanges the credentials for a session and stores it. Nothing
// is written unless the server accepts the login.
func (l *Login) Submit(ctx context.Context) (*session.Session, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()

	l.mu.Lock()
	l.errors = validate.FieldErrors{}
	l.banner = Banner{}
	email, password := l.values[validate.FieldEmail], l.values[validate.FieldPassword]
	l.mu.Unlock()

	if email == "" || password == "" {
		l.setBanner(BannerError, MessageFillAllFields)
		return nil, fmt.Errorf("%w: %s", ErrInvalid, MessageFillAllFields)
	}

	buffers, err := passwords(validate.Values{validate.FieldPassword: password}, validate.FieldPassword)
	if err != nil {
		l.failRequest(err, FallbackLogin)
		return nil, err
	}
	defer closeAll(buffers)

	response, err := l.client.Login(ctx, email, buffers[0])
	if err != nil {
		l.failRequest(err, FallbackLogin)
		return nil, err
	}

	if err := l.sessions.Establish(ctx, response.AccessToken, response.User); err != nil {
		l.setBanner(BannerError, MessageSessionFailed)
		return nil, err
	}

	l.Clear()
	return &session.Session{Token: response.AccessToken, User: response.User}, nil
}
