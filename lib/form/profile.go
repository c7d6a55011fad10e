// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/session"
	"github.com/bureau-foundation/portal/lib/validate"
)

// Profile field names.
const (
	FieldAddress = "address"
	FieldGender  = "gender"
	FieldAge     = "age"
)

// Profile shows the signed-in user's record and edits its optional
// fields. Username and email are read-only.
type Profile struct {
	fields
	client   AccountClient
	sessions *session.Manager

	userMu  sync.Mutex
	user    *account.UserRecord
	editing bool
}

// NewProfile returns a profile controller. Call Load before rendering.
func NewProfile(client AccountClient, sessions *session.Manager) *Profile {
	form := &Profile{client: client, sessions: sessions}
	form.init(false, FieldAddress, FieldGender, FieldAge)
	return form
}

// Load reads the stored session. Without one it returns an error
// matching [session.ErrAnonymous] and the caller should show login.
func (p *Profile) Load(ctx context.Context) (account.UserRecord, error) {
	current, err := p.sessions.Require(ctx)
	if err != nil {
		return account.UserRecord{}, err
	}
	p.userMu.Lock()
	p.user = &current.User
	p.userMu.Unlock()
	return current.User, nil
}

// User returns the record last loaded or saved, and false before Load.
func (p *Profile) User() (account.UserRecord, bool) {
	p.userMu.Lock()
	defer p.userMu.Unlock()
	if p.user == nil {
		return account.UserRecord{}, false
	}
	return *p.user, true
}

// Editing reports whether the edit fields are showing.
func (p *Profile) Editing() bool {
	p.userMu.Lock()
	defer p.userMu.Unlock()
	return p.editing
}

// StartEdit enters edit mode with the fields prefilled from the loaded
// record.
func (p *Profile) StartEdit() error {
	user, ok := p.User()
	if !ok {
		return session.ErrAnonymous
	}

	p.mu.Lock()
	p.clearLocked()
	if user.Address != nil {
		p.values[FieldAddress] = *user.Address
	}
	if user.Gender != nil {
		p.values[FieldGender] = *user.Gender
	}
	if user.Age != nil {
		p.values[FieldAge] = strconv.Itoa(*user.Age)
	}
	p.mu.Unlock()

	p.userMu.Lock()
	p.editing = true
	p.userMu.Unlock()
	return nil
}

// CancelEdit leaves edit mode and discards the edits.
func (p *Profile) CancelEdit() {
	p.Clear()
	p.userMu.Lock()
	p.editing = false
	p.userMu.Unlock()
}

// Submit sends the edited fields. On success the stored user record is
// replaced with the server's copy, edit mode ends, and the banner reads
// [MessageProfileUpdated].
func (p *Profile) Submit(ctx context.Context) (*account.UserRecord, error) {
	user, ok := p.User()
	if !ok {
		return nil, session.ErrAnonymous
	}
	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.end()

	update, err := p.buildUpdate(user.Email)
	if err != nil {
		return nil, err
	}

	response, err := p.client.UpdateProfile(ctx, update)
	if err != nil {
		p.failRequest(err, FallbackProfile)
		return nil, err
	}

	if err := p.sessions.ReplaceUser(ctx, response.User); err != nil {
		p.setBanner(BannerError, MessageSessionFailed)
		return nil, err
	}

	updated := response.User
	p.userMu.Lock()
	p.user = &updated
	p.editing = false
	p.userMu.Unlock()

	p.mu.Lock()
	p.clearLocked()
	p.banner = Banner{Kind: BannerSuccess, Text: MessageProfileUpdated}
	p.mu.Unlock()
	return &updated, nil
}

// buildUpdate checks the edit fields and converts them to a request.
func (p *Profile) buildUpdate(email string) (account.ProfileUpdate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.banner = Banner{}
	p.errors = validate.FieldErrors{}
	update := account.ProfileUpdate{
		Email:   email,
		Address: p.values[FieldAddress],
		Gender:  p.values[FieldGender],
	}

	if !slices.Contains(account.Genders, update.Gender) {
		p.errors[FieldGender] = MessageGenderInvalid
	}
	if age, err := parseAge(p.values[FieldAge]); err != nil {
		p.errors[FieldAge] = MessageAgeNotNumber
	} else {
		update.Age = age
	}

	if !p.errors.Valid() {
		return account.ProfileUpdate{}, fmt.Errorf("%w: %s", ErrInvalid, p.errors.Error())
	}
	return update, nil
}

// parseAge maps a blank field to nil and anything else to a
// non-negative integer.
func parseAge(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	if age < 0 {
		return nil, fmt.Errorf("negative age %d", age)
	}
	return &age, nil
}
