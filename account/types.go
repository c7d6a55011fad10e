// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"strconv"

	"github.com/bureau-foundation/portal/lib/secret"
)

// NotProvided is shown in place of an optional profile field the server
// left empty.
const NotProvided = "Not provided"

// Genders lists the accepted values for the profile gender field. The
// empty string clears it.
var Genders = []string{"", "Male", "Female", "Other"}

// UserRecord is the profile the server returns on login and after a
// profile update. Optional fields are nil when the server sent null or
// omitted them. The record is always replaced wholesale, never merged.
type UserRecord struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  *string `json:"address"`
	Gender   *string `json:"gender"`
	Age      *int    `json:"age"`
}

// AddressOrDefault returns the address, or [NotProvided].
func (u UserRecord) AddressOrDefault() string {
	return stringOrDefault(u.Address)
}

// GenderOrDefault returns the gender, or [NotProvided].
func (u UserRecord) GenderOrDefault() string {
	return stringOrDefault(u.Gender)
}

// AgeOrDefault returns the age in decimal, or [NotProvided].
func (u UserRecord) AgeOrDefault() string {
	if u.Age == nil {
		return NotProvided
	}
	return strconv.Itoa(*u.Age)
}

func stringOrDefault(value *string) string {
	if value == nil || *value == "" {
		return NotProvided
	}
	return *value
}

// SignupRequest is the body of POST /auth/signup. The caller keeps
// ownership of the password buffers.
type SignupRequest struct {
	Username        string
	Email           string
	Password        *secret.Buffer
	ConfirmPassword *secret.Buffer
}

// SignupResponse is the success body of POST /auth/signup.
type SignupResponse struct {
	Message string `json:"message"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	User        UserRecord `json:"user"`
}

// ForgotPasswordResponse is the success body of POST
// /auth/forgot-password. The server answers 200 with Success false when
// it found the account but could not deliver the mail.
type ForgotPasswordResponse struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Delivered reports whether the server claims the reset mail went out.
// A response without a success field counts as delivered.
func (r *ForgotPasswordResponse) Delivered() bool {
	return r.Success == nil || *r.Success
}

// ResetPasswordResponse is the success body of POST /auth/reset-password.
type ResetPasswordResponse struct {
	Message string `json:"message"`
}

// ProfileUpdate is the body of PUT /auth/profile. Email identifies the
// account. Age is sent as null when nil.
type ProfileUpdate struct {
	Email   string `json:"email"`
	Address string `json:"address"`
	Gender  string `json:"gender"`
	Age     *int   `json:"age"`
}

// ProfileResponse is the success body of PUT /auth/profile.
type ProfileResponse struct {
	Message string     `json:"message,omitempty"`
	User    UserRecord `json:"user"`
}
