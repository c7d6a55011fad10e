// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"errors"
	"net/http"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/form"
	"github.com/bureau-foundation/portal/lib/session"
	"github.com/bureau-foundation/portal/lib/validate"
)

// LoginHint is attached to errors caused by a missing session.
const LoginHint = "Run 'portal login' first."

// submitted is what a form controller shows after a failed Submit.
type submitted interface {
	Errors() validate.FieldErrors
	Banner() form.Banner
}

// SubmitError converts the error from a controller's Submit into a
// categorized error carrying the message the controller displays.
func SubmitError(err error, controller submitted) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, form.ErrInFlight):
		return cli.Conflict("%v", err)
	case errors.Is(err, validate.ErrMissingResetToken):
		return cli.Validation("%v", err).WithHint("Pass --token, or --link with the URL from the reset email.")
	case errors.Is(err, form.ErrInvalid):
		if fieldErrors := controller.Errors(); !fieldErrors.Valid() {
			return cli.Validation("%s", fieldErrors.Error())
		}
		return cli.Validation("%s", controller.Banner().Text)
	case errors.Is(err, session.ErrAnonymous):
		return cli.Forbidden("not logged in").WithHint(LoginHint)
	}
	return RequestError(err, controller.Banner().Text)
}

// RequestError categorizes a failed API call. message is the text shown
// to the user; an empty message falls back to the generic default.
func RequestError(err error, message string) error {
	if message == "" {
		message = account.UserMessage(err, "")
	}

	var accountErr *account.Error
	if !errors.As(err, &accountErr) {
		return cli.Internal("%s: %w", message, err)
	}

	switch accountErr.Kind {
	case account.KindTransportFailure:
		return cli.Transient("%s: %w", message, err).WithHint("Check that the API is running and --api-url is correct.")
	case account.KindMalformedResponse:
		return cli.Internal("%s: %w", message, err)
	}

	switch status := accountErr.Status; {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &cli.ToolError{Category: cli.CategoryForbidden, Err: errors.New(message)}
	case status == http.StatusNotFound:
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: errors.New(message)}
	case status == http.StatusConflict:
		return &cli.ToolError{Category: cli.CategoryConflict, Err: errors.New(message)}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &cli.ToolError{Category: cli.CategoryValidation, Err: errors.New(message)}
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return &cli.ToolError{Category: cli.CategoryTransient, Err: errors.New(message)}
	default:
		return &cli.ToolError{Category: cli.CategoryInternal, Err: errors.New(message)}
	}
}
