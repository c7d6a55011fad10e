// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an [*Error].
type Kind int

const (
	// KindRequestFailed: the server answered with a non-2xx status and a
	// JSON body.
	KindRequestFailed Kind = iota + 1
	// KindMalformedResponse: the response body was not the expected JSON.
	KindMalformedResponse
	// KindTransportFailure: no response was received.
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request_failed"
	case KindMalformedResponse:
		return "malformed_response"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultFallback is used by [UserMessage] when the caller supplies no
// fallback of its own.
const DefaultFallback = "Something went wrong. Try again."

// Error is the single error shape returned by [Client] for anything
// that went wrong with a request. Callers extract it with errors.As:
//
//	var accountErr *account.Error
//	if errors.As(err, &accountErr) && accountErr.Status == http.StatusUnauthorized { ... }
type Error struct {
	Kind Kind
	// Operation names the endpoint, e.g. "login".
	Operation string
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
	// Detail and Message are the server's "detail" and "message" fields.
	Detail  string
	Message string
	// RequestID is the X-Request-ID sent with the request.
	RequestID string
	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *Error) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "account: %s: %s", e.Operation, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&builder, " (%d)", e.Status)
	}
	switch {
	case e.Detail != "":
		builder.WriteString(": " + e.Detail)
	case e.Message != "":
		builder.WriteString(": " + e.Message)
	case e.Err != nil:
		builder.WriteString(": " + e.Err.Error())
	}
	return builder.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an [*Error] of the given kind.
func IsKind(err error, kind Kind) bool {
	var accountErr *Error
	if errors.As(err, &accountErr) {
		return accountErr.Kind == kind
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var accountErr *Error
	if errors.As(err, &accountErr) {
		return accountErr.Status
	}
	return 0
}

// UserMessage returns the text to show a person for err: the server's
// detail, then its message, then fallback. Transport and malformed
// failures always produce fallback. The result is never empty.
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultFallback
	}
	var accountErr *Error
	if !errors.As(err, &accountErr) || accountErr.Kind != KindRequestFailed {
		return fallback
	}
	if accountErr.Detail != "" {
		return accountErr.Detail
	}
	if accountErr.Message != "" {
		return accountErr.Message
	}
	return fallback
}

// parseErrorBody extracts detail and message from a JSON error body.
// detail is usually a string, but request validation failures report a
// list of {loc, msg, type} objects instead. Bodies that are not objects,
// and message values that are not strings, yield "".
func parseErrorBody(body []byte) (detail, message string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", ""
	}
	if raw, ok := fields["message"]; ok {
		if err := json.Unmarshal(raw, &message); err != nil {
			message = ""
		}
	}
	return detailText(fields["detail"]), message
}

type validationIssue struct {
	Message string `json:"msg"`
}

// detailText flattens the detail field into one line. Unknown shapes
// yield "".
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var issues []validationIssue
	if err := json.Unmarshal(raw, &issues); err == nil {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Message != "" {
				messages = append(messages, issue.Message)
			}
		}
		return strings.Join(messages, "; ")
	}
	return ""
}
