// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/portal/lib/netutil"
	"github.com/bureau-foundation/portal/lib/secret"
)

// API paths, relative to the base URL.
const (
	PathSignup         = "/auth/signup"
	PathLogin          = "/auth/login"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathProfile        = "/auth/profile"
)

// RequestIDHeader carries a per-request UUID so client and server logs
// can be correlated.
const RequestIDHeader = "X-Request-ID"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the API root (e.g., "http://127.0.0.1:8000").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Timeout bounds each request. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the account API. It holds no session state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient creates a new account API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("account: BaseURL is required")
	}

	// Request URLs are built by concatenating the trimmed base with a
	// fixed path, so only the structure is checked here.
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("account: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("account: BaseURL %q must use http or https", config.BaseURL)
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("account: negative Timeout %s", config.Timeout)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		timeout:    config.Timeout,
		logger:     logger,
	}, nil
}

// BaseURL returns the API root with any trailing slash removed.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Signup registers a new account. The password buffers are read but not
// closed.
func (c *Client) Signup(ctx context.Context, request SignupRequest) (*SignupResponse, error) {
	if request.Password == nil || request.ConfirmPassword == nil {
		return nil, fmt.Errorf("account: password and confirmation are required for signup")
	}

	// Passwords become strings only for the lifetime of the encoded body.
	body := map[string]string{
		"username":         request.Username,
		"email":            request.Email,
		"password":         request.Password.String(),
		"confirm_password": request.ConfirmPassword.String(),
	}

	var response SignupResponse
	if err := c.doRequest(ctx, "signup", http.MethodPost, PathSignup, body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Login exchanges an email and password for an access token and the
// account's profile. The password buffer is read but not closed.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) (*LoginResponse, error) {
	if password == nil {
		return nil, fmt.Errorf("account: password is required for login")
	}

	body := map[string]string{
		"email":    email,
		"password": password.String(),
	}

	var response LoginResponse
	if err := c.doRequest(ctx, "login", http.MethodPost, PathLogin, body, &response); err != nil {
		return nil, err
	}
	if response.AccessToken == "" {
		return nil, &Error{
			Kind:      KindMalformedResponse,
			Operation: "login",
			Status:    http.StatusOK,
			Err:       fmt.Errorf("response has no access_token"),
		}
	}

	c.logger.Info("logged in", "email", response.User.Email)
	return &response, nil
}

// ForgotPassword asks the server to mail a reset link to email. A
// successful return does not guarantee delivery; see
// [ForgotPasswordResponse.Delivered].
func (c *Client) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResponse, error) {
	body := map[string]string{"email": email}

	var response ForgotPasswordResponse
	if err := c.doRequest(ctx, "forgot_password", http.MethodPost, PathForgotPassword, body, &response); err != nil {
		return nil, err
	}
	if !response.Delivered() {
		c.logger.Warn("server reported reset mail not delivered", "error", response.Error)
	}
	return &response, nil
}

// ResetPassword sets a new password using the token from a reset link.
// The token is passed through verbatim.
func (c *Client) ResetPassword(ctx context.Context, token string, newPassword *secret.Buffer) (*ResetPasswordResponse, error) {
	if newPassword == nil {
		return nil, fmt.Errorf("account: new password is required for reset")
	}

	body := map[string]string{
		"token":        token,
		"new_password": newPassword.String(),
	}

	var response ResetPasswordResponse
	if err := c.doRequest(ctx, "reset_password", http.MethodPost, PathResetPassword, body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateProfile replaces the optional profile fields of the account
// identified by update.Email and returns the server's full record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*ProfileResponse, error) {
	// Decode into a pointer so a response without "user" is detectable.
	var decoded struct {
		Message string      `json:"message"`
		User    *UserRecord `json:"user"`
	}
	if err := c.doRequest(ctx, "update_profile", http.MethodPut, PathProfile, update, &decoded); err != nil {
		return nil, err
	}
	if decoded.User == nil {
		return nil, &Error{
			Kind:      KindMalformedResponse,
			Operation: "update_profile",
			Status:    http.StatusOK,
			Err:       fmt.Errorf("response has no user"),
		}
	}
	return &ProfileResponse{Message: decoded.Message, User: *decoded.User}, nil
}

// doRequest performs one JSON request and decodes a 2xx body into
// responseBody. Failures after the body is encoded are returned as
// *Error.
func (c *Client) doRequest(ctx context.Context, operation, method, path string, requestBody, responseBody any) error {
	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("account: failed to encode %s request: %w", operation, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("account: failed to create %s request: %w", operation, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set(RequestIDHeader, requestID)

	fail := func(kind Kind, status int, cause error) *Error {
		return &Error{Kind: kind, Operation: operation, Status: status, RequestID: requestID, Err: cause}
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("account request failed",
			"operation", operation,
			"request_id", requestID,
			"timeout", netutil.IsTimeout(err),
			"error", err,
		)
		return fail(KindTransportFailure, 0, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fail(KindTransportFailure, response.StatusCode, err)
	}

	c.logger.Debug("account request",
		"operation", operation,
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if !json.Valid(body) {
			return fail(KindMalformedResponse, response.StatusCode,
				fmt.Errorf("non-JSON %d response: %s", response.StatusCode, truncate(body)))
		}
		failure := fail(KindRequestFailed, response.StatusCode, nil)
		failure.Detail, failure.Message = parseErrorBody(body)
		return failure
	}

	if err := json.Unmarshal(body, responseBody); err != nil {
		return fail(KindMalformedResponse, response.StatusCode, err)
	}
	return nil
}

// truncate bounds raw bodies quoted in errors.
func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
