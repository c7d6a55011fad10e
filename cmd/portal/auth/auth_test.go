// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/cmd/portal/cli"
	"github.com/bureau-foundation/portal/lib/config"
	"github.com/bureau-foundation/portal/lib/session"
	"github.com/bureau-foundation/portal/lib/testutil"
)

type harness struct {
	api         *testutil.FakeAPI
	sessionFile string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	return &harness{
		api:         testutil.NewFakeAPI(t),
		sessionFile: filepath.Join(t.TempDir(), "session.json"),
	}
}

// run executes the command built by build with the harness's API and
// session file appended to args.
func (h *harness) run(build func(cli.Streams) *cli.Command, stdin string, args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	streams := cli.Streams{In: strings.NewReader(stdin), Out: &h.stdout, Err: &h.stderr}
	args = append(args, "--api-url", h.api.URL, "--session-file", h.sessionFile)
	return build(streams).Execute(context.Background(), args)
}

func (h *harness) loadSession(t *testing.T) (*session.Session, error) {
	t.Helper()
	store, err := session.NewFileStore(h.sessionFile)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	manager := session.NewManager(store, nil)
	defer manager.Close()
	return manager.Load(context.Background())
}

func (h *harness) addUser(t *testing.T) testutil.FakeUser {
	t.Helper()
	user := testutil.FakeUser{
		Username: testutil.UniqueUsername("alice"),
		Email:    testutil.UniqueEmail("alice"),
		Password: "correct-horse",
	}
	h.api.AddUser(user)
	return user
}

func requireCategory(t *testing.T, err error, category cli.ErrorCategory) *cli.ToolError {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v (%T), want *cli.ToolError", err, err)
	}
	if toolErr.Category != category {
		t.Fatalf("category = %s, want %s (error: %v)", toolErr.Category, category, err)
	}
	return toolErr
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != code {
		t.Fatalf("error = %v, want ExitError{%d}", err, code)
	}
}

func TestSignup(t *testing.T) {
	h := newHarness(t)
	username := testutil.UniqueUsername("bob")
	email := testutil.UniqueEmail("bob")

	err := h.run(signupCommand, "hunter22\n", "-u", username, "-e", email, "--password-stdin")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "User registered successfully" {
		t.Errorf("stdout = %q", got)
	}
	user, ok := h.api.User(email)
	if !ok || user.Username != username || user.Password != "hunter22" {
		t.Errorf("server user = %+v, %v", user, ok)
	}
	if _, err := h.loadSession(t); !errors.Is(err, session.ErrAnonymous) {
		t.Errorf("signup created a session: %v", err)
	}
}

func TestSignup_InvalidFieldsSendNothing(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"short username", []string{"-u", "al", "-e", "al@example.com"}, "hunter22\n", "Username must be at least 3 characters"},
		{"digits in username", []string{"-u", "alice1", "-e", "al@example.com"}, "hunter22\n", "Username must contain only letters"},
		{"email without at", []string{"-u", "alice", "-e", "alice.example.com"}, "hunter22\n", "Enter a valid email"},
		{"short password", []string{"-u", "alice", "-e", "alice@example.com"}, "short\n", "Password must be at least 6 characters"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			err := h.run(signupCommand, test.stdin, append(test.args, "--password-stdin")...)
			requireCategory(t, err, cli.CategoryValidation)
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %q, want containing %q", err.Error(), test.want)
			}
			if h.api.TotalCalls() != 0 {
				t.Errorf("sent %d requests for invalid input", h.api.TotalCalls())
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	existing := h.addUser(t)

	err := h.run(signupCommand, "hunter22\n", "-u", "carol", "-e", existing.Email, "--password-stdin")
	requireCategory(t, err, cli.CategoryValidation)
	if err.Error() != "Email already registered" {
		t.Errorf("error = %q, want the server detail", err.Error())
	}
}

func TestSignup_JSON(t *testing.T) {
	h := newHarness(t)
	email := testutil.UniqueEmail("dave")

	if err := h.run(signupCommand, "hunter22\n", "-u", "dave", "-e", email, "--password-stdin", "--json"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	var result signupResult
	if err := json.Unmarshal(h.stdout.Bytes(), &result); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if result.Email != email || result.Username != "dave" || result.Message == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t)

	if err := h.run(loginCommand, user.Password+"\n", "-e", user.Email, "--password-stdin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Logged in as "+user.Username) {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	current, err := h.loadSession(t)
	if err != nil {
		t.Fatalf("session after login: %v", err)
	}
	if current.User.Email != user.Email || current.Token == "" {
		t.Errorf("stored session = %+v", current)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		override *testutil.FakeResponse
		category cli.ErrorCategory
		want     string
	}{
		{
			name:     "missing email",
			args:     []string{"--password-stdin"},
			stdin:    "whatever\n",
			category: cli.CategoryValidation,
			want:     "--email is required",
		},
		{
			name:     "wrong password",
			args:     []string{"-e", "EMAIL", "--password-stdin"},
			stdin:    "wrong-password\n",
			category: cli.CategoryForbidden,
			want:     "Invalid password",
		},
		{
			name:     "server detail verbatim",
			args:     []string{"-e", "EMAIL", "--password-stdin"},
			stdin:    "correct-horse\n",
			override: &testutil.FakeResponse{Status: http.StatusUnauthorized, Body: `{"detail":"Invalid credentials"}`},
			category: cli.CategoryForbidden,
			want:     "Invalid credentials",
		},
		{
			name:     "server error without body",
			args:     []string{"-e", "EMAIL", "--password-stdin"},
			stdin:    "correct-horse\n",
			override: &testutil.FakeResponse{Status: http.StatusInternalServerError, Body: `{}`},
			category: cli.CategoryInternal,
			want:     "Login failed",
		},
		{
			name:     "unauthorized with string body",
			args:     []string{"-e", "EMAIL", "--password-stdin"},
			stdin:    "correct-horse\n",
			override: &testutil.FakeResponse{Status: http.StatusUnauthorized, Body: `"Unauthorized"`},
			category: cli.CategoryForbidden,
			want:     "Login failed",
		},
		{
			name:     "malformed response",
			args:     []string{"-e", "EMAIL", "--password-stdin"},
			stdin:    "correct-horse\n",
			override: &testutil.FakeResponse{Status: http.StatusOK, Body: `<html>`},
			category: cli.CategoryInternal,
			want:     "Login failed",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			user := h.addUser(t)
			if test.override != nil {
				h.api.Respond(account.PathLogin, *test.override)
			}
			args := make([]string, len(test.args))
			for i, arg := range test.args {
				args[i] = strings.ReplaceAll(arg, "EMAIL", user.Email)
			}

			err := h.run(loginCommand, test.stdin, args...)
			requireCategory(t, err, test.category)
			if !strings.HasPrefix(err.Error(), test.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), test.want)
			}
			if _, err := h.loadSession(t); !errors.Is(err, session.ErrAnonymous) {
				t.Errorf("failed login wrote a session: %v", err)
			}
		})
	}
}

func TestLogin_Unreachable(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	var stdout, stderr bytes.Buffer
	streams := cli.Streams{In: strings.NewReader("correct-horse\n"), Out: &stdout, Err: &stderr}

	err := loginCommand(streams).Execute(context.Background(), []string{
		"-e", "alice@example.com", "--password-stdin",
		"--api-url", "http://127.0.0.1:1",
		"--session-file", filepath.Join(t.TempDir(), "session.json"),
	})
	toolErr := requireCategory(t, err, cli.CategoryTransient)
	if !strings.HasPrefix(err.Error(), "Login failed") {
		t.Errorf("error = %q", err.Error())
	}
	if toolErr.Hint() == "" {
		t.Error("transport failure has no hint")
	}
	if toolErr.ExitCode() != 6 {
		t.Errorf("ExitCode() = %d", toolErr.ExitCode())
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t)

	if err := h.run(logoutCommand, ""); err != nil {
		t.Fatalf("logout while anonymous: %v", err)
	}
	if strings.TrimSpace(h.stdout.String()) != "Not logged in." {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	if err := h.run(loginCommand, user.Password+"\n", "-e", user.Email, "--password-stdin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := h.run(logoutCommand, ""); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if strings.TrimSpace(h.stdout.String()) != "Logged out." {
		t.Errorf("stdout = %q", h.stdout.String())
	}
	if _, err := h.loadSession(t); !errors.Is(err, session.ErrAnonymous) {
		t.Errorf("session after logout: %v", err)
	}
}

func TestForgotPassword(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		h := newHarness(t)
		user := h.addUser(t)

		if err := h.run(forgotPasswordCommand, "", "-e", user.Email); err != nil {
			t.Fatalf("forgot-password: %v", err)
		}
		if !strings.Contains(h.stdout.String(), "Password reset link has been sent") {
			t.Errorf("stdout = %q", h.stdout.String())
		}
	})

	t.Run("not delivered", func(t *testing.T) {
		h := newHarness(t)
		user := h.addUser(t)
		h.api.SetMailFails(true)

		err := h.run(forgotPasswordCommand, "", "-e", user.Email)
		requireExitCode(t, err, 1)
		if !strings.HasPrefix(h.stderr.String(), "warning: There was an issue sending the email") {
			t.Errorf("stderr = %q", h.stderr.String())
		}
		if h.stdout.Len() != 0 {
			t.Errorf("stdout = %q, want nothing", h.stdout.String())
		}
	})

	t.Run("not delivered json", func(t *testing.T) {
		h := newHarness(t)
		user := h.addUser(t)
		h.api.SetMailFails(true)

		err := h.run(forgotPasswordCommand, "", "-e", user.Email, "--json")
		requireExitCode(t, err, 1)
		var result forgotPasswordResult
		if err := json.Unmarshal(h.stdout.Bytes(), &result); err != nil {
			t.Fatalf("decoding %q: %v", h.stdout.String(), err)
		}
		if result.Delivered {
			t.Error("delivered = true")
		}
	})

	t.Run("empty email", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(forgotPasswordCommand, "")
		requireCategory(t, err, cli.CategoryValidation)
		if !strings.Contains(err.Error(), "Please enter your email") {
			t.Errorf("error = %q", err.Error())
		}
		if h.api.TotalCalls() != 0 {
			t.Error("request sent for empty email")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		h := newHarness(t)

		err := h.run(forgotPasswordCommand, "", "-e", "nobody@example.com")
		requireCategory(t, err, cli.CategoryNotFound)
		if err.Error() != "User not found" {
			t.Errorf("error = %q", err.Error())
		}
	})
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t)
	token := h.api.IssueResetToken(user.Email)
	link := "http://localhost:3000/reset-password?token=" + token

	if err := h.run(resetPasswordCommand, "new-secret\n", link, "--password-stdin"); err != nil {
		t.Fatalf("reset-password: %v", err)
	}
	if strings.TrimSpace(h.stdout.String()) != "Password reset successful" {
		t.Errorf("stdout = %q", h.stdout.String())
	}
	if stored, _ := h.api.User(user.Email); stored.Password != "new-secret" {
		t.Errorf("password = %q, want new-secret", stored.Password)
	}

	// Tokens are single use.
	err := h.run(resetPasswordCommand, "other-secret\n", "--token", token, "--password-stdin")
	requireCategory(t, err, cli.CategoryValidation)
	if err.Error() != "Invalid or expired token" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestResetPassword_MissingToken(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no token", nil},
		{"link without token", []string{"--link", "http://localhost:3000/reset-password"}},
		{"empty token query", []string{"http://localhost:3000/reset-password?token="}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			err := h.run(resetPasswordCommand, "new-secret\n", append(test.args, "--password-stdin")...)
			toolErr := requireCategory(t, err, cli.CategoryValidation)
			if toolErr.Err.Error() != "Invalid or missing reset token." {
				t.Errorf("error = %q", toolErr.Err.Error())
			}
			if toolErr.Hint() == "" {
				t.Error("missing-token error has no hint")
			}
			if h.api.TotalCalls() != 0 {
				t.Error("request sent without a token")
			}
		})
	}
}

func TestResetPassword_ConflictingSources(t *testing.T) {
	h := newHarness(t)
	err := h.run(resetPasswordCommand, "", "--token", "abc", "--link", "http://x/?token=def")
	requireCategory(t, err, cli.CategoryValidation)
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t)

	err := h.run(statusCommand, "")
	requireExitCode(t, err, 1)
	if strings.TrimSpace(h.stdout.String()) != "Not logged in." {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	if err := h.run(loginCommand, user.Password+"\n", "-e", user.Email, "--password-stdin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := h.run(statusCommand, "", "--json"); err != nil {
		t.Fatalf("status: %v", err)
	}
	var result statusResult
	if err := json.Unmarshal(h.stdout.Bytes(), &result); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if result.State != "authenticated" || result.User == nil || result.User.Email != user.Email {
		t.Errorf("result = %+v", result)
	}
	if result.TokenSubject != user.Email {
		t.Errorf("token subject = %q", result.TokenSubject)
	}
	if result.ExpiresAt == nil || result.Expired {
		t.Errorf("expiry = %v, expired = %v", result.ExpiresAt, result.Expired)
	}
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	manager := session.NewManager(store, nil)
	defer manager.Close()
	logger := cli.NewCommandLogger()

	user := account.UserRecord{Username: "alice", Email: "alice@example.com"}
	if err := manager.Establish(ctx, "opaque-token", user); err != nil {
		t.Fatal(err)
	}
	result, err := inspect(ctx, manager, time.Now(), logger)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if result.State != "authenticated" || result.ExpiresAt != nil || result.TokenSubject != "" {
		t.Errorf("opaque token result = %+v", result)
	}

	if err := store.Write(ctx, session.Entries{session.KeyUser: "{"}, nil); err != nil {
		t.Fatal(err)
	}
	result, err = inspect(ctx, manager, time.Now(), logger)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if result.State != "anonymous" || !result.Corrupt {
		t.Errorf("corrupt store result = %+v", result)
	}
}

func TestRequestError(t *testing.T) {
	tests := []struct {
		status   int
		category cli.ErrorCategory
	}{
		{http.StatusBadRequest, cli.CategoryValidation},
		{http.StatusUnprocessableEntity, cli.CategoryValidation},
		{http.StatusUnauthorized, cli.CategoryForbidden},
		{http.StatusForbidden, cli.CategoryForbidden},
		{http.StatusNotFound, cli.CategoryNotFound},
		{http.StatusConflict, cli.CategoryConflict},
		{http.StatusServiceUnavailable, cli.CategoryTransient},
		{http.StatusInternalServerError, cli.CategoryInternal},
	}

	for _, test := range tests {
		err := RequestError(&account.Error{Kind: account.KindRequestFailed, Status: test.status, Detail: "nope"}, "")
		var toolErr *cli.ToolError
		if !errors.As(err, &toolErr) || toolErr.Category != test.category {
			t.Errorf("status %d: error = %#v, want %s", test.status, err, test.category)
			continue
		}
		if err.Error() != "nope" {
			t.Errorf("status %d: message = %q, want the server detail", test.status, err.Error())
		}
	}

	plain := RequestError(errors.New("disk on fire"), "")
	requireCategory(t, plain, cli.CategoryInternal)
	if !strings.HasPrefix(plain.Error(), account.DefaultFallback) {
		t.Errorf("plain error = %q", plain.Error())
	}
}
