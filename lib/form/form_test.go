// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/session"
	"github.com/bureau-foundation/portal/lib/testutil"
	"github.com/bureau-foundation/portal/lib/validate"
)

func newClient(t *testing.T, api *testutil.FakeAPI) *account.Client {
	t.Helper()
	client, err := account.NewClient(account.ClientConfig{BaseURL: api.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	manager := session.NewManager(store, nil)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func stringPointer(value string) *string { return &value }

func TestSignup_InvalidInputSendsNothing(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	form := NewSignup(newClient(t, api))

	form.Set(validate.FieldUsername, "al")
	form.Set(validate.FieldEmail, "alice.example.com")
	form.Set(validate.FieldPassword, "short")
	form.Set(validate.FieldConfirmPassword, "different")

	_, err := form.Submit(context.Background())
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Submit error = %v, want ErrInvalid", err)
	}
	if api.TotalCalls() != 0 {
		t.Errorf("invalid form sent %d requests", api.TotalCalls())
	}

	want := map[string]string{
		validate.FieldUsername:        validate.MessageUsernameTooShort,
		validate.FieldEmail:           validate.MessageEmailMissingAt,
		validate.FieldPassword:        validate.MessagePasswordTooShort,
		validate.FieldConfirmPassword: validate.MessagePasswordMismatch,
	}
	for field, message := range want {
		if got := form.Error(field); got != message {
			t.Errorf("Error(%s) = %q, want %q", field, got, message)
		}
	}

	// Editing a field clears only its own error.
	form.Set(validate.FieldUsername, "alice")
	if form.Error(validate.FieldUsername) != "" {
		t.Error("editing username did not clear its error")
	}
	if form.Error(validate.FieldEmail) == "" {
		t.Error("editing username cleared the email error")
	}
}

func TestSignup_Blur(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	form := NewSignup(newClient(t, api))

	form.Set(validate.FieldUsername, "alice bob")
	form.Blur(validate.FieldUsername)
	if got := form.Error(validate.FieldUsername); got != validate.MessageUsernameInvalidChars {
		t.Errorf("after blur, username error = %q", got)
	}

	form.Set(validate.FieldUsername, "alicebob")
	form.Blur(validate.FieldUsername)
	if got := form.Error(validate.FieldUsername); got != "" {
		t.Errorf("valid username still shows %q", got)
	}
	if api.TotalCalls() != 0 {
		t.Error("blur sent a request")
	}
}

func TestSignup_Success(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	form := NewSignup(newClient(t, api))
	email := testutil.UniqueEmail("alice")

	form.Set(validate.FieldUsername, testutil.UniqueUsername("alice"))
	form.Set(validate.FieldEmail, email)
	form.Set(validate.FieldPassword, "secret123")
	form.Set(validate.FieldConfirmPassword, "secret123")

	response, err := form.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if response.Message != "User registered successfully" {
		t.Errorf("message = %q", response.Message)
	}
	banner := form.Banner()
	if banner.Kind != BannerSuccess || banner.Text != "User registered successfully" {
		t.Errorf("banner = %+v", banner)
	}
	for _, field := range form.Fields() {
		if form.Value(field) != "" {
			t.Errorf("field %s not cleared after signup", field)
		}
	}
	if _, ok := api.User(email); !ok {
		t.Error("account was not created")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	email := testutil.UniqueEmail("taken")
	api.AddUser(testutil.FakeUser{Username: "taken", Email: email, Password: "secret123"})
	form := NewSignup(newClient(t, api))

	form.Set(validate.FieldUsername, "someone")
	form.Set(validate.FieldEmail, email)
	form.Set(validate.FieldPassword, "secret123")
	form.Set(validate.FieldConfirmPassword, "secret123")

	if _, err := form.Submit(context.Background()); !account.IsKind(err, account.KindRequestFailed) {
		t.Fatalf("Submit error = %v, want request_failed", err)
	}
	banner := form.Banner()
	if banner.Kind != BannerError || banner.Text != "Email already registered" {
		t.Errorf("banner = %+v", banner)
	}
	// Values stay so the user can correct them.
	if form.Value(validate.FieldEmail) != email {
		t.Error("failed signup cleared the email")
	}
}

func TestSignup_UnreadableErrorUsesFallback(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Respond("/auth/signup", testutil.FakeResponse{Status: 500, Body: `{"oops":true}`})
	form := NewSignup(newClient(t, api))

	form.Set(validate.FieldUsername, "someone")
	form.Set(validate.FieldEmail, "someone@example.com")
	form.Set(validate.FieldPassword, "secret123")
	form.Set(validate.FieldConfirmPassword, "secret123")

	if _, err := form.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded against a 500")
	}
	if got := form.Banner().Text; got != FallbackSignup {
		t.Errorf("banner = %q, want %q", got, FallbackSignup)
	}
}

func TestLogin(t *testing.T) {
	email := testutil.UniqueEmail("bob")
	user := testutil.FakeUser{Username: "bob", Email: email, Password: "hunter22", Address: stringPointer("1 Main St")}

	tests := []struct {
		name       string
		email      string
		password   string
		wantBanner string
		wantCalls  int
		wantState  session.State
	}{
		{
			name:       "empty password",
			email:      email,
			wantBanner: MessageFillAllFields,
			wantState:  session.Anonymous,
		},
		{
			name:       "empty email",
			password:   "hunter22",
			wantBanner: MessageFillAllFields,
			wantState:  session.Anonymous,
		},
		{
			name:       "unknown email",
			email:      "nobody@example.com",
			password:   "hunter22",
			wantBanner: "Invalid email",
			wantCalls:  1,
			wantState:  session.Anonymous,
		},
		{
			name:       "wrong password",
			email:      email,
			password:   "wrong-password",
			wantBanner: "Invalid password",
			wantCalls:  1,
			wantState:  session.Anonymous,
		},
		{
			name:      "success",
			email:     email,
			password:  "hunter22",
			wantCalls: 1,
			wantState: session.Authenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.AddUser(user)
			sessions := newSessions(t)
			form := NewLogin(newClient(t, api), sessions)

			form.Set(validate.FieldEmail, tt.email)
			form.Set(validate.FieldPassword, tt.password)
			current, err := form.Submit(context.Background())

			if got := form.Banner().Text; got != tt.wantBanner {
				t.Errorf("banner = %q, want %q", got, tt.wantBanner)
			}
			if got := api.Calls("/auth/login"); got != tt.wantCalls {
				t.Errorf("login calls = %d, want %d", got, tt.wantCalls)
			}
			if got := sessions.State(context.Background()); got != tt.wantState {
				t.Errorf("state = %s, want %s", got, tt.wantState)
			}

			if tt.wantState == session.Anonymous {
				if err == nil {
					t.Fatal("Submit succeeded")
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			stored, err := sessions.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if stored.Token != current.Token || stored.Token == "" {
				t.Errorf("stored token %q, returned %q", stored.Token, current.Token)
			}
			if stored.User.Email != email || stored.User.AddressOrDefault() != "1 Main St" {
				t.Errorf("stored user = %+v", stored.User)
			}
			if stored.User.GenderOrDefault() != account.NotProvided {
				t.Errorf("gender = %q, want %q", stored.User.GenderOrDefault(), account.NotProvided)
			}
		})
	}
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	email := testutil.UniqueEmail("carol")
	api.AddUser(testutil.FakeUser{Username: "carol", Email: email, Password: "hunter22"})
	sessions := newSessions(t)
	if err := sessions.Establish(context.Background(), "existing-token", account.UserRecord{Username: "carol", Email: email}); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	form := NewLogin(newClient(t, api), sessions)
	form.Set(validate.FieldEmail, email)
	form.Set(validate.FieldPassword, "wrong-password")
	if _, err := form.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded with a wrong password")
	}

	stored, err := sessions.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.Token != "existing-token" {
		t.Errorf("token = %q, failed login must not touch the session", stored.Token)
	}
}

func TestLogin_InFlight(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	email := testutil.UniqueEmail("dave")
	api.AddUser(testutil.FakeUser{Username: "dave", Email: email, Password: "hunter22"})
	entered, release := api.Hold("/auth/login")

	form := NewLogin(newClient(t, api), newSessions(t))
	form.Set(validate.FieldEmail, email)
	form.Set(validate.FieldPassword, "hunter22")

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	testutil.RequireClosed(t, entered, 5*time.Second, "login request never reached the server")
	if !form.InFlight() {
		t.Error("InFlight() = false while the request is held")
	}
	if _, err := form.Submit(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Errorf("second Submit error = %v, want ErrInFlight", err)
	}

	release()
	if err := testutil.RequireReceive[error](t, done, 5*time.Second, "first Submit never returned"); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if got := api.Calls("/auth/login"); got != 1 {
		t.Errorf("login calls = %d, want 1", got)
	}
	if form.InFlight() {
		t.Error("InFlight() = true after completion")
	}
}

func TestForgotPassword(t *testing.T) {
	email := testutil.UniqueEmail("erin")

	tests := []struct {
		name       string
		email      string
		mailFails  bool
		wantKind   BannerKind
		wantBanner string
		wantField  string
		wantErr    bool
	}{
		{
			name:      "empty email",
			wantField: MessageEnterEmail,
			wantErr:   true,
		},
		{
			name:       "delivered",
			email:      email,
			wantKind:   BannerSuccess,
			wantBanner: "Password reset link has been sent to your email address. Please check your inbox.",
		},
		{
			name:       "delivery failed",
			email:      email,
			mailFails:  true,
			wantKind:   BannerWarning,
			wantBanner: "There was an issue sending the email. Please try again or contact support.",
		},
		{
			name:       "unknown account",
			email:      "nobody@example.com",
			wantKind:   BannerError,
			wantBanner: "User not found",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.AddUser(testutil.FakeUser{Username: "erin", Email: email, Password: "hunter22"})
			api.SetMailFails(tt.mailFails)
			form := NewForgotPassword(newClient(t, api))

			form.Set(validate.FieldEmail, tt.email)
			_, err := form.Submit(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Submit error = %v, wantErr %t", err, tt.wantErr)
			}
			banner := form.Banner()
			if banner.Kind != tt.wantKind || banner.Text != tt.wantBanner {
				t.Errorf("banner = %+v, want {%d %q}", banner, tt.wantKind, tt.wantBanner)
			}
			if got := form.Error(validate.FieldEmail); got != tt.wantField {
				t.Errorf("email error = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestSuccessWithoutMessage(t *testing.T) {
	t.Run("signup", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.Respond("/auth/signup", testutil.FakeResponse{Status: 200, Body: `{}`})
		form := NewSignup(newClient(t, api))

		form.Set(validate.FieldUsername, "someone")
		form.Set(validate.FieldEmail, "someone@example.com")
		form.Set(validate.FieldPassword, "secret123")
		form.Set(validate.FieldConfirmPassword, "secret123")

		if _, err := form.Submit(context.Background()); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if banner := form.Banner(); banner.Kind != BannerSuccess || banner.Text != MessageSignedUp {
			t.Errorf("banner = %+v, want {%d %q}", banner, BannerSuccess, MessageSignedUp)
		}
	})

	t.Run("forgot password", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.Respond("/auth/forgot-password", testutil.FakeResponse{Status: 200, Body: `{"success":true}`})
		form := NewForgotPassword(newClient(t, api))

		form.Set(validate.FieldEmail, "someone@example.com")
		if _, err := form.Submit(context.Background()); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if banner := form.Banner(); banner.Kind != BannerSuccess || banner.Text != MessageResetSent {
			t.Errorf("banner = %+v, want {%d %q}", banner, BannerSuccess, MessageResetSent)
		}
	})
}

func TestResetPassword_MissingToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	form := NewResetPassword(newClient(t, api), "")

	if form.CanSubmit() {
		t.Error("CanSubmit() = true without a token")
	}
	if got := form.TokenError(); got != validate.MessageMissingResetToken {
		t.Errorf("TokenError() = %q", got)
	}

	form.Set(validate.FieldPassword, "newsecret")
	form.Set(validate.FieldConfirmPasswordCamel, "newsecret")
	if _, err := form.Submit(context.Background()); !errors.Is(err, validate.ErrMissingResetToken) {
		t.Fatalf("Submit error = %v, want ErrMissingResetToken", err)
	}
	if api.TotalCalls() != 0 {
		t.Errorf("sent %d requests without a token", api.TotalCalls())
	}
}

func TestResetPassword_Mismatch(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	form := NewResetPassword(newClient(t, api), "some-token")

	form.Set(validate.FieldPassword, "newsecret")
	form.Set(validate.FieldConfirmPasswordCamel, "newsecreT")
	if _, err := form.Submit(context.Background()); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Submit error = %v, want ErrInvalid", err)
	}
	if got := form.Error(validate.FieldConfirmPasswordCamel); got != validate.MessagePasswordMismatch {
		t.Errorf("confirm error = %q", got)
	}
	if api.TotalCalls() != 0 {
		t.Error("mismatched passwords were sent")
	}
}

func TestResetPassword_Success(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	email := testutil.UniqueEmail("frank")
	api.AddUser(testutil.FakeUser{Username: "frank", Email: email, Password: "oldsecret"})
	token := api.IssueResetToken(email)
	form := NewResetPassword(newClient(t, api), token)

	form.Set(validate.FieldPassword, "newsecret")
	form.Set(validate.FieldConfirmPasswordCamel, "newsecret")
	if _, err := form.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	banner := form.Banner()
	if banner.Kind != BannerSuccess || banner.Text != "Password reset successful"+MessageRedirectingLogin {
		t.Errorf("banner = %+v", banner)
	}
	if !form.Redirect() {
		t.Error("Redirect() = false after success")
	}
	user, _ := api.User(email)
	if user.Password != "newsecret" {
		t.Error("password was not changed")
	}

	// The token is single use.
	second := NewResetPassword(newClient(t, api), token)
	second.Set(validate.FieldPassword, "another")
	second.Set(validate.FieldConfirmPasswordCamel, "another")
	if _, err := second.Submit(context.Background()); err == nil {
		t.Fatal("reused token accepted")
	}
	if got := second.Banner().Text; got != "Invalid or expired token" {
		t.Errorf("banner = %q", got)
	}
	if second.Redirect() {
		t.Error("Redirect() = true after failure")
	}
}

func TestTokenFromLink(t *testing.T) {
	tests := []struct {
		link    string
		want    string
		wantErr bool
	}{
		{link: "http://localhost:5173/reset-password?token=abc.def", want: "abc.def"},
		{link: "/reset-password?token=xyz&other=1", want: "xyz"},
		{link: "  bare-token  ", want: "bare-token"},
		{link: "http://localhost:5173/reset-password", wantErr: true},
		{link: "http://localhost:5173/reset-password?token=", wantErr: true},
		{link: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := TokenFromLink(tt.link)
		if (err != nil) != tt.wantErr {
			t.Errorf("TokenFromLink(%q) error = %v, wantErr %t", tt.link, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("TokenFromLink(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestProfile_RequiresSession(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	form := NewProfile(newClient(t, api), newSessions(t))

	if _, err := form.Load(context.Background()); !errors.Is(err, session.ErrAnonymous) {
		t.Fatalf("Load error = %v, want ErrAnonymous", err)
	}
	if err := form.StartEdit(); !errors.Is(err, session.ErrAnonymous) {
		t.Errorf("StartEdit error = %v, want ErrAnonymous", err)
	}
	if _, err := form.Submit(context.Background()); !errors.Is(err, session.ErrAnonymous) {
		t.Errorf("Submit error = %v, want ErrAnonymous", err)
	}
}

func signedInProfile(t *testing.T, api *testutil.FakeAPI, user testutil.FakeUser) (*Profile, *session.Manager) {
	t.Helper()
	api.AddUser(user)
	sessions := newSessions(t)
	login := NewLogin(newClient(t, api), sessions)
	login.Set(validate.FieldEmail, user.Email)
	login.Set(validate.FieldPassword, user.Password)
	if _, err := login.Submit(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}
	profile := NewProfile(newClient(t, api), sessions)
	if _, err := profile.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return profile, sessions
}

func TestProfile_Update(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	email := testutil.UniqueEmail("grace")
	profile, sessions := signedInProfile(t, api, testutil.FakeUser{
		Username: "grace", Email: email, Password: "hunter22", Gender: stringPointer("Female"),
	})
	before, _ := sessions.Load(context.Background())

	if err := profile.StartEdit(); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if !profile.Editing() {
		t.Fatal("Editing() = false after StartEdit")
	}
	if got := profile.Value(FieldGender); got != "Female" {
		t.Errorf("gender prefill = %q", got)
	}

	profile.Set(FieldAddress, "42 Elm St")
	profile.Set(FieldAge, "37")
	updated, err := profile.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if updated.AddressOrDefault() != "42 Elm St" || updated.AgeOrDefault() != "37" {
		t.Errorf("updated = %+v", updated)
	}
	if profile.Editing() {
		t.Error("still editing after success")
	}
	if banner := profile.Banner(); banner.Kind != BannerSuccess || banner.Text != MessageProfileUpdated {
		t.Errorf("banner = %+v", banner)
	}

	after, err := sessions.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if after.Token != before.Token {
		t.Error("profile update changed the token")
	}
	if after.User.AddressOrDefault() != "42 Elm St" {
		t.Errorf("stored user = %+v", after.User)
	}
}

func TestProfile_InvalidFields(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	profile, _ := signedInProfile(t, api, testutil.FakeUser{
		Username: "heidi", Email: testutil.UniqueEmail("heidi"), Password: "hunter22",
	})
	if err := profile.StartEdit(); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}

	profile.Set(FieldAge, "thirty")
	profile.Set(FieldGender, "Robot")
	if _, err := profile.Submit(context.Background()); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Submit error = %v, want ErrInvalid", err)
	}
	if got := profile.Error(FieldAge); got != MessageAgeNotNumber {
		t.Errorf("age error = %q", got)
	}
	if got := profile.Error(FieldGender); got != MessageGenderInvalid {
		t.Errorf("gender error = %q", got)
	}
	if api.Calls("/auth/profile") != 0 {
		t.Error("invalid profile was sent")
	}
	if !profile.Editing() {
		t.Error("left edit mode on a validation failure")
	}
}

func TestProfile_ServerFailureKeepsStoredUser(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	profile, sessions := signedInProfile(t, api, testutil.FakeUser{
		Username: "ivan", Email: testutil.UniqueEmail("ivan"), Password: "hunter22",
	})
	api.Respond("/auth/profile", testutil.FakeResponse{Status: 404, Body: `{"detail":"User not found"}`})

	if err := profile.StartEdit(); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	profile.Set(FieldAddress, "nowhere")
	if _, err := profile.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded against a 404")
	}
	if got := profile.Banner().Text; got != "User not found" {
		t.Errorf("banner = %q", got)
	}

	stored, _ := sessions.Load(context.Background())
	if stored.User.AddressOrDefault() != account.NotProvided {
		t.Errorf("stored address = %q after a failed update", stored.User.AddressOrDefault())
	}
}

func TestProfile_CancelEdit(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	profile, _ := signedInProfile(t, api, testutil.FakeUser{
		Username: "judy", Email: testutil.UniqueEmail("judy"), Password: "hunter22",
	})
	if err := profile.StartEdit(); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	profile.Set(FieldAddress, "draft")
	profile.CancelEdit()

	if profile.Editing() {
		t.Error("Editing() = true after CancelEdit")
	}
	if profile.Value(FieldAddress) != "" {
		t.Error("CancelEdit kept the draft")
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		input   string
		want    *int
		wantErr bool
	}{
		{input: ""},
		{input: "   "},
		{input: "0", want: intPointer(0)},
		{input: " 42 ", want: intPointer(42)},
		{input: "-1", wantErr: true},
		{input: "4.5", wantErr: true},
		{input: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAge(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAge(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			continue
		}
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseAge(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func intPointer(value int) *int { return &value }
