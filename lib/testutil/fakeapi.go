// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Endpoint paths served by FakeAPI.
const (
	fakeSignupPath         = "/auth/signup"
	fakeLoginPath          = "/auth/login"
	fakeForgotPasswordPath = "/auth/forgot-password"
	fakeResetPasswordPath  = "/auth/reset-password"
	fakeProfilePath        = "/auth/profile"
)

var fakeSigningKey = []byte("fake-api-signing-key")

// FakeUser is an account held by FakeAPI. Optional profile fields are
// nil until set.
type FakeUser struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"-"`
	Address  *string `json:"address"`
	Gender   *string `json:"gender"`
	Age      *int    `json:"age"`
}

// FakeResponse replaces an endpoint's behaviour with a fixed reply.
type FakeResponse struct {
	Status int
	Body   string
}

// FakeAPI is an in-memory account API. Create one with NewFakeAPI; the
// server is closed when the test completes.
type FakeAPI struct {
	// URL is the server's base URL.
	URL string

	mu          sync.Mutex
	mailFails   bool
	users       map[string]*FakeUser
	resetTokens map[string]string
	calls       map[string]int
	overrides   map[string]FakeResponse
	gates       map[string]*fakeGate
}

type fakeGate struct {
	entered     chan struct{}
	release     chan struct{}
	enteredOnce sync.Once
	releaseOnce sync.Once
}

// NewFakeAPI starts a FakeAPI with no users.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	api := &FakeAPI{
		users:       make(map[string]*FakeUser),
		resetTokens: make(map[string]string),
		calls:       make(map[string]int),
		overrides:   make(map[string]FakeResponse),
		gates:       make(map[string]*fakeGate),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+fakeSignupPath, api.wrap(fakeSignupPath, api.signup))
	mux.HandleFunc("POST "+fakeLoginPath, api.wrap(fakeLoginPath, api.login))
	mux.HandleFunc("POST "+fakeForgotPasswordPath, api.wrap(fakeForgotPasswordPath, api.forgotPassword))
	mux.HandleFunc("POST "+fakeResetPasswordPath, api.wrap(fakeResetPasswordPath, api.resetPassword))
	mux.HandleFunc("PUT "+fakeProfilePath, api.wrap(fakeProfilePath, api.updateProfile))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		api.releaseAll()
		server.Close()
	})
	api.URL = server.URL
	return api
}

// AddUser registers an account directly, bypassing signup.
func (f *FakeAPI) AddUser(user FakeUser) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := user
	f.users[user.Email] = &stored
}

// User returns a copy of the account registered under email.
func (f *FakeAPI) User(email string) (FakeUser, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return FakeUser{}, false
	}
	return *user, true
}

// SetMailFails makes forgot-password report a delivery failure.
func (f *FakeAPI) SetMailFails(fails bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mailFails = fails
}

// Calls returns how many requests reached path.
func (f *FakeAPI) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// TotalCalls returns the number of requests across all endpoints.
func (f *FakeAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, count := range f.calls {
		total += count
	}
	return total
}

// Respond makes every later request to path return response.
func (f *FakeAPI) Respond(path string, response FakeResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[path] = response
}

// Hold makes the next requests to path wait until release is called.
// entered is closed when the first held request arrives.
func (f *FakeAPI) Hold(path string) (entered <-chan struct{}, release func()) {
	gate := &fakeGate{entered: make(chan struct{}), release: make(chan struct{})}
	f.mu.Lock()
	f.gates[path] = gate
	f.mu.Unlock()
	return gate.entered, func() {
		f.mu.Lock()
		delete(f.gates, path)
		f.mu.Unlock()
		gate.open()
	}
}

func (g *fakeGate) open() {
	g.releaseOnce.Do(func() { close(g.release) })
}

func (f *FakeAPI) releaseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, gate := range f.gates {
		gate.open()
	}
}

// IssueResetToken returns a reset token for email as the reset mail
// would carry it.
func (f *FakeAPI) IssueResetToken(email string) string {
	token := f.signToken(email, 10*time.Minute)
	f.mu.Lock()
	f.resetTokens[token] = email
	f.mu.Unlock()
	return token
}

func (f *FakeAPI) signToken(email string, lifetime time.Duration) string {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(lifetime).Unix(),
		"jti": UniqueID("token"),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(fakeSigningKey)
	if err != nil {
		panic("testutil: signing token: " + err.Error())
	}
	return token
}

type fakeHandler func(request *http.Request) (int, any)

func (f *FakeAPI) wrap(path string, handler fakeHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		f.mu.Lock()
		f.calls[path]++
		gate := f.gates[path]
		override, overridden := f.overrides[path]
		f.mu.Unlock()

		if gate != nil {
			gate.enteredOnce.Do(func() { close(gate.entered) })
			select {
			case <-gate.release:
			case <-request.Context().Done():
				return
			}
		}

		writer.Header().Set("Content-Type", "application/json")
		if overridden {
			writer.WriteHeader(override.Status)
			writer.Write([]byte(override.Body))
			return
		}

		status, body := handler(request)
		writer.WriteHeader(status)
		json.NewEncoder(writer).Encode(body)
	}
}

func detail(message string) map[string]string {
	return map[string]string{"detail": message}
}

func (f *FakeAPI) signup(request *http.Request) (int, any) {
	var body struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		return http.StatusUnprocessableEntity, detail("invalid body")
	}
	if body.Password != body.ConfirmPassword {
		return http.StatusBadRequest, detail("Passwords do not match")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[body.Email]; exists {
		return http.StatusBadRequest, detail("Email already registered")
	}
	f.users[body.Email] = &FakeUser{Username: body.Username, Email: body.Email, Password: body.Password}
	return http.StatusOK, map[string]string{"message": "User registered successfully"}
}

func (f *FakeAPI) login(request *http.Request) (int, any) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		return http.StatusUnprocessableEntity, detail("invalid body")
	}

	f.mu.Lock()
	user, exists := f.users[body.Email]
	var snapshot FakeUser
	if exists {
		snapshot = *user
	}
	f.mu.Unlock()

	if !exists {
		return http.StatusUnauthorized, detail("Invalid email")
	}
	if snapshot.Password != body.Password {
		return http.StatusUnauthorized, detail("Invalid password")
	}
	return http.StatusOK, map[string]any{
		"access_token": f.signToken(snapshot.Email, 30*time.Minute),
		"user":         snapshot,
	}
}

func (f *FakeAPI) forgotPassword(request *http.Request) (int, any) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		return http.StatusUnprocessableEntity, detail("invalid body")
	}
	if _, exists := f.User(body.Email); !exists {
		return http.StatusNotFound, detail("User not found")
	}

	f.IssueResetToken(body.Email)
	f.mu.Lock()
	mailFails := f.mailFails
	f.mu.Unlock()
	if mailFails {
		return http.StatusOK, map[string]any{
			"message": "There was an issue sending the email. Please try again or contact support.",
			"success": false,
			"error":   "Email delivery failed",
		}
	}
	return http.StatusOK, map[string]any{
		"message": "Password reset link has been sent to your email address. Please check your inbox.",
		"success": true,
	}
}

func (f *FakeAPI) resetPassword(request *http.Request) (int, any) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		return http.StatusUnprocessableEntity, detail("invalid body")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.resetTokens[body.Token]
	if !ok {
		return http.StatusBadRequest, detail("Invalid or expired token")
	}
	user, exists := f.users[email]
	if !exists {
		return http.StatusNotFound, detail("User not found")
	}
	delete(f.resetTokens, body.Token)
	user.Password = body.NewPassword
	return http.StatusOK, map[string]string{"message": "Password reset successful"}
}

func (f *FakeAPI) updateProfile(request *http.Request) (int, any) {
	var body struct {
		Email   string  `json:"email"`
		Address *string `json:"address"`
		Gender  *string `json:"gender"`
		Age     *int    `json:"age"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		return http.StatusUnprocessableEntity, detail("invalid body")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	user, exists := f.users[body.Email]
	if !exists {
		return http.StatusNotFound, detail("User not found")
	}
	if body.Address != nil {
		user.Address = body.Address
	}
	if body.Gender != nil {
		user.Gender = body.Gender
	}
	if body.Age != nil {
		user.Age = body.Age
	}
	return http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    *user,
	}
}
