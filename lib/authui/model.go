// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/portal/lib/form"
	"github.com/bureau-foundation/portal/lib/session"
	"github.com/bureau-foundation/portal/lib/tui"
)

const (
	// redirectDelay is how long the reset success message shows before
	// the login screen replaces it.
	redirectDelay = 2 * time.Second

	// successFadeDelay is how long the profile success message stays.
	successFadeDelay = 3 * time.Second
)

// submitDoneMsg carries the outcome of a controller Submit run as a
// tea.Cmd.
type submitDoneMsg struct {
	screen Screen
	err    error
}

// redirectMsg moves a finished reset to the login screen.
type redirectMsg struct{}

// bannerFadeMsg clears the profile success banner. Only the fade
// matching the latest success applies.
type bannerFadeMsg struct {
	sequence int
}

// profileLoadedMsg reports the result of reading the stored session.
type profileLoadedMsg struct {
	err error
}

// loggedOutMsg reports the result of clearing the session.
type loggedOutMsg struct {
	err error
}

// Config configures a Model.
type Config struct {
	// Client performs the account API calls. Required.
	Client form.AccountClient

	// Sessions persists the login. Required.
	Sessions *session.Manager

	// ResetToken, when set, opens the reset password screen with this
	// token. Without it the reset screen stays disabled.
	ResetToken string

	// Theme and Keys default to tui.DefaultTheme and tui.DefaultKeyMap.
	Theme *tui.Theme
	Keys  *tui.KeyMap

	// Logger receives debug output. Nil discards it; a TUI owns the
	// terminal, so logs must not go to stderr.
	Logger *slog.Logger
}

// Model is the bubbletea model for the whole application.
type Model struct {
	ctx      context.Context
	sessions *session.Manager
	logger   *slog.Logger
	theme    tui.Theme
	keys     tui.KeyMap

	login   *form.Login
	signup  *form.Signup
	forgot  *form.ForgotPassword
	reset   *form.ResetPassword
	profile *form.Profile

	screen Screen
	fields []field
	focus  int
	gender tui.Choice

	// pending is set from the moment a submission is dispatched until
	// its submitDoneMsg arrives.
	pending bool

	// notice is shown on the login screen after a redirect from a
	// screen that needs a session.
	notice string

	fadeSequence int

	width  int
	height int
}

// New builds the model. The starting screen is reset password when a
// token was given, profile when a session is stored, and login
// otherwise.
func New(ctx context.Context, config Config) Model {
	theme := tui.DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	keys := tui.DefaultKeyMap
	if config.Keys != nil {
		keys = *config.Keys
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	model := Model{
		ctx:      ctx,
		sessions: config.Sessions,
		logger:   logger,
		theme:    theme,
		keys:     keys,
		login:    form.NewLogin(config.Client, config.Sessions),
		signup:   form.NewSignup(config.Client),
		forgot:   form.NewForgotPassword(config.Client),
		reset:    form.NewResetPassword(config.Client, config.ResetToken),
		profile:  form.NewProfile(config.Client, config.Sessions),
		gender:   tui.NewChoice(genderOptions(), ""),
	}

	switch {
	case config.ResetToken != "":
		model.switchTo(ScreenResetPassword)
	default:
		if _, err := model.profile.Load(ctx); err == nil {
			model.switchTo(ScreenProfile)
		} else {
			if !errors.Is(err, session.ErrAnonymous) {
				logger.Warn("reading stored session", "error", err)
			}
			model.switchTo(ScreenLogin)
		}
	}
	return model
}

// Screen returns the screen being shown.
func (model Model) Screen() Screen {
	return model.screen
}

func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case submitDoneMsg:
		return model.handleSubmitDone(message)

	case redirectMsg:
		if model.screen == ScreenResetPassword {
			model.switchTo(ScreenLogin)
		}

	case bannerFadeMsg:
		if message.sequence == model.fadeSequence {
			model.profile.ClearBanner()
		}

	case profileLoadedMsg:
		if message.err != nil {
			model.requireLogin(message.err)
			return model, nil
		}
		model.switchTo(ScreenProfile)

	case loggedOutMsg:
		if message.err != nil {
			model.logger.Error("logging out", "error", message.err)
			model.notice = "Logout failed: " + message.err.Error()
			return model, nil
		}
		model.profile.CancelEdit()
		model.switchTo(ScreenLogin)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Submit):
		return model.submit()

	case key.Matches(message, model.keys.NextField):
		return model, model.moveFocus(1)

	case key.Matches(message, model.keys.PrevField):
		return model, model.moveFocus(-1)

	case key.Matches(message, model.keys.Back):
		switch {
		case model.screen == ScreenProfile && model.profile.Editing():
			model.profile.CancelEdit()
			model.fields = nil
		case model.screen == ScreenSignup, model.screen == ScreenForgotPassword, model.screen == ScreenResetPassword:
			model.switchTo(ScreenLogin)
		}
		return model, nil
	}

	if model.screen == ScreenProfile {
		if command, handled := model.handleProfileKey(message); handled {
			return model, command
		}
	} else if !model.pending {
		switch {
		case key.Matches(message, model.keys.ShowLogin):
			model.switchTo(ScreenLogin)
			return model, nil
		case key.Matches(message, model.keys.ShowSignup):
			model.switchTo(ScreenSignup)
			return model, nil
		case key.Matches(message, model.keys.ShowForgot):
			model.switchTo(ScreenForgotPassword)
			return model, nil
		case key.Matches(message, model.keys.ShowProfile):
			return model, model.loadProfile()
		}
	}

	return model, model.updateFocusedField(message)
}

func (model *Model) handleProfileKey(message tea.KeyMsg) (tea.Cmd, bool) {
	if model.profile.Editing() {
		if model.focusedField() != nil && model.focusedField().isChoice {
			switch {
			case key.Matches(message, model.keys.ChoicePrev):
				model.gender.MoveUp()
				model.profile.Set(model.focusedField().name, model.gender.Value())
				return nil, true
			case key.Matches(message, model.keys.ChoiceNext):
				model.gender.MoveDown()
				model.profile.Set(model.focusedField().name, model.gender.Value())
				return nil, true
			}
		}
		return nil, false
	}

	switch {
	case key.Matches(message, model.keys.Edit):
		if err := model.profile.StartEdit(); err != nil {
			model.requireLogin(err)
			return nil, true
		}
		model.fields = screenFields(ScreenProfile)
		model.focus = 0
		model.syncInputs()
		return model.focusCurrent(), true
	case key.Matches(message, model.keys.Logout):
		return model.logout(), true
	}
	return nil, true
}

// submit dispatches the current screen's Submit as a tea.Cmd.
func (model Model) submit() (tea.Model, tea.Cmd) {
	if model.pending {
		return model, nil
	}

	ctx := model.ctx
	screen := model.screen
	var run func() error
	switch screen {
	case ScreenLogin:
		run = func() error { _, err := model.login.Submit(ctx); return err }
	case ScreenSignup:
		run = func() error { _, err := model.signup.Submit(ctx); return err }
	case ScreenForgotPassword:
		run = func() error { _, err := model.forgot.Submit(ctx); return err }
	case ScreenResetPassword:
		if !model.reset.CanSubmit() {
			return model, nil
		}
		run = func() error { _, err := model.reset.Submit(ctx); return err }
	case ScreenProfile:
		if !model.profile.Editing() {
			return model, nil
		}
		run = func() error { _, err := model.profile.Submit(ctx); return err }
	default:
		return model, nil
	}

	if current := model.focusedField(); current != nil {
		model.controller().Blur(current.name)
	}
	model.pending = true
	model.notice = ""
	model.logger.Debug("submitting", "screen", screen.String())
	return model, func() tea.Msg {
		return submitDoneMsg{screen: screen, err: run()}
	}
}

func (model Model) handleSubmitDone(message submitDoneMsg) (tea.Model, tea.Cmd) {
	model.pending = false
	if message.screen != model.screen {
		return model, nil
	}
	if message.err != nil {
		model.logger.Debug("submission failed", "screen", message.screen.String(), "error", message.err)
		model.syncInputs()
		return model, nil
	}

	switch message.screen {
	case ScreenLogin:
		return model, model.loadProfile()

	case ScreenResetPassword:
		model.syncInputs()
		return model, tea.Tick(redirectDelay, func(time.Time) tea.Msg {
			return redirectMsg{}
		})

	case ScreenProfile:
		model.fields = nil
		model.focus = 0
		model.fadeSequence++
		sequence := model.fadeSequence
		return model, tea.Tick(successFadeDelay, func(time.Time) tea.Msg {
			return bannerFadeMsg{sequence: sequence}
		})
	}

	model.syncInputs()
	return model, nil
}

func (model Model) loadProfile() tea.Cmd {
	ctx := model.ctx
	profile := model.profile
	return func() tea.Msg {
		_, err := profile.Load(ctx)
		return profileLoadedMsg{err: err}
	}
}

func (model Model) logout() tea.Cmd {
	ctx := model.ctx
	sessions := model.sessions
	return func() tea.Msg {
		return loggedOutMsg{err: sessions.Logout(ctx)}
	}
}

// requireLogin answers a screen that needs a session and found none.
func (model *Model) requireLogin(err error) {
	if !errors.Is(err, session.ErrAnonymous) {
		model.logger.Warn("reading stored session", "error", err)
	}
	model.switchTo(ScreenLogin)
	model.notice = "Please log in to view your profile."
}

func (model *Model) switchTo(screen Screen) {
	model.logger.Debug("switching screen", "from", model.screen.String(), "to", screen.String())
	model.screen = screen
	model.notice = ""
	model.focus = 0
	if screen == ScreenProfile {
		model.fields = nil
		if model.profile.Editing() {
			model.fields = screenFields(ScreenProfile)
		}
	} else {
		model.fields = screenFields(screen)
	}
	model.syncInputs()
	model.focusCurrent()
}

func (model Model) controller() controller {
	switch model.screen {
	case ScreenSignup:
		return model.signup
	case ScreenForgotPassword:
		return model.forgot
	case ScreenResetPassword:
		return model.reset
	case ScreenProfile:
		return model.profile
	default:
		return model.login
	}
}

func (model *Model) focusedField() *field {
	if model.focus < 0 || model.focus >= len(model.fields) {
		return nil
	}
	return &model.fields[model.focus]
}

// moveFocus blurs the current field, running its validation, and
// focuses the next one in direction.
func (model *Model) moveFocus(direction int) tea.Cmd {
	if len(model.fields) == 0 {
		return nil
	}
	if current := model.focusedField(); current != nil {
		model.controller().Blur(current.name)
		current.input.Blur()
	}
	model.focus = (model.focus + direction + len(model.fields)) % len(model.fields)
	return model.focusCurrent()
}

func (model *Model) focusCurrent() tea.Cmd {
	current := model.focusedField()
	if current == nil || current.isChoice {
		return nil
	}
	return current.input.Focus()
}

// updateFocusedField forwards a key to the focused text input and
// records any edit with the controller.
func (model *Model) updateFocusedField(message tea.KeyMsg) tea.Cmd {
	current := model.focusedField()
	if current == nil || current.isChoice || model.pending {
		return nil
	}
	before := current.input.Value()
	var command tea.Cmd
	current.input, command = current.input.Update(message)
	if after := current.input.Value(); after != before {
		model.controller().Set(current.name, after)
	}
	return command
}

// syncInputs copies the controller's values into the inputs, which
// picks up a cleared form after a successful submission.
func (model *Model) syncInputs() {
	ctrl := model.controller()
	for index := range model.fields {
		current := &model.fields[index]
		value := ctrl.Value(current.name)
		if current.isChoice {
			model.gender.Select(value)
			continue
		}
		if current.input.Value() != value {
			current.input.SetValue(value)
		}
	}
}
