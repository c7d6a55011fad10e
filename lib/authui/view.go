// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/portal/lib/form"
	"github.com/bureau-foundation/portal/lib/tui"
)

const labelWidth = 18

func (model Model) View() string {
	var sections []string

	header := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render("portal · " + model.screen.String())
	sections = append(sections, header, "")

	if model.notice != "" {
		sections = append(sections, model.styled("warning", model.notice), "")
	}

	switch {
	case model.screen == ScreenResetPassword && model.reset.TokenError() != "":
		sections = append(sections, model.styled("error", model.reset.TokenError()), "")
		sections = append(sections, model.renderFields()...)
	case model.screen == ScreenProfile && !model.profile.Editing():
		sections = append(sections, model.renderProfile()...)
	default:
		sections = append(sections, model.renderFields()...)
	}

	sections = append(sections, "")
	if banner := model.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	if model.pending {
		sections = append(sections, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Submitting…"))
	}

	separatorWidth := model.width
	if separatorWidth <= 0 {
		separatorWidth = 40
	}
	sections = append(sections,
		lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", separatorWidth)),
		lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(model.renderHelp()),
	)

	return tui.FitView(strings.Join(sections, "\n"), model.width)
}

func (model Model) styled(tone, text string) string {
	return lipgloss.NewStyle().Foreground(model.theme.MessageColor(tone)).Render(text)
}

func (model Model) renderFields() []string {
	ctrl := model.controller()
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText).Width(labelWidth)
	focusedLabel := lipgloss.NewStyle().Foreground(model.theme.FocusForeground).Bold(true).Width(labelWidth)

	var lines []string
	for index, current := range model.fields {
		focused := index == model.focus
		label := labelStyle.Render(current.label)
		if focused {
			label = focusedLabel.Render(current.label)
		}

		var value string
		if current.isChoice {
			value = model.gender.Render(model.theme, focused)
		} else {
			value = current.input.View()
		}
		lines = append(lines, label+value)

		if message := ctrl.Error(current.name); message != "" {
			lines = append(lines, strings.Repeat(" ", labelWidth)+model.styled("error", message))
		}
	}
	return lines
}

func (model Model) renderProfile() []string {
	user, ok := model.profile.User()
	if !ok {
		return []string{model.styled("warning", "No profile loaded.")}
	}
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText).Width(labelWidth)
	rows := []struct{ label, value string }{
		{"Username", user.Username},
		{"Email", user.Email},
		{"Address", user.AddressOrDefault()},
		{"Gender", user.GenderOrDefault()},
		{"Age", user.AgeOrDefault()},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(row.label)+row.value)
	}
	return lines
}

func (model Model) renderBanner() string {
	banner := model.controller().Banner()
	switch banner.Kind {
	case form.BannerError:
		return model.styled("error", banner.Text)
	case form.BannerSuccess:
		return model.styled("success", banner.Text)
	case form.BannerWarning:
		return model.styled("warning", banner.Text)
	}
	return ""
}

func (model Model) renderHelp() string {
	keys := model.keys
	var bindings []key.Binding
	switch {
	case model.screen == ScreenProfile && model.profile.Editing():
		bindings = []key.Binding{keys.NextField, keys.ChoiceNext, keys.Submit, keys.Back}
	case model.screen == ScreenProfile:
		bindings = []key.Binding{keys.Edit, keys.Logout}
	case model.screen == ScreenLogin:
		bindings = []key.Binding{keys.NextField, keys.Submit, keys.ShowSignup, keys.ShowForgot, keys.ShowProfile}
	case model.screen == ScreenResetPassword && !model.reset.CanSubmit():
		bindings = []key.Binding{keys.Back}
	default:
		bindings = []key.Binding{keys.NextField, keys.Submit, keys.Back}
	}
	bindings = append(bindings, keys.Quit)
	return " " + tui.HelpLine(bindings...)
}
