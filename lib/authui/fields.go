// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/bureau-foundation/portal/account"
	"github.com/bureau-foundation/portal/lib/form"
	"github.com/bureau-foundation/portal/lib/tui"
	"github.com/bureau-foundation/portal/lib/validate"
)

// Screen identifies one of the five views.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenForgotPassword
	ScreenResetPassword
	ScreenProfile
)

func (screen Screen) String() string {
	switch screen {
	case ScreenLogin:
		return "Login"
	case ScreenSignup:
		return "Sign up"
	case ScreenForgotPassword:
		return "Forgot password"
	case ScreenResetPassword:
		return "Reset password"
	case ScreenProfile:
		return "Profile"
	default:
		return "unknown"
	}
}

// controller is the part of every lib/form controller the screens use.
type controller interface {
	Value(field string) string
	Set(field, value string)
	Blur(field string)
	Error(field string) string
	Banner() form.Banner
	InFlight() bool
}

// field is one row of a screen: a text input or, for gender, a choice.
type field struct {
	name  string
	label string

	input    textinput.Model
	isChoice bool
}

func textField(name, label, placeholder string, password bool) field {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 256
	if password {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	return field{name: name, label: label, input: input}
}

func screenFields(screen Screen) []field {
	switch screen {
	case ScreenLogin:
		return []field{
			textField(validate.FieldEmail, "Email", "you@example.com", false),
			textField(validate.FieldPassword, "Password", "", true),
		}
	case ScreenSignup:
		return []field{
			textField(validate.FieldUsername, "Username", "letters only", false),
			textField(validate.FieldEmail, "Email", "you@example.com", false),
			textField(validate.FieldPassword, "Password", "at least 6 characters", true),
			textField(validate.FieldConfirmPassword, "Confirm password", "", true),
		}
	case ScreenForgotPassword:
		return []field{
			textField(validate.FieldEmail, "Email", "you@example.com", false),
		}
	case ScreenResetPassword:
		return []field{
			textField(validate.FieldPassword, "New password", "at least 6 characters", true),
			textField(validate.FieldConfirmPasswordCamel, "Confirm password", "", true),
		}
	case ScreenProfile:
		age := textField(form.FieldAge, "Age", "", false)
		age.input.CharLimit = 3
		return []field{
			textField(form.FieldAddress, "Address", "", false),
			{name: form.FieldGender, label: "Gender", isChoice: true},
			age,
		}
	}
	return nil
}

// genderOptions maps account.Genders onto choice options. The empty
// value is labelled so it can be selected.
func genderOptions() []tui.ChoiceOption {
	options := make([]tui.ChoiceOption, 0, len(account.Genders))
	for _, gender := range account.Genders {
		label := gender
		if label == "" {
			label = "Select gender"
		}
		options = append(options, tui.ChoiceOption{Label: label, Value: gender})
	}
	return options
}
