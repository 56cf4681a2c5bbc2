package forms

import (
	"net/url"
	"unicode/utf8"
)

const (
	// MaxUsernameLength mirrors the models.User constraint.
	MaxUsernameLength = 150
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72

	PasswordMismatchMessage   = "Введённые пароли не совпадают."
	UsernameTooLongMessage    = "Имя пользователя слишком длинное."
	PasswordTooLongMessage    = "Пароль слишком длинный."
	UsernameTakenMessage      = "Пользователь с таким именем уже существует."
	InvalidCredentialsMessage = "Пожалуйста, введите правильные имя пользователя и пароль."
)

// LoginForm collects credentials for signing in.
type LoginForm struct {
	Form
}

// NewLoginForm builds a login form.
func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{Form: newForm(values)}
}

// Validate checks that both credentials were supplied.
func (f *LoginForm) Validate() bool {
	f.Errors = Errors{}
	f.required("username", "password")
	return f.Valid()
}

// SignupForm collects a new account's username and password.
type SignupForm struct {
	Form
}

// NewSignupForm builds a signup form.
func NewSignupForm(values url.Values) *SignupForm {
	return &SignupForm{Form: newForm(values)}
}

// Validate checks required fields, username length and password confirmation.
func (f *SignupForm) Validate() bool {
	f.Errors = Errors{}
	f.required("username", "password1", "password2")
	if utf8.RuneCountInString(f.Get("username")) > MaxUsernameLength {
		f.Errors.Add("username", UsernameTooLongMessage)
	}
	if len(f.Get("password1")) > MaxPasswordBytes {
		f.Errors.Add("password1", PasswordTooLongMessage)
	}
	if f.Get("password1") != f.Get("password2") {
		f.Errors.Add("password2", PasswordMismatchMessage)
	}
	return f.Valid()
}
