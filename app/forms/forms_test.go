package forms

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsBadWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "clean text", text: "Текст комментария", want: false},
		{name: "empty text", text: "", want: false},
		{name: "bad word alone", text: BadWords[0], want: true},
		{name: "bad word inside sentence", text: "Какой-то текст, " + BadWords[0] + ", еще текст", want: true},
		{name: "second bad word", text: "ты " + BadWords[1], want: true},
		{name: "bad word as substring", text: "супер" + BadWords[1] + "ище", want: true},
		{name: "different case is allowed", text: strings.ToUpper(BadWords[0]), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsBadWords(tt.text))
		})
	}
}

func TestContainsBadWordsEveryEntry(t *testing.T) {
	for _, word := range BadWords {
		assert.True(t, ContainsBadWords("начало "+word+" конец"), word)
	}
}

func TestCommentForm(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		form := NewCommentForm(url.Values{"text": {"Текст комментария"}})
		assert.True(t, form.Validate())
		assert.Equal(t, "Текст комментария", form.Text())
		assert.Empty(t, form.Errors)
	})

	t.Run("bad words", func(t *testing.T) {
		form := NewCommentForm(url.Values{"text": {"Какой-то текст, " + BadWords[0] + ", еще текст"}})
		assert.False(t, form.Validate())
		assert.Equal(t, []string{Warning}, form.Errors["text"])
	})

	t.Run("empty text", func(t *testing.T) {
		form := NewCommentForm(url.Values{"text": {"   "}})
		assert.False(t, form.Validate())
		assert.Equal(t, RequiredMessage, form.Errors.Get("text"))
	})

	t.Run("unbound form", func(t *testing.T) {
		form := NewCommentForm(nil)
		assert.Equal(t, "", form.Text())
		assert.True(t, form.Valid())
	})

	t.Run("revalidation clears errors", func(t *testing.T) {
		form := NewCommentForm(url.Values{"text": {BadWords[1]}})
		assert.False(t, form.Validate())
		form.Values.Set("text", "исправлено")
		assert.True(t, form.Validate())
	})
}

func TestSignupForm(t *testing.T) {
	form := NewSignupForm(url.Values{
		"username":  {"Автор"},
		"password1": {"secret-pass"},
		"password2": {"secret-pass"},
	})
	assert.True(t, form.Validate())

	form = NewSignupForm(url.Values{
		"username":  {"Автор"},
		"password1": {"secret-pass"},
		"password2": {"other-pass"},
	})
	assert.False(t, form.Validate())
	assert.Equal(t, PasswordMismatchMessage, form.Errors.Get("password2"))

	form = NewSignupForm(url.Values{
		"username":  {strings.Repeat("й", MaxUsernameLength+1)},
		"password1": {"p"},
		"password2": {"p"},
	})
	assert.False(t, form.Validate())
	assert.Equal(t, UsernameTooLongMessage, form.Errors.Get("username"))

	long := strings.Repeat("p", MaxPasswordBytes+1)
	form = NewSignupForm(url.Values{
		"username":  {"Автор"},
		"password1": {long},
		"password2": {long},
	})
	assert.False(t, form.Validate())
	assert.Equal(t, PasswordTooLongMessage, form.Errors.Get("password1"))

	form = NewSignupForm(nil)
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "username")
	assert.Contains(t, form.Errors, "password1")
}

func TestLoginForm(t *testing.T) {
	assert.True(t, NewLoginForm(url.Values{"username": {"a"}, "password": {"b"}}).Validate())

	form := NewLoginForm(url.Values{"username": {"a"}})
	assert.False(t, form.Validate())
	assert.Equal(t, RequiredMessage, form.Errors.Get("password"))
}
