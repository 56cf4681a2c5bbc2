package forms

import (
	"net/url"
	"strings"
)

// BadWords are the substrings a comment may not contain.
var BadWords = []string{"редиска", "негодяй"}

// Warning is reported on the text field when a comment contains a bad word.
const Warning = "Не ругайтесь!"

// ContainsBadWords reports whether text contains any of BadWords.
// The match is case-sensitive.
func ContainsBadWords(text string) bool {
	for i := range BadWords {
		if strings.Contains(text, BadWords[i]) {
			return true
		}
	}
	return false
}

// CommentForm is the comment submission form.
type CommentForm struct {
	Form
}

// NewCommentForm builds an unbound form; pass nil for an empty one.
func NewCommentForm(values url.Values) *CommentForm {
	return &CommentForm{Form: newForm(values)}
}

// NewCommentFormWithText builds a form prefilled with text.
func NewCommentFormWithText(text string) *CommentForm {
	return NewCommentForm(url.Values{"text": {text}})
}

// Text returns the submitted comment text.
func (f *CommentForm) Text() string {
	return f.Get("text")
}

// Validate checks the text field and reports whether the form is valid.
func (f *CommentForm) Validate() bool {
	f.Errors = Errors{}
	f.required("text")
	if ContainsBadWords(f.Text()) {
		f.Errors.Add("text", Warning)
	}
	return f.Valid()
}
