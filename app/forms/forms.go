// Package forms validates user-submitted form data and carries field
// errors back to the views.
package forms

import (
	"net/url"
	"strings"
)

// RequiredMessage is attached to fields submitted empty.
const RequiredMessage = "Обязательное поле."

// Errors maps a field name (or NonFieldErrors) to its messages.
type Errors map[string][]string

// NonFieldErrors keys errors that do not belong to one field.
const NonFieldErrors = "__all__"

// Add appends message to field's error list.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the first error for field, or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Form holds submitted values and the errors found while validating them.
type Form struct {
	Values url.Values `json:"values"`
	Errors Errors     `json:"errors"`
}

func newForm(values url.Values) Form {
	if values == nil {
		values = url.Values{}
	}
	return Form{Values: values, Errors: Errors{}}
}

// Get returns the submitted value for field.
func (f *Form) Get(field string) string {
	return f.Values.Get(field)
}

// Valid reports whether validation found no errors.
func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

func (f *Form) required(fields ...string) {
	for _, field := range fields {
		if strings.TrimSpace(f.Values.Get(field)) == "" {
			f.Errors.Add(field, RequiredMessage)
		}
	}
}
