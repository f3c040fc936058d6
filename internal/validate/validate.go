// Package validate provides field-level request validation. Failures
// accumulate into a list of {field, message} pairs returned to the client in
// the 400 envelope's errors array.
package validate

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError names the offending field and what was wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors for a request.
type Errors []FieldError

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// OK reports whether validation passed.
func (e Errors) OK() bool { return len(e) == 0 }

// Length requires a trimmed string between min and max characters. Pass min 0
// for optional fields so an empty value passes.
func (e *Errors) Length(field, value string, min, max int) {
	n := len(strings.TrimSpace(value))
	if n < min || n > max {
		if min == 0 {
			e.Add(field, fmt.Sprintf("%s must not exceed %d characters", field, max))
		} else {
			e.Add(field, fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
		}
	}
}

// Required requires a non-empty trimmed string.
func (e *Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, field+" is required")
	}
}

// Email requires a minimally well-formed email address.
func (e *Errors) Email(field, value string) {
	v := strings.TrimSpace(value)
	at := strings.Index(v, "@")
	if at < 1 || at == len(v)-1 || !strings.Contains(v[at+1:], ".") || strings.ContainsAny(v, " \t") {
		e.Add(field, "Please provide a valid "+field)
	}
}

// IntRange requires min <= value <= max.
func (e *Errors) IntRange(field string, value, min, max int) {
	if value < min || value > max {
		e.Add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
}

// OneOf requires value to be one of the allowed set.
func (e *Errors) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, fmt.Sprintf("%s must be %s", field, strings.Join(allowed, " or ")))
}

// ObjectID requires a valid Mongo ObjectID hex string.
func (e *Errors) ObjectID(field, value string) {
	if _, err := primitive.ObjectIDFromHex(value); err != nil {
		e.Add(field, "Valid "+field+" is required")
	}
}
