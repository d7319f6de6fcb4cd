// Package apperror is the error taxonomy surfaced by the scoring core.
// Every error carries a Kind so transport layers can map it to a status code,
// and enough context (entity, id, expected state) for a client to retry.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidState Kind = "INVALID_STATE"
	KindValidation   Kind = "VALIDATION_ERROR"
	KindBusinessRule Kind = "BUSINESS_RULE_VIOLATION"
)

// Sentinels for errors.Is checks.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
	ErrBusinessRule = errors.New("business rule violation")
)

// Error is a classified core error.
type Error struct {
	Kind     Kind   `json:"kind"`
	Entity   string `json:"entity,omitempty"`
	ID       uint   `json:"id,omitempty"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Entity != "" && e.ID != 0 {
		fmt.Fprintf(&b, " (%s %d)", e.Entity, e.ID)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, ": expected %s", e.Expected)
		if e.Actual != "" {
			fmt.Fprintf(&b, ", got %s", e.Actual)
		}
	}
	return b.String()
}

// Is makes errors.Is(err, ErrNotFound) and friends work on wrapped *Error values.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(k Kind) error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindInvalidState:
		return ErrInvalidState
	case KindValidation:
		return ErrValidation
	case KindBusinessRule:
		return ErrBusinessRule
	}
	return nil
}

func NotFound(entity string, id uint) *Error {
	return &Error{
		Kind:    KindNotFound,
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf("%s not found", entity),
	}
}

func InvalidState(entity string, id uint, expected, actual string) *Error {
	return &Error{
		Kind:     KindInvalidState,
		Entity:   entity,
		ID:       id,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("%s is not in a valid state for this operation", entity),
	}
}

// InvalidStatef is InvalidState with a free-form message.
func InvalidStatef(entity string, id uint, format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidState,
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf(format, args...),
	}
}

func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: message,
	}
}

func BusinessRule(format string, args ...any) *Error {
	return &Error{
		Kind:    KindBusinessRule,
		Message: fmt.Sprintf(format, args...),
	}
}

// As extracts the classified error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
