package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every error ParseSubscriber returns.
var ErrValidation = errors.New("invalid subscriber")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewSubscriber is a name and email that passed validation.
type NewSubscriber struct {
	Email string
	Name  string
}

// ParseSubscriber checks the submitted fields. Values are returned exactly as
// submitted; trimming is only used to decide emptiness.
func ParseSubscriber(email, name string) (NewSubscriber, error) {
	if err := validateName(name); err != nil {
		return NewSubscriber{}, err
	}
	if err := validateEmail(email); err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Email: email, Name: name}, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}

	at := strings.LastIndex(trimmed, "@")
	if at < 0 {
		return &ValidationError{Field: "email", Reason: "missing @"}
	}
	if strings.TrimSpace(trimmed[:at]) == "" {
		return &ValidationError{Field: "email", Reason: "missing local part"}
	}
	if strings.TrimSpace(trimmed[at+1:]) == "" {
		return &ValidationError{Field: "email", Reason: "missing domain"}
	}
	return nil
}
