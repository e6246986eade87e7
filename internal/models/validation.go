package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError — входные данные не прошли проверку.
// Транспорт: HTTP 422, Reason уходит клиенту как есть.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// requireText проверяет обязательную строку и ограничение длины в рунах.
func requireText(field, v string, max int) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "must not be empty")
	}

	return maxText(field, v, max)
}

func maxText(field, v string, max int) error {
	if utf8.RuneCountInString(v) > max {
		return invalid(field, "must be at most %d characters", max)
	}

	return nil
}

func requireID(field string, v int64) error {
	if v <= 0 {
		return invalid(field, "must be a positive id")
	}

	return nil
}

func requireDate(field string, d Date) error {
	if d.IsZero() {
		return invalid(field, "is required")
	}

	return nil
}
