// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
)

// ValidationError marks a rejection of user input. Handlers translate it to a
// 400 response; everything else becomes a 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrInvalidCredentials is returned by Login for a bad email/password pair.
// The message is deliberately identical for both cases.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUserDisabled is returned by Login when the account exists but is disabled.
var ErrUserDisabled = errors.New("user account is disabled")
