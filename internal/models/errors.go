package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTokenExpired      = errors.New("magic link invalid or expired")
	ErrAttemptsExhausted = errors.New("maximum attempts exceeded")
)
