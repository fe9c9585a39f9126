package service

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrStorage         = errors.New("storage failure")
	ErrNotFound        = errors.New("not found")
	ErrSelfDelete      = errors.New("cannot delete own account")
)
