package service

import "errors"

var (
	ErrValidation       = errors.New("validation")
	ErrDuplicateLine    = errors.New("cannot add two equal orders")
	ErrLineNotFound     = errors.New("order line not found")
	ErrProductNotFound  = errors.New("product does not exist")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrStorage          = errors.New("storage failure")
)
