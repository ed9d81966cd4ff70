package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")

	ErrInvalidPassword     = errors.New("invalid password")
	ErrUnknownScheduleType = errors.New("unknown schedule type")
	ErrValidation          = errors.New("validation failed")
	ErrPersistence         = errors.New("persistence failure")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}
