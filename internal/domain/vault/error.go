package vault

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("vault item not found")
	ErrDenied     = errors.New("access denied")
	ErrValidation = errors.New("invalid vault item input")
)
