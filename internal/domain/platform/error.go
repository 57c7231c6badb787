package platform

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("platform credential not found")
	ErrTagNotFound = errors.New("access tag not found")
	ErrDenied      = errors.New("insufficient role")
	ErrValidation  = errors.New("invalid platform credential input")
)
