package identity

import (
	"errors"
)

var (
	ErrNotFound = errors.New("principal not found")
)
