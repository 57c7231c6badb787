package folder

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("folder not found")
	ErrConflict   = errors.New("folder name already used under this parent")
	ErrCycle      = errors.New("move would create a cycle")
	ErrValidation = errors.New("invalid folder input")
)
