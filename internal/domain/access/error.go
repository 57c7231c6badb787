package access

import (
	"errors"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrGrantNotFound = errors.New("grant not found")
	ErrSelfGrant     = errors.New("cannot grant access to yourself")
)
