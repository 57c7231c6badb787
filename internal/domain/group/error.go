package group

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("group not found")
	ErrMemberNotFound = errors.New("group member not found")
	ErrDenied         = errors.New("not allowed to manage this group")
	ErrConflict       = errors.New("group or member already exists")
	ErrOwnerIsMember  = errors.New("group owner cannot be a member")
	ErrInvalidRole    = errors.New("invalid member role")
	ErrValidation     = errors.New("invalid group input")
)
