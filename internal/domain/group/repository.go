package group

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, groupID int) (*Group, error)

	// Create persists a group. A duplicate (owner, name) pair returns
	// ErrConflict.
	Create(ctx context.Context, g *Group) (int, error)

	// Delete removes the group; the store cascades members and group grants.
	Delete(ctx context.Context, groupID int) error

	ListForUser(ctx context.Context, userID int) ([]Group, error)

	Members(ctx context.Context, groupID int) ([]Member, error)
	GetMember(ctx context.Context, groupID, userID int) (*Member, error)

	// AddMember inserts a member row. An existing (group, user) pair returns
	// ErrConflict.
	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, groupID, userID int) error
	UpdateMemberRole(ctx context.Context, groupID, userID int, role MemberRole) error
}

// IdentityLookup confirms a principal exists before a membership row is
// written for it.
type IdentityLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}
