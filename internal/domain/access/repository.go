package access

import (
	"context"
)

// Repository is the resolver's view of the grant store. Implementations map
// missing rows to the package sentinels.
type Repository interface {
	// ItemOwner returns the owning principal of a vault item, or
	// ErrItemNotFound.
	ItemOwner(ctx context.Context, itemID int) (int, error)

	// UserGrantLevel returns the direct grant level for (item, user), or
	// ErrGrantNotFound.
	UserGrantLevel(ctx context.Context, itemID, userID int) (Level, error)

	// GroupGrantLevels returns the levels of every group grant on the item
	// across all groups the user belongs to. Empty when there are none.
	GroupGrantLevels(ctx context.Context, itemID, userID int) ([]Level, error)

	// AccessibleItemIDs returns the ids of items the user owns, is directly
	// granted, or reaches through group membership.
	AccessibleItemIDs(ctx context.Context, userID int) ([]int, error)

	// UpsertGrant inserts or updates the grant for its (item, grantee) pair.
	UpsertGrant(ctx context.Context, grant *Grant) error

	// DeleteGrant removes a grant, or returns ErrGrantNotFound.
	DeleteGrant(ctx context.Context, itemID int, grantee Grantee) (Level, error)

	// ListGrants returns all grants on an item.
	ListGrants(ctx context.Context, itemID int) ([]Grant, error)
}
