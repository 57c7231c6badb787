package vault

import (
	"context"
)

// ListFilter narrows the accessible set. Text search covers plaintext metadata
// only (title, url): encrypted fields cannot be matched in the store.
type ListFilter struct {
	Query     string
	FolderID  *int
	LoginType *LoginType
	Limit     int
	Offset    int
}

type Repository interface {
	Get(ctx context.Context, itemID int) (*StoredItem, error)
	Create(ctx context.Context, item *StoredItem) (int, error)
	Update(ctx context.Context, item *StoredItem) error

	// Delete removes the item; the store cascades its access grants.
	Delete(ctx context.Context, itemID int) error

	// List returns the page of items matching the filter within the given
	// accessible set, plus the total count of the filtered set. The ids gate
	// both the count and the page boundaries.
	List(ctx context.Context, ids []int, filter ListFilter) ([]StoredItem, int, error)

	// FolderBelongsTo reports whether the folder exists and is owned by the
	// given principal.
	FolderBelongsTo(ctx context.Context, folderID, ownerID int) (bool, error)
}

// Transactor runs a function inside one store transaction so a mutation and
// its audit entries commit or roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdentityLookup confirms referenced principals and linked external-account
// records exist, used to validate google_oauth items and user grantees.
type IdentityLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
	GoogleAccountExists(ctx context.Context, id, ownerID int) (bool, error)
}

// GroupLookup confirms a group grantee exists before a grant row is written
// for it.
type GroupLookup interface {
	Exists(ctx context.Context, groupID int) (bool, error)
}
