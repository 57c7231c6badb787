package folder

import (
	"context"
)

type Repository interface {
	// Get returns a folder scoped to its owner, or ErrNotFound.
	Get(ctx context.Context, ownerID, folderID int) (*Folder, error)

	// Create persists a folder. A sibling with the same name returns
	// ErrConflict.
	Create(ctx context.Context, f *Folder) (int, error)

	Rename(ctx context.Context, ownerID, folderID int, name string) error
	SetParent(ctx context.Context, ownerID, folderID int, parentID *int) error

	// Delete removes a folder; contained items fall back to no folder and
	// child folders are re-parented to the deleted folder's parent.
	Delete(ctx context.Context, ownerID, folderID int) error

	ListByOwner(ctx context.Context, ownerID int) ([]Folder, error)
}
