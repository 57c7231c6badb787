package platform

import (
	"context"
)

// ListFilter narrows platform credentials. Text search covers plaintext
// metadata only (name, url, username).
type ListFilter struct {
	EcosystemID *int
	Query       string
	Limit       int
	Offset      int
}

type Repository interface {
	Get(ctx context.Context, platformID int) (*StoredCredential, error)
	Create(ctx context.Context, cred *StoredCredential) (int, error)
	Update(ctx context.Context, cred *StoredCredential) error

	// Delete removes the credential; the store cascades its access tags.
	Delete(ctx context.Context, platformID int) error
	List(ctx context.Context, filter ListFilter) ([]StoredCredential, int, error)

	// UpsertTag inserts or relabels the tag for (platform, user) and returns
	// the previous label, "" when the tag is new.
	UpsertTag(ctx context.Context, tag *AccessTag) (string, error)

	// DeleteTag removes the tag and returns its label, ErrTagNotFound when
	// absent.
	DeleteTag(ctx context.Context, platformID, userID int) (string, error)
	ListTags(ctx context.Context, platformID int) ([]AccessTag, error)
}

// Transactor runs a function inside one store transaction so a mutation and
// its audit entries commit or roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
