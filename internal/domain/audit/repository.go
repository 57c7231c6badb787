package audit

import (
	"context"
)

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	History(ctx context.Context, resourceType ResourceType, resourceID int, limit int) ([]Entry, error)
}
