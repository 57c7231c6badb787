package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const defaultHistoryLimit = 50

// Record describes one observable change for the trail.
type Record struct {
	ResourceType ResourceType
	ResourceID   int
	Action       Action
	ActorID      int
	Field        string
	OldValue     *string
	NewValue     *string
	Origin       Origin
}

type Servicer interface {
	Record(ctx context.Context, rec Record)
	History(ctx context.Context, resourceType ResourceType, resourceID int, limit int) ([]Entry, error)
}

// Service writes and reads the immutable audit trail. A failed write is logged
// and swallowed: audit unavailability must not block the primary operation,
// which is a deliberate availability-over-durability tradeoff that operators
// see via error logs.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		log:  log.With("component", "audit_service"),
	}
}

// Record appends one entry. Sensitive field values are replaced with the
// redaction marker before they reach the store.
func (s *Service) Record(ctx context.Context, rec Record) {
	entry := &Entry{
		ID:           uuid.New(),
		ResourceType: rec.ResourceType,
		ResourceID:   rec.ResourceID,
		Action:       rec.Action,
		Field:        rec.Field,
		OldValue:     rec.OldValue,
		NewValue:     rec.NewValue,
		ActorID:      rec.ActorID,
		Origin:       rec.Origin,
		CreatedAt:    time.Now().UTC(),
	}

	if rec.Field != "" && IsSensitive(rec.ResourceType, rec.Field) {
		entry.OldValue = redact(rec.OldValue)
		entry.NewValue = redact(rec.NewValue)
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Error("audit write failed",
			"resource_type", rec.ResourceType,
			"resource_id", rec.ResourceID,
			"action", rec.Action,
			"actor_id", rec.ActorID,
			"error", err,
		)
	}
}

// History returns the newest entries first. A fresh call re-reads current
// state; there is no cursor across calls.
func (s *Service) History(ctx context.Context, resourceType ResourceType, resourceID int, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := s.repo.History(ctx, resourceType, resourceID, limit)
	if err != nil {
		s.log.Error("failed to read history",
			"resource_type", resourceType, "resource_id", resourceID, "error", err)
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

func redact(value *string) *string {
	if value == nil {
		return nil
	}
	marker := RedactionMarker
	return &marker
}
