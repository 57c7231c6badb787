package access

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
)

type Resolver interface {
	Resolve(ctx context.Context, principalID, itemID int) (Result, error)
	AccessibleItemIDs(ctx context.Context, principalID int) ([]int, error)
	Grant(ctx context.Context, grant *Grant) error
	Revoke(ctx context.Context, itemID int, grantee Grantee) (Level, error)
	ListGrants(ctx context.Context, itemID int) ([]Grant, error)
}

// Service computes effective access levels. Every call re-reads current
// state; levels are never cached, so a revocation takes effect on the next
// request.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) Resolver {
	return &Service{
		repo: repo,
		log:  log.With("component", "access_resolver"),
	}
}

// Resolve applies the precedence order: ownership short-circuits everything,
// then a direct grant is returned verbatim, then the most permissive group
// grant wins. A missing item and an unshared item are indistinguishable here,
// both resolve to none; callers decide whether to disclose existence.
func (s *Service) Resolve(ctx context.Context, principalID, itemID int) (Result, error) {
	ownerID, err := s.repo.ItemOwner(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return Result{CanAccess: false, Level: LevelNone}, nil
		}
		s.log.Error("failed to load item owner", "item_id", itemID, "error", err)
		return Result{}, fmt.Errorf("resolve owner: %w", err)
	}
	if ownerID == principalID {
		return Result{CanAccess: true, Level: LevelOwner}, nil
	}

	level, err := s.repo.UserGrantLevel(ctx, itemID, principalID)
	if err == nil {
		return Result{CanAccess: true, Level: level}, nil
	}
	if !errors.Is(err, ErrGrantNotFound) {
		s.log.Error("failed to load direct grant",
			"item_id", itemID, "principal_id", principalID, "error", err)
		return Result{}, fmt.Errorf("resolve direct grant: %w", err)
	}

	levels, err := s.repo.GroupGrantLevels(ctx, itemID, principalID)
	if err != nil {
		s.log.Error("failed to load group grants",
			"item_id", itemID, "principal_id", principalID, "error", err)
		return Result{}, fmt.Errorf("resolve group grants: %w", err)
	}
	if len(levels) > 0 {
		effective := LevelNone
		for _, l := range levels {
			effective = effective.Max(l)
		}
		return Result{CanAccess: true, Level: effective}, nil
	}

	return Result{CanAccess: false, Level: LevelNone}, nil
}

// AccessibleItemIDs returns the full accessible set for a principal:
// owned, directly shared and group-shared items.
func (s *Service) AccessibleItemIDs(ctx context.Context, principalID int) ([]int, error) {
	ids, err := s.repo.AccessibleItemIDs(ctx, principalID)
	if err != nil {
		s.log.Error("failed to list accessible items", "principal_id", principalID, "error", err)
		return nil, fmt.Errorf("list accessible items: %w", err)
	}
	return ids, nil
}

// Grant upserts a grant. Duplicate (item, grantee) pairs update the level in
// place rather than inserting a second row.
func (s *Service) Grant(ctx context.Context, grant *Grant) error {
	if err := grant.Level.ValidateGrantable(); err != nil {
		return err
	}
	if err := s.repo.UpsertGrant(ctx, grant); err != nil {
		s.log.Error("failed to upsert grant",
			"item_id", grant.ItemID, "grantee_type", grant.Grantee.Type,
			"grantee_id", grant.Grantee.ID, "error", err)
		return fmt.Errorf("upsert grant: %w", err)
	}
	return nil
}

// Revoke removes a grant and returns the level it held.
func (s *Service) Revoke(ctx context.Context, itemID int, grantee Grantee) (Level, error) {
	level, err := s.repo.DeleteGrant(ctx, itemID, grantee)
	if err != nil {
		if errors.Is(err, ErrGrantNotFound) {
			return LevelNone, ErrGrantNotFound
		}
		s.log.Error("failed to delete grant",
			"item_id", itemID, "grantee_type", grantee.Type, "grantee_id", grantee.ID, "error", err)
		return LevelNone, fmt.Errorf("delete grant: %w", err)
	}
	return level, nil
}

func (s *Service) ListGrants(ctx context.Context, itemID int) ([]Grant, error) {
	grants, err := s.repo.ListGrants(ctx, itemID)
	if err != nil {
		s.log.Error("failed to list grants", "item_id", itemID, "error", err)
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return grants, nil
}
