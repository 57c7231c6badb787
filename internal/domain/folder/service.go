package folder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Create(ctx context.Context, ownerID int, name string, parentID *int) (*Folder, error)
	Rename(ctx context.Context, ownerID, folderID int, name string) error
	Move(ctx context.Context, ownerID, folderID int, newParentID *int) error
	Delete(ctx context.Context, ownerID, folderID int) error
	List(ctx context.Context, ownerID int) ([]Folder, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) Servicer {
	return &Service{
		repo: repo,
		log:  log.With("component", "folder_service"),
	}
}

func (s *Service) Create(ctx context.Context, ownerID int, name string, parentID *int) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty folder name", ErrValidation)
	}
	if parentID != nil {
		if _, err := s.repo.Get(ctx, ownerID, *parentID); err != nil {
			return nil, err
		}
	}

	f := &Folder{OwnerID: ownerID, ParentID: parentID, Name: name}
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: %q", ErrConflict, name)
		}
		s.log.Error("failed to create folder", "owner_id", ownerID, "name", name, "error", err)
		return nil, fmt.Errorf("create folder: %w", err)
	}
	f.ID = id

	return f, nil
}

func (s *Service) Rename(ctx context.Context, ownerID, folderID int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty folder name", ErrValidation)
	}
	if _, err := s.repo.Get(ctx, ownerID, folderID); err != nil {
		return err
	}

	if err := s.repo.Rename(ctx, ownerID, folderID, name); err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("%w: %q", ErrConflict, name)
		}
		s.log.Error("failed to rename folder", "folder_id", folderID, "error", err)
		return fmt.Errorf("rename folder: %w", err)
	}
	return nil
}

// Move re-parents a folder. The new parent's ancestor chain is walked with a
// visited set, so the check terminates even if the stored hierarchy is already
// corrupted into a cycle.
func (s *Service) Move(ctx context.Context, ownerID, folderID int, newParentID *int) error {
	if _, err := s.repo.Get(ctx, ownerID, folderID); err != nil {
		return err
	}

	if newParentID != nil {
		if *newParentID == folderID {
			return fmt.Errorf("%w: folder cannot be its own parent", ErrCycle)
		}
		if err := s.checkNoCycle(ctx, ownerID, folderID, *newParentID); err != nil {
			return err
		}
	}

	if err := s.repo.SetParent(ctx, ownerID, folderID, newParentID); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrConflict
		}
		s.log.Error("failed to move folder", "folder_id", folderID, "error", err)
		return fmt.Errorf("move folder: %w", err)
	}
	return nil
}

func (s *Service) checkNoCycle(ctx context.Context, ownerID, folderID, newParentID int) error {
	visited := map[int]bool{}
	current := newParentID
	for {
		if current == folderID {
			return fmt.Errorf("%w: folder %d is an ancestor of the target parent", ErrCycle, folderID)
		}
		if visited[current] {
			// The stored chain already loops; refuse the move rather than
			// spin or make it worse.
			s.log.Error("corrupted folder hierarchy detected", "owner_id", ownerID, "folder_id", current)
			return fmt.Errorf("%w: corrupted hierarchy at folder %d", ErrCycle, current)
		}
		visited[current] = true

		parent, err := s.repo.Get(ctx, ownerID, current)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

func (s *Service) Delete(ctx context.Context, ownerID, folderID int) error {
	if _, err := s.repo.Get(ctx, ownerID, folderID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, folderID); err != nil {
		s.log.Error("failed to delete folder", "folder_id", folderID, "error", err)
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, ownerID int) ([]Folder, error) {
	folders, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list folders", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}
