package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Create(ctx context.Context, ownerID int, name string) (*Group, error)
	Delete(ctx context.Context, actorID, groupID int) error
	List(ctx context.Context, userID int) ([]Group, error)
	Members(ctx context.Context, actorID, groupID int) ([]Member, error)
	AddMember(ctx context.Context, actorID, groupID, userID int, role MemberRole) error
	RemoveMember(ctx context.Context, actorID, groupID, userID int) error
	UpdateRole(ctx context.Context, actorID, groupID, userID int, role MemberRole) error
	CanManage(ctx context.Context, actorID, groupID int) (bool, error)
}

// Service manages sharing groups. Management authority is group ownership or
// an admin member row; it is independent of any resource access level.
type Service struct {
	repo       Repository
	identities IdentityLookup
	log        *slog.Logger
}

func NewService(repo Repository, identities IdentityLookup, log *slog.Logger) Servicer {
	return &Service{
		repo:       repo,
		identities: identities,
		log:        log.With("component", "group_service"),
	}
}

func (s *Service) Create(ctx context.Context, ownerID int, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty group name", ErrValidation)
	}

	g := &Group{OwnerID: ownerID, Name: name}
	id, err := s.repo.Create(ctx, g)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: group %q", ErrConflict, name)
		}
		s.log.Error("failed to create group", "owner_id", ownerID, "name", name, "error", err)
		return nil, fmt.Errorf("create group: %w", err)
	}
	g.ID = id

	s.log.Info("group created", "group_id", id, "owner_id", ownerID)
	return g, nil
}

func (s *Service) Delete(ctx context.Context, actorID, groupID int) error {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != actorID {
		return ErrDenied
	}

	if err := s.repo.Delete(ctx, groupID); err != nil {
		s.log.Error("failed to delete group", "group_id", groupID, "error", err)
		return fmt.Errorf("delete group: %w", err)
	}

	s.log.Info("group deleted", "group_id", groupID, "actor_id", actorID)
	return nil
}

func (s *Service) List(ctx context.Context, userID int) ([]Group, error) {
	groups, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list groups", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (s *Service) Members(ctx context.Context, actorID, groupID int) ([]Member, error) {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != actorID {
		if _, err := s.repo.GetMember(ctx, groupID, actorID); err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				return nil, ErrDenied
			}
			return nil, fmt.Errorf("check membership: %w", err)
		}
	}

	members, err := s.repo.Members(ctx, groupID)
	if err != nil {
		s.log.Error("failed to list members", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// AddMember requires management authority. The owner can never appear as a
// member row: ownership is a separate, always-superior relation.
func (s *Service) AddMember(ctx context.Context, actorID, groupID, userID int, role MemberRole) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if ok, err := s.canManage(ctx, g, actorID); err != nil {
		return err
	} else if !ok {
		return ErrDenied
	}
	if userID == g.OwnerID {
		return ErrOwnerIsMember
	}
	ok, err := s.identities.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user %d not found", ErrValidation, userID)
	}

	if err := s.repo.AddMember(ctx, &Member{GroupID: groupID, UserID: userID, Role: role}); err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("%w: user %d", ErrConflict, userID)
		}
		s.log.Error("failed to add member",
			"group_id", groupID, "user_id", userID, "error", err)
		return fmt.Errorf("add member: %w", err)
	}

	s.log.Info("member added", "group_id", groupID, "user_id", userID, "role", role, "actor_id", actorID)
	return nil
}

// RemoveMember allows managers to remove anyone and members to remove
// themselves. The owner is not a member and cannot be removed here.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, userID int) error {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if userID == g.OwnerID {
		return ErrOwnerIsMember
	}
	if actorID != userID {
		if ok, err := s.canManage(ctx, g, actorID); err != nil {
			return err
		} else if !ok {
			return ErrDenied
		}
	}

	if _, err := s.repo.GetMember(ctx, groupID, userID); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		s.log.Error("failed to remove member",
			"group_id", groupID, "user_id", userID, "error", err)
		return fmt.Errorf("remove member: %w", err)
	}

	s.log.Info("member removed", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	return nil
}

// UpdateRole is owner-only: admins cannot change roles, their own included.
func (s *Service) UpdateRole(ctx context.Context, actorID, groupID, userID int, role MemberRole) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != actorID {
		return ErrDenied
	}

	if _, err := s.repo.GetMember(ctx, groupID, userID); err != nil {
		return err
	}
	if err := s.repo.UpdateMemberRole(ctx, groupID, userID, role); err != nil {
		s.log.Error("failed to update member role",
			"group_id", groupID, "user_id", userID, "role", role, "error", err)
		return fmt.Errorf("update member role: %w", err)
	}

	s.log.Info("member role updated", "group_id", groupID, "user_id", userID, "role", role)
	return nil
}

// CanManage reports whether the actor owns the group or holds the admin role
// in its membership table.
func (s *Service) CanManage(ctx context.Context, actorID, groupID int) (bool, error) {
	g, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	return s.canManage(ctx, g, actorID)
}

func (s *Service) canManage(ctx context.Context, g *Group, actorID int) (bool, error) {
	if g.OwnerID == actorID {
		return true, nil
	}
	m, err := s.repo.GetMember(ctx, g.ID, actorID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check membership: %w", err)
	}
	return m.Role == RoleAdmin, nil
}
