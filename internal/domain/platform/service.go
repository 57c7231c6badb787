package platform

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"credvault/internal/domain/audit"
	"credvault/internal/domain/identity"
)

// Codec encrypts and decrypts secret field values.
type Codec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type CreateInput struct {
	EcosystemID int
	Name        string
	URL         string
	Username    string
	Password    string
	TOTPSecret  string
	Notes       string
}

// UpdateInput carries only the fields the caller wants to touch; nil means
// "leave unchanged".
type UpdateInput struct {
	Name       *string
	URL        *string
	Username   *string
	Password   *string
	TOTPSecret *string
	Notes      *string
}

type ListResponse struct {
	Credentials []Credential `json:"credentials"`
	Total       int          `json:"total"`
}

type Servicer interface {
	Create(ctx context.Context, actor identity.Principal, input CreateInput, origin audit.Origin) (*Credential, error)
	Get(ctx context.Context, actor identity.Principal, platformID int) (*Credential, error)
	Update(ctx context.Context, actor identity.Principal, platformID int, input UpdateInput, origin audit.Origin) (*Credential, error)
	Delete(ctx context.Context, actor identity.Principal, platformID int, origin audit.Origin) error
	List(ctx context.Context, actor identity.Principal, filter ListFilter) (ListResponse, error)
	SetAccessTag(ctx context.Context, actor identity.Principal, platformID, userID int, label string, origin audit.Origin) error
	RemoveAccessTag(ctx context.Context, actor identity.Principal, platformID, userID int, origin audit.Origin) error
	ListAccessTags(ctx context.Context, actor identity.Principal, platformID int) ([]AccessTag, error)
	History(ctx context.Context, actor identity.Principal, platformID, limit int) ([]audit.Entry, error)
}

// Service manages ecosystem-scoped platform credentials. Authorization here is
// the principal's ecosystem role, not a per-item resolution: every member can
// read, write grade mutates, manager grade deletes. Existence is already
// visible through ecosystem membership, so not-found and denied stay distinct.
type Service struct {
	repo    Repository
	codec   Codec
	auditor audit.Servicer
	tx      Transactor
	log     *slog.Logger
}

func NewService(repo Repository, codec Codec, auditor audit.Servicer, tx Transactor, log *slog.Logger) Servicer {
	return &Service{
		repo:    repo,
		codec:   codec,
		auditor: auditor,
		tx:      tx,
		log:     log.With("component", "platform_service"),
	}
}

func (s *Service) Create(ctx context.Context, actor identity.Principal, input CreateInput, origin audit.Origin) (*Credential, error) {
	if !actor.Role.AtLeast(identity.RoleWrite) {
		return nil, ErrDenied
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrValidation)
	}
	if input.EcosystemID <= 0 {
		return nil, fmt.Errorf("%w: missing ecosystem", ErrValidation)
	}

	stored := &StoredCredential{
		EcosystemID: input.EcosystemID,
		Name:        input.Name,
		URL:         input.URL,
		Username:    input.Username,
		Notes:       input.Notes,
	}
	if err := s.encryptInto(stored, input.Password, input.TOTPSecret); err != nil {
		return nil, err
	}

	var platformID int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		id, err := s.repo.Create(ctx, stored)
		if err != nil {
			return fmt.Errorf("create platform credential: %w", err)
		}
		platformID = id

		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourcePlatform,
			ResourceID:   id,
			Action:       audit.ActionCreate,
			ActorID:      actor.ID,
			Origin:       origin,
		})
		return nil
	})
	if err != nil {
		s.log.Error("failed to create platform credential",
			"ecosystem_id", input.EcosystemID, "actor_id", actor.ID, "error", err)
		return nil, err
	}

	s.log.Info("platform credential created",
		"platform_id", platformID, "ecosystem_id", input.EcosystemID, "actor_id", actor.ID)
	stored.ID = platformID
	return s.decrypt(stored)
}

func (s *Service) Get(ctx context.Context, actor identity.Principal, platformID int) (*Credential, error) {
	if !actor.Role.Valid() {
		return nil, ErrDenied
	}
	stored, err := s.repo.Get(ctx, platformID)
	if err != nil {
		return nil, err
	}
	return s.decrypt(stored)
}

func (s *Service) Update(ctx context.Context, actor identity.Principal, platformID int, input UpdateInput, origin audit.Origin) (*Credential, error) {
	if !actor.Role.AtLeast(identity.RoleWrite) {
		return nil, ErrDenied
	}
	stored, err := s.repo.Get(ctx, platformID)
	if err != nil {
		return nil, err
	}
	current, err := s.decrypt(stored)
	if err != nil {
		return nil, err
	}

	changes, err := s.applyChanges(stored, current, input)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return current, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, stored); err != nil {
			return fmt.Errorf("update platform credential: %w", err)
		}
		for _, ch := range changes {
			s.auditor.Record(ctx, audit.Record{
				ResourceType: audit.ResourcePlatform,
				ResourceID:   platformID,
				Action:       audit.ActionUpdate,
				ActorID:      actor.ID,
				Field:        ch.field,
				OldValue:     ch.oldValue,
				NewValue:     ch.newValue,
				Origin:       origin,
			})
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to update platform credential",
			"platform_id", platformID, "actor_id", actor.ID, "error", err)
		return nil, err
	}

	s.log.Info("platform credential updated",
		"platform_id", platformID, "actor_id", actor.ID, "changed_fields", len(changes))
	return s.decrypt(stored)
}

func (s *Service) Delete(ctx context.Context, actor identity.Principal, platformID int, origin audit.Origin) error {
	if !actor.Role.AtLeast(identity.RoleManager) {
		return ErrDenied
	}
	if _, err := s.repo.Get(ctx, platformID); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourcePlatform,
			ResourceID:   platformID,
			Action:       audit.ActionDelete,
			ActorID:      actor.ID,
			Origin:       origin,
		})
		if err := s.repo.Delete(ctx, platformID); err != nil {
			return fmt.Errorf("delete platform credential: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to delete platform credential",
			"platform_id", platformID, "actor_id", actor.ID, "error", err)
		return err
	}

	s.log.Info("platform credential deleted", "platform_id", platformID, "actor_id", actor.ID)
	return nil
}

func (s *Service) List(ctx context.Context, actor identity.Principal, filter ListFilter) (ListResponse, error) {
	if !actor.Role.Valid() {
		return ListResponse{}, ErrDenied
	}
	stored, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("failed to list platform credentials", "actor_id", actor.ID, "error", err)
		return ListResponse{}, fmt.Errorf("list platform credentials: %w", err)
	}

	creds := make([]Credential, 0, len(stored))
	for i := range stored {
		cred, err := s.decrypt(&stored[i])
		if err != nil {
			return ListResponse{}, err
		}
		creds = append(creds, *cred)
	}
	return ListResponse{Credentials: creds, Total: total}, nil
}

// SetAccessTag attaches or relabels an advisory role tag. The label is free
// text and never interpreted; it is still audited like a grant so the trail
// shows who was handed the account.
func (s *Service) SetAccessTag(ctx context.Context, actor identity.Principal, platformID, userID int, label string, origin audit.Origin) error {
	if !actor.Role.AtLeast(identity.RoleManager) {
		return ErrDenied
	}
	if label == "" {
		return fmt.Errorf("%w: empty tag label", ErrValidation)
	}
	if _, err := s.repo.Get(ctx, platformID); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		previous, err := s.repo.UpsertTag(ctx, &AccessTag{
			PlatformID: platformID,
			UserID:     userID,
			Label:      label,
		})
		if err != nil {
			return fmt.Errorf("upsert access tag: %w", err)
		}

		rec := audit.Record{
			ResourceType: audit.ResourcePlatform,
			ResourceID:   platformID,
			Action:       audit.ActionAccessGranted,
			ActorID:      actor.ID,
			Field:        "access_tag",
			NewValue:     tagValue(userID, label),
			Origin:       origin,
		}
		if previous != "" {
			rec.OldValue = tagValue(userID, previous)
		}
		s.auditor.Record(ctx, rec)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("access tag set",
		"platform_id", platformID, "user_id", userID, "label", label, "actor_id", actor.ID)
	return nil
}

func (s *Service) RemoveAccessTag(ctx context.Context, actor identity.Principal, platformID, userID int, origin audit.Origin) error {
	if !actor.Role.AtLeast(identity.RoleManager) {
		return ErrDenied
	}
	if _, err := s.repo.Get(ctx, platformID); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		label, err := s.repo.DeleteTag(ctx, platformID, userID)
		if err != nil {
			return err
		}
		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourcePlatform,
			ResourceID:   platformID,
			Action:       audit.ActionAccessRevoked,
			ActorID:      actor.ID,
			Field:        "access_tag",
			OldValue:     tagValue(userID, label),
			Origin:       origin,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("access tag removed", "platform_id", platformID, "user_id", userID, "actor_id", actor.ID)
	return nil
}

func (s *Service) ListAccessTags(ctx context.Context, actor identity.Principal, platformID int) ([]AccessTag, error) {
	if !actor.Role.Valid() {
		return nil, ErrDenied
	}
	if _, err := s.repo.Get(ctx, platformID); err != nil {
		return nil, err
	}
	return s.repo.ListTags(ctx, platformID)
}

func (s *Service) History(ctx context.Context, actor identity.Principal, platformID, limit int) ([]audit.Entry, error) {
	if !actor.Role.Valid() {
		return nil, ErrDenied
	}
	if _, err := s.repo.Get(ctx, platformID); err != nil {
		return nil, err
	}
	return s.auditor.History(ctx, audit.ResourcePlatform, platformID, limit)
}

type fieldChange struct {
	field    string
	oldValue *string
	newValue *string
}

func (s *Service) applyChanges(stored *StoredCredential, current *Credential, input UpdateInput) ([]fieldChange, error) {
	var changes []fieldChange

	addChange := func(field, oldVal, newVal string) {
		o, n := oldVal, newVal
		changes = append(changes, fieldChange{field: field, oldValue: &o, newValue: &n})
	}

	if input.Name != nil && *input.Name != current.Name {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrValidation)
		}
		addChange("name", current.Name, *input.Name)
		stored.Name = *input.Name
	}
	if input.URL != nil && *input.URL != current.URL {
		addChange("url", current.URL, *input.URL)
		stored.URL = *input.URL
	}
	if input.Username != nil && *input.Username != current.Username {
		addChange("username", current.Username, *input.Username)
		stored.Username = *input.Username
	}
	if input.Notes != nil && *input.Notes != current.Notes {
		addChange("notes", current.Notes, *input.Notes)
		stored.Notes = *input.Notes
	}

	secretUpdates := []struct {
		field   string
		input   *string
		current string
		target  *string
	}{
		{"password", input.Password, current.Password, &stored.Password},
		{"totp_secret", input.TOTPSecret, current.TOTPSecret, &stored.TOTPSecret},
	}
	for _, su := range secretUpdates {
		if su.input == nil || *su.input == su.current {
			continue
		}
		encrypted, err := s.codec.Encrypt(*su.input)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", su.field, err)
		}
		addChange(su.field, su.current, *su.input)
		*su.target = encrypted
	}

	return changes, nil
}

func (s *Service) encryptInto(stored *StoredCredential, password, totpSecret string) error {
	fields := []struct {
		name   string
		value  string
		target *string
	}{
		{"password", password, &stored.Password},
		{"totp_secret", totpSecret, &stored.TOTPSecret},
	}
	for _, f := range fields {
		encrypted, err := s.codec.Encrypt(f.value)
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", f.name, err)
		}
		*f.target = encrypted
	}
	return nil
}

func (s *Service) decrypt(stored *StoredCredential) (*Credential, error) {
	cred := &Credential{
		ID:          stored.ID,
		EcosystemID: stored.EcosystemID,
		Name:        stored.Name,
		URL:         stored.URL,
		Username:    stored.Username,
		Notes:       stored.Notes,
		CreatedAt:   stored.CreatedAt,
		UpdatedAt:   stored.UpdatedAt,
	}

	fields := []struct {
		name   string
		value  string
		target *string
	}{
		{"password", stored.Password, &cred.Password},
		{"totp_secret", stored.TOTPSecret, &cred.TOTPSecret},
	}
	for _, f := range fields {
		plaintext, err := s.codec.Decrypt(f.value)
		if err != nil {
			s.log.Error("field decryption failed",
				"platform_id", stored.ID, "field", f.name, "error", err)
			return nil, fmt.Errorf("decrypt %s of platform %d: %w", f.name, stored.ID, err)
		}
		*f.target = plaintext
	}

	return cred, nil
}

func tagValue(userID int, label string) *string {
	v := fmt.Sprintf("user:%d:%s", userID, label)
	return &v
}
