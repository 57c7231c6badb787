package vault

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"credvault/internal/domain/access"
	"credvault/internal/domain/audit"
)

// Codec encrypts and decrypts secret field values.
type Codec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type CreateInput struct {
	Title           string
	URL             string
	LoginType       LoginType
	Username        string
	Password        string
	TOTPSecret      string
	Notes           string
	GoogleAccountID *int
	FolderID        *int
}

// UpdateInput carries only the fields the caller wants to touch; nil means
// "leave unchanged". ClearFolder moves the item out of any folder.
type UpdateInput struct {
	Title       *string
	URL         *string
	LoginType   *LoginType
	Username    *string
	Password    *string
	TOTPSecret  *string
	Notes       *string
	FolderID    *int
	ClearFolder bool
}

type ListResponse struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

type Servicer interface {
	Create(ctx context.Context, ownerID int, input CreateInput, origin audit.Origin) (*Item, error)
	Get(ctx context.Context, actorID, itemID int) (*Item, error)
	Update(ctx context.Context, actorID, itemID int, input UpdateInput, origin audit.Origin) (*Item, error)
	Delete(ctx context.Context, actorID, itemID int, origin audit.Origin) error
	GrantAccess(ctx context.Context, actorID, itemID int, grantee access.Grantee, level access.Level, origin audit.Origin) error
	RevokeAccess(ctx context.Context, actorID, itemID int, grantee access.Grantee, origin audit.Origin) error
	ListGrants(ctx context.Context, actorID, itemID int) ([]access.Grant, error)
	List(ctx context.Context, actorID int, filter ListFilter) (ListResponse, error)
	History(ctx context.Context, actorID, itemID, limit int) ([]audit.Entry, error)
}

// Service orchestrates secure login items: resolver decisions gate every
// operation, secret fields pass through the codec on the way in and out, and
// every observable change lands in the audit trail. No other component writes
// to the item tables.
type Service struct {
	repo       Repository
	resolver   access.Resolver
	codec      Codec
	auditor    audit.Servicer
	identities IdentityLookup
	groups     GroupLookup
	tx         Transactor
	log        *slog.Logger
}

func NewService(
	repo Repository,
	resolver access.Resolver,
	codec Codec,
	auditor audit.Servicer,
	identities IdentityLookup,
	groups GroupLookup,
	tx Transactor,
	log *slog.Logger,
) Servicer {
	return &Service{
		repo:       repo,
		resolver:   resolver,
		codec:      codec,
		auditor:    auditor,
		identities: identities,
		groups:     groups,
		tx:         tx,
		log:        log.With("component", "vault_service"),
	}
}

func (s *Service) Create(ctx context.Context, ownerID int, input CreateInput, origin audit.Origin) (*Item, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: empty title", ErrValidation)
	}
	if err := input.LoginType.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.LoginType == LoginGoogleOAuth {
		if input.GoogleAccountID == nil {
			return nil, fmt.Errorf("%w: google_oauth items require a linked google account", ErrValidation)
		}
		ok, err := s.identities.GoogleAccountExists(ctx, *input.GoogleAccountID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("check google account: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: google account %d not found", ErrValidation, *input.GoogleAccountID)
		}
	}
	if input.FolderID != nil {
		ok, err := s.repo.FolderBelongsTo(ctx, *input.FolderID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("check folder: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: folder %d not found", ErrValidation, *input.FolderID)
		}
	}

	stored := &StoredItem{
		OwnerID:         ownerID,
		Title:           input.Title,
		URL:             input.URL,
		LoginType:       input.LoginType,
		GoogleAccountID: input.GoogleAccountID,
		FolderID:        input.FolderID,
	}
	if err := s.encryptInto(stored, input.Username, input.Password, input.TOTPSecret, input.Notes); err != nil {
		return nil, err
	}

	var itemID int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		id, err := s.repo.Create(ctx, stored)
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		itemID = id

		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourceVaultItem,
			ResourceID:   id,
			Action:       audit.ActionCreate,
			ActorID:      ownerID,
			Origin:       origin,
		})
		return nil
	})
	if err != nil {
		s.log.Error("failed to create item", "owner_id", ownerID, "error", err)
		return nil, err
	}

	s.log.Info("item created", "item_id", itemID, "owner_id", ownerID, "login_type", input.LoginType)
	stored.ID = itemID
	return s.decrypt(stored)
}

func (s *Service) Get(ctx context.Context, actorID, itemID int) (*Item, error) {
	stored, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !result.CanAccess {
		return nil, ErrDenied
	}

	return s.decrypt(stored)
}

// Update mutates the provided fields. Every changed tracked field yields one
// audit entry carrying the value this writer observed as old, so two racing
// writers never merge into a single history line. Untouched fields emit
// nothing.
func (s *Service) Update(ctx context.Context, actorID, itemID int, input UpdateInput, origin audit.Origin) (*Item, error) {
	stored, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !result.CanEdit() {
		return nil, ErrDenied
	}

	current, err := s.decrypt(stored)
	if err != nil {
		return nil, err
	}

	changes, err := s.applyChanges(ctx, stored, current, input)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return current, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, stored); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		for _, ch := range changes {
			s.auditor.Record(ctx, audit.Record{
				ResourceType: audit.ResourceVaultItem,
				ResourceID:   itemID,
				Action:       audit.ActionUpdate,
				ActorID:      actorID,
				Field:        ch.field,
				OldValue:     ch.oldValue,
				NewValue:     ch.newValue,
				Origin:       origin,
			})
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to update item", "item_id", itemID, "actor_id", actorID, "error", err)
		return nil, err
	}

	s.log.Info("item updated", "item_id", itemID, "actor_id", actorID, "changed_fields", len(changes))
	return s.decrypt(stored)
}

// Delete is owner-only: edit-level access does not extend to deletion. The
// audit entry is written before the physical delete so the trail survives a
// partial failure, and the grants cascade away with the row.
func (s *Service) Delete(ctx context.Context, actorID, itemID int, origin audit.Origin) error {
	if _, err := s.repo.Get(ctx, itemID); err != nil {
		return err
	}
	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return err
	}
	if !result.IsOwner() {
		return ErrDenied
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourceVaultItem,
			ResourceID:   itemID,
			Action:       audit.ActionDelete,
			ActorID:      actorID,
			Origin:       origin,
		})
		if err := s.repo.Delete(ctx, itemID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to delete item", "item_id", itemID, "actor_id", actorID, "error", err)
		return err
	}

	s.log.Info("item deleted", "item_id", itemID, "actor_id", actorID)
	return nil
}

func (s *Service) GrantAccess(ctx context.Context, actorID, itemID int, grantee access.Grantee, level access.Level, origin audit.Origin) error {
	if _, err := s.repo.Get(ctx, itemID); err != nil {
		return err
	}
	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return err
	}
	if !result.IsOwner() {
		return ErrDenied
	}
	if grantee.Type == access.GranteeUser && grantee.ID == actorID {
		return access.ErrSelfGrant
	}
	if err := s.checkGranteeExists(ctx, grantee); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.resolver.Grant(ctx, &access.Grant{ItemID: itemID, Grantee: grantee, Level: level}); err != nil {
			return err
		}
		value := grantValue(grantee, level)
		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourceVaultItem,
			ResourceID:   itemID,
			Action:       audit.ActionAccessGranted,
			ActorID:      actorID,
			Field:        "grant",
			NewValue:     &value,
			Origin:       origin,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("access granted",
		"item_id", itemID, "grantee_type", grantee.Type, "grantee_id", grantee.ID, "level", level)
	return nil
}

// checkGranteeExists verifies the grant target before any row is written, so
// a mistyped ID surfaces as a validation error instead of a store failure.
func (s *Service) checkGranteeExists(ctx context.Context, grantee access.Grantee) error {
	var (
		ok  bool
		err error
	)
	switch grantee.Type {
	case access.GranteeUser:
		ok, err = s.identities.Exists(ctx, grantee.ID)
	case access.GranteeGroup:
		ok, err = s.groups.Exists(ctx, grantee.ID)
	default:
		return fmt.Errorf("%w: unknown grantee type %q", ErrValidation, grantee.Type)
	}
	if err != nil {
		return fmt.Errorf("check grantee: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %d not found", ErrValidation, grantee.Type, grantee.ID)
	}
	return nil
}

func (s *Service) RevokeAccess(ctx context.Context, actorID, itemID int, grantee access.Grantee, origin audit.Origin) error {
	if _, err := s.repo.Get(ctx, itemID); err != nil {
		return err
	}
	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return err
	}
	if !result.IsOwner() {
		return ErrDenied
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		level, err := s.resolver.Revoke(ctx, itemID, grantee)
		if err != nil {
			return err
		}
		value := grantValue(grantee, level)
		s.auditor.Record(ctx, audit.Record{
			ResourceType: audit.ResourceVaultItem,
			ResourceID:   itemID,
			Action:       audit.ActionAccessRevoked,
			ActorID:      actorID,
			Field:        "grant",
			OldValue:     &value,
			Origin:       origin,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("access revoked",
		"item_id", itemID, "grantee_type", grantee.Type, "grantee_id", grantee.ID)
	return nil
}

func (s *Service) ListGrants(ctx context.Context, actorID, itemID int) ([]access.Grant, error) {
	if _, err := s.repo.Get(ctx, itemID); err != nil {
		return nil, err
	}
	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !result.IsOwner() {
		return nil, ErrDenied
	}
	return s.resolver.ListGrants(ctx, itemID)
}

// List computes the accessible set first and only then applies search filters
// and pagination, so the page boundaries and total never leak the existence of
// inaccessible items.
func (s *Service) List(ctx context.Context, actorID int, filter ListFilter) (ListResponse, error) {
	ids, err := s.resolver.AccessibleItemIDs(ctx, actorID)
	if err != nil {
		return ListResponse{}, err
	}
	if len(ids) == 0 {
		return ListResponse{Items: []Item{}, Total: 0}, nil
	}

	stored, total, err := s.repo.List(ctx, ids, filter)
	if err != nil {
		s.log.Error("failed to list items", "actor_id", actorID, "error", err)
		return ListResponse{}, fmt.Errorf("list items: %w", err)
	}

	items := make([]Item, 0, len(stored))
	for i := range stored {
		item, err := s.decrypt(&stored[i])
		if err != nil {
			return ListResponse{}, err
		}
		items = append(items, *item)
	}

	return ListResponse{Items: items, Total: total}, nil
}

func (s *Service) History(ctx context.Context, actorID, itemID, limit int) ([]audit.Entry, error) {
	if _, err := s.repo.Get(ctx, itemID); err != nil {
		return nil, err
	}
	result, err := s.resolver.Resolve(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !result.CanAccess {
		return nil, ErrDenied
	}

	return s.auditor.History(ctx, audit.ResourceVaultItem, itemID, limit)
}

type fieldChange struct {
	field    string
	oldValue *string
	newValue *string
}

// applyChanges diffs the input against the current decrypted state, mutates
// the stored item in place (encrypting secret fields) and returns one change
// per tracked field that actually differs.
func (s *Service) applyChanges(ctx context.Context, stored *StoredItem, current *Item, input UpdateInput) ([]fieldChange, error) {
	var changes []fieldChange

	addChange := func(field, oldVal, newVal string) {
		o, n := oldVal, newVal
		changes = append(changes, fieldChange{field: field, oldValue: &o, newValue: &n})
	}

	if input.Title != nil && *input.Title != current.Title {
		if *input.Title == "" {
			return nil, fmt.Errorf("%w: empty title", ErrValidation)
		}
		addChange("title", current.Title, *input.Title)
		stored.Title = *input.Title
	}
	if input.URL != nil && *input.URL != current.URL {
		addChange("url", current.URL, *input.URL)
		stored.URL = *input.URL
	}
	if input.LoginType != nil && *input.LoginType != current.LoginType {
		if err := input.LoginType.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if *input.LoginType == LoginGoogleOAuth {
			if stored.GoogleAccountID == nil {
				return nil, fmt.Errorf("%w: google_oauth items require a linked google account", ErrValidation)
			}
			ok, err := s.identities.GoogleAccountExists(ctx, *stored.GoogleAccountID, stored.OwnerID)
			if err != nil {
				return nil, fmt.Errorf("check google account: %w", err)
			}
			if !ok {
				return nil, fmt.Errorf("%w: google account %d not found", ErrValidation, *stored.GoogleAccountID)
			}
		}
		addChange("login_type", current.LoginType.String(), input.LoginType.String())
		stored.LoginType = *input.LoginType
	}

	secretUpdates := []struct {
		field   string
		input   *string
		current string
		target  *string
	}{
		{"username", input.Username, current.Username, &stored.Username},
		{"password", input.Password, current.Password, &stored.Password},
		{"totp_secret", input.TOTPSecret, current.TOTPSecret, &stored.TOTPSecret},
		{"notes", input.Notes, current.Notes, &stored.Notes},
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

	if input.ClearFolder {
		if current.FolderID != nil {
			addChange("folder_id", itoa(current.FolderID), "")
			stored.FolderID = nil
		}
	} else if input.FolderID != nil && (current.FolderID == nil || *current.FolderID != *input.FolderID) {
		ok, err := s.repo.FolderBelongsTo(ctx, *input.FolderID, stored.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("check folder: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: folder %d not found", ErrValidation, *input.FolderID)
		}
		addChange("folder_id", itoa(current.FolderID), itoa(input.FolderID))
		stored.FolderID = input.FolderID
	}

	return changes, nil
}

func (s *Service) encryptInto(stored *StoredItem, username, password, totpSecret, notes string) error {
	fields := []struct {
		name   string
		value  string
		target *string
	}{
		{"username", username, &stored.Username},
		{"password", password, &stored.Password},
		{"totp_secret", totpSecret, &stored.TOTPSecret},
		{"notes", notes, &stored.Notes},
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

// decrypt converts a stored item into its plaintext view. A codec failure is
// surfaced, never masked as an empty secret: it signals data corruption or a
// key mismatch and needs operator attention.
func (s *Service) decrypt(stored *StoredItem) (*Item, error) {
	item := &Item{
		ID:              stored.ID,
		OwnerID:         stored.OwnerID,
		Title:           stored.Title,
		URL:             stored.URL,
		LoginType:       stored.LoginType,
		GoogleAccountID: stored.GoogleAccountID,
		FolderID:        stored.FolderID,
		CreatedAt:       stored.CreatedAt,
		UpdatedAt:       stored.UpdatedAt,
	}

	fields := []struct {
		name   string
		value  string
		target *string
	}{
		{"username", stored.Username, &item.Username},
		{"password", stored.Password, &item.Password},
		{"totp_secret", stored.TOTPSecret, &item.TOTPSecret},
		{"notes", stored.Notes, &item.Notes},
	}
	for _, f := range fields {
		plaintext, err := s.codec.Decrypt(f.value)
		if err != nil {
			s.log.Error("field decryption failed",
				"item_id", stored.ID, "field", f.name, "error", err)
			return nil, fmt.Errorf("decrypt %s of item %d: %w", f.name, stored.ID, err)
		}
		*f.target = plaintext
	}

	return item, nil
}

func grantValue(grantee access.Grantee, level access.Level) string {
	return fmt.Sprintf("%s:%d:%s", grantee.Type, grantee.ID, level)
}

func itoa(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

// IsNotFound collapses the not-found and denied cases for callers that must
// not disclose item existence.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDenied)
}
