package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"credvault/internal/crypto"
	"credvault/internal/domain/audit"
	"credvault/internal/domain/identity"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, platformID int) (*StoredCredential, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StoredCredential), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, cred *StoredCredential) (int, error) {
	args := m.Called(ctx, cred)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, cred *StoredCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, platformID int) error {
	args := m.Called(ctx, platformID)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter) ([]StoredCredential, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]StoredCredential), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpsertTag(ctx context.Context, tag *AccessTag) (string, error) {
	args := m.Called(ctx, tag)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) DeleteTag(ctx context.Context, platformID, userID int) (string, error) {
	args := m.Called(ctx, platformID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) ListTags(ctx context.Context, platformID int) ([]AccessTag, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AccessTag), args.Error(1)
}

type recordingAuditor struct {
	records []audit.Record
}

func (a *recordingAuditor) Record(_ context.Context, rec audit.Record) {
	a.records = append(a.records, rec)
}

func (a *recordingAuditor) History(context.Context, audit.ResourceType, int, int) ([]audit.Entry, error) {
	return nil, nil
}

type txPassthrough struct{}

func (txPassthrough) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	repo    *MockRepository
	auditor *recordingAuditor
	codec   *crypto.Codec
	service Servicer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := crypto.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	f := &fixture{
		repo:    new(MockRepository),
		auditor: &recordingAuditor{},
		codec:   codec,
	}
	f.service = NewService(f.repo, codec, f.auditor, txPassthrough{}, slog.Default())
	return f
}

func (f *fixture) storedCredential(t *testing.T, id int, password string) *StoredCredential {
	t.Helper()
	encPass, err := f.codec.Encrypt(password)
	require.NoError(t, err)
	return &StoredCredential{
		ID:          id,
		EcosystemID: 3,
		Name:        "Twitter",
		Username:    "brand_account",
		Password:    encPass,
	}
}

func actorWith(role identity.Role) identity.Principal {
	return identity.Principal{ID: 9, Login: "staff", Role: role}
}

func TestCreate_RequiresWriteRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), actorWith(identity.RoleRead), CreateInput{
		EcosystemID: 3,
		Name:        "Twitter",
	}, audit.Origin{})
	assert.ErrorIs(t, err, ErrDenied)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_EncryptsSecretsKeepsUsernamePlain(t *testing.T) {
	f := newFixture(t)

	var persisted *StoredCredential
	f.repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted = args.Get(1).(*StoredCredential)
	}).Return(11, nil)

	cred, err := f.service.Create(context.Background(), actorWith(identity.RoleWrite), CreateInput{
		EcosystemID: 3,
		Name:        "Twitter",
		Username:    "brand_account",
		Password:    "hunter2",
	}, audit.Origin{})
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, "brand_account", persisted.Username)
	assert.NotEqual(t, "hunter2", persisted.Password)
	assert.Equal(t, "hunter2", cred.Password)

	require.Len(t, f.auditor.records, 1)
	assert.Equal(t, audit.ActionCreate, f.auditor.records[0].Action)
	assert.Equal(t, audit.ResourcePlatform, f.auditor.records[0].ResourceType)
}

func TestGet_AnyValidRoleReads(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)

	cred, err := f.service.Get(context.Background(), actorWith(identity.RoleRead), 11)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cred.Password)
}

func TestGet_NotFoundStaysDistinctFromDenied(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 99).Return(nil, ErrNotFound)

	_, err := f.service.Get(context.Background(), actorWith(identity.RoleRead), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDenied)
}

func TestUpdate_ReadRoleDenied(t *testing.T) {
	f := newFixture(t)

	newPass := "hunter3"
	_, err := f.service.Update(context.Background(), actorWith(identity.RoleRead), 11,
		UpdateInput{Password: &newPass}, audit.Origin{})
	assert.ErrorIs(t, err, ErrDenied)
	f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUpdate_PerFieldAudit(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	newUser := "brand_account_v2"
	newPass := "hunter3"
	_, err := f.service.Update(context.Background(), actorWith(identity.RoleWrite), 11, UpdateInput{
		Username: &newUser,
		Password: &newPass,
	}, audit.Origin{})
	require.NoError(t, err)

	require.Len(t, f.auditor.records, 2)
	byField := map[string]audit.Record{}
	for _, rec := range f.auditor.records {
		byField[rec.Field] = rec
	}
	assert.Equal(t, "hunter2", *byField["password"].OldValue)
	assert.Equal(t, "hunter3", *byField["password"].NewValue)
	assert.Equal(t, "brand_account", *byField["username"].OldValue)

	// Username is plaintext metadata here, only the secrets get redacted in
	// the trail.
	assert.True(t, audit.IsSensitive(audit.ResourcePlatform, "password"))
	assert.False(t, audit.IsSensitive(audit.ResourcePlatform, "username"))
}

func TestUpdate_NoOpEmitsNothing(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)

	samePass := "hunter2"
	_, err := f.service.Update(context.Background(), actorWith(identity.RoleWrite), 11,
		UpdateInput{Password: &samePass}, audit.Origin{})
	require.NoError(t, err)

	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, f.auditor.records)
}

func TestDelete_RequiresManagerRole(t *testing.T) {
	f := newFixture(t)

	err := f.service.Delete(context.Background(), actorWith(identity.RoleWrite), 11, audit.Origin{})
	assert.ErrorIs(t, err, ErrDenied)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)
	f.repo.On("Delete", mock.Anything, 11).Return(nil)

	err = f.service.Delete(context.Background(), actorWith(identity.RoleManager), 11, audit.Origin{})
	require.NoError(t, err)
	require.Len(t, f.auditor.records, 1)
	assert.Equal(t, audit.ActionDelete, f.auditor.records[0].Action)
}

func TestSetAccessTag_UpsertAuditedAsGrant(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)
	f.repo.On("UpsertTag", mock.Anything, mock.MatchedBy(func(tag *AccessTag) bool {
		return tag.PlatformID == 11 && tag.UserID == 4 && tag.Label == "Editor"
	})).Return("", nil)

	err := f.service.SetAccessTag(context.Background(), actorWith(identity.RoleManager), 11, 4, "Editor", audit.Origin{})
	require.NoError(t, err)

	require.Len(t, f.auditor.records, 1)
	rec := f.auditor.records[0]
	assert.Equal(t, audit.ActionAccessGranted, rec.Action)
	assert.Equal(t, "access_tag", rec.Field)
	assert.Equal(t, "user:4:Editor", *rec.NewValue)
	assert.Nil(t, rec.OldValue)
}

func TestSetAccessTag_RelabelCarriesPreviousLabel(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)
	f.repo.On("UpsertTag", mock.Anything, mock.Anything).Return("Editor", nil)

	err := f.service.SetAccessTag(context.Background(), actorWith(identity.RoleAdmin), 11, 4, "Admin", audit.Origin{})
	require.NoError(t, err)

	require.Len(t, f.auditor.records, 1)
	rec := f.auditor.records[0]
	assert.Equal(t, "user:4:Editor", *rec.OldValue)
	assert.Equal(t, "user:4:Admin", *rec.NewValue)
}

func TestSetAccessTag_WriteRoleDenied(t *testing.T) {
	f := newFixture(t)

	err := f.service.SetAccessTag(context.Background(), actorWith(identity.RoleWrite), 11, 4, "Editor", audit.Origin{})
	assert.ErrorIs(t, err, ErrDenied)
	f.repo.AssertNotCalled(t, "UpsertTag", mock.Anything, mock.Anything)
}

func TestRemoveAccessTag_Audited(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)
	f.repo.On("DeleteTag", mock.Anything, 11, 4).Return("Editor", nil)

	err := f.service.RemoveAccessTag(context.Background(), actorWith(identity.RoleManager), 11, 4, audit.Origin{})
	require.NoError(t, err)

	require.Len(t, f.auditor.records, 1)
	rec := f.auditor.records[0]
	assert.Equal(t, audit.ActionAccessRevoked, rec.Action)
	assert.Equal(t, "user:4:Editor", *rec.OldValue)
}

func TestRemoveAccessTag_MissingTag(t *testing.T) {
	f := newFixture(t)

	f.repo.On("Get", mock.Anything, 11).Return(f.storedCredential(t, 11, "hunter2"), nil)
	f.repo.On("DeleteTag", mock.Anything, 11, 4).Return("", ErrTagNotFound)

	err := f.service.RemoveAccessTag(context.Background(), actorWith(identity.RoleManager), 11, 4, audit.Origin{})
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.Empty(t, f.auditor.records)
}

func TestList_DecryptsEachCredential(t *testing.T) {
	f := newFixture(t)

	f.repo.On("List", mock.Anything, mock.Anything).
		Return([]StoredCredential{*f.storedCredential(t, 11, "hunter2")}, 1, nil)

	resp, err := f.service.List(context.Background(), actorWith(identity.RoleRead), ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Credentials, 1)
	assert.Equal(t, "hunter2", resp.Credentials[0].Password)
}
