package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ItemOwner(ctx context.Context, itemID int) (int, error) {
	args := m.Called(ctx, itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UserGrantLevel(ctx context.Context, itemID, userID int) (Level, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(Level), args.Error(1)
}

func (m *MockRepository) GroupGrantLevels(ctx context.Context, itemID, userID int) ([]Level, error) {
	args := m.Called(ctx, itemID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Level), args.Error(1)
}

func (m *MockRepository) AccessibleItemIDs(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockRepository) UpsertGrant(ctx context.Context, grant *Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockRepository) DeleteGrant(ctx context.Context, itemID int, grantee Grantee) (Level, error) {
	args := m.Called(ctx, itemID, grantee)
	return args.Get(0).(Level), args.Error(1)
}

func (m *MockRepository) ListGrants(ctx context.Context, itemID int) ([]Grant, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Grant), args.Error(1)
}

func TestResolve_OwnerShortCircuits(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	// Only the owner lookup may run; grants must not even be consulted.
	mockRepo.On("ItemOwner", mock.Anything, 10).Return(1, nil)

	result, err := resolver.Resolve(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, result.CanAccess)
	assert.Equal(t, LevelOwner, result.Level)
	assert.True(t, result.IsOwner())
	assert.True(t, result.CanEdit())

	mockRepo.AssertNotCalled(t, "UserGrantLevel", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "GroupGrantLevels", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_DirectGrantVerbatim(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	mockRepo.On("ItemOwner", mock.Anything, 10).Return(1, nil)
	mockRepo.On("UserGrantLevel", mock.Anything, 10, 2).Return(LevelRead, nil)

	result, err := resolver.Resolve(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.True(t, result.CanAccess)
	assert.Equal(t, LevelRead, result.Level)
	assert.False(t, result.CanEdit())

	mockRepo.AssertNotCalled(t, "GroupGrantLevels", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_GroupMostPermissiveWins(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	mockRepo.On("ItemOwner", mock.Anything, 10).Return(1, nil)
	mockRepo.On("UserGrantLevel", mock.Anything, 10, 2).Return(LevelNone, ErrGrantNotFound)
	mockRepo.On("GroupGrantLevels", mock.Anything, 10, 2).Return([]Level{LevelRead, LevelEdit, LevelRead}, nil)

	result, err := resolver.Resolve(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.True(t, result.CanAccess)
	assert.Equal(t, LevelEdit, result.Level)
	assert.True(t, result.CanEdit())
	assert.False(t, result.IsOwner())
}

func TestResolve_NoRelationIsNone(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	mockRepo.On("ItemOwner", mock.Anything, 10).Return(1, nil)
	mockRepo.On("UserGrantLevel", mock.Anything, 10, 2).Return(LevelNone, ErrGrantNotFound)
	mockRepo.On("GroupGrantLevels", mock.Anything, 10, 2).Return([]Level{}, nil)

	result, err := resolver.Resolve(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.False(t, result.CanAccess)
	assert.Equal(t, LevelNone, result.Level)
}

func TestResolve_MissingItemIndistinguishableFromNoAccess(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	mockRepo.On("ItemOwner", mock.Anything, 99).Return(0, ErrItemNotFound)

	result, err := resolver.Resolve(context.Background(), 2, 99)
	require.NoError(t, err)
	assert.False(t, result.CanAccess)
	assert.Equal(t, LevelNone, result.Level)
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	mockRepo.On("ItemOwner", mock.Anything, 10).Return(0, errors.New("connection refused"))

	_, err := resolver.Resolve(context.Background(), 2, 10)
	assert.Error(t, err)
}

func TestGrant_RejectsNonGrantableLevels(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	for _, level := range []Level{LevelOwner, LevelNone, Level("admin")} {
		err := resolver.Grant(context.Background(), &Grant{
			ItemID:  10,
			Grantee: Grantee{Type: GranteeUser, ID: 2},
			Level:   level,
		})
		assert.Error(t, err, "level %q", level)
	}
	mockRepo.AssertNotCalled(t, "UpsertGrant", mock.Anything, mock.Anything)
}

func TestGrant_Upserts(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	grant := &Grant{ItemID: 10, Grantee: Grantee{Type: GranteeGroup, ID: 5}, Level: LevelEdit}
	mockRepo.On("UpsertGrant", mock.Anything, grant).Return(nil)

	require.NoError(t, resolver.Grant(context.Background(), grant))
	mockRepo.AssertExpectations(t)
}

func TestRevoke_MissingGrant(t *testing.T) {
	mockRepo := new(MockRepository)
	resolver := NewService(mockRepo, slog.Default())

	grantee := Grantee{Type: GranteeUser, ID: 2}
	mockRepo.On("DeleteGrant", mock.Anything, 10, grantee).Return(LevelNone, ErrGrantNotFound)

	_, err := resolver.Revoke(context.Background(), 10, grantee)
	assert.ErrorIs(t, err, ErrGrantNotFound)
}

func TestLevel_Max(t *testing.T) {
	assert.Equal(t, LevelEdit, LevelRead.Max(LevelEdit))
	assert.Equal(t, LevelEdit, LevelEdit.Max(LevelRead))
	assert.Equal(t, LevelOwner, LevelOwner.Max(LevelEdit))
	assert.Equal(t, LevelRead, LevelNone.Max(LevelRead))
}
