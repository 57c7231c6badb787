package group

import (
	"context"
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

func (m *MockRepository) Get(ctx context.Context, groupID int) (*Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, g *Group) (int, error) {
	args := m.Called(ctx, g)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, groupID int) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockRepository) ListForUser(ctx context.Context, userID int) ([]Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Group), args.Error(1)
}

func (m *MockRepository) Members(ctx context.Context, groupID int) ([]Member, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) GetMember(ctx context.Context, groupID, userID int) (*Member, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) AddMember(ctx context.Context, member *Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockRepository) RemoveMember(ctx context.Context, groupID, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockRepository) UpdateMemberRole(ctx context.Context, groupID, userID int, role MemberRole) error {
	args := m.Called(ctx, groupID, userID, role)
	return args.Error(0)
}

// MockIdentities is a mock implementation of the IdentityLookup interface
type MockIdentities struct {
	mock.Mock
}

func (m *MockIdentities) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// knownUsers answers true for any user lookup, for tests that are not about
// grantee existence.
func knownUsers() *MockIdentities {
	m := new(MockIdentities)
	m.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	return m
}

const (
	ownerID  = 1
	adminID  = 2
	memberID = 3
	otherID  = 4
)

func testGroup() *Group {
	return &Group{ID: 10, OwnerID: ownerID, Name: "marketing"}
}

func TestAddMember_ByOwner(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("AddMember", mock.Anything, mock.MatchedBy(func(m *Member) bool {
		return m.GroupID == 10 && m.UserID == otherID && m.Role == RoleMember
	})).Return(nil)

	err := service.AddMember(context.Background(), ownerID, 10, otherID, RoleMember)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAddMember_ByGroupAdmin(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("GetMember", mock.Anything, 10, adminID).
		Return(&Member{GroupID: 10, UserID: adminID, Role: RoleAdmin}, nil)
	mockRepo.On("AddMember", mock.Anything, mock.Anything).Return(nil)

	err := service.AddMember(context.Background(), adminID, 10, otherID, RoleMember)
	require.NoError(t, err)
}

func TestAddMember_PlainMemberDenied(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("GetMember", mock.Anything, 10, memberID).
		Return(&Member{GroupID: 10, UserID: memberID, Role: RoleMember}, nil)

	err := service.AddMember(context.Background(), memberID, 10, otherID, RoleMember)
	assert.ErrorIs(t, err, ErrDenied)
	mockRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestAddMember_OwnerCannotBeMember(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)

	err := service.AddMember(context.Background(), ownerID, 10, ownerID, RoleMember)
	assert.ErrorIs(t, err, ErrOwnerIsMember)
	mockRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestAddMember_DuplicateConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("AddMember", mock.Anything, mock.Anything).Return(ErrConflict)

	err := service.AddMember(context.Background(), ownerID, 10, memberID, RoleMember)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAddMember_InvalidRole(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	err := service.AddMember(context.Background(), ownerID, 10, otherID, MemberRole("superuser"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAddMember_UnknownUser(t *testing.T) {
	mockRepo := new(MockRepository)
	mockIdentities := new(MockIdentities)
	service := NewService(mockRepo, mockIdentities, slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockIdentities.On("Exists", mock.Anything, 99).Return(false, nil)

	// A mistyped user ID must fail validation before any row is written.
	err := service.AddMember(context.Background(), ownerID, 10, 99, RoleMember)
	assert.ErrorIs(t, err, ErrValidation)
	mockRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestRemoveMember_SelfRemoval(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("GetMember", mock.Anything, 10, memberID).
		Return(&Member{GroupID: 10, UserID: memberID, Role: RoleMember}, nil)
	mockRepo.On("RemoveMember", mock.Anything, 10, memberID).Return(nil)

	err := service.RemoveMember(context.Background(), memberID, 10, memberID)
	require.NoError(t, err)
}

func TestRemoveMember_StrangerDenied(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("GetMember", mock.Anything, 10, otherID).Return(nil, ErrMemberNotFound)

	err := service.RemoveMember(context.Background(), otherID, 10, memberID)
	assert.ErrorIs(t, err, ErrDenied)
}

func TestRemoveMember_OwnerProtected(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)

	err := service.RemoveMember(context.Background(), ownerID, 10, ownerID)
	assert.ErrorIs(t, err, ErrOwnerIsMember)
	mockRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRole_OwnerOnly(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)

	// A group admin may add members but must not adjust roles.
	err := service.UpdateRole(context.Background(), adminID, 10, memberID, RoleAdmin)
	assert.ErrorIs(t, err, ErrDenied)
	mockRepo.AssertNotCalled(t, "UpdateMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRole_ByOwner(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("GetMember", mock.Anything, 10, memberID).
		Return(&Member{GroupID: 10, UserID: memberID, Role: RoleMember}, nil)
	mockRepo.On("UpdateMemberRole", mock.Anything, 10, memberID, RoleAdmin).Return(nil)

	err := service.UpdateRole(context.Background(), ownerID, 10, memberID, RoleAdmin)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDelete_OwnerOnly(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)

	err := service.Delete(context.Background(), adminID, 10)
	assert.ErrorIs(t, err, ErrDenied)

	mockRepo.On("Delete", mock.Anything, 10).Return(nil)
	require.NoError(t, service.Delete(context.Background(), ownerID, 10))
}

func TestCanManage(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Get", mock.Anything, 10).Return(testGroup(), nil)
	mockRepo.On("GetMember", mock.Anything, 10, adminID).
		Return(&Member{GroupID: 10, UserID: adminID, Role: RoleAdmin}, nil)
	mockRepo.On("GetMember", mock.Anything, 10, memberID).
		Return(&Member{GroupID: 10, UserID: memberID, Role: RoleMember}, nil)
	mockRepo.On("GetMember", mock.Anything, 10, otherID).Return(nil, ErrMemberNotFound)

	for actor, want := range map[int]bool{
		ownerID:  true,
		adminID:  true,
		memberID: false,
		otherID:  false,
	} {
		got, err := service.CanManage(context.Background(), actor, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got, "actor %d", actor)
	}
}

func TestCreate_EmptyName(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	_, err := service.Create(context.Background(), ownerID, "   ")
	assert.ErrorIs(t, err, ErrValidation)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_DuplicateNamePerOwner(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, knownUsers(), slog.Default())

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(0, ErrConflict)

	_, err := service.Create(context.Background(), ownerID, "marketing")
	assert.ErrorIs(t, err, ErrConflict)
}
