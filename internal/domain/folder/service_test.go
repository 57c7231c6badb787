package folder

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

func (m *MockRepository) Get(ctx context.Context, ownerID, folderID int) (*Folder, error) {
	args := m.Called(ctx, ownerID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Folder), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, f *Folder) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Rename(ctx context.Context, ownerID, folderID int, name string) error {
	args := m.Called(ctx, ownerID, folderID, name)
	return args.Error(0)
}

func (m *MockRepository) SetParent(ctx context.Context, ownerID, folderID int, parentID *int) error {
	args := m.Called(ctx, ownerID, folderID, parentID)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, ownerID, folderID int) error {
	args := m.Called(ctx, ownerID, folderID)
	return args.Error(0)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID int) ([]Folder, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Folder), args.Error(1)
}

func intPtr(v int) *int { return &v }

// chain A(1) <- B(2) <- C(3): C's parent is B, B's parent is A.
func chainRepo(t *testing.T) *MockRepository {
	t.Helper()
	mockRepo := new(MockRepository)
	mockRepo.On("Get", mock.Anything, 1, 1).Return(&Folder{ID: 1, OwnerID: 1, Name: "A"}, nil)
	mockRepo.On("Get", mock.Anything, 1, 2).Return(&Folder{ID: 2, OwnerID: 1, ParentID: intPtr(1), Name: "B"}, nil)
	mockRepo.On("Get", mock.Anything, 1, 3).Return(&Folder{ID: 3, OwnerID: 1, ParentID: intPtr(2), Name: "C"}, nil)
	return mockRepo
}

func TestMove_CycleRejected(t *testing.T) {
	mockRepo := chainRepo(t)
	service := NewService(mockRepo, slog.Default())

	// Re-parenting A under C would close the loop A -> B -> C -> A.
	err := service.Move(context.Background(), 1, 1, intPtr(3))
	assert.ErrorIs(t, err, ErrCycle)
	mockRepo.AssertNotCalled(t, "SetParent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMove_SelfParentRejected(t *testing.T) {
	mockRepo := chainRepo(t)
	service := NewService(mockRepo, slog.Default())

	err := service.Move(context.Background(), 1, 2, intPtr(2))
	assert.ErrorIs(t, err, ErrCycle)
}

func TestMove_ValidReparent(t *testing.T) {
	mockRepo := chainRepo(t)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("SetParent", mock.Anything, 1, 3, intPtr(1)).Return(nil)

	// Moving C directly under A is fine.
	err := service.Move(context.Background(), 1, 3, intPtr(1))
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestMove_ToRoot(t *testing.T) {
	mockRepo := chainRepo(t)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("SetParent", mock.Anything, 1, 3, (*int)(nil)).Return(nil)

	err := service.Move(context.Background(), 1, 3, nil)
	require.NoError(t, err)
}

func TestMove_CorruptedHierarchyTerminates(t *testing.T) {
	// Pre-existing loop 5 <-> 6 that does not involve the folder being moved.
	mockRepo := new(MockRepository)
	mockRepo.On("Get", mock.Anything, 1, 4).Return(&Folder{ID: 4, OwnerID: 1, Name: "D"}, nil)
	mockRepo.On("Get", mock.Anything, 1, 5).Return(&Folder{ID: 5, OwnerID: 1, ParentID: intPtr(6), Name: "E"}, nil)
	mockRepo.On("Get", mock.Anything, 1, 6).Return(&Folder{ID: 6, OwnerID: 1, ParentID: intPtr(5), Name: "F"}, nil)

	service := NewService(mockRepo, slog.Default())

	err := service.Move(context.Background(), 1, 4, intPtr(5))
	assert.ErrorIs(t, err, ErrCycle)
}

func TestCreate_SiblingNameConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(0, ErrConflict)

	_, err := service.Create(context.Background(), 1, "Work", nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreate_ParentMustExist(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, 1, 99).Return(nil, ErrNotFound)

	_, err := service.Create(context.Background(), 1, "Work", intPtr(99))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_EmptyName(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	_, err := service.Create(context.Background(), 1, "  ", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRename(t *testing.T) {
	mockRepo := chainRepo(t)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Rename", mock.Anything, 1, 2, "Projects").Return(nil)

	require.NoError(t, service.Rename(context.Background(), 1, 2, "Projects"))
}
