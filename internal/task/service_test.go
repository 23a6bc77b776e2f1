package task

import (
	"agency-workspace/internal/domain"
	apiError "agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"context"
	defError "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]domain.Task, utils.Meta, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.Task), args.Get(1).(utils.Meta), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateTask_DefaultsToTodo(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		return task.Status == domain.TaskStatusTodo
	})).Return(nil)

	err := svc.CreateTask(context.Background(), &domain.Task{Title: "Ship invoices", CreatorID: 1})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateTask_RejectsUnknownStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	existing := &domain.Task{ID: 5, Title: "T", Status: domain.TaskStatusTodo, CreatorID: 1}
	repo.On("FindByID", mock.Anything, uint64(5)).Return(existing, nil)

	requester := &domain.User{ID: 1, Role: domain.RoleStaff}
	_, err := svc.UpdateTask(context.Background(), requester, 5, func(task *domain.Task) {
		task.Status = "blocked"
	})

	var apiErr *apiError.APIError
	assert.True(t, defError.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateTask_StrangerIsForbidden(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	assignee := uint64(3)
	existing := &domain.Task{ID: 5, Status: domain.TaskStatusTodo, CreatorID: 1, AssigneeID: &assignee}
	repo.On("FindByID", mock.Anything, uint64(5)).Return(existing, nil)

	requester := &domain.User{ID: 9, Role: domain.RoleStaff}
	_, err := svc.UpdateTask(context.Background(), requester, 5, func(task *domain.Task) {
		task.Status = domain.TaskStatusDone
	})

	var apiErr *apiError.APIError
	assert.True(t, defError.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestUpdateTask_AssigneeMayProgress(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	assignee := uint64(3)
	existing := &domain.Task{ID: 5, Status: domain.TaskStatusTodo, CreatorID: 1, AssigneeID: &assignee}
	repo.On("FindByID", mock.Anything, uint64(5)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		return task.Status == domain.TaskStatusInProgress
	})).Return(nil)

	requester := &domain.User{ID: 3, Role: domain.RoleStaff}
	updated, err := svc.UpdateTask(context.Background(), requester, 5, func(task *domain.Task) {
		task.Status = domain.TaskStatusInProgress
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	repo.AssertExpectations(t)
}

func TestUpdateTask_ManagerMayModifyAny(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	existing := &domain.Task{ID: 5, Status: domain.TaskStatusTodo, CreatorID: 1}
	repo.On("FindByID", mock.Anything, uint64(5)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	requester := &domain.User{ID: 99, Role: domain.RoleManager}
	_, err := svc.UpdateTask(context.Background(), requester, 5, func(task *domain.Task) {
		task.Title = "Reassigned"
	})
	assert.NoError(t, err)
}
