package task

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

type Service interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id uint64) (*domain.Task, error)
	ListTasks(ctx context.Context, filter ListFilter, page, pageSize int) ([]domain.Task, utils.Meta, error)
	UpdateTask(ctx context.Context, requester *domain.User, id uint64, apply func(*domain.Task)) (*domain.Task, error)
	DeleteTask(ctx context.Context, requester *domain.User, id uint64) error
}

type DefaultService struct {
	repository TaskRepository
}

func NewService(repository TaskRepository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) CreateTask(ctx context.Context, task *domain.Task) error {
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	if !domain.ValidTaskStatus(task.Status) {
		return errors.UnprocessableEntity("Unknown task status", nil)
	}
	return s.repository.Create(ctx, task)
}

func (s *DefaultService) GetTask(ctx context.Context, id uint64) (*domain.Task, error) {
	task, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Task not found", err)
		}
		return nil, err
	}
	return task, nil
}

func (s *DefaultService) ListTasks(ctx context.Context, filter ListFilter, page, pageSize int) ([]domain.Task, utils.Meta, error) {
	return s.repository.List(ctx, filter, page, pageSize)
}

// canModify: the creator, the assignee, and managerial roles may change a task
func canModify(requester *domain.User, task *domain.Task) bool {
	if requester.IsManagerial() {
		return true
	}
	if task.CreatorID == requester.ID {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == requester.ID
}

func (s *DefaultService) UpdateTask(ctx context.Context, requester *domain.User, id uint64, apply func(*domain.Task)) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(requester, task) {
		return nil, errors.Forbidden("Not allowed to modify this task", nil)
	}

	apply(task)

	if !domain.ValidTaskStatus(task.Status) {
		return nil, errors.UnprocessableEntity("Unknown task status", nil)
	}

	if err := s.repository.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *DefaultService) DeleteTask(ctx context.Context, requester *domain.User, id uint64) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if !canModify(requester, task) {
		return errors.Forbidden("Not allowed to delete this task", nil)
	}

	return s.repository.Delete(ctx, task.ID)
}
