package task

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/utils"
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows task listings; zero values mean no filtering.
type ListFilter struct {
	AssigneeID uint64
	Status     string
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uint64) (*domain.Task, error)
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]domain.Task, utils.Meta, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uint64) error
}

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) FindByID(ctx context.Context, id uint64) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]domain.Task, utils.Meta, error) {
	query := r.db.WithContext(ctx).Model(&domain.Task{})
	if filter.AssigneeID != 0 {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Meta{}, err
	}

	var tasks []domain.Task
	offset := (page - 1) * pageSize
	err := query.
		Order("due_date ASC NULLS LAST, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&tasks).Error

	return tasks, utils.NewMeta(total, page, pageSize), err
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
