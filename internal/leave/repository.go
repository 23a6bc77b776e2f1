package leave

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/utils"
	"context"
	"time"

	"gorm.io/gorm"
)

type LeaveRepository interface {
	Create(ctx context.Context, request *domain.LeaveRequest) error
	FindByID(ctx context.Context, id uint64) (*domain.LeaveRequest, error)
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error)
	ListPending(ctx context.Context, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error)
	Update(ctx context.Context, request *domain.LeaveRequest) error
}

type LeaveRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) LeaveRepository {
	return &LeaveRepositoryImpl{db: db}
}

func (r *LeaveRepositoryImpl) Create(ctx context.Context, request *domain.LeaveRequest) error {
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *LeaveRepositoryImpl) FindByID(ctx context.Context, id uint64) (*domain.LeaveRequest, error) {
	var request domain.LeaveRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *LeaveRepositoryImpl) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), page, pageSize)
}

func (r *LeaveRepositoryImpl) ListPending(ctx context.Context, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("status = ?", domain.LeaveStatusPending), page, pageSize)
}

func (r *LeaveRepositoryImpl) list(ctx context.Context, query *gorm.DB, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error) {
	var total int64
	if err := query.Model(&domain.LeaveRequest{}).Count(&total).Error; err != nil {
		return nil, utils.Meta{}, err
	}

	var requests []domain.LeaveRequest
	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&requests).Error

	return requests, utils.NewMeta(total, page, pageSize), err
}

func (r *LeaveRepositoryImpl) Update(ctx context.Context, request *domain.LeaveRequest) error {
	request.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(request).Error
}
