package attendance

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/utils"
	"context"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	FindByDay(ctx context.Context, userID uint64, day string) (*domain.AttendanceRecord, error)
	Update(ctx context.Context, record *domain.AttendanceRecord) error
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.AttendanceRecord, utils.Meta, error)
}

type AttendanceRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AttendanceRepository {
	return &AttendanceRepositoryImpl{db: db}
}

func (r *AttendanceRepositoryImpl) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AttendanceRepositoryImpl) FindByDay(ctx context.Context, userID uint64, day string) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AttendanceRepositoryImpl) Update(ctx context.Context, record *domain.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *AttendanceRepositoryImpl) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.AttendanceRecord, utils.Meta, error) {
	var records []domain.AttendanceRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AttendanceRecord{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.Meta{}, err
	}

	err := query.
		Order("day DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, utils.Meta{}, err
	}

	return records, utils.NewMeta(total, page, pageSize), nil
}
