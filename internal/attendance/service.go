package attendance

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"context"
	defError "errors"
	"time"

	"gorm.io/gorm"
)

const dayLayout = "2006-01-02"

type Service interface {
	ClockIn(ctx context.Context, userID uint64) (*domain.AttendanceRecord, error)
	ClockOut(ctx context.Context, userID uint64) (*domain.AttendanceRecord, error)
	Today(ctx context.Context, userID uint64) (*domain.AttendanceRecord, error)
	History(ctx context.Context, userID uint64, page, pageSize int) ([]domain.AttendanceRecord, utils.Meta, error)
}

type DefaultService struct {
	repository AttendanceRepository
	now        func() time.Time
}

func NewService(repository AttendanceRepository) Service {
	return &DefaultService{
		repository: repository,
		now:        time.Now,
	}
}

// ClockIn opens today's record. A second clock-in on the same day conflicts.
func (s *DefaultService) ClockIn(ctx context.Context, userID uint64) (*domain.AttendanceRecord, error) {
	now := s.now().UTC()
	day := now.Format(dayLayout)

	existing, err := s.repository.FindByDay(ctx, userID, day)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("Already clocked in today", nil)
	}

	record := &domain.AttendanceRecord{
		UserID:  userID,
		Day:     day,
		ClockIn: now,
	}
	if err := s.repository.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ClockOut closes today's record. It conflicts when there is no open record,
// either because the user never clocked in or already clocked out.
func (s *DefaultService) ClockOut(ctx context.Context, userID uint64) (*domain.AttendanceRecord, error) {
	now := s.now().UTC()

	record, err := s.repository.FindByDay(ctx, userID, now.Format(dayLayout))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Conflict("Not clocked in today", err)
		}
		return nil, err
	}
	if record.ClockOut != nil {
		return nil, errors.Conflict("Already clocked out today", nil)
	}

	record.ClockOut = &now
	if err := s.repository.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *DefaultService) Today(ctx context.Context, userID uint64) (*domain.AttendanceRecord, error) {
	record, err := s.repository.FindByDay(ctx, userID, s.now().UTC().Format(dayLayout))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("No attendance record today", err)
		}
		return nil, err
	}
	return record, nil
}

func (s *DefaultService) History(ctx context.Context, userID uint64, page, pageSize int) ([]domain.AttendanceRecord, utils.Meta, error) {
	return s.repository.ListByUser(ctx, userID, page, pageSize)
}
