package leave

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"context"
	defError "errors"
	"time"

	"gorm.io/gorm"
)

type Service interface {
	RequestLeave(ctx context.Context, request *domain.LeaveRequest) error
	ListOwn(ctx context.Context, userID uint64, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error)
	ListPending(ctx context.Context, requester *domain.User, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error)
	Decide(ctx context.Context, requester *domain.User, requestID uint64, status string) (*domain.LeaveRequest, error)
}

type DefaultService struct {
	repository LeaveRepository
}

func NewService(repository LeaveRepository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) RequestLeave(ctx context.Context, request *domain.LeaveRequest) error {
	if request.EndDate.Before(request.StartDate) {
		return errors.UnprocessableEntity("end_date must not precede start_date", nil)
	}

	request.Status = domain.LeaveStatusPending
	return s.repository.Create(ctx, request)
}

func (s *DefaultService) ListOwn(ctx context.Context, userID uint64, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error) {
	return s.repository.ListByUser(ctx, userID, page, pageSize)
}

func (s *DefaultService) ListPending(ctx context.Context, requester *domain.User, page, pageSize int) ([]domain.LeaveRequest, utils.Meta, error) {
	if !requester.IsManagerial() {
		return nil, utils.Meta{}, errors.Forbidden("Only managers can view the pending queue", nil)
	}
	return s.repository.ListPending(ctx, page, pageSize)
}

// Decide approves or rejects a pending request. The decision is final and a
// requester can never decide their own leave.
func (s *DefaultService) Decide(ctx context.Context, requester *domain.User, requestID uint64, status string) (*domain.LeaveRequest, error) {
	if status != domain.LeaveStatusApproved && status != domain.LeaveStatusRejected {
		return nil, errors.UnprocessableEntity("status must be approved or rejected", nil)
	}

	if !requester.IsManagerial() {
		return nil, errors.Forbidden("Only managers can decide leave requests", nil)
	}

	request, err := s.repository.FindByID(ctx, requestID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Leave request not found", err)
		}
		return nil, err
	}

	if request.UserID == requester.ID {
		return nil, errors.Forbidden("Can't decide your own leave request", nil)
	}

	if request.Status != domain.LeaveStatusPending {
		return nil, errors.Conflict("Leave request already decided", nil)
	}

	now := time.Now().UTC()
	request.Status = status
	request.DeciderID = &requester.ID
	request.DecidedAt = &now

	if err := s.repository.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}
