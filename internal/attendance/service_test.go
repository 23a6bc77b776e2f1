package attendance

import (
	"agency-workspace/internal/domain"
	apiError "agency-workspace/internal/errors"
	"agency-workspace/internal/utils"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) FindByDay(ctx context.Context, userID uint64, day string) (*domain.AttendanceRecord, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceRecord), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, record *domain.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.AttendanceRecord, utils.Meta, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.AttendanceRecord), args.Get(1).(utils.Meta), args.Error(2)
}

func fixedService(repo AttendanceRepository, at time.Time) *DefaultService {
	return &DefaultService{
		repository: repo,
		now:        func() time.Time { return at },
	}
}

func TestClockIn_CreatesTodayRecord(t *testing.T) {
	repo := new(MockRepository)
	at := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	svc := fixedService(repo, at)

	repo.On("FindByDay", mock.Anything, uint64(1), "2026-03-09").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(record *domain.AttendanceRecord) bool {
		return record.UserID == 1 && record.Day == "2026-03-09" && record.ClockIn.Equal(at)
	})).Return(nil)

	record, err := svc.ClockIn(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "2026-03-09", record.Day)
	assert.Nil(t, record.ClockOut)
	repo.AssertExpectations(t)
}

func TestClockIn_TwiceSameDayConflicts(t *testing.T) {
	repo := new(MockRepository)
	at := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	svc := fixedService(repo, at)

	repo.On("FindByDay", mock.Anything, uint64(1), "2026-03-09").
		Return(&domain.AttendanceRecord{ID: 5, UserID: 1, Day: "2026-03-09"}, nil)

	_, err := svc.ClockIn(context.Background(), 1)

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	repo.AssertNotCalled(t, "Create")
}

func TestClockOut_WithoutClockInConflicts(t *testing.T) {
	repo := new(MockRepository)
	svc := fixedService(repo, time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC))

	repo.On("FindByDay", mock.Anything, uint64(1), "2026-03-09").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ClockOut(context.Background(), 1)

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestClockOut_ClosesOpenRecordOnce(t *testing.T) {
	repo := new(MockRepository)
	at := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)
	svc := fixedService(repo, at)

	open := &domain.AttendanceRecord{ID: 5, UserID: 1, Day: "2026-03-09", ClockIn: at.Add(-8 * time.Hour)}
	repo.On("FindByDay", mock.Anything, uint64(1), "2026-03-09").Return(open, nil)
	repo.On("Update", mock.Anything, open).Return(nil)

	record, err := svc.ClockOut(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, record.ClockOut)
	assert.True(t, record.ClockOut.Equal(at))

	// closing an already closed day conflicts
	_, err = svc.ClockOut(context.Background(), 1)
	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestToday_MissingRecordIsNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := fixedService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	repo.On("FindByDay", mock.Anything, uint64(1), "2026-03-09").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Today(context.Background(), 1)

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
