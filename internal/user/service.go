package user

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"context"
	defError "errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *domain.User) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]domain.SafeUser, error)
	ChangeRole(ctx context.Context, requesterID, targetID uint64, role string) (*domain.SafeUser, error)
	IncreaseTokenVersion(ctx context.Context, id uint64) error
	DeactivateUser(ctx context.Context, id uint64) error
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
}

// NewService creates a new user service
func NewService(repository UserRepository) Service {
	return &DefaultService{repository: repository}
}

// Register registers a new user. The very first account becomes admin so a
// fresh deployment has someone who can grant roles.
func (s *DefaultService) Register(ctx context.Context, user *domain.User) error {
	// Check if user with email already exists
	_, err := s.repository.FindByEmail(ctx, user.Email)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.UnprocessableEntity("User already registered", nil)
	}

	// Hash the password before saving
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Can't hash password", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true

	count, err := s.repository.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		user.Role = domain.RoleAdmin
	} else if user.Role == "" {
		user.Role = domain.RoleStaff
	}

	return s.repository.Create(ctx, user)
}

// Login authenticates a user
func (s *DefaultService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("Wrong email or password", err)
	}

	if !user.IsActive {
		return nil, errors.Unauthorized("User is not active", nil)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.Unauthorized("Wrong email or password", err)
	}

	return user, nil
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *DefaultService) SearchUsers(ctx context.Context, query string) ([]domain.SafeUser, error) {
	users, err := s.repository.Search(ctx, query, 20)
	if err != nil {
		return nil, err
	}

	result := make([]domain.SafeUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.ToSafeUser())
	}
	return result, nil
}

// ChangeRole lets an admin assign a role to another account
func (s *DefaultService) ChangeRole(ctx context.Context, requesterID, targetID uint64, role string) (*domain.SafeUser, error) {
	requester, err := s.repository.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role != domain.RoleAdmin {
		return nil, errors.Forbidden("Only admin can change roles", nil)
	}

	if role != domain.RoleAdmin && role != domain.RoleManager && role != domain.RoleStaff {
		return nil, errors.UnprocessableEntity("Unknown role", nil)
	}

	if requesterID == targetID {
		return nil, errors.UnprocessableEntity("Can't change your own role", nil)
	}

	if err := s.repository.UpdateRole(ctx, targetID, role); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("User not found", err)
		}
		return nil, err
	}

	target, err := s.repository.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	safe := target.ToSafeUser()
	return &safe, nil
}

func (s *DefaultService) IncreaseTokenVersion(ctx context.Context, id uint64) error {
	return s.repository.IncrementTokenVersion(ctx, id)
}

// DeactivateUser deactivates a user
func (s *DefaultService) DeactivateUser(ctx context.Context, id uint64) error {
	return s.repository.Deactivate(ctx, id)
}
