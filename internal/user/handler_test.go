package user

import (
	"agency-workspace/internal/config"
	"agency-workspace/internal/domain"
	apiError "agency-workspace/internal/errors"
	"agency-workspace/internal/middleware"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) SearchUsers(ctx context.Context, query string) ([]domain.SafeUser, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return []domain.SafeUser{}, args.Error(1)
	}
	return args.Get(0).([]domain.SafeUser), args.Error(1)
}

func (m *MockService) ChangeRole(ctx context.Context, requesterID, targetID uint64, role string) (*domain.SafeUser, error) {
	args := m.Called(ctx, requesterID, targetID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SafeUser), args.Error(1)
}

func (m *MockService) IncreaseTokenVersion(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) DeactivateUser(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupRouter(handler *Handler, userID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	if userID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}

	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	router.DELETE("/logout", handler.Logout)
	router.GET("/profile", handler.GetProfile)
	router.GET("/users", handler.SearchUsers)
	return router
}

func TestRegister_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(handler, 0)

	mockService.On("Register", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
		return user.Name == "John Doe" &&
			user.Email == "john@example.com" &&
			user.Password == "password123"
	})).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*domain.User)
		user.ID = 1
		user.Role = domain.RoleStaff
		user.CreatedAt = time.Now()
	})

	body, _ := json.Marshal(FormRegister{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User domain.SafeUser `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, uint64(1), response.User.ID)
	assert.Equal(t, "john@example.com", response.User.Email)
	mockService.AssertExpectations(t)
}

func TestRegister_MissingFields(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(handler, 0)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"name":"No Email"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockService.AssertNotCalled(t, "Register")
}

func TestLogin_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(handler, 0)

	user := &domain.User{ID: 1, Name: "John Doe", Email: "john@example.com", Role: domain.RoleStaff, IsActive: true}
	mockService.On("Login", mock.Anything, "john@example.com", "password123").Return(user, nil)

	body, _ := json.Marshal(FormLogin{Email: "john@example.com", Password: "password123"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "access_token")

	cookies := w.Result().Cookies()
	var refresh *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "refresh_token" {
			refresh = cookie
		}
	}
	assert.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(handler, 0)

	mockService.On("Login", mock.Anything, "john@example.com", "wrong").
		Return(nil, apiError.Unauthorized("Wrong email or password", nil))

	body, _ := json.Marshal(FormLogin{Email: "john@example.com", Password: "wrong"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Wrong email or password"}`, w.Body.String())
}

func TestLogout_BumpsTokenVersion(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(handler, 42)

	mockService.On("IncreaseTokenVersion", mock.Anything, uint64(42)).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/logout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSearchUsers_PassesQuery(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(handler, 1)

	mockService.On("SearchUsers", mock.Anything, "jane").Return([]domain.SafeUser{
		{ID: 2, Name: "Jane Roe", Email: "jane@example.com", Role: domain.RoleStaff},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users?q=jane", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Users []domain.SafeUser `json:"users"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Users, 1)
	assert.Equal(t, "Jane Roe", response.Users[0].Name)
}
