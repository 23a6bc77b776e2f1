package message

import (
	"agency-workspace/internal/domain"
	apiError "agency-workspace/internal/errors"
	"agency-workspace/redis"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindOrCreateConversation(ctx context.Context, userA, userB uint64) (*domain.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockRepository) FindConversation(ctx context.Context, id uint64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockRepository) ListConversations(ctx context.Context, userID uint64) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockRepository) MessagesAfter(ctx context.Context, conversationID, afterID uint64, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, afterID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockRepository) LastMessage(ctx context.Context, conversationID uint64) (*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, conversationID, viewerID uint64) (int64, error) {
	args := m.Called(ctx, conversationID, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, conversationID, viewerID uint64) error {
	args := m.Called(ctx, conversationID, viewerID)
	return args.Error(0)
}

func testCache(t *testing.T) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return redis.NewCacheWithClient(client), mr
}

func TestSendMessage_RejectsSelf(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	_, err := svc.SendMessage(context.Background(), 1, 1, "hi")

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	repo.AssertNotCalled(t, "FindOrCreateConversation")
}

func TestSendMessage_FindsOrCreatesThread(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	conv := &domain.Conversation{ID: 7, UserAID: 1, UserBID: 2}
	repo.On("FindOrCreateConversation", mock.Anything, uint64(1), uint64(2)).Return(conv, nil)
	repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(message *domain.Message) bool {
		return message.ConversationID == 7 && message.SenderID == 1 && message.Body == "hello"
	})).Return(nil)

	message, err := svc.SendMessage(context.Background(), 1, 2, "hello")

	assert.NoError(t, err)
	assert.Equal(t, uint64(7), message.ConversationID)
	repo.AssertExpectations(t)
}

func TestPollMessages_HidesForeignConversation(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	conv := &domain.Conversation{ID: 7, UserAID: 2, UserBID: 3}
	repo.On("FindConversation", mock.Anything, uint64(7)).Return(conv, nil)

	_, err := svc.PollMessages(context.Background(), 1, 7, 0)

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	repo.AssertNotCalled(t, "MessagesAfter")
}

func TestPollMessages_MissingConversationSameShape(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	repo.On("FindConversation", mock.Anything, uint64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.PollMessages(context.Background(), 1, 99, 0)

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Conversation not found", apiErr.Message)
}

func TestPollMessages_ReturnsNewAndMarksRead(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	conv := &domain.Conversation{ID: 7, UserAID: 1, UserBID: 2}
	fresh := []domain.Message{{ID: 11, ConversationID: 7, SenderID: 2, Body: "new"}}

	repo.On("FindConversation", mock.Anything, uint64(7)).Return(conv, nil)
	repo.On("MessagesAfter", mock.Anything, uint64(7), uint64(10), pollLimit).Return(fresh, nil)
	repo.On("MarkRead", mock.Anything, uint64(7), uint64(1)).Return(nil)

	messages, err := svc.PollMessages(context.Background(), 1, 7, 10)

	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, uint64(11), messages[0].ID)
	repo.AssertExpectations(t)
}

func TestListConversations_BuildsSummaries(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	now := time.Now().UTC()
	repo.On("ListConversations", mock.Anything, uint64(1)).Return([]domain.Conversation{
		{ID: 7, UserAID: 1, UserBID: 2},
		{ID: 8, UserAID: 1, UserBID: 3},
	}, nil)
	repo.On("LastMessage", mock.Anything, uint64(7)).Return(&domain.Message{ID: 11, Body: "latest", CreatedAt: now}, nil)
	repo.On("LastMessage", mock.Anything, uint64(8)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("CountUnread", mock.Anything, uint64(7), uint64(1)).Return(int64(3), nil)
	repo.On("CountUnread", mock.Anything, uint64(8), uint64(1)).Return(int64(0), nil)

	summaries, err := svc.ListConversations(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, uint64(2), summaries[0].PeerID)
	assert.Equal(t, "latest", summaries[0].LastBody)
	assert.Equal(t, int64(3), summaries[0].UnreadCount)
	assert.Empty(t, summaries[1].LastBody)
	assert.Nil(t, summaries[1].LastAt)
}

func TestTyping_FlagExpires(t *testing.T) {
	repo := new(MockRepository)
	cache, mr := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	conv := &domain.Conversation{ID: 7, UserAID: 1, UserBID: 2}
	repo.On("FindConversation", mock.Anything, uint64(7)).Return(conv, nil)

	assert.NoError(t, svc.SetTyping(context.Background(), 2, 7))

	typing, err := svc.PeerTyping(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.True(t, typing)

	mr.FastForward(6 * time.Second)

	typing, err = svc.PeerTyping(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.False(t, typing)
}

func TestTyping_OwnFlagNotMistakenForPeer(t *testing.T) {
	repo := new(MockRepository)
	cache, _ := testCache(t)
	svc := NewService(repo, cache, 5*time.Second)

	conv := &domain.Conversation{ID: 7, UserAID: 1, UserBID: 2}
	repo.On("FindConversation", mock.Anything, uint64(7)).Return(conv, nil)

	assert.NoError(t, svc.SetTyping(context.Background(), 1, 7))

	typing, err := svc.PeerTyping(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.False(t, typing)
}
