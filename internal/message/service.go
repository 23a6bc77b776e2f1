package message

import (
	"agency-workspace/internal/domain"
	"agency-workspace/internal/errors"
	"context"
	defError "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const pollLimit = 100

// EphemeralStore is the swappable TTL key-value capability backing typing
// status. In production it is redis; a multi-process deployment shares it.
type EphemeralStore interface {
	SetFlag(ctx context.Context, key string, ttl time.Duration) error
	HasFlag(ctx context.Context, key string) (bool, error)
}

type Service interface {
	SendMessage(ctx context.Context, senderID, recipientID uint64, body string) (*domain.Message, error)
	ListConversations(ctx context.Context, userID uint64) ([]ConversationSummary, error)
	PollMessages(ctx context.Context, userID, conversationID, afterID uint64) ([]domain.Message, error)
	SetTyping(ctx context.Context, userID, conversationID uint64) error
	PeerTyping(ctx context.Context, userID, conversationID uint64) (bool, error)
}

type DefaultService struct {
	repository MessageRepository
	ephemeral  EphemeralStore
	typingTTL  time.Duration
}

func NewService(repository MessageRepository, ephemeral EphemeralStore, typingTTL time.Duration) Service {
	return &DefaultService{
		repository: repository,
		ephemeral:  ephemeral,
		typingTTL:  typingTTL,
	}
}

func (s *DefaultService) SendMessage(ctx context.Context, senderID, recipientID uint64, body string) (*domain.Message, error) {
	if senderID == recipientID {
		return nil, errors.UnprocessableEntity("Can't message yourself", nil)
	}

	conv, err := s.repository.FindOrCreateConversation(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
	}

	if err := s.repository.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *DefaultService) ListConversations(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	convs, err := s.repository.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := ConversationSummary{
			ID:     conv.ID,
			PeerID: conv.Peer(userID),
		}

		last, err := s.repository.LastMessage(ctx, conv.ID)
		if err == nil {
			summary.LastBody = last.Body
			summary.LastAt = &last.CreatedAt
		} else if !defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		unread, err := s.repository.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// requireMembership hides conversations the caller doesn't belong to behind
// the same NotFound as missing ones.
func (s *DefaultService) requireMembership(ctx context.Context, userID, conversationID uint64) (*domain.Conversation, error) {
	conv, err := s.repository.FindConversation(ctx, conversationID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Conversation not found", err)
		}
		return nil, err
	}

	if !conv.Member(userID) {
		return nil, errors.NotFound("Conversation not found", nil)
	}
	return conv, nil
}

// PollMessages is the short-interval polling endpoint: returns messages newer
// than afterID and marks the viewer's unread messages as read.
func (s *DefaultService) PollMessages(ctx context.Context, userID, conversationID, afterID uint64) ([]domain.Message, error) {
	if _, err := s.requireMembership(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.repository.MessagesAfter(ctx, conversationID, afterID, pollLimit)
	if err != nil {
		return nil, err
	}

	if err := s.repository.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}

func typingKey(conversationID, userID uint64) string {
	return fmt.Sprintf("typing:conv:%d:user:%d", conversationID, userID)
}

func (s *DefaultService) SetTyping(ctx context.Context, userID, conversationID uint64) error {
	if _, err := s.requireMembership(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.ephemeral.SetFlag(ctx, typingKey(conversationID, userID), s.typingTTL)
}

func (s *DefaultService) PeerTyping(ctx context.Context, userID, conversationID uint64) (bool, error) {
	conv, err := s.requireMembership(ctx, userID, conversationID)
	if err != nil {
		return false, err
	}
	return s.ephemeral.HasFlag(ctx, typingKey(conversationID, conv.Peer(userID)))
}
