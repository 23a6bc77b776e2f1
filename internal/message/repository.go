package message

import (
	"agency-workspace/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
)

// ConversationSummary is the inbox projection: the thread, its last message
// and how many messages the viewer hasn't read yet.
type ConversationSummary struct {
	ID          uint64     `json:"id"`
	PeerID      uint64     `json:"peer_id"`
	LastBody    string     `json:"last_body"`
	LastAt      *time.Time `json:"last_at"`
	UnreadCount int64      `json:"unread_count"`
}

type MessageRepository interface {
	FindOrCreateConversation(ctx context.Context, userA, userB uint64) (*domain.Conversation, error)
	FindConversation(ctx context.Context, id uint64) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID uint64) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, message *domain.Message) error
	MessagesAfter(ctx context.Context, conversationID, afterID uint64, limit int) ([]domain.Message, error)
	LastMessage(ctx context.Context, conversationID uint64) (*domain.Message, error)
	CountUnread(ctx context.Context, conversationID, viewerID uint64) (int64, error)
	MarkRead(ctx context.Context, conversationID, viewerID uint64) error
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

// FindOrCreateConversation normalizes the pair so (a,b) and (b,a) hit the
// same row.
func (r *MessageRepositoryImpl) FindOrCreateConversation(ctx context.Context, userA, userB uint64) (*domain.Conversation, error) {
	if userA > userB {
		userA, userB = userB, userA
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", userA, userB).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	conv = domain.Conversation{
		UserAID:   userA,
		UserBID:   userB,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepositoryImpl) FindConversation(ctx context.Context, id uint64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepositoryImpl) ListConversations(ctx context.Context, userID uint64) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// CreateMessage inserts the message and touches the conversation timestamp
// in the same transaction so inbox ordering stays consistent.
func (r *MessageRepositoryImpl) CreateMessage(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		message.CreatedAt = time.Now().UTC()
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", message.CreatedAt).Error
	})
}

func (r *MessageRepositoryImpl) MessagesAfter(ctx context.Context, conversationID, afterID uint64, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND id > ?", conversationID, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) LastMessage(ctx context.Context, conversationID uint64) (*domain.Message, error) {
	var message domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepositoryImpl) CountUnread(ctx context.Context, conversationID, viewerID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, viewerID).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) MarkRead(ctx context.Context, conversationID, viewerID uint64) error {
	return r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, viewerID).
		Update("read_at", time.Now().UTC()).Error
}
