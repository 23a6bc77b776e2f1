package domain

import "time"

// Conversation is a direct 1:1 thread. The member pair is stored normalized
// (lower id first) so lookups are symmetric.
type Conversation struct {
	ID        uint64    `json:"id"`
	UserAID   uint64    `json:"user_a_id" gorm:"index:idx_conv_pair,unique"`
	UserBID   uint64    `json:"user_b_id" gorm:"index:idx_conv_pair,unique"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member reports whether userID participates in the conversation.
func (c *Conversation) Member(userID uint64) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Peer returns the other participant.
func (c *Conversation) Peer(userID uint64) uint64 {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

type Message struct {
	ID             uint64     `json:"id"`
	ConversationID uint64     `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint64     `json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
