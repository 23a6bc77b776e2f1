package domain

import (
	"encoding/json"
	"time"
)

// Page is a named, exclusively owned collection of blocks. The numeric ID is
// internal; the HTTP surface only ever sees PublicID.
type Page struct {
	ID        uint64 `json:"-"`
	PublicID  string `json:"id" gorm:"uniqueIndex;size:36"`
	OwnerID   uint64 `json:"owner_id"`
	Title     string `json:"title" gorm:"default:Untitled"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Blocks    []Block   `json:"blocks" gorm:"constraint:OnDelete:CASCADE"`
}

// Block is one content unit on a page. Content is an opaque JSON payload whose
// shape depends on Type; the store never inspects it. SortOrder is only
// meaningful relative to siblings on the same page; ties fall back to
// insertion order. Position fields are nil until the block is placed on the
// free-form canvas ("auto" sizing is a nil Width/Height).
type Block struct {
	ID        uint64          `json:"-"`
	PublicID  string          `json:"id" gorm:"uniqueIndex;size:36"`
	PageID    uint64          `json:"-" gorm:"index;not null"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content" gorm:"type:jsonb"`
	SortOrder int             `json:"order"`
	X         *float64        `json:"x,omitempty"`
	Y         *float64        `json:"y,omitempty"`
	Width     *float64        `json:"width,omitempty"`
	Height    *float64        `json:"height,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
