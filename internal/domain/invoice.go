package domain

import "time"

const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Invoice amounts are kept in cents to avoid float arithmetic on money.
type Invoice struct {
	ID          uint64        `json:"id"`
	Number      string        `json:"number" gorm:"uniqueIndex"`
	ClientName  string        `json:"client_name"`
	Status      string        `json:"status" gorm:"default:draft"`
	TotalCents  int64         `json:"total_cents"`
	CreatedByID uint64        `json:"created_by_id" gorm:"index"`
	Items       []InvoiceItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type InvoiceItem struct {
	ID             uint64 `json:"id"`
	InvoiceID      uint64 `json:"-" gorm:"index;not null"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	AmountCents    int64  `json:"amount_cents"`
}
