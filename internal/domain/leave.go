package domain

import "time"

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type LeaveRequest struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id" gorm:"index"`
	Type      string     `json:"type"` // annual, sick, unpaid...
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status" gorm:"default:pending"`
	DeciderID *uint64    `json:"decider_id"`
	DecidedAt *time.Time `json:"decided_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
