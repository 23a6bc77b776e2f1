package domain

import "time"

// AttendanceRecord is one working day for one user. Day is the calendar date
// in "2006-01-02" form; at most one record exists per (user, day).
type AttendanceRecord struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id" gorm:"index:idx_attendance_day,unique"`
	Day       string     `json:"day" gorm:"size:10;index:idx_attendance_day,unique"`
	ClockIn   time.Time  `json:"clock_in"`
	ClockOut  *time.Time `json:"clock_out"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
