package models

import "time"

// Attendance records one user's presence at one activity. The composite
// unique index carries the core idempotence guarantee: at most one row per
// (activity, user) pair.
type Attendance struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActivityID  uint      `gorm:"not null;uniqueIndex:idx_attendance_activity_user" json:"activity_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_attendance_activity_user" json:"user_id"`
	CheckedInAt time.Time `gorm:"not null" json:"checked_in_at"`
	IPAddress   string    `gorm:"size:45" json:"ip_address"`
	Activity    Activity  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"activity"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}
