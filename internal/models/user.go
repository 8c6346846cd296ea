package models

import "time"

// User represents an authenticated account that can own activities and
// register attendance.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Registration string    `gorm:"size:64" json:"registration"`
	IsSuperuser  bool      `gorm:"not null" json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
