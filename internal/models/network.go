package models

import "time"

// Network is a named, reusable allow-list of IP addresses and CIDR ranges.
// Entries in IPAddresses are newline-delimited and parsed lazily on every
// check; deleting a network only removes its activity associations.
type Network struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	IPAddresses string    `gorm:"type:text" json:"ip_addresses"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
