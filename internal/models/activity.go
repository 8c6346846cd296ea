package models

import "time"

// ActivityStatus is derived from wall-clock time and the enable flag; it is
// never stored.
type ActivityStatus string

const (
	// ActivityStatusNotStarted means the activity has not reached its start time.
	ActivityStatusNotStarted ActivityStatus = "not_started"
	// ActivityStatusActive means check-in is currently permitted.
	ActivityStatusActive ActivityStatus = "active"
	// ActivityStatusExpired means the activity's end time has passed.
	ActivityStatusExpired ActivityStatus = "expired"
	// ActivityStatusNotEnabled means the activity is inside its time window but disabled.
	ActivityStatusNotEnabled ActivityStatus = "not_enabled"
)

// Activity is a time-bounded event for which attendance can be
// self-registered via QR scan.
type Activity struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	StartTime       time.Time    `gorm:"not null" json:"start_time"`
	EndTime         time.Time    `gorm:"not null" json:"end_time"`
	IsEnabled       bool         `gorm:"not null" json:"is_enabled"`
	QRTimeout       int          `gorm:"not null" json:"qr_timeout"`
	RestrictIP      bool         `gorm:"not null" json:"restrict_ip"`
	Owners          []User       `gorm:"many2many:activity_owners" json:"-"`
	AllowedNetworks []Network    `gorm:"many2many:activity_networks" json:"-"`
	Attendances     []Attendance `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Status derives the activity state at the given instant. Precedence
// matters: time bounds dominate the enable flag, so an activity that is
// both past its end time and disabled reports expired, not not_enabled.
func (a Activity) Status(now time.Time) ActivityStatus {
	switch {
	case now.After(a.EndTime):
		return ActivityStatusExpired
	case now.Before(a.StartTime):
		return ActivityStatusNotStarted
	case !a.IsEnabled:
		return ActivityStatusNotEnabled
	default:
		return ActivityStatusActive
	}
}
