package dto

import (
	"time"

	"github.com/IFRN-SPP/presente/internal/models"
)

// AttendanceResponse is the serialized representation of one attendance record.
type AttendanceResponse struct {
	ID            uint      `json:"id"`
	ActivityID    uint      `json:"activity_id"`
	ActivityTitle string    `json:"activity_title,omitempty"`
	UserID        uint      `json:"user_id"`
	UserName      string    `json:"user_name,omitempty"`
	CheckedInAt   time.Time `json:"checked_in_at"`
	Origin        string    `json:"origin,omitempty"`
}

// NewAttendanceResponse converts a model into a DTO. origin is the display
// name of the network the attendance was registered from, or the raw
// address when no configured network matches.
func NewAttendanceResponse(model models.Attendance, origin string) AttendanceResponse {
	return AttendanceResponse{
		ID:            model.ID,
		ActivityID:    model.ActivityID,
		ActivityTitle: model.Activity.Title,
		UserID:        model.UserID,
		UserName:      model.User.FullName,
		CheckedInAt:   model.CheckedInAt,
		Origin:        origin,
	}
}
