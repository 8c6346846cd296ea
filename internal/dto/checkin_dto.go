package dto

import "time"

// CheckinResponse reports the outcome of a successful check-in. Created
// distinguishes a first scan from a repeat; both are successes.
type CheckinResponse struct {
	ActivityID    uint      `json:"activity_id"`
	ActivityTitle string    `json:"activity_title"`
	PublicCode    string    `json:"public_code"`
	Created       bool      `json:"created"`
	CheckedInAt   time.Time `json:"checked_in_at"`
}

// QRContentResponse carries everything a client needs to render the
// rotating QR code for an activity. Only active activities carry a
// check-in URL; activities that have not started carry a countdown instead.
type QRContentResponse struct {
	ActivityTitle     string    `json:"activity_title"`
	Status            string    `json:"status"`
	ServerTime        time.Time `json:"server_time"`
	CheckinURL        string    `json:"checkin_url,omitempty"`
	QRDataURL         string    `json:"qr_data_url,omitempty"`
	TimeoutSeconds    int       `json:"timeout_seconds,omitempty"`
	SecondsUntilStart int       `json:"seconds_until_start,omitempty"`
}

// CheckinEvent is published to the message broker after every successful
// check-in so live attendance views can refresh.
type CheckinEvent struct {
	ActivityID  uint      `json:"activity_id"`
	UserID      uint      `json:"user_id"`
	Created     bool      `json:"created"`
	CheckedInAt time.Time `json:"checked_in_at"`
}
