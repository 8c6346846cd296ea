package dto

import (
	"time"

	"github.com/IFRN-SPP/presente/internal/models"
)

// ActivityCreateRequest describes the payload for creating a new activity.
type ActivityCreateRequest struct {
	Title             string `json:"title" validate:"required,min=3"`
	StartTime         string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime           string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	QRTimeout         *int   `json:"qr_timeout" validate:"omitempty,min=0"`
	IsEnabled         *bool  `json:"is_enabled"`
	RestrictIP        *bool  `json:"restrict_ip"`
	AllowedNetworkIDs []uint `json:"allowed_network_ids"`
}

// ActivityUpdateRequest describes the payload for updating an activity.
type ActivityUpdateRequest struct {
	Title             *string `json:"title" validate:"omitempty,min=3"`
	StartTime         *string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime           *string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	QRTimeout         *int    `json:"qr_timeout" validate:"omitempty,min=0"`
	IsEnabled         *bool   `json:"is_enabled"`
	RestrictIP        *bool   `json:"restrict_ip"`
	AllowedNetworkIDs *[]uint `json:"allowed_network_ids"`
}

// ActivityOwner identifies one owner in activity responses.
type ActivityOwner struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ActivityResponse is the serialized representation returned to API clients.
type ActivityResponse struct {
	ID                uint                  `json:"id"`
	Title             string                `json:"title"`
	StartTime         time.Time             `json:"start_time"`
	EndTime           time.Time             `json:"end_time"`
	IsEnabled         bool                  `json:"is_enabled"`
	QRTimeout         int                   `json:"qr_timeout"`
	RestrictIP        bool                  `json:"restrict_ip"`
	Status            models.ActivityStatus `json:"status"`
	PublicCode        string                `json:"public_code"`
	Owners            []ActivityOwner       `json:"owners"`
	AllowedNetworkIDs []uint                `json:"allowed_network_ids"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// NewActivityResponse converts a model into a DTO. The status is derived at
// the given instant and the public code is the activity's obfuscated
// shareable identifier.
func NewActivityResponse(model models.Activity, now time.Time, publicCode string) ActivityResponse {
	owners := make([]ActivityOwner, 0, len(model.Owners))
	for _, owner := range model.Owners {
		owners = append(owners, ActivityOwner{ID: owner.ID, FullName: owner.FullName, Email: owner.Email})
	}

	networkIDs := make([]uint, 0, len(model.AllowedNetworks))
	for _, network := range model.AllowedNetworks {
		networkIDs = append(networkIDs, network.ID)
	}

	return ActivityResponse{
		ID:                model.ID,
		Title:             model.Title,
		StartTime:         model.StartTime,
		EndTime:           model.EndTime,
		IsEnabled:         model.IsEnabled,
		QRTimeout:         model.QRTimeout,
		RestrictIP:        model.RestrictIP,
		Status:            model.Status(now),
		PublicCode:        publicCode,
		Owners:            owners,
		AllowedNetworkIDs: networkIDs,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// PublicActivityResponse is the reduced representation exposed on public,
// unauthenticated pages.
type PublicActivityResponse struct {
	Title      string                `json:"title"`
	StartTime  time.Time             `json:"start_time"`
	EndTime    time.Time             `json:"end_time"`
	Status     models.ActivityStatus `json:"status"`
	PublicCode string                `json:"public_code"`
}

// NewPublicActivityResponse converts a model into its public DTO.
func NewPublicActivityResponse(model models.Activity, now time.Time, publicCode string) PublicActivityResponse {
	return PublicActivityResponse{
		Title:      model.Title,
		StartTime:  model.StartTime,
		EndTime:    model.EndTime,
		Status:     model.Status(now),
		PublicCode: publicCode,
	}
}
