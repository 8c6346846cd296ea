package dto

import (
	"time"

	"github.com/IFRN-SPP/presente/internal/models"
)

// NetworkCreateRequest describes the payload for creating a network allow-list.
type NetworkCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	IPAddresses string `json:"ip_addresses"`
	IsActive    *bool  `json:"is_active"`
}

// NetworkUpdateRequest describes the payload for updating a network allow-list.
type NetworkUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	IPAddresses *string `json:"ip_addresses"`
	IsActive    *bool   `json:"is_active"`
}

// NetworkResponse is the serialized representation returned to API clients.
type NetworkResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	IPAddresses string    `json:"ip_addresses"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewNetworkResponse converts a model into a DTO.
func NewNetworkResponse(model models.Network) NetworkResponse {
	return NetworkResponse{
		ID:          model.ID,
		Name:        model.Name,
		IPAddresses: model.IPAddresses,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewNetworkResponseSlice converts a slice of models into DTOs.
func NewNetworkResponseSlice(networks []models.Network) []NetworkResponse {
	responses := make([]NetworkResponse, 0, len(networks))
	for _, network := range networks {
		responses = append(responses, NewNetworkResponse(network))
	}

	return responses
}
