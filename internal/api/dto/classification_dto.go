package dto

import (
	"github.com/antelcha/itsm-playground/internal/domain"
)

// ClassificationRequest is the shared write payload for statuses,
// priorities and categories. Color and IsClosed are ignored where the
// kind lacks them.
type ClassificationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	Order       int    `json:"order"`
	Color       string `json:"color"`
	IsClosed    bool   `json:"is_closed"`
}

// ClassificationResponse response. Color is omitted for categories,
// IsClosed for everything but statuses.
type ClassificationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	Order       int    `json:"order"`
	Color       string `json:"color,omitempty"`
	IsClosed    *bool  `json:"is_closed,omitempty"`
}

// NewClassificationResponse maps the domain model.
func NewClassificationResponse(e *domain.Classification) ClassificationResponse {
	resp := ClassificationResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		IsActive:    e.IsActive,
		Order:       e.SortOrder,
	}
	if e.Kind.HasColor() {
		resp.Color = e.Color
	}
	if e.Kind.HasClosedFlag() {
		closed := e.IsClosed
		resp.IsClosed = &closed
	}
	return resp
}
