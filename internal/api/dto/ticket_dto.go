package dto

import (
	"time"

	"github.com/antelcha/itsm-playground/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StatusID    string  `json:"status_id"`
	PriorityID  string  `json:"priority_id"`
	CategoryID  string  `json:"category_id"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
}

// UpdateTicketRequest payload; nil fields are left untouched.
type UpdateTicketRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	StatusID      *string `json:"status_id"`
	PriorityID    *string `json:"priority_id"`
	CategoryID    *string `json:"category_id"`
	AssignedTo    *string `json:"assigned_to"`
	ClearAssignee bool    `json:"clear_assignee"`
}

// TicketResponse response.
type TicketResponse struct {
	ID          string    `json:"id"`
	CreatedBy   *string   `json:"created_by"`
	AssignedTo  *string   `json:"assigned_to"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StatusID    string    `json:"status_id"`
	PriorityID  string    `json:"priority_id"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTicketResponse maps the domain model.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		Title:       t.Title,
		Description: t.Description,
		StatusID:    t.StatusID,
		PriorityID:  t.PriorityID,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// CommentRequest payload for create and full replace.
type CommentRequest struct {
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
}

// CommentResponse response.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    *string   `json:"user_id"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse maps the domain model.
func NewCommentResponse(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		UserID:    c.UserID,
		Content:   c.Content,
		IsPublic:  c.IsPublic,
		CreatedAt: c.CreatedAt,
	}
}
