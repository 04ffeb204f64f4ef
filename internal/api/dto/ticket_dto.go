package dto

import (
	"time"

	"github.com/spec-kit/academic-support/internal/domain"
)

// SubmitTicketResponse acknowledges a created ticket.
type SubmitTicketResponse struct {
	ID        string              `json:"id"`
	Status    domain.TicketStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// TicketSummary is one dashboard list row.
type TicketSummary struct {
	ID          string                `json:"id"`
	FirstName   string                `json:"first_name"`
	LastName    string                `json:"last_name"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone"`
	StudentCode string                `json:"student_code"`
	Subject     string                `json:"subject"`
	Category    domain.TicketCategory `json:"category"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	Attachments map[string]string     `json:"attachments,omitempty"`
}

// TicketListResponse is the paginated dashboard view.
type TicketListResponse struct {
	Data       []TicketSummary `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalItems int             `json:"total_items"`
	TotalPages int             `json:"total_pages"`
}

// TicketStatsResponse summarizes the collection by status.
type TicketStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}
