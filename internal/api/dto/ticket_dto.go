package dto

import (
	"time"

	"github.com/spec-kit/support-dashboard/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Reporter    string   `json:"reporter"`
	Tags        []string `json:"tags"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority string `json:"priority"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Author     string `json:"author"`
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// TicketSummary is a dashboard row.
type TicketSummary struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	Category     domain.TicketCategory `json:"category"`
	Assignee     *string               `json:"assignee"`
	CommentCount int                   `json:"comment_count"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	Assignee    *string               `json:"assignee"`
	Reporter    string                `json:"reporter,omitempty"`
	Tags        []string              `json:"tags"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Comments    []CommentResponse     `json:"comments"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID         int64     `json:"id"`
	Author     string    `json:"author"`
	Initials   string    `json:"initials"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsInternal bool      `json:"is_internal"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID         int64     `json:"id"`
	ChangeType string    `json:"change_type"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketStatsResponse counts tickets by status.
type TicketStatsResponse struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Closed     int `json:"closed"`
}

// DashboardFilters echoes the applied criteria.
type DashboardFilters struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// DashboardResponse is the filtered list with whole-collection stats.
type DashboardResponse struct {
	Filters DashboardFilters    `json:"filters"`
	Tickets []TicketSummary     `json:"tickets"`
	Stats   TicketStatsResponse `json:"stats"`
}
