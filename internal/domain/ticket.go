package domain

import (
	"time"

	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists statuses in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists priorities from least to most urgent.
var TicketPriorities = []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent}

// TicketCategory is the label chosen when a ticket is filed.
type TicketCategory string

const (
	TicketCategoryTechnical TicketCategory = "technical"
	TicketCategoryBilling   TicketCategory = "billing"
	TicketCategoryFeature   TicketCategory = "feature"
	TicketCategoryBug       TicketCategory = "bug"
	TicketCategoryOther     TicketCategory = "other"
)

// TicketCategories lists the selectable categories.
var TicketCategories = []TicketCategory{
	TicketCategoryTechnical,
	TicketCategoryBilling,
	TicketCategoryFeature,
	TicketCategoryBug,
	TicketCategoryOther,
}

// Ticket is the aggregate for support requests.
// Comments live in the thread referenced by ThreadID; the displayed count is the thread length.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Category    TicketCategory
	Assignee    *string
	Reporter    string
	Tags        []string
	ThreadID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy that shares no mutable state with t.
func (t Ticket) Clone() Ticket {
	out := t
	if t.Assignee != nil {
		assignee := *t.Assignee
		out.Assignee = &assignee
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Valid reports whether p is one of the enumerated priorities.
func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the enumerated categories.
func (c TicketCategory) Valid() bool {
	for _, candidate := range TicketCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseTicketStatus maps raw input onto a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(raw)
	if !status.Valid() {
		return "", apperrors.NewInvalidValue("status", raw, statusNames())
	}
	return status, nil
}

// ParseTicketPriority maps raw input onto a TicketPriority.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	priority := TicketPriority(raw)
	if !priority.Valid() {
		return "", apperrors.NewInvalidValue("priority", raw, priorityNames())
	}
	return priority, nil
}

// ParseTicketCategory maps raw input onto a TicketCategory.
func ParseTicketCategory(raw string) (TicketCategory, error) {
	category := TicketCategory(raw)
	if !category.Valid() {
		return "", apperrors.NewInvalidValue("category", raw, categoryNames())
	}
	return category, nil
}

func statusNames() []string {
	out := make([]string, len(TicketStatuses))
	for i, s := range TicketStatuses {
		out[i] = string(s)
	}
	return out
}

func priorityNames() []string {
	out := make([]string, len(TicketPriorities))
	for i, p := range TicketPriorities {
		out[i] = string(p)
	}
	return out
}

func categoryNames() []string {
	out := make([]string, len(TicketCategories))
	for i, c := range TicketCategories {
		out[i] = string(c)
	}
	return out
}

// TicketStats partitions a ticket collection by status.
type TicketStats struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
}
