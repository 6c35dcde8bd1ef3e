// Package query derives dashboard views from a ticket collection. Every
// function here is pure: output depends only on the arguments.
package query

import (
	"strings"

	"github.com/spec-kit/support-dashboard/internal/domain"
)

// All disables a status or priority filter.
const All = "all"

// Criteria is the state of the dashboard filter controls.
type Criteria struct {
	SearchTerm string
	Status     string
	Priority   string
}

// DefaultCriteria matches every ticket.
func DefaultCriteria() Criteria {
	return Criteria{Status: All, Priority: All}
}

// IsDefault reports whether no filter is active.
func (c Criteria) IsDefault() bool {
	return c.SearchTerm == "" && isAll(c.Status) && isAll(c.Priority)
}

// ParseCriteria validates raw control values. Empty filters mean "all".
func ParseCriteria(searchTerm, status, priority string) (Criteria, error) {
	c := Criteria{SearchTerm: searchTerm, Status: All, Priority: All}
	if status != "" && status != All {
		parsed, err := domain.ParseTicketStatus(status)
		if err != nil {
			return Criteria{}, err
		}
		c.Status = string(parsed)
	}
	if priority != "" && priority != All {
		parsed, err := domain.ParseTicketPriority(priority)
		if err != nil {
			return Criteria{}, err
		}
		c.Priority = string(parsed)
	}
	return c, nil
}

// Matches applies the three predicates to one ticket.
// The search term is a literal substring: whitespace is not trimmed.
func (c Criteria) Matches(ticket domain.Ticket) bool {
	if c.SearchTerm != "" {
		needle := strings.ToLower(c.SearchTerm)
		if !strings.Contains(strings.ToLower(ticket.Title), needle) &&
			!strings.Contains(strings.ToLower(ticket.Description), needle) {
			return false
		}
	}
	if !isAll(c.Status) && string(ticket.Status) != c.Status {
		return false
	}
	if !isAll(c.Priority) && string(ticket.Priority) != c.Priority {
		return false
	}
	return true
}

// Filter keeps matching tickets in input order.
func Filter(tickets []domain.Ticket, criteria Criteria) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if criteria.Matches(ticket) {
			out = append(out, ticket)
		}
	}
	return out
}

// Aggregate counts tickets per status over the full collection.
func Aggregate(tickets []domain.Ticket) domain.TicketStats {
	stats := domain.TicketStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// isAll treats the zero value like "all" so a zero Criteria matches everything.
func isAll(v string) bool {
	return v == "" || v == All
}
