package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-dashboard/internal/domain"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

// TicketInput is the create-ticket form payload.
type TicketInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	Reporter    string
	Tags        []string
}

// Validate checks every field in one pass so all problems can be shown together.
func (in TicketInput) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "Description is required"
	}
	switch {
	case in.Priority == "":
		fields["priority"] = "Priority is required"
	case !domain.TicketPriority(in.Priority).Valid():
		fields["priority"] = fmt.Sprintf("Priority %q is not supported", in.Priority)
	}
	switch {
	case in.Category == "":
		fields["category"] = "Category is required"
	case !domain.TicketCategory(in.Category).Valid():
		fields["category"] = fmt.Sprintf("Category %q is not supported", in.Category)
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("", fields)
	}
	return nil
}

// TicketStore is the authoritative in-memory ticket collection, newest first.
// Create, SetStatus and SetPriority are its only mutation surface.
type TicketStore struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	lastID  int64
	now     func() time.Time
}

type options struct {
	now func() time.Time
}

// Option customizes the in-memory repositories.
type Option func(*options)

// WithClock overrides the wall clock used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewTicketStore seeds a store. The seed order is kept as the display order.
func NewTicketStore(seed []domain.Ticket, opts ...Option) (*TicketStore, error) {
	s := &TicketStore{now: buildOptions(opts).now}
	seen := make(map[int64]struct{}, len(seed))
	s.tickets = make([]domain.Ticket, 0, len(seed))
	for _, ticket := range seed {
		if ticket.ID <= 0 {
			return nil, fmt.Errorf("seed ticket %q: id must be positive", ticket.Title)
		}
		if _, dup := seen[ticket.ID]; dup {
			return nil, fmt.Errorf("seed ticket %d: duplicate id", ticket.ID)
		}
		if !ticket.Status.Valid() || !ticket.Priority.Valid() {
			return nil, fmt.Errorf("seed ticket %d: invalid status or priority", ticket.ID)
		}
		seen[ticket.ID] = struct{}{}
		if ticket.ThreadID == 0 {
			ticket.ThreadID = ticket.ID
		}
		if ticket.UpdatedAt.IsZero() {
			ticket.UpdatedAt = ticket.CreatedAt
		}
		if ticket.ID > s.lastID {
			s.lastID = ticket.ID
		}
		s.tickets = append(s.tickets, ticket.Clone())
	}
	return s, nil
}

// Create validates input and prepends a new open ticket.
func (s *TicketStore) Create(input TicketInput) (domain.Ticket, error) {
	if err := input.Validate(); err != nil {
		return domain.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := s.nextID(now)
	ticket := domain.Ticket{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriority(input.Priority),
		Category:    domain.TicketCategory(input.Category),
		Reporter:    strings.TrimSpace(input.Reporter),
		ThreadID:    id,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(input.Tags) > 0 {
		ticket.Tags = append([]string(nil), input.Tags...)
	}

	s.tickets = append([]domain.Ticket{ticket}, s.tickets...)
	return ticket.Clone(), nil
}

// SetStatus replaces the status and refreshes UpdatedAt. It returns the previous status.
func (s *TicketStore) SetStatus(id int64, status domain.TicketStatus) (domain.Ticket, domain.TicketStatus, error) {
	if !status.Valid() {
		_, err := domain.ParseTicketStatus(string(status))
		return domain.Ticket{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Ticket{}, "", ticketNotFound(id)
	}
	previous := s.tickets[idx].Status
	s.tickets[idx].Status = status
	s.tickets[idx].UpdatedAt = s.now()
	return s.tickets[idx].Clone(), previous, nil
}

// SetPriority replaces the priority and refreshes UpdatedAt. It returns the previous priority.
func (s *TicketStore) SetPriority(id int64, priority domain.TicketPriority) (domain.Ticket, domain.TicketPriority, error) {
	if !priority.Valid() {
		_, err := domain.ParseTicketPriority(string(priority))
		return domain.Ticket{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Ticket{}, "", ticketNotFound(id)
	}
	previous := s.tickets[idx].Priority
	s.tickets[idx].Priority = priority
	s.tickets[idx].UpdatedAt = s.now()
	return s.tickets[idx].Clone(), previous, nil
}

// Get returns a copy of a single ticket.
func (s *TicketStore) Get(id int64) (domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Ticket{}, ticketNotFound(id)
	}
	return s.tickets[idx].Clone(), nil
}

// Exists reports whether id names a ticket.
func (s *TicketStore) Exists(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// List returns a copy of the collection, newest first.
func (s *TicketStore) List() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Ticket, len(s.tickets))
	for i := range s.tickets {
		out[i] = s.tickets[i].Clone()
	}
	return out
}

// Len returns the number of tickets.
func (s *TicketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

// nextID derives an id from the clock but never reissues one. Caller holds mu.
func (s *TicketStore) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *TicketStore) indexOf(id int64) int {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func ticketNotFound(id int64) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}
