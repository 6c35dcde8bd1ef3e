package repository

import (
	"sync"
	"time"

	"github.com/spec-kit/support-dashboard/internal/domain"
)

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(history *domain.TicketHistory) error
	ListByTicket(ticketID int64) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	mu      sync.RWMutex
	entries map[int64][]domain.TicketHistory
	lastID  int64
	now     func() time.Time
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(opts ...Option) TicketHistoryRepository {
	return &ticketHistoryRepository{
		entries: make(map[int64][]domain.TicketHistory),
		now:     buildOptions(opts).now,
	}
}

func (r *ticketHistoryRepository) Create(history *domain.TicketHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	history.ID = r.lastID
	if history.CreatedAt.IsZero() {
		history.CreatedAt = r.now()
	}
	r.entries[history.TicketID] = append(r.entries[history.TicketID], *history)
	return nil
}

func (r *ticketHistoryRepository) ListByTicket(ticketID int64) ([]domain.TicketHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.TicketHistory{}, r.entries[ticketID]...), nil
}
