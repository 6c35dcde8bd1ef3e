package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-dashboard/internal/events"
)

// ActivityEntry is one line of the recent-activity feed.
type ActivityEntry struct {
	ID        string
	Type      events.EventType
	TicketID  int64
	Summary   string
	Timestamp time.Time
}

// ActivityService handles logging and recording domain events.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	size       int

	mu      sync.RWMutex
	entries []ActivityEntry
}

// NewActivityService creates the service. size bounds the feed.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, size int) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 50
	}
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		size:       size,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handleEvent)
	}
}

// Recent returns up to limit entries, newest first.
func (a *ActivityService) Recent(limit int) []ActivityEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if limit <= 0 || limit > len(a.entries) {
		limit = len(a.entries)
	}
	out := make([]ActivityEntry, 0, limit)
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.entries[i])
	}
	return out
}

func (a *ActivityService) handleEvent(_ context.Context, event events.Event) error {
	entry := ActivityEntry{
		ID:        event.ID,
		Type:      event.Type,
		TicketID:  event.TicketID,
		Summary:   summarize(event),
		Timestamp: event.Timestamp,
	}
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("summary", entry.Summary))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	if over := len(a.entries) - a.size; over > 0 {
		a.entries = append([]ActivityEntry(nil), a.entries[over:]...)
	}
	return nil
}

func summarize(event events.Event) string {
	switch p := event.Payload.(type) {
	case events.TicketCreatedPayload:
		return fmt.Sprintf("Ticket #%d created: %s", event.TicketID, p.Title)
	case events.TicketStatusChangedPayload:
		return fmt.Sprintf("Ticket #%d status %s -> %s", event.TicketID, p.OldStatus, p.NewStatus)
	case events.TicketPriorityChangedPayload:
		return fmt.Sprintf("Ticket #%d priority %s -> %s", event.TicketID, p.OldPriority, p.NewPriority)
	case events.TicketCommentAddedPayload:
		if p.IsInternal {
			return fmt.Sprintf("%s added an internal note on ticket #%d", p.Author, event.TicketID)
		}
		return fmt.Sprintf("%s commented on ticket #%d", p.Author, event.TicketID)
	case events.RewardRedeemedPayload:
		return fmt.Sprintf("Reward %d redeemed for %d points", p.RewardID, p.Cost)
	default:
		return string(event.Type)
	}
}
