package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-dashboard/internal/domain"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)}
}

func seedTickets() []domain.Ticket {
	return []domain.Ticket{
		{
			ID:          1,
			Title:       "Login page not loading properly",
			Description: "Users are experiencing issues when trying to access the login page.",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityHigh,
			Category:    domain.TicketCategoryTechnical,
			CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Billing discrepancy in monthly invoice",
			Description: "There seems to be an error in the calculation of our monthly subscription fee.",
			Status:      domain.TicketStatusInProgress,
			Priority:    domain.TicketPriorityMedium,
			Category:    domain.TicketCategoryBilling,
			CreatedAt:   time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
		},
	}
}

func newSeededStore(t *testing.T, clock *fakeClock) *TicketStore {
	t.Helper()
	store, err := NewTicketStore(seedTickets(), WithClock(clock.Now))
	require.NoError(t, err)
	return store
}

func validInput() TicketInput {
	return TicketInput{
		Title:       "Export to CSV fails",
		Description: "The export button returns a 500 error.",
		Priority:    "low",
		Category:    "bug",
	}
}

func TestTicketStore_Create(t *testing.T) {
	clock := newFakeClock()
	store := newSeededStore(t, clock)

	ticket, err := store.Create(validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityLow, ticket.Priority)
	assert.Equal(t, domain.TicketCategoryBug, ticket.Category)
	assert.Nil(t, ticket.Assignee)
	assert.Equal(t, clock.Now(), ticket.CreatedAt)
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)
	assert.Equal(t, clock.Now().UnixMilli(), ticket.ID)
	assert.Equal(t, ticket.ID, ticket.ThreadID)

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, ticket.ID, list[0].ID, "new tickets are prepended")
	assert.Equal(t, int64(1), list[1].ID)
	assert.Equal(t, int64(2), list[2].ID)
}

func TestTicketStore_CreateAssignsUniqueIDsWithinSameMillisecond(t *testing.T) {
	clock := newFakeClock()
	store := newSeededStore(t, clock)

	seen := map[int64]bool{1: true, 2: true}
	for i := 0; i < 5; i++ {
		ticket, err := store.Create(validInput())
		require.NoError(t, err)
		assert.False(t, seen[ticket.ID], "id %d reissued", ticket.ID)
		seen[ticket.ID] = true
	}
	assert.Equal(t, 7, store.Len())
}

func TestTicketStore_CreateNeverReusesIDWhenClockGoesBack(t *testing.T) {
	clock := newFakeClock()
	store := newSeededStore(t, clock)

	first, err := store.Create(validInput())
	require.NoError(t, err)

	clock.Advance(-time.Hour)
	second, err := store.Create(validInput())
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
}

func TestTicketStore_CreateValidation(t *testing.T) {
	tests := []struct {
		name       string
		input      TicketInput
		wantFields []string
	}{
		{
			name:       "missing title only",
			input:      TicketInput{Title: "", Description: "x", Priority: "low", Category: "bug"},
			wantFields: []string{"title"},
		},
		{
			name:       "whitespace description",
			input:      TicketInput{Title: "x", Description: "   ", Priority: "low", Category: "bug"},
			wantFields: []string{"description"},
		},
		{
			name:       "everything missing",
			input:      TicketInput{},
			wantFields: []string{"title", "description", "priority", "category"},
		},
		{
			name:       "unsupported enums",
			input:      TicketInput{Title: "x", Description: "y", Priority: "critical", Category: "hardware"},
			wantFields: []string{"priority", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSeededStore(t, newFakeClock())
			before := store.List()

			_, err := store.Create(tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			fields := apperrors.FieldErrors(err)
			assert.Len(t, fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
			assert.Equal(t, before, store.List(), "rejected create must not change the store")
		})
	}
}

func TestTicketStore_SetStatus(t *testing.T) {
	clock := newFakeClock()
	store := newSeededStore(t, clock)
	original, err := store.Get(1)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, previous, err := store.SetStatus(1, domain.TicketStatusClosed)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, previous)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
}

func TestTicketStore_SetStatusUnknownTicket(t *testing.T) {
	store := newSeededStore(t, newFakeClock())
	before := store.List()

	_, _, err := store.SetStatus(99, domain.TicketStatusClosed)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, before, store.List())
}

func TestTicketStore_SetStatusInvalidValue(t *testing.T) {
	store := newSeededStore(t, newFakeClock())
	before := store.List()

	_, _, err := store.SetStatus(1, domain.TicketStatus("resolved"))
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidValue(err))
	assert.Equal(t, before, store.List())
}

func TestTicketStore_SetPriority(t *testing.T) {
	clock := newFakeClock()
	store := newSeededStore(t, clock)

	clock.Advance(time.Minute)
	updated, previous, err := store.SetPriority(2, domain.TicketPriorityUrgent)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, previous)
	assert.Equal(t, domain.TicketPriorityUrgent, updated.Priority)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)

	_, _, err = store.SetPriority(99, domain.TicketPriorityLow)
	assert.True(t, apperrors.IsNotFound(err))

	_, _, err = store.SetPriority(2, domain.TicketPriority("critical"))
	assert.True(t, apperrors.IsInvalidValue(err))
}

func TestTicketStore_LastWriteWins(t *testing.T) {
	store := newSeededStore(t, newFakeClock())

	_, _, err := store.SetStatus(1, domain.TicketStatusInProgress)
	require.NoError(t, err)
	_, _, err = store.SetStatus(1, domain.TicketStatusClosed)
	require.NoError(t, err)

	ticket, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
}

func TestTicketStore_ListReturnsCopies(t *testing.T) {
	store := newSeededStore(t, newFakeClock())

	list := store.List()
	list[0].Title = "mutated"

	ticket, err := store.Get(list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Login page not loading properly", ticket.Title)
}

func TestNewTicketStore_RejectsBadSeed(t *testing.T) {
	seed := seedTickets()
	seed[1].ID = seed[0].ID
	_, err := NewTicketStore(seed)
	assert.Error(t, err)

	seed = seedTickets()
	seed[0].Status = "pending"
	_, err = NewTicketStore(seed)
	assert.Error(t, err)
}
