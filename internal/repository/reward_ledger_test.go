package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-dashboard/internal/domain"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

func testCatalog() RewardCatalog {
	return RewardCatalog{
		Stats: domain.UserStats{TotalPoints: 2450, Level: 5, NextLevelPoints: 3000, TicketsResolved: 47},
		Rewards: []domain.Reward{
			{ID: 1, Title: "Extra Day Off", Cost: 2000, Available: true},
			{ID: 3, Title: "Team Lunch Voucher", Cost: 1000, Available: true},
			{ID: 4, Title: "Tech Conference Ticket", Cost: 3000, Available: false},
		},
	}
}

func TestRewardLedger_Redeem(t *testing.T) {
	clock := newFakeClock()
	ledger := NewRewardLedger(testCatalog(), WithClock(clock.Now))

	redemption, err := ledger.Redeem(3)
	require.NoError(t, err)
	assert.NotEmpty(t, redemption.ID)
	assert.Equal(t, 1000, redemption.Cost)
	assert.Equal(t, 1450, redemption.Balance)
	assert.Equal(t, clock.Now(), redemption.RedeemedAt)
	assert.Equal(t, 1450, ledger.Stats().TotalPoints)
	assert.Len(t, ledger.Redemptions(), 1)
}

func TestRewardLedger_RedeemFailures(t *testing.T) {
	tests := []struct {
		name     string
		rewardID int64
		check    func(error) bool
	}{
		{name: "unknown reward", rewardID: 99, check: apperrors.IsNotFound},
		{name: "unavailable reward", rewardID: 4, check: apperrors.IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewRewardLedger(testCatalog())
			_, err := ledger.Redeem(tt.rewardID)
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.Equal(t, 2450, ledger.Stats().TotalPoints)
		})
	}
}

func TestRewardLedger_NoDoubleSpend(t *testing.T) {
	ledger := NewRewardLedger(testCatalog())

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Redeem(1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.IsConflict(err))
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 450, ledger.Stats().TotalPoints)
}

func TestRewardLedger_CreditResolution(t *testing.T) {
	ledger := NewRewardLedger(testCatalog())

	stats := ledger.CreditResolution(50)
	assert.Equal(t, 2500, stats.TotalPoints)
	assert.Equal(t, 48, stats.TicketsResolved)
	assert.Equal(t, 5, stats.Level)

	stats = ledger.CreditResolution(600)
	assert.Equal(t, 3100, stats.TotalPoints)
	assert.Equal(t, 6, stats.Level)
	assert.Equal(t, 3500, stats.NextLevelPoints)
}

func TestTicketHistoryRepository(t *testing.T) {
	clock := newFakeClock()
	repo := NewTicketHistoryRepository(WithClock(clock.Now))

	require.NoError(t, repo.Create(&domain.TicketHistory{TicketID: 1, ChangeType: domain.ChangeTypeStatus, OldValue: "open", NewValue: "closed"}))
	require.NoError(t, repo.Create(&domain.TicketHistory{TicketID: 2, ChangeType: domain.ChangeTypePriority, OldValue: "low", NewValue: "high"}))
	require.NoError(t, repo.Create(&domain.TicketHistory{TicketID: 1, ChangeType: domain.ChangeTypePriority, OldValue: "high", NewValue: "urgent"}))

	entries, err := repo.ListByTicket(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ChangeTypeStatus, entries[0].ChangeType)
	assert.Equal(t, domain.ChangeTypePriority, entries[1].ChangeType)
	assert.Less(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, clock.Now(), entries[0].CreatedAt)

	empty, err := repo.ListByTicket(99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
