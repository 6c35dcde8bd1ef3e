package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-dashboard/internal/domain"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

// RewardCatalog is the seed for a RewardLedger.
type RewardCatalog struct {
	Stats        domain.UserStats
	Achievements []domain.Achievement
	Rewards      []domain.Reward
}

// RewardLedger owns the points balance. Debits and credits are serialized so a
// balance can never be spent twice.
type RewardLedger struct {
	mu           sync.RWMutex
	stats        domain.UserStats
	achievements []domain.Achievement
	rewards      []domain.Reward
	redemptions  []domain.Redemption
	now          func() time.Time
}

// NewRewardLedger seeds the ledger from a catalog.
func NewRewardLedger(catalog RewardCatalog, opts ...Option) *RewardLedger {
	return &RewardLedger{
		stats:        catalog.Stats,
		achievements: append([]domain.Achievement(nil), catalog.Achievements...),
		rewards:      append([]domain.Reward(nil), catalog.Rewards...),
		now:          buildOptions(opts).now,
	}
}

// Stats returns the current profile.
func (l *RewardLedger) Stats() domain.UserStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Achievements returns every achievement in catalog order.
func (l *RewardLedger) Achievements() []domain.Achievement {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Achievement(nil), l.achievements...)
}

// Rewards returns the store catalog.
func (l *RewardLedger) Rewards() []domain.Reward {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Reward(nil), l.rewards...)
}

// Reward looks up a single catalog entry.
func (l *RewardLedger) Reward(id int64) (domain.Reward, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.rewards {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reward{}, apperrors.NewNotFound("reward", map[string]any{"id": id})
}

// Redemptions returns past debits, oldest first.
func (l *RewardLedger) Redemptions() []domain.Redemption {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Redemption(nil), l.redemptions...)
}

// Redeem checks availability and balance and debits in one critical section.
func (l *RewardLedger) Redeem(rewardID int64) (domain.Redemption, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var reward *domain.Reward
	for i := range l.rewards {
		if l.rewards[i].ID == rewardID {
			reward = &l.rewards[i]
			break
		}
	}
	if reward == nil {
		return domain.Redemption{}, apperrors.NewNotFound("reward", map[string]any{"id": rewardID})
	}
	if !reward.Available {
		return domain.Redemption{}, apperrors.NewConflict("reward unavailable", map[string]any{"id": rewardID})
	}
	if !reward.CanAfford(l.stats.TotalPoints) {
		return domain.Redemption{}, apperrors.NewConflict("not enough points", map[string]any{
			"id":      rewardID,
			"cost":    reward.Cost,
			"balance": l.stats.TotalPoints,
		})
	}

	l.stats.TotalPoints -= reward.Cost
	redemption := domain.Redemption{
		ID:         uuid.NewString(),
		RewardID:   reward.ID,
		Cost:       reward.Cost,
		Balance:    l.stats.TotalPoints,
		RedeemedAt: l.now(),
	}
	l.redemptions = append(l.redemptions, redemption)
	return redemption, nil
}

// CreditResolution awards points for a resolved ticket and levels up when the threshold is crossed.
func (l *RewardLedger) CreditResolution(points int) domain.UserStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if points > 0 {
		l.stats.TotalPoints += points
	}
	l.stats.TicketsResolved++
	for l.stats.NextLevelPoints > 0 && l.stats.TotalPoints >= l.stats.NextLevelPoints {
		l.stats.Level++
		l.stats.NextLevelPoints += domain.PointsPerLevel
	}
	return l.stats
}
