package domain

import "time"

// PointsPerLevel is the width of one level band on the progress bar.
const PointsPerLevel = 500

// Rarity grades achievements.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// UserStats is the agent's gamification profile.
type UserStats struct {
	TotalPoints          int
	Level                int
	NextLevelPoints      int
	TicketsResolved      int
	AverageResponseTime  string
	CustomerSatisfaction float64
	Streak               int
}

// LevelProgress returns the position inside the current level band, in percent.
func (s UserStats) LevelProgress() float64 {
	if s.TotalPoints <= 0 {
		return 0
	}
	return float64(s.TotalPoints%PointsPerLevel) / PointsPerLevel * 100
}

// PointsToNextLevel never goes below zero.
func (s UserStats) PointsToNextLevel() int {
	if remaining := s.NextLevelPoints - s.TotalPoints; remaining > 0 {
		return remaining
	}
	return 0
}

// Achievement is either earned (with a date) or in progress.
type Achievement struct {
	ID          int64
	Title       string
	Description string
	Earned      bool
	EarnedDate  *time.Time
	Progress    *int
	Total       *int
	Points      int
	Rarity      Rarity
}

// Reward is an item of the rewards store.
type Reward struct {
	ID          int64
	Title       string
	Description string
	Cost        int
	Category    string
	Available   bool
}

// CanAfford reports whether balance covers the reward.
func (r Reward) CanAfford(balance int) bool {
	return balance >= r.Cost
}

// Redemption records a debit against the points balance.
type Redemption struct {
	ID         string
	RewardID   int64
	Cost       int
	Balance    int
	RedeemedAt time.Time
}
