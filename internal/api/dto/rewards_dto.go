package dto

import (
	"time"

	"github.com/spec-kit/support-dashboard/internal/domain"
)

// UserStatsResponse is the points profile.
type UserStatsResponse struct {
	TotalPoints          int     `json:"total_points"`
	Level                int     `json:"level"`
	NextLevelPoints      int     `json:"next_level_points"`
	LevelProgress        float64 `json:"level_progress"`
	PointsToNextLevel    int     `json:"points_to_next_level"`
	TicketsResolved      int     `json:"tickets_resolved"`
	AverageResponseTime  string  `json:"average_response_time"`
	CustomerSatisfaction float64 `json:"customer_satisfaction"`
	Streak               int     `json:"streak"`
}

// AchievementResponse describes one badge.
type AchievementResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Earned      bool          `json:"earned"`
	EarnedDate  *time.Time    `json:"earned_date,omitempty"`
	Progress    *int          `json:"progress,omitempty"`
	Total       *int          `json:"total,omitempty"`
	Points      int           `json:"points"`
	Rarity      domain.Rarity `json:"rarity"`
}

// RewardResponse is a store item annotated for the current balance.
type RewardResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
	CanAfford   bool   `json:"can_afford"`
}

// RewardsResponse is the rewards page.
type RewardsResponse struct {
	Stats              UserStatsResponse     `json:"stats"`
	RecentAchievements []AchievementResponse `json:"recent_achievements"`
	Achievements       []AchievementResponse `json:"achievements"`
	Rewards            []RewardResponse      `json:"rewards"`
}

// RedemptionResponse confirms a debit.
type RedemptionResponse struct {
	ID         string    `json:"id"`
	RewardID   int64     `json:"reward_id"`
	Cost       int       `json:"cost"`
	Balance    int       `json:"balance"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// ActivityResponse is one feed line.
type ActivityResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TicketID  int64     `json:"ticket_id,omitempty"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}
