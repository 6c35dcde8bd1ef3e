package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserStatsLevelProgress(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   float64
	}{
		{name: "mid band", points: 2450, want: 90},
		{name: "band boundary", points: 2500, want: 0},
		{name: "zero", points: 0, want: 0},
		{name: "first band", points: 125, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := UserStats{TotalPoints: tt.points}
			assert.InDelta(t, tt.want, stats.LevelProgress(), 0.0001)
		})
	}
}

func TestUserStatsPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 550, UserStats{TotalPoints: 2450, NextLevelPoints: 3000}.PointsToNextLevel())
	assert.Equal(t, 0, UserStats{TotalPoints: 3100, NextLevelPoints: 3000}.PointsToNextLevel())
}

func TestRewardCanAfford(t *testing.T) {
	reward := Reward{Cost: 2000}
	assert.True(t, reward.CanAfford(2000))
	assert.False(t, reward.CanAfford(1999))
}
