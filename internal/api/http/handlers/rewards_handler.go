package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-dashboard/internal/api/dto"
	"github.com/spec-kit/support-dashboard/internal/domain"
	"github.com/spec-kit/support-dashboard/internal/service"
)

// RewardsHandler serves the gamification endpoints.
type RewardsHandler struct {
	service *service.RewardService
}

// NewRewardsHandler constructs handler.
func NewRewardsHandler(rewardService *service.RewardService) *RewardsHandler {
	return &RewardsHandler{service: rewardService}
}

// Overview GET /api/rewards.
func (h *RewardsHandler) Overview(c *fiber.Ctx) error {
	overview := h.service.Overview()

	offers := make([]dto.RewardResponse, 0, len(overview.Rewards))
	for _, offer := range overview.Rewards {
		offers = append(offers, dto.RewardResponse{
			ID:          offer.Reward.ID,
			Title:       offer.Reward.Title,
			Description: offer.Reward.Description,
			Cost:        offer.Reward.Cost,
			Category:    offer.Reward.Category,
			Available:   offer.Reward.Available,
			CanAfford:   offer.CanAfford,
		})
	}
	stats := overview.Stats
	return c.JSON(fiber.Map{"data": dto.RewardsResponse{
		Stats: dto.UserStatsResponse{
			TotalPoints:          stats.TotalPoints,
			Level:                stats.Level,
			NextLevelPoints:      stats.NextLevelPoints,
			LevelProgress:        overview.LevelProgress,
			PointsToNextLevel:    overview.PointsToNextLevel,
			TicketsResolved:      stats.TicketsResolved,
			AverageResponseTime:  stats.AverageResponseTime,
			CustomerSatisfaction: stats.CustomerSatisfaction,
			Streak:               stats.Streak,
		},
		RecentAchievements: achievementResponses(overview.RecentAchievements),
		Achievements:       achievementResponses(overview.Achievements),
		Rewards:            offers,
	}})
}

// Redeem POST /api/rewards/:id/redeem.
func (h *RewardsHandler) Redeem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	pending, err := h.service.SubmitRedeem(c.UserContext(), session(c), id)
	if err != nil {
		return err
	}
	return respond(c, pending, http.StatusCreated, func(r domain.Redemption) any {
		return dto.RedemptionResponse{
			ID:         r.ID,
			RewardID:   r.RewardID,
			Cost:       r.Cost,
			Balance:    r.Balance,
			RedeemedAt: r.RedeemedAt,
		}
	})
}

func achievementResponses(achievements []domain.Achievement) []dto.AchievementResponse {
	resp := make([]dto.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		resp = append(resp, dto.AchievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Earned:      a.Earned,
			EarnedDate:  a.EarnedDate,
			Progress:    a.Progress,
			Total:       a.Total,
			Points:      a.Points,
			Rarity:      a.Rarity,
		})
	}
	return resp
}
