package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-dashboard/internal/domain"
	"github.com/spec-kit/support-dashboard/internal/events"
	"github.com/spec-kit/support-dashboard/internal/repository"
)

const recentAchievementsLimit = 3

// RewardService exposes the gamification ledger.
type RewardService struct {
	ledger              *repository.RewardLedger
	dispatcher          events.Dispatcher
	runner              *MutationRunner
	logger              *zap.Logger
	redeemDelay         time.Duration
	pointsPerResolution int
}

// RewardDependencies bundles collaborators for reward service.
type RewardDependencies struct {
	Ledger              *repository.RewardLedger
	Dispatcher          events.Dispatcher
	Runner              *MutationRunner
	Logger              *zap.Logger
	RedeemDelay         time.Duration
	PointsPerResolution int
}

// RewardOffer is a catalog entry annotated for the current balance.
type RewardOffer struct {
	Reward    domain.Reward
	CanAfford bool
}

// RewardsOverview is everything the rewards page shows.
type RewardsOverview struct {
	Stats              domain.UserStats
	LevelProgress      float64
	PointsToNextLevel  int
	RecentAchievements []domain.Achievement
	Achievements       []domain.Achievement
	Rewards            []RewardOffer
}

// NewRewardService constructs the service.
func NewRewardService(deps RewardDependencies) *RewardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RewardService{
		ledger:              deps.Ledger,
		dispatcher:          deps.Dispatcher,
		runner:              deps.Runner,
		logger:              logger,
		redeemDelay:         deps.RedeemDelay,
		pointsPerResolution: deps.PointsPerResolution,
	}
}

// RegisterHandlers credits resolution points when a ticket is closed.
func (s *RewardService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketStatusChanged, s.handleTicketStatusChanged)
}

// Overview assembles the rewards page.
func (s *RewardService) Overview() RewardsOverview {
	stats := s.ledger.Stats()
	achievements := s.ledger.Achievements()

	offers := make([]RewardOffer, 0)
	for _, reward := range s.ledger.Rewards() {
		offers = append(offers, RewardOffer{Reward: reward, CanAfford: reward.CanAfford(stats.TotalPoints)})
	}
	return RewardsOverview{
		Stats:              stats,
		LevelProgress:      stats.LevelProgress(),
		PointsToNextLevel:  stats.PointsToNextLevel(),
		RecentAchievements: recentAchievements(achievements, recentAchievementsLimit),
		Achievements:       achievements,
		Rewards:            offers,
	}
}

// Redemptions lists past redemptions.
func (s *RewardService) Redemptions() []domain.Redemption {
	return s.ledger.Redemptions()
}

// SubmitRedeem queues a redemption. Availability and balance are checked
// when it applies, so queued redemptions cannot overspend.
func (s *RewardService) SubmitRedeem(ctx context.Context, session string, rewardID int64) (*Pending[domain.Redemption], error) {
	if _, err := s.ledger.Reward(rewardID); err != nil {
		return nil, err
	}
	return enqueue(ctx, s.runner, submissionKey(session, opRedeem, rewardID), laneRewards, s.redeemDelay, func() (domain.Redemption, error) {
		redemption, err := s.ledger.Redeem(rewardID)
		if err != nil {
			return domain.Redemption{}, err
		}
		s.logger.Info("reward redeemed",
			zap.Int64("reward_id", rewardID),
			zap.Int("cost", redemption.Cost),
			zap.Int("balance", redemption.Balance))
		publishEvent(s.dispatcher, events.Event{
			Type: events.EventRewardRedeemed,
			Payload: events.RewardRedeemedPayload{
				RedemptionID: redemption.ID,
				RewardID:     rewardID,
				Cost:         redemption.Cost,
				Balance:      redemption.Balance,
			},
		})
		return redemption, nil
	})
}

func (s *RewardService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	if payload.NewStatus != domain.TicketStatusClosed || payload.OldStatus == domain.TicketStatusClosed {
		return nil
	}
	stats := s.ledger.CreditResolution(s.pointsPerResolution)
	s.logger.Info("resolution credited",
		zap.Int64("ticket_id", event.TicketID),
		zap.Int("points", s.pointsPerResolution),
		zap.Int("total_points", stats.TotalPoints))
	return nil
}

func recentAchievements(all []domain.Achievement, limit int) []domain.Achievement {
	out := make([]domain.Achievement, 0, limit)
	for _, a := range all {
		if !a.Earned {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}
