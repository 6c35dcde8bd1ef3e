// Package seed loads the fixture data the dashboard starts from.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/support-dashboard/internal/domain"
	"github.com/spec-kit/support-dashboard/internal/repository"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Data is the decoded fixture set, ready to hand to the repositories.
type Data struct {
	Tickets  []domain.Ticket
	Comments map[int64][]domain.Comment
	Rewards  repository.RewardCatalog
}

type fixtureFile struct {
	Tickets []ticketFixture `yaml:"tickets"`
	Rewards rewardsFixture  `yaml:"rewards"`
}

type ticketFixture struct {
	ID          int64            `yaml:"id"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Status      string           `yaml:"status"`
	Priority    string           `yaml:"priority"`
	Category    string           `yaml:"category"`
	CreatedAt   string           `yaml:"created_at"`
	UpdatedAt   string           `yaml:"updated_at"`
	Assignee    *string          `yaml:"assignee"`
	Reporter    string           `yaml:"reporter"`
	Tags        []string         `yaml:"tags"`
	Comments    []commentFixture `yaml:"comments"`
}

type commentFixture struct {
	ID        int64  `yaml:"id"`
	Author    string `yaml:"author"`
	Content   string `yaml:"content"`
	Timestamp string `yaml:"timestamp"`
	Internal  bool   `yaml:"internal"`
}

type rewardsFixture struct {
	Stats        statsFixture         `yaml:"stats"`
	Achievements []achievementFixture `yaml:"achievements"`
	Store        []rewardFixture      `yaml:"store"`
}

type statsFixture struct {
	TotalPoints          int     `yaml:"total_points"`
	Level                int     `yaml:"level"`
	NextLevelPoints      int     `yaml:"next_level_points"`
	TicketsResolved      int     `yaml:"tickets_resolved"`
	AverageResponseTime  string  `yaml:"average_response_time"`
	CustomerSatisfaction float64 `yaml:"customer_satisfaction"`
	Streak               int     `yaml:"streak"`
}

type achievementFixture struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	EarnedDate  string `yaml:"earned_date"`
	Progress    *int   `yaml:"progress"`
	Total       *int   `yaml:"total"`
	Points      int    `yaml:"points"`
	Rarity      string `yaml:"rarity"`
}

type rewardFixture struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Cost        int    `yaml:"cost"`
	Category    string `yaml:"category"`
	Available   bool   `yaml:"available"`
}

// Load reads path, or the embedded fixtures when path is empty.
func Load(path string) (*Data, error) {
	raw := defaultFixtures
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = content
	}
	return Parse(raw)
}

// Parse decodes a fixture document.
func Parse(raw []byte) (*Data, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	data := &Data{Comments: make(map[int64][]domain.Comment, len(file.Tickets))}
	for _, tf := range file.Tickets {
		ticket, err := tf.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed ticket %d: %w", tf.ID, err)
		}
		comments := make([]domain.Comment, 0, len(tf.Comments))
		for _, cf := range tf.Comments {
			ts, err := parseTime(cf.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("seed ticket %d comment %d: %w", tf.ID, cf.ID, err)
			}
			comments = append(comments, domain.Comment{
				ID:         cf.ID,
				TicketID:   ticket.ID,
				Author:     cf.Author,
				Content:    cf.Content,
				Timestamp:  ts,
				IsInternal: cf.Internal,
			})
		}
		data.Tickets = append(data.Tickets, ticket)
		data.Comments[ticket.ThreadID] = comments
	}

	rewards, err := file.Rewards.toCatalog()
	if err != nil {
		return nil, err
	}
	data.Rewards = rewards
	return data, nil
}

func (tf ticketFixture) toDomain() (domain.Ticket, error) {
	status, err := domain.ParseTicketStatus(tf.Status)
	if err != nil {
		return domain.Ticket{}, err
	}
	priority, err := domain.ParseTicketPriority(tf.Priority)
	if err != nil {
		return domain.Ticket{}, err
	}
	category, err := domain.ParseTicketCategory(tf.Category)
	if err != nil {
		return domain.Ticket{}, err
	}
	createdAt, err := parseTime(tf.CreatedAt)
	if err != nil {
		return domain.Ticket{}, err
	}
	updatedAt := createdAt
	if tf.UpdatedAt != "" {
		if updatedAt, err = parseTime(tf.UpdatedAt); err != nil {
			return domain.Ticket{}, err
		}
	}
	return domain.Ticket{
		ID:          tf.ID,
		Title:       tf.Title,
		Description: tf.Description,
		Status:      status,
		Priority:    priority,
		Category:    category,
		Assignee:    tf.Assignee,
		Reporter:    tf.Reporter,
		Tags:        tf.Tags,
		ThreadID:    tf.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (rf rewardsFixture) toCatalog() (repository.RewardCatalog, error) {
	catalog := repository.RewardCatalog{
		Stats: domain.UserStats{
			TotalPoints:          rf.Stats.TotalPoints,
			Level:                rf.Stats.Level,
			NextLevelPoints:      rf.Stats.NextLevelPoints,
			TicketsResolved:      rf.Stats.TicketsResolved,
			AverageResponseTime:  rf.Stats.AverageResponseTime,
			CustomerSatisfaction: rf.Stats.CustomerSatisfaction,
			Streak:               rf.Stats.Streak,
		},
	}
	for _, af := range rf.Achievements {
		achievement := domain.Achievement{
			ID:          af.ID,
			Title:       af.Title,
			Description: af.Description,
			Progress:    af.Progress,
			Total:       af.Total,
			Points:      af.Points,
			Rarity:      domain.Rarity(af.Rarity),
		}
		if af.EarnedDate != "" {
			earned, err := time.Parse(time.DateOnly, af.EarnedDate)
			if err != nil {
				return repository.RewardCatalog{}, fmt.Errorf("achievement %d: %w", af.ID, err)
			}
			achievement.Earned = true
			achievement.EarnedDate = &earned
		}
		catalog.Achievements = append(catalog.Achievements, achievement)
	}
	for _, r := range rf.Store {
		catalog.Rewards = append(catalog.Rewards, domain.Reward{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Cost:        r.Cost,
			Category:    r.Category,
			Available:   r.Available,
		})
	}
	return catalog, nil
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return t, nil
}
