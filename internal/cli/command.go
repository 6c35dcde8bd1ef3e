// Package cli is the offline dashboard: it loads the seed fixtures and prints
// the same views the HTTP API serves.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/support-dashboard/internal/domain"
	"github.com/spec-kit/support-dashboard/internal/query"
	"github.com/spec-kit/support-dashboard/internal/repository"
	"github.com/spec-kit/support-dashboard/internal/seed"
)

// NewRootCommand builds the dashboard command tree.
func NewRootCommand() *cobra.Command {
	var seedFile string

	rootCmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Support dashboard",
		Long:         `Inspect support tickets, ticket stats and rewards from a fixture file.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&seedFile, "seed", "s", "", "Path to fixture file (default: embedded fixtures)")

	load := func() (*seed.Data, error) {
		return seed.Load(seedFile)
	}
	rootCmd.AddCommand(
		newTicketsCommand(load),
		newStatsCommand(load),
		newRewardsCommand(load),
	)
	return rootCmd
}

type loader func() (*seed.Data, error)

func newTicketsCommand(load loader) *cobra.Command {
	var search, status, priority string

	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List tickets",
		Long:  `List tickets newest first, optionally filtered by search term, status and priority.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := query.ParseCriteria(search, status, priority)
			if err != nil {
				return err
			}
			data, err := load()
			if err != nil {
				return err
			}
			store, err := repository.NewTicketStore(data.Tickets)
			if err != nil {
				return err
			}
			threads := repository.NewThreadRegistry(data.Comments)
			return printTickets(cmd.OutOrStdout(), query.Filter(store.List(), criteria), threads)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring of title or description")
	cmd.Flags().StringVar(&status, "status", query.All, "Status filter (all, open, in-progress, closed)")
	cmd.Flags().StringVar(&priority, "priority", query.All, "Priority filter (all, low, medium, high, urgent)")
	return cmd
}

func newStatsCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ticket counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := load()
			if err != nil {
				return err
			}
			stats := query.Aggregate(data.Tickets)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Total Tickets\t%d\n", stats.Total)
			fmt.Fprintf(tw, "Open\t%d\n", stats.Open)
			fmt.Fprintf(tw, "In Progress\t%d\n", stats.InProgress)
			fmt.Fprintf(tw, "Closed\t%d\n", stats.Closed)
			return tw.Flush()
		},
	}
}

func newRewardsCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "rewards",
		Short: "Show points, level and the rewards store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := load()
			if err != nil {
				return err
			}
			return printRewards(cmd.OutOrStdout(), data.Rewards)
		},
	}
}

func printTickets(w io.Writer, tickets []domain.Ticket, threads *repository.ThreadRegistry) error {
	if len(tickets) == 0 {
		_, err := fmt.Fprintln(w, "No tickets found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tASSIGNEE\tCOMMENTS\tCREATED")
	for _, t := range tickets {
		assignee := "Unassigned"
		if t.Assignee != nil {
			assignee = *t.Assignee
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			t.ID, t.Title, t.Status, t.Priority, assignee,
			threads.Count(t.ThreadID), t.CreatedAt.Format("Jan 2, 2006"))
	}
	return tw.Flush()
}

func printRewards(w io.Writer, catalog repository.RewardCatalog) error {
	stats := catalog.Stats
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Points\t%d\n", stats.TotalPoints)
	fmt.Fprintf(tw, "Level\t%d (%.0f%%, %d to next)\n", stats.Level, stats.LevelProgress(), stats.PointsToNextLevel())
	fmt.Fprintf(tw, "Resolved\t%d\n", stats.TicketsResolved)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "REWARD\tCOST\tSTATE")
	for _, r := range catalog.Rewards {
		state := "need more points"
		switch {
		case !r.Available:
			state = "unavailable"
		case r.CanAfford(stats.TotalPoints):
			state = "redeemable"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Title, r.Cost, state)
	}
	return tw.Flush()
}
