package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("climbs")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rows, err := e.climbs.AllRows(cmd.Context())
		if err != nil {
			return err
		}
		sessions, err := stats.GroupSessions(rows, scopeClimber(cmd, e), time.Local)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		fmt.Printf("%-19s  %-12s  %-20s  %6s  %s\n", "Session", "Climber", "Name", "Climbs", "Hardest")
		fmt.Println(strings.Repeat("─", 80))
		for _, s := range sessions {
			sum, err := stats.Summarize(s.Climbs, e.scales)
			if err != nil {
				return fmt.Errorf("session %s: %w", s.ID, err)
			}
			var hardest []string
			for _, b := range sum.Best {
				hardest = append(hardest, b.Label())
			}
			fmt.Printf("%-19s  %-12s  %-20s  %6d  %s\n",
				s.ID, truncate(s.Climber, 12), truncate(s.Name, 20), sum.Count, strings.Join(hardest, ", "))
			if verbose {
				for _, c := range s.Climbs {
					fmt.Printf("    %s  %-16s %s\n", c.Timestamp.Format("15:04"), c.Discipline, c.Grade)
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("climber", "", "Climber to list (default from config)")
	historyCmd.Flags().Bool("all", false, "List every climber's sessions")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 for all)")
	historyCmd.Flags().Bool("climbs", false, "List each session's climbs")
}
