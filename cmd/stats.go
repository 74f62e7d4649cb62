package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show monthly and all-time climbing statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		if m, _ := cmd.Flags().GetString("month"); m != "" {
			t, err := time.ParseInLocation("2006-01", m, time.Local)
			if err != nil {
				return fmt.Errorf("invalid month %q, want YYYY-MM: %w", m, err)
			}
			now = t
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rows, err := e.climbs.AllRows(cmd.Context())
		if err != nil {
			return err
		}
		rows = stats.RowsFor(rows, scopeClimber(cmd, e))

		dash, err := stats.BuildDashboard(rows, e.scales, now)
		if err != nil {
			return err
		}

		fmt.Printf("%s %d\n", dash.Month, dash.Year)
		fmt.Printf("Climbs this month:  %d\n", dash.ClimbsThisMonth)
		fmt.Printf("All-time climbs:    %d\n", dash.TotalClimbs)
		fmt.Printf("Sessions:           %d\n", dash.TotalSessions)
		fmt.Println()
		for _, b := range dash.Hardest {
			fmt.Printf("Hardest %s: %s\n", scaleLabel(b), b.Label())
		}

		entries, err := stats.Entries(rows, now.Location())
		if err != nil {
			return err
		}
		pyramids, err := stats.Pyramids(entries, e.scales)
		if err != nil {
			return err
		}
		for _, p := range pyramids {
			fmt.Printf("\nGrade pyramid: %s\n", p.Scale)
			printPyramid(p)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("climber", "", "Climber to count (default from config)")
	statsCmd.Flags().Bool("all", false, "Count every climber")
	statsCmd.Flags().String("month", "", "Month to count as YYYY-MM (default: current)")
}
