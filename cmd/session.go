package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/store"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record a session from the command line",
	Long: "Each session command restores the in-progress session from the local " +
		"database, applies one change, and mirrors it back.",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.recorder(ctx)
		if err != nil {
			return err
		}

		var d climb.Discipline
		if s, _ := cmd.Flags().GetString("discipline"); s != "" {
			if d, err = parseDiscipline(e.scales, s); err != nil {
				return err
			}
		}
		area, _ := cmd.Flags().GetString("area")

		if err := rec.Start(ctx, e.climber(cmd), d, area); err != nil {
			return err
		}
		fmt.Printf("Session started for %s.\n", rec.Climber())
		return nil
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <grade>",
	Short: "Log a climb",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.recorder(ctx)
		if err != nil {
			return err
		}

		var d climb.Discipline
		if s, _ := cmd.Flags().GetString("discipline"); s != "" {
			if d, err = parseDiscipline(e.scales, s); err != nil {
				return err
			}
		}
		area, _ := cmd.Flags().GetString("area")

		var ts time.Time
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			if ts, err = climb.ParseTimestamp(at, time.Local); err != nil {
				return err
			}
		}

		entry, err := rec.AddClimb(ctx, d, args[0], ts, area)
		if err != nil {
			return err
		}
		fmt.Printf("Logged %s %s (%d climbs).\n", entry.Discipline, entry.Grade, len(rec.Climbs()))
		return nil
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a climb by its number in 'session show'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.recorder(ctx)
		if err != nil {
			return err
		}
		removed, err := removeClimbNumber(ctx, rec, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s %s (%d climbs left).\n", removed.Discipline, removed.Grade, len(rec.Climbs()))
		return nil
	},
}

// removeClimbNumber removes the climb numbered arg as listed by
// 'session show', counting from 1. Range errors report arg as typed.
func removeClimbNumber(ctx context.Context, rec *recorder.Recorder, arg string) (climb.Entry, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return climb.Entry{}, fmt.Errorf("invalid climb number %q", arg)
	}
	removed, err := rec.RemoveClimb(ctx, n-1)
	var ie *climb.IndexError
	if errors.As(err, &ie) {
		return climb.Entry{}, &climb.IndexError{Index: n, Len: ie.Len}
	}
	return removed, err
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the in-progress session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.recorder(ctx)
		if err != nil {
			return err
		}
		if rec.State() == recorder.NoActiveSession {
			fmt.Println("No session in progress.")
			return nil
		}

		fmt.Printf("Climber:    %s\n", rec.Climber())
		if rec.Discipline() != "" {
			fmt.Printf("Discipline: %s\n", rec.Discipline())
		}
		if rec.Area() != "" {
			fmt.Printf("Area:       %s\n", rec.Area())
		}
		fmt.Printf("Started:    %s\n", climb.FormatTimestamp(rec.Started()))
		fmt.Println()

		climbs := rec.Climbs()
		if len(climbs) == 0 {
			fmt.Println("No climbs yet.")
			return nil
		}
		printClimbs(climbs)

		sum, err := rec.Summary()
		if err != nil {
			return err
		}
		fmt.Println()
		printSummary(sum)
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Save the session to the climb table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.recorder(ctx)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		id, err := rec.FinishSession(ctx, name)
		if err != nil {
			return err
		}

		saved := rec.LastSaved()
		fmt.Printf("Session %s saved.\n\n", id)
		printSummary(saved.Summary)
		return nil
	},
}

var sessionDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Abandon the in-progress session without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.recorder(ctx)
		if err != nil {
			return err
		}
		n := len(rec.Climbs())
		if err := rec.Discard(ctx); err != nil {
			return err
		}
		fmt.Printf("Discarded session with %d climbs.\n", n)
		return nil
	},
}

var sessionLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List session lifecycle events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.local.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No session events found.")
			return nil
		}

		fmt.Printf("%-19s  %-8s  %-12s  %-16s  %6s  %s\n",
			"Timestamp", "Action", "Climber", "Discipline", "Climbs", "Session")
		fmt.Println(strings.Repeat("─", 90))
		for _, ev := range events {
			session := ev.SessionID
			if ev.Label != "" {
				session += " (" + ev.Label + ")"
			}
			fmt.Printf("%-19s  %-8s  %-12s  %-16s  %6d  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Action,
				truncate(ev.Climber, 12),
				ev.Discipline,
				ev.Climbs,
				session,
			)
		}
		return nil
	},
}

func init() {
	sessionStartCmd.Flags().String("climber", "", "Climber name (default from config)")
	sessionStartCmd.Flags().StringP("discipline", "d", "", "Default discipline for the session")
	sessionStartCmd.Flags().StringP("area", "a", "", "Gym or crag")

	sessionAddCmd.Flags().StringP("discipline", "d", "", "Discipline (default: the session's)")
	sessionAddCmd.Flags().StringP("area", "a", "", "Gym or crag (default: the session's)")
	sessionAddCmd.Flags().String("at", "", "Timestamp as YYYY-MM-DD HH:MM:SS (default: now)")

	sessionFinishCmd.Flags().StringP("name", "n", "", "Session name")

	sessionLogCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionDiscardCmd)
	sessionCmd.AddCommand(sessionLogCmd)
}
