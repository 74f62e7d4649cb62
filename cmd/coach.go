package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/coach"
	"github.com/hanley0809-ux/climbing-points-app/internal/config"
	"github.com/hanley0809-ux/climbing-points-app/internal/llm"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Ask an LLM coach for advice based on recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("sessions")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		climber := e.climber(cmd)
		if climber == "" {
			return fmt.Errorf("no climber: pass --climber or set climber in the config")
		}

		llmCfg, err := coachLLMConfig(e.cfg.LLM)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), llmCfg.Timeout)
		defer cancel()

		provider, err := llm.NewProvider(ctx, llmCfg, e.local.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		rows, err := e.climbs.AllRows(ctx)
		if err != nil {
			return err
		}
		sessions, err := stats.GroupSessions(rows, climber, time.Local)
		if err != nil {
			return err
		}

		cfg := coach.DefaultConfig()
		if n > 0 {
			cfg.Sessions = n
		}
		advice, err := coach.NewService(provider, e.scales, cfg).Advise(ctx, climber, sessions)
		if err != nil {
			return err
		}

		fmt.Println(advice.Summary)
		fmt.Println()
		fmt.Printf("Focus: %s\n", advice.Focus)
		if advice.TargetGrade != "" {
			fmt.Printf("Next target: %s\n", advice.TargetGrade)
		}
		fmt.Println()
		fmt.Println("Drills:")
		for _, d := range advice.Drills {
			fmt.Printf("  - %s\n", d)
		}
		return nil
	},
}

// coachLLMConfig layers the config file's provider choice over the
// environment and reports why the result cannot be used.
func coachLLMConfig(c config.LLMConfig) (llm.Config, error) {
	cfg, found := llm.DiscoverConfig()
	if c.Provider != "" {
		cfg.Use(c.Provider, c.Model)
	} else if c.Model != "" {
		cfg.Use(cfg.Provider, c.Model)
	}
	if t := c.Timeout(); t > 0 {
		cfg.Timeout = t
	}
	if err := cfg.Validate(); err != nil {
		if !found && c.Provider == "" {
			return cfg, fmt.Errorf("LLM provider not configured: no provider or API key found in the environment or the llm section of the config file: %w", err)
		}
		return cfg, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return cfg, nil
}

func init() {
	coachCmd.Flags().String("climber", "", "Climber to coach (default from config)")
	coachCmd.Flags().Int("sessions", 0, "Number of recent sessions to review (default 5)")
}
