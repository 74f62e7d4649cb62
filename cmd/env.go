package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/config"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/notify"
	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/store"
	"github.com/hanley0809-ux/climbing-points-app/internal/store/pgstore"
)

// env bundles what every command needs: config, scales and stores.
// The local SQLite store always holds the draft mirror and the event
// log; the climb table may live in Postgres instead.
type env struct {
	cfg    *config.Config
	scales *grades.Registry
	local  *store.Store
	climbs store.ClimbRepo
	closer func()
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	scales, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("grade scales: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	local, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{cfg: cfg, scales: scales, local: local, climbs: local.ClimbRepo(), closer: func() {}}
	if cfg.Store.Driver == "postgres" {
		pg, err := pgstore.Open(cmd.Context(), cfg.Store.DSN)
		if err != nil {
			local.Close()
			return nil, fmt.Errorf("open shared store: %w", err)
		}
		e.climbs = pg
		e.closer = pg.Close
	}
	return e, nil
}

func (e *env) Close() {
	e.closer()
	e.local.Close()
}

// recorder builds a Recorder and restores any in-progress session.
func (e *env) recorder(ctx context.Context) (*recorder.Recorder, error) {
	opts := []recorder.Option{recorder.WithEventLog(e.local.EventRepo())}
	if tg := e.cfg.Notify.Telegram; tg.Enabled() {
		opts = append(opts, recorder.WithNotifier(notify.NewTelegram(tg.Token, tg.ChatID)))
	}

	rec := recorder.New(e.climbs, e.local.DraftRepo(), e.scales, opts...)
	if _, err := rec.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return rec, nil
}

// climber returns the --climber flag, falling back to the configured name.
func (e *env) climber(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("climber"); f != nil && f.Changed {
		return f.Value.String()
	}
	return e.cfg.Climber
}

// scopeClimber is the climber a report covers: "" with --all, else
// --climber or the configured climber.
func scopeClimber(cmd *cobra.Command, e *env) string {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return ""
	}
	return e.climber(cmd)
}

// configPath returns --config, falling back to config.DefaultPath.
func configPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CLIMBPOINTS_DB, then a sqlite store.dsn, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if os.Getenv("CLIMBPOINTS_DB") == "" && cfg.Store.Driver == "sqlite" && cfg.Store.DSN != "" {
		return cfg.Store.DSN, store.EnsureDir(cfg.Store.DSN)
	}
	return store.DefaultDBPath()
}

// parseDiscipline accepts the built-in aliases and any configured name.
func parseDiscipline(reg *grades.Registry, s string) (climb.Discipline, error) {
	if d, err := climb.ParseDiscipline(s); err == nil {
		return d, nil
	}
	for _, d := range reg.Disciplines() {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", &climb.ValidationError{Field: "discipline", Reason: fmt.Sprintf("unknown discipline %q", s)}
}

// saveClimber writes name into the config file so later runs know it.
func (e *env) saveClimber(cmd *cobra.Command, name string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	// Reload the file so env overrides are not written back.
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Climber = name
	if err := config.Write(path, cfg); err != nil {
		return err
	}
	e.cfg.Climber = name
	return nil
}
