// Package home is the landing screen.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/climb"
	"github.com/hanley0809-ux/climbing-points-app/internal/grades"
	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/router"
	"github.com/hanley0809-ux/climbing-points-app/internal/screen"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/dashboard"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/history"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/logsession"
	"github.com/hanley0809-ux/climbing-points-app/internal/stats"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/components"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
)

// RowSource reads the full climb table.
type RowSource interface {
	AllRows(ctx context.Context) ([]climb.Row, error)
}

// Deps is everything the home screen and the screens it opens need.
type Deps struct {
	Recorder *recorder.Recorder
	Rows     RowSource
	Scales   *grades.Registry
	Climber  string
	Now      func() time.Time

	// LatestVersion, when set, shows an update note.
	LatestVersion string
}

// climber is whose climbs the stats and history screens show: the
// active session's climber, else the configured one.
func (d Deps) climber() string {
	if d.Recorder != nil {
		if c := d.Recorder.Climber(); c != "" {
			return c
		}
	}
	return d.Climber
}

type statsLoadedMsg struct {
	Dashboard stats.Dashboard
	Err       error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	dash   stats.Dashboard
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &HomeScreen{deps: deps}
	h.menu = h.buildMenu()
	return h
}

func (h *HomeScreen) buildMenu() components.Menu {
	d := h.deps
	logLabel, logHint := "LOG SESSION", ""
	if d.Recorder.State() != recorder.NoActiveSession {
		logLabel = "RESUME SESSION"
		logHint = fmt.Sprintf("%d climbs", len(d.Recorder.Climbs()))
	}

	push := func(s screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{Label: logLabel, Hint: logHint, Action: func() tea.Cmd {
			return push(logsession.New(d.Recorder, d.Scales, d.climber()))()
		}},
		{Label: "DASHBOARD", Action: func() tea.Cmd {
			return push(dashboard.New(d.Rows, d.Scales, d.climber(), d.Now))()
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return push(history.New(d.Rows, d.Scales, d.climber()))()
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	m := components.NewMenu(items)
	m.Selected = min(h.menu.Selected, len(items)-1)
	return m
}

func (h *HomeScreen) Init() tea.Cmd {
	rows, scales, now := h.deps.Rows, h.deps.Scales, h.deps.Now
	climber := h.deps.climber()
	return func() tea.Msg {
		all, err := rows.AllRows(context.Background())
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		dash, err := stats.BuildDashboard(stats.RowsFor(all, climber), scales, now())
		return statsLoadedMsg{Dashboard: dash, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		} else {
			h.dash = msg.Dashboard
		}
		return h, nil

	case router.ResumedMsg:
		// A session may have been started or saved underneath.
		h.menu = h.buildMenu()
		return h, h.Init()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(height) || width < 80
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant(), cw))
	}

	switch {
	case h.errMsg != "":
		sections = append(sections, renderError(h.errMsg, cw))
	case h.loaded:
		sections = append(sections, renderStatsBar(h.dash, cw, compact))
	}

	labels := make([]string, len(h.menu.Items))
	for i, item := range h.menu.Items {
		labels[i] = item.Label
		if item.Hint != "" {
			labels[i] += " (" + item.Hint + ")"
		}
	}
	if compact {
		sections = append(sections, renderMenuCompact(labels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(labels, h.menu.Selected, cw))
	}

	if h.deps.LatestVersion != "" {
		sections = append(sections, renderUpdateNote(h.deps.LatestVersion, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) mascotVariant() MascotVariant {
	switch {
	case h.deps.Recorder.State() != recorder.NoActiveSession:
		return MascotClimbing
	case h.loaded && h.dash.ClimbsThisMonth > 0:
		return MascotSent
	}
	return MascotIdle
}
