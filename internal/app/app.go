// Package app wires the screens into the root Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/recorder"
	"github.com/hanley0809-ux/climbing-points-app/internal/router"
	"github.com/hanley0809-ux/climbing-points-app/internal/screen"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/home"
	"github.com/hanley0809-ux/climbing-points-app/internal/screens/welcome"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	recorder *recorder.Recorder
	width    int
	height   int
}

// Options configures the application.
type Options struct {
	Home home.Deps

	// SaveClimber persists the name entered on first run. When
	// Home.Climber is empty the app opens on the welcome screen.
	SaveClimber func(name string) error
}

// newAppModel creates a new AppModel with the home screen, or the
// welcome screen when no climber is known yet.
func newAppModel(opts Options) AppModel {
	var initial screen.Screen = home.New(opts.Home)
	if opts.Home.Climber == "" && opts.SaveClimber != nil {
		initial = welcome.New(opts.SaveClimber, func(name string) screen.Screen {
			deps := opts.Home
			deps.Climber = name
			return home.New(deps)
		})
	}
	return AppModel{
		router:   router.New(initial),
		recorder: opts.Home.Recorder,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Screens own esc so modals can close themselves.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// status shows who is climbing and how many climbs are pending.
func (m AppModel) status() string {
	if m.recorder == nil || m.recorder.State() == recorder.NoActiveSession {
		return ""
	}
	n := len(m.recorder.Climbs())
	noun := "climbs"
	if n == 1 {
		noun = "climb"
	}
	return fmt.Sprintf("%s · %d %s  ", m.recorder.Climber(), n, noun)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
