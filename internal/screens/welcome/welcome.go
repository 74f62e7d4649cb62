// Package welcome is the first-run screen that asks for the climber's name.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hanley0809-ux/climbing-points-app/internal/router"
	"github.com/hanley0809-ux/climbing-points-app/internal/screen"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/components"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/layout"
	"github.com/hanley0809-ux/climbing-points-app/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	introDur     = 1200 * time.Millisecond
)

// wall frames rise under the climber during the intro.
var wallFrames = []string{"▁▁▁▁▁▁▁", "▂▃▂▃▂▃▂", "▃▅▄▅▃▅▄", "▅▇▆▇▅▇▆"}

const climberArt = `  o/
 /|
 / \`

type tickMsg time.Time

// WelcomeScreen plays a short intro and then asks for a name.
type WelcomeScreen struct {
	save        func(name string) error
	homeFactory func(name string) screen.Screen
	input       components.TextInput
	elapsed     time.Duration
	tickCount   int
	done        bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. save persists the name; homeFactory builds
// the screen that replaces this one.
func New(save func(name string) error, homeFactory func(name string) screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		save:        save,
		homeFactory: homeFactory,
		input:       components.NewTextInput("What should we call you?", "Your name", 40),
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if !w.ready() {
		return []layout.KeyHint{{Key: "Any key", Description: "Skip"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) ready() bool {
	return w.elapsed >= introDur
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.tickCount++
		if w.ready() {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.ready() {
			return w, w.input.Init()
		}
		return w, tick()

	case tea.KeyPressMsg:
		if !w.ready() {
			w.elapsed = introDur
			return w, w.input.Init()
		}
		if msg.String() == "enter" {
			return w, w.submit()
		}
	}

	if !w.ready() {
		return w, nil
	}
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) submit() tea.Cmd {
	if w.done {
		return nil
	}
	name := strings.TrimSpace(w.input.Value())
	if name == "" {
		w.input.SetError("Enter a name")
		return nil
	}
	if err := w.save(name); err != nil {
		w.input.SetError("Could not save config: " + err.Error())
		return nil
	}
	w.done = true
	next := w.homeFactory(name)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	step := min(int(w.elapsed/(introDur/time.Duration(len(wallFrames)))), len(wallFrames)-1)

	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Render(climberArt),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(wallFrames[step]),
	}

	if w.ready() {
		sections = append(sections,
			"",
			theme.Title.Render("Climb Points"),
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Log every send."),
			"",
			components.Card(w.input.View(), min(components.ContentWidth(width), 48)),
		)
	} else {
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to skip"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
