// Package tui provides the Bubble Tea game interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stealthlearn/internal/adaptivity"
	"github.com/verte-zerg/stealthlearn/internal/analytics"
	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/generator"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/statsui"
	"github.com/verte-zerg/stealthlearn/internal/store"
)

// View keys besides the game ids.
const (
	KeyHome       = engine.HomeKey
	KeyGameSelect = "gameSelect"
	KeyAnalytics  = "analytics"
)

// DefaultFeedbackDelay is how long answer feedback stays on screen.
const DefaultFeedbackDelay = 500 * time.Millisecond

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	itemStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Services are the shared dependencies handed to every view.
type Services struct {
	Ledger        *analytics.Store
	Adaptor       adaptivity.Adaptor
	Window        int
	Gen           *generator.Generator
	LastGame      store.Slot
	Now           func() time.Time
	FeedbackDelay time.Duration
}

func (s *Services) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Services) feedbackDelay() time.Duration {
	if s.FeedbackDelay > 0 {
		return s.FeedbackDelay
	}
	return DefaultFeedbackDelay
}

// RegisterViews binds the home, game select, analytics and game views.
func RegisterViews(c *engine.Controller, svc *Services) {
	c.RegisterView(KeyHome, engine.ViewFunc(func(c *engine.Controller, _ engine.Params) tea.Model {
		return newHome(c, svc)
	}))
	c.RegisterView(KeyGameSelect, engine.ViewFunc(func(c *engine.Controller, p engine.Params) tea.Model {
		return newGameSelect(c, p.Get("subject"))
	}))
	c.RegisterView(KeyAnalytics, engine.ViewFunc(func(c *engine.Controller, _ engine.Params) tea.Model {
		return statsui.NewModel(c, svc.Ledger)
	}))
	for _, game := range model.Catalog() {
		game := game
		src, ok := generator.SourceFor(game.ID)
		if !ok {
			c.Logger().Warn("no question source for %s", game.ID)
			continue
		}
		c.RegisterView(game.ID, engine.ViewFunc(func(c *engine.Controller, _ engine.Params) tea.Model {
			return newQuiz(c, svc, game, src)
		}))
	}
}

// App is the root Bubble Tea model. It forwards messages to the
// controller and draws a status footer.
type App struct {
	c      *engine.Controller
	width  int
	height int

	sessions int
	last     *model.SessionRecord
}

// NewApp returns the root model. ledger seeds the footer.
func NewApp(c *engine.Controller, ledger *analytics.Store) *App {
	a := &App{c: c}
	if ledger != nil {
		sessions := ledger.Sessions(model.SessionFilter{UserID: c.UserID()})
		a.sessions = len(sessions)
		if len(sessions) > 0 {
			last := sessions[len(sessions)-1]
			a.last = &last
		}
	}
	c.On(engine.EventSessionRecorded, a.onRecorded)
	return a
}

func (a *App) onRecorded(data any) {
	rec, ok := data.(model.SessionRecord)
	if !ok {
		return
	}
	a.sessions++
	a.last = &rec
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.c.Present() == nil {
		return a.c.Start(KeyHome, nil)
	}
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyHeight := msg.Height - 1
		if bodyHeight < 1 {
			bodyHeight = msg.Height
		}
		return a, a.c.Dispatch(tea.WindowSizeMsg{Width: msg.Width, Height: bodyHeight})
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	}
	return a, a.c.Dispatch(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	view := a.c.Present()
	if view == nil {
		return ""
	}
	body := view.View()
	footer := a.renderFooter()
	if a.width == 0 || a.height < 3 {
		return body
	}
	return body + "\n" + lipgloss.Place(a.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (a *App) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Player %s", a.c.UserID()),
		fmt.Sprintf("Sessions %d", a.sessions),
	}
	if a.last != nil {
		title := a.last.GameID
		if g, ok := model.LookupGame(a.last.GameID); ok {
			title = g.Title
		}
		segments = append(segments, fmt.Sprintf("Last %s %d pts · %.0f%%", title, a.last.Score, a.last.Accuracy*100))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// menu is a vertical list with a cursor.
type menu struct {
	items  []string
	cursor int
}

func (m *menu) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.items)) % len(m.items)
}

func (m *menu) render() string {
	lines := make([]string, len(m.items))
	for i, item := range m.items {
		if i == m.cursor {
			lines[i] = selectedStyle.Render("> " + item)
			continue
		}
		lines[i] = itemStyle.Render("  " + item)
	}
	return strings.Join(lines, "\n")
}

func place(width, height int, content string) string {
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
