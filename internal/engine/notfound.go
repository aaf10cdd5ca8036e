package engine

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	notFoundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type notFoundView struct {
	c      *Controller
	key    string
	width  int
	height int
}

func newNotFoundView(c *Controller, key string) *notFoundView {
	return &notFoundView{c: c, key: key}
}

// Message is the fallback text.
func (v *notFoundView) Message() string {
	return "View not found: " + v.key
}

func (v *notFoundView) Init() tea.Cmd {
	return nil
}

func (v *notFoundView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			if v.c.HasView(HomeKey) {
				v.c.Navigate(HomeKey, nil)
				return v, nil
			}
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *notFoundView) View() string {
	content := notFoundStyle.Render(v.Message()) + "\n\n" + hintStyle.Render("press esc to go back")
	if v.width == 0 || v.height == 0 {
		return content
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}
