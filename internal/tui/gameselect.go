package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/model"
)

type gameSelect struct {
	c       *engine.Controller
	subject model.Subject
	games   []model.GameInfo
	menu    menu
	keys    listKeyMap
	help    help.Model
	width   int
	height  int
}

// newGameSelect lists the games of subject. Unknown subjects list every game.
func newGameSelect(c *engine.Controller, subject string) *gameSelect {
	s, ok := model.ParseSubject(subject)
	games := model.Catalog()
	if ok && s != "" {
		games = model.GamesForSubject(s)
	} else {
		s = ""
	}
	items := make([]string, len(games))
	for i, g := range games {
		items[i] = fmt.Sprintf("%s %s  %s", g.Emoji, g.Title, mutedStyle.Render(g.Description))
	}
	return &gameSelect{
		c:       c,
		subject: s,
		games:   games,
		menu:    menu{items: items},
		keys:    newListKeyMap(),
		help:    newHelp(),
	}
}

func (g *gameSelect) Init() tea.Cmd {
	return nil
}

func (g *gameSelect) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
		g.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, g.keys.Quit):
			return g, tea.Quit
		case key.Matches(msg, g.keys.Back):
			g.c.Navigate(KeyHome, nil)
		case key.Matches(msg, g.keys.Up):
			g.menu.move(-1)
		case key.Matches(msg, g.keys.Down):
			g.menu.move(1)
		case key.Matches(msg, g.keys.Select):
			if len(g.games) > 0 {
				g.c.Navigate(g.games[g.menu.cursor].ID, nil)
			}
		}
	}
	return g, nil
}

func (g *gameSelect) View() string {
	title := g.subject.Title() + " games"
	content := titleStyle.Render(title) + "\n\n" + g.menu.render() + "\n\n" + g.help.View(g.keys)
	return place(g.width, g.height, content)
}
