package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/model"
)

const (
	homeQuickPlay = "Quick play"
	homeAnalytics = "My progress"
)

type home struct {
	c      *engine.Controller
	svc    *Services
	menu   menu
	keys   listKeyMap
	help   help.Model
	width  int
	height int
}

func newHome(c *engine.Controller, svc *Services) *home {
	items := make([]string, 0, len(model.Subjects())+2)
	for _, s := range model.Subjects() {
		items = append(items, s.Title())
	}
	items = append(items, homeQuickPlay, homeAnalytics)
	return &home{
		c:    c,
		svc:  svc,
		menu: menu{items: items},
		keys: newListKeyMap(),
		help: newHelp(),
	}
}

func (h *home) Init() tea.Cmd {
	return nil
}

func (h *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.keys.Quit), key.Matches(msg, h.keys.Back):
			return h, tea.Quit
		case key.Matches(msg, h.keys.Up):
			h.menu.move(-1)
		case key.Matches(msg, h.keys.Down):
			h.menu.move(1)
		case key.Matches(msg, h.keys.Select):
			h.choose(h.menu.cursor)
		}
	}
	return h, nil
}

func (h *home) choose(idx int) {
	subjects := model.Subjects()
	switch {
	case idx < len(subjects):
		h.c.Navigate(KeyGameSelect, engine.Params{"subject": string(subjects[idx])})
	case h.menu.items[idx] == homeQuickPlay:
		h.quickPlay()
	case h.menu.items[idx] == homeAnalytics:
		h.c.Navigate(KeyAnalytics, nil)
	}
}

func (h *home) quickPlay() {
	last := ""
	if h.svc.LastGame != nil {
		last = engine.LastGame(h.svc.LastGame)
	}
	next := engine.PickQuickPlay(h.c.GameKeys(), last, h.svc.Gen.Rand())
	if next == "" {
		return
	}
	if h.svc.LastGame != nil {
		if err := h.svc.LastGame.Save([]byte(next)); err != nil {
			h.c.Logger().Warn("failed to save last game: %v", err)
		}
	}
	h.c.Navigate(next, nil)
}

func (h *home) View() string {
	content := titleStyle.Render("Stealth Learn") + "\n" +
		mutedStyle.Render("Pick a subject or jump into a random game") + "\n\n" +
		h.menu.render() + "\n\n" +
		h.help.View(h.keys)
	return place(h.width, h.height, content)
}
