// Package engine routes between registered views and owns the shared
// per-process services every view reaches through the controller.
package engine

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/sound"
)

// HomeKey is the view the fallback screen returns to.
const HomeKey = "home"

// Params are the navigation arguments handed to a view factory.
type Params map[string]string

// Get returns the value for key or "".
func (p Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// ViewFactory builds a view for one key.
type ViewFactory interface {
	Build(c *Controller, params Params) tea.Model
}

// ViewFunc adapts a function to ViewFactory.
type ViewFunc func(c *Controller, params Params) tea.Model

// Build implements ViewFactory.
func (f ViewFunc) Build(c *Controller, params Params) tea.Model {
	return f(c, params)
}

// Teardowner is implemented by views that release resources when replaced.
type Teardowner interface {
	Teardown()
}

// Controller presents exactly one view at a time.
type Controller struct {
	userID   string
	log      *logger.Logger
	player   sound.Player
	gameKeys []string

	views      map[string]ViewFactory
	current    tea.Model
	currentKey string
	notFound   bool
	generation uint64
	pending    []tea.Cmd
	width      int
	height     int

	busMu    sync.RWMutex
	handlers map[string][]Handler
}

// Option configures a Controller.
type Option func(*Controller)

// WithSoundPlayer sets the cue player.
func WithSoundPlayer(p sound.Player) Option {
	return func(c *Controller) {
		if p != nil {
			c.player = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithGameKeys sets the list of playable game keys.
func WithGameKeys(keys []string) Option {
	return func(c *Controller) {
		c.gameKeys = append([]string(nil), keys...)
	}
}

// New returns a controller for userID with no views registered.
func New(userID string, opts ...Option) *Controller {
	c := &Controller{
		userID:   userID,
		log:      logger.Discard(),
		player:   sound.Silent{},
		views:    map[string]ViewFactory{},
		handlers: map[string][]Handler{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithPrefix("engine")
	return c
}

// UserID returns the device user id.
func (c *Controller) UserID() string {
	return c.userID
}

// GameKeys returns the playable game keys.
func (c *Controller) GameKeys() []string {
	return append([]string(nil), c.gameKeys...)
}

// Logger returns the controller logger.
func (c *Controller) Logger() *logger.Logger {
	return c.log
}

// RegisterView binds key to factory, replacing any earlier binding.
func (c *Controller) RegisterView(key string, factory ViewFactory) {
	c.views[key] = factory
}

// HasView reports whether key is registered.
func (c *Controller) HasView(key string) bool {
	_, ok := c.views[key]
	return ok
}

// Navigate replaces the presented view. Unknown keys present a fallback
// screen naming the key.
func (c *Controller) Navigate(key string, params Params) {
	if t, ok := c.current.(Teardowner); ok {
		t.Teardown()
	}

	var view tea.Model
	if factory, ok := c.views[key]; ok {
		view = factory.Build(c, params)
	}
	c.notFound = view == nil
	if c.notFound {
		c.log.Warn("view not found: %s", key)
		view = newNotFoundView(c, key)
	} else {
		c.log.Debug("navigate to %s", key)
	}
	if c.width > 0 || c.height > 0 {
		view, _ = view.Update(tea.WindowSizeMsg{Width: c.width, Height: c.height})
	}

	c.current = view
	c.currentKey = key
	c.generation++
	if cmd := view.Init(); cmd != nil {
		c.pending = append(c.pending, cmd)
	}
	c.Emit(EventNavigated, key)
}

// Start navigates to key and returns the start-up command of the new view.
func (c *Controller) Start(key string, params Params) tea.Cmd {
	c.Navigate(key, params)
	return c.takePending()
}

// Dispatch forwards msg to the presented view and returns its command
// together with the start-up command of any view presented meanwhile.
func (c *Controller) Dispatch(msg tea.Msg) tea.Cmd {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		c.width = size.Width
		c.height = size.Height
	}
	if c.current == nil {
		return c.takePending()
	}
	gen := c.generation
	next, cmd := c.current.Update(msg)
	if c.generation == gen {
		c.current = next
	}
	if pending := c.takePending(); pending != nil {
		return tea.Batch(cmd, pending)
	}
	return cmd
}

func (c *Controller) takePending() tea.Cmd {
	if len(c.pending) == 0 {
		return nil
	}
	cmds := c.pending
	c.pending = nil
	return tea.Batch(cmds...)
}

// Present returns the presented view, or nil before the first Navigate.
func (c *Controller) Present() tea.Model {
	return c.current
}

// CurrentKey returns the key passed to the last Navigate.
func (c *Controller) CurrentKey() string {
	return c.currentKey
}

// NotFound reports whether the presented view is the fallback screen.
func (c *Controller) NotFound() bool {
	return c.notFound
}

// Generation changes on every Navigate. Views use it to tag delayed messages.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// PlaySound plays a cue. Failures are logged and dropped.
func (c *Controller) PlaySound(name string) {
	if err := c.player.Play(name); err != nil {
		c.log.Debug("sound %s: %v", name, err)
	}
}
