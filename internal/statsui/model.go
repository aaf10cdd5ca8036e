// Package statsui provides the Bubble Tea progress screen.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stealthlearn/internal/analytics"
	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabGames
)

const trendWindow = 3

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the progress screen of one user.
type Model struct {
	c      *engine.Controller
	ledger *analytics.Store

	subject model.Subject
	last    int

	sessions []model.SessionRecord
	report   model.Report
	hasData  bool

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs the progress screen.
func NewModel(c *engine.Controller, ledger *analytics.Store) *Model {
	m := &Model{
		c:      c,
		ledger: ledger,
		tabs:   []string{"Overview", "Sessions", "Games"},
	}
	m.initInputs()
	m.initViewports()
	m.table = buildSessionTable(nil, 0, 1)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.activeTab == tabSessions {
			m.table.Focus()
		} else {
			m.table.Blur()
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			m.c.Navigate(engine.HomeKey, nil)
			return m, nil
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "s":
			m.subject = nextSubject(m.subject)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabSessions {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSessions {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Subject (math/english/science/all): "),
		newFilterInput("Last: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[0].SetValue(string(m.subject))
	if m.last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.last))
	} else {
		m.filterInputs[1].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.filterError != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, bodyHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabSessions {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	last := "all"
	if m.last > 0 {
		last = strconv.Itoa(m.last)
	}
	summary := fmt.Sprintf("Player %s  subject=%s  last=%s", m.c.UserID(), strings.ToLower(m.subject.Title()), last)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down  Subject: s  Filter: /  Back: esc  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.filterError != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.filterError)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabSessions {
		if len(m.sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

// refreshReport reloads the user's sessions under the current filter. The
// summary cards always cover every session of the user.
func (m *Model) refreshReport() {
	sessions := m.ledger.Sessions(model.SessionFilter{UserID: m.c.UserID(), Subject: m.subject})
	if m.last > 0 && len(sessions) > m.last {
		sessions = sessions[len(sessions)-m.last:]
	}
	m.sessions = sessions
	m.report, m.hasData = m.ledger.Report(m.c.UserID())

	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.table = buildSessionTable(sessions, width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.hasData, m.sessions, width))
	m.viewports[tabGames].SetContent(renderGames(m.sessions, width))
}

func renderOverview(report model.Report, ok bool, sessions []model.SessionRecord, width int) string {
	if !ok {
		return "No sessions yet. Play a game to see your progress."
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", report.TotalSessions)),
		metricCard("Play time", stats.FormatPlayTime(report.TotalPlayTime)),
		metricCard("Avg score", fmt.Sprintf("%.1f", report.AverageScore)),
		metricCard("Avg accuracy", fmt.Sprintf("%.1f%%", report.AverageAccuracy*100)),
		metricCard("Favourite", report.PreferredSubject.Title()),
		metricCard("Improvement", fmt.Sprintf("%+.0f%%", report.ImprovementRate*100)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{summary, ""}
	trend := stats.Sparkline(stats.MovingAverage(stats.Scores(sessions), trendWindow))
	lines = append(lines, "Score trend: "+trend)
	if len(report.PreferredGames) > 0 {
		top := report.PreferredGames
		if len(top) > 3 {
			top = top[:3]
		}
		titles := make([]string, len(top))
		for i, id := range top {
			titles[i] = stats.GameTitle(id)
		}
		lines = append(lines, "Most played: "+strings.Join(titles, ", "))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderGames(sessions []model.SessionRecord, width int) string {
	var buf bytes.Buffer
	barWidth := max(5, min(stats.DefaultBarWidth, width-40))
	if err := stats.RenderGameAverages(&buf, stats.GameAverages(sessions, ""), barWidth); err != nil {
		return fmt.Sprintf("Failed to render games: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildSessionTable(sessions []model.SessionRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Game", Width: 20},
		{Title: "Subject", Width: 8},
		{Title: "Score", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Level", Width: 5},
	}
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			s.StartTime.Local().Format("2006-01-02 15:04"),
			stats.GameTitle(s.GameID),
			s.Subject.Title(),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.1f%%", s.Accuracy*100),
			fmt.Sprintf("%d", s.Difficulty),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(sessionTableStyles())
	return t
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	subject, ok := model.ParseSubject(m.filterInputs[0].Value())
	if !ok {
		return fmt.Errorf("unknown subject %q", strings.TrimSpace(m.filterInputs[0].Value()))
	}
	last := 0
	if raw := strings.TrimSpace(m.filterInputs[1].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("last must be a non-negative number")
		}
		last = n
	}
	m.subject = subject
	m.last = last
	return nil
}

func nextSubject(s model.Subject) model.Subject {
	subjects := model.Subjects()
	if s == "" {
		return subjects[0]
	}
	for i, candidate := range subjects {
		if candidate == s && i+1 < len(subjects) {
			return subjects[i+1]
		}
	}
	return ""
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
