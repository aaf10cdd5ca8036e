package tui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/generator"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/sound"
)

// Scoring per answer.
const (
	pointsCorrect = 10
	pointsWrong   = 5
)

var quizSeq atomic.Uint64

// feedbackDoneMsg ends the feedback flash of one quiz instance.
type feedbackDoneMsg struct {
	quiz  uint64
	round int
}

type feedback int

const (
	feedbackNone feedback = iota
	feedbackCorrect
	feedbackWrong
)

type quiz struct {
	id   uint64
	c    *engine.Controller
	svc  *Services
	game model.GameInfo
	src  generator.Source

	difficulty int
	rounds     int
	round      int
	score      int
	correct    int
	attempts   int
	startedAt  time.Time

	question generator.Question
	cursor   int
	feedback feedback
	done     bool
	torn     bool

	keys   listKeyMap
	help   help.Model
	width  int
	height int
}

func newQuiz(c *engine.Controller, svc *Services, game model.GameInfo, src generator.Source) *quiz {
	q := &quiz{
		id:   quizSeq.Add(1),
		c:    c,
		svc:  svc,
		game: game,
		src:  src,
		keys: newListKeyMap(),
		help: newHelp(),
	}
	history := svc.Ledger.Sessions(model.SessionFilter{UserID: c.UserID(), Subject: game.Subject})
	q.difficulty = model.ClampDifficulty(svc.Adaptor.NextDifficulty(history, game.ID, svc.Window))
	q.rounds = 3 + q.difficulty
	q.startedAt = svc.now()
	q.nextQuestion()
	c.Logger().Debug("start %s at level %d", game.ID, q.difficulty)
	return q
}

func (q *quiz) nextQuestion() {
	q.question = q.src.Next(q.svc.Gen, q.difficulty)
	q.cursor = 0
}

func (q *quiz) Init() tea.Cmd {
	q.c.PlaySound(sound.CueAmbient)
	return nil
}

// Teardown abandons the quiz. Nothing is recorded.
func (q *quiz) Teardown() {
	q.torn = true
}

func (q *quiz) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		q.width = msg.Width
		q.height = msg.Height
		q.help.Width = msg.Width
		return q, nil
	case feedbackDoneMsg:
		if msg.quiz != q.id || msg.round != q.round || q.torn {
			return q, nil
		}
		q.advance()
		return q, nil
	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *quiz) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, q.keys.Back) {
		q.c.Navigate(KeyGameSelect, engine.Params{"subject": string(q.game.Subject)})
		return q, nil
	}
	if q.done {
		switch {
		case key.Matches(msg, q.keys.Select):
			q.c.Navigate(q.game.ID, nil)
		case key.Matches(msg, q.keys.Quit):
			q.c.Navigate(KeyHome, nil)
		}
		return q, nil
	}
	if q.feedback != feedbackNone {
		return q, nil
	}
	if idx, ok := digitChoice(msg.String(), len(q.question.Options)); ok {
		return q, q.answer(idx)
	}
	switch {
	case key.Matches(msg, q.keys.Up):
		q.cursor = (q.cursor - 1 + len(q.question.Options)) % len(q.question.Options)
	case key.Matches(msg, q.keys.Down):
		q.cursor = (q.cursor + 1) % len(q.question.Options)
	case key.Matches(msg, q.keys.Select):
		return q, q.answer(q.cursor)
	}
	return q, nil
}

func (q *quiz) answer(choice int) tea.Cmd {
	q.attempts++
	q.cursor = choice
	if q.question.Correct(choice) {
		q.correct++
		q.score += pointsCorrect
		q.feedback = feedbackCorrect
		q.c.PlaySound(sound.CueCorrect)
	} else {
		q.score = max(0, q.score-pointsWrong)
		q.feedback = feedbackWrong
		q.c.PlaySound(sound.CueWrong)
	}
	id, round := q.id, q.round
	return tea.Tick(q.svc.feedbackDelay(), func(time.Time) tea.Msg {
		return feedbackDoneMsg{quiz: id, round: round}
	})
}

func (q *quiz) advance() {
	q.feedback = feedbackNone
	q.round++
	if q.round >= q.rounds {
		q.finish()
		return
	}
	q.nextQuestion()
}

func (q *quiz) finish() {
	if q.done {
		return
	}
	q.done = true
	rec := model.NewSessionRecord(q.c.UserID(), q.game, q.startedAt, q.svc.now(), q.score, q.correct, q.attempts, q.difficulty)
	if err := model.ValidateSessionRecord(rec); err != nil {
		q.c.Logger().WithField("game", q.game.ID).WithField("difficulty", rec.Difficulty).Warn("recording suspicious session: %v", err)
	}
	q.svc.Ledger.RecordSession(rec)
	q.c.PlaySound(sound.CueSuccess)
}

func (q *quiz) View() string {
	header := titleStyle.Render(fmt.Sprintf("%s %s", q.game.Emoji, q.game.Title)) + "  " +
		mutedStyle.Render(fmt.Sprintf("Level %d  Score %d", q.difficulty, q.score))
	if q.done {
		accuracy := 0.0
		if q.attempts > 0 {
			accuracy = float64(q.correct) / float64(q.attempts)
		}
		summary := fmt.Sprintf("Great job! You scored %d points with %.0f%% accuracy.", q.score, accuracy*100)
		content := header + "\n\n" + correctStyle.Render(summary) + "\n\n" +
			mutedStyle.Render("enter: play again  q: home  esc: back")
		return place(q.width, q.height, content)
	}

	contentWidth := int(float64(q.width) * 0.70)
	if contentWidth < 20 {
		contentWidth = 20
	}
	progress := mutedStyle.Render(fmt.Sprintf("Round %d/%d", q.round+1, q.rounds))
	prompt := lipgloss.NewStyle().Width(contentWidth).Render(wrapText(q.question.Prompt, contentWidth))

	lines := make([]string, len(q.question.Options))
	for i, opt := range q.question.Options {
		label := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case q.feedback != feedbackNone && i == q.question.Answer:
			lines[i] = correctStyle.Render("  " + label)
		case q.feedback == feedbackWrong && i == q.cursor:
			lines[i] = incorrectStyle.Render("  " + label)
		case i == q.cursor:
			lines[i] = selectedStyle.Render("> " + label)
		default:
			lines[i] = itemStyle.Render("  " + label)
		}
	}

	status := ""
	switch q.feedback {
	case feedbackCorrect:
		status = correctStyle.Render("Correct!")
	case feedbackWrong:
		status = incorrectStyle.Render("Not quite!")
	}

	content := strings.Join([]string{
		header,
		progress,
		"",
		prompt,
		"",
		strings.Join(lines, "\n"),
		"",
		status,
		q.help.View(q.keys),
	}, "\n")
	return place(q.width, q.height, content)
}
