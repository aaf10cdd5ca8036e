package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stealthlearn/internal/adaptivity"
	"github.com/verte-zerg/stealthlearn/internal/analytics"
	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/generator"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/store"
)

type recordingPlayer struct{ cues []string }

func (p *recordingPlayer) Play(name string) error {
	p.cues = append(p.cues, name)
	return nil
}

type fixture struct {
	c       *engine.Controller
	svc     *Services
	ledger  *analytics.Store
	player  *recordingPlayer
	clock   time.Time
	lastKey *store.MemorySlot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		player:  &recordingPlayer{},
		clock:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		lastKey: store.NewMemorySlot(),
	}
	f.c = engine.New("u-test", engine.WithSoundPlayer(f.player), engine.WithGameKeys(model.GameKeys()))
	f.ledger = analytics.Open(store.NewMemorySlot(), analytics.OnRecord(func(r model.SessionRecord) {
		f.c.Emit(engine.EventSessionRecorded, r)
	}))
	f.svc = &Services{
		Ledger:   f.ledger,
		Adaptor:  adaptivity.New(adaptivity.DefaultRules()),
		Window:   adaptivity.DefaultWindow,
		Gen:      generator.NewSeeded(42),
		LastGame: f.lastKey,
		Now: func() time.Time {
			f.clock = f.clock.Add(time.Second)
			return f.clock
		},
	}
	RegisterViews(f.c, f.svc)
	return f
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) currentQuiz(t *testing.T) *quiz {
	t.Helper()
	q, ok := f.c.Present().(*quiz)
	require.True(t, ok, "expected a quiz view, got %T", f.c.Present())
	return q
}

func (f *fixture) answerRound(t *testing.T, correct bool) {
	t.Helper()
	q := f.currentQuiz(t)
	choice := q.question.Answer
	if !correct {
		choice = (choice + 1) % len(q.question.Options)
	}
	cmd := f.c.Dispatch(runeKey(string(rune('1' + choice))))
	require.NotNil(t, cmd)
	f.c.Dispatch(feedbackDoneMsg{quiz: q.id, round: q.round})
}

func TestQuizRecordsOnceOnCompletion(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate("math-compare", nil)
	q := f.currentQuiz(t)
	require.Equal(t, 1, q.difficulty)
	require.Equal(t, 4, q.rounds)

	f.answerRound(t, true)
	f.answerRound(t, false)
	f.answerRound(t, true)
	f.answerRound(t, true)

	require.True(t, q.done)
	sessions := f.ledger.Sessions(model.SessionFilter{})
	require.Len(t, sessions, 1)
	rec := sessions[0]
	assert.Equal(t, "u-test", rec.UserID)
	assert.Equal(t, "math-compare", rec.GameID)
	assert.Equal(t, model.SubjectMath, rec.Subject)
	assert.Equal(t, 25, rec.Score)
	assert.InDelta(t, 0.75, rec.Accuracy, 1e-9)
	assert.Equal(t, 1, rec.Difficulty)
	assert.True(t, rec.EndTime.After(rec.StartTime))
	assert.Equal(t, "success", f.player.cues[len(f.player.cues)-1])

	// Stray input after completion records nothing more.
	f.c.Dispatch(feedbackDoneMsg{quiz: q.id, round: q.round})
	assert.Len(t, f.ledger.Sessions(model.SessionFilter{}), 1)
}

func TestQuizScoreFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate("science-quiz", nil)
	for i := 0; i < 4; i++ {
		f.answerRound(t, false)
	}
	sessions := f.ledger.Sessions(model.SessionFilter{})
	require.Len(t, sessions, 1)
	assert.Equal(t, 0, sessions[0].Score)
	assert.Equal(t, 0.0, sessions[0].Accuracy)
}

func TestQuizAbandonRecordsNothing(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate("math-calc", nil)
	q := f.currentQuiz(t)
	f.c.Dispatch(runeKey("1"))

	f.c.Dispatch(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, KeyGameSelect, f.c.CurrentKey())
	f.c.Dispatch(feedbackDoneMsg{quiz: q.id, round: q.round})
	assert.Empty(t, f.ledger.Sessions(model.SessionFilter{}))
	assert.True(t, q.torn)
}

func TestQuizIgnoresInputDuringFeedback(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate("math-compare", nil)
	q := f.currentQuiz(t)
	f.c.Dispatch(runeKey("1"))
	f.c.Dispatch(runeKey("2"))
	assert.Equal(t, 1, q.attempts)
}

func TestQuizUsesAdaptedDifficulty(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		f.ledger.RecordSession(model.SessionRecord{
			UserID: "u-test", Subject: model.SubjectMath, GameID: "math-calc",
			StartTime: start, EndTime: start.Add(time.Minute), Score: 95, Accuracy: 1, Difficulty: 2,
		})
	}
	f.ledger.RecordSession(model.SessionRecord{
		UserID: "u-other", Subject: model.SubjectMath, GameID: "math-calc",
		StartTime: start, EndTime: start.Add(time.Minute), Score: 0, Difficulty: 5,
	})

	f.c.Navigate("math-calc", nil)
	q := f.currentQuiz(t)
	assert.Equal(t, 3, q.difficulty)
	assert.Equal(t, 6, q.rounds)

	f.c.Navigate("math-sign", nil)
	assert.Equal(t, 1, f.currentQuiz(t).difficulty)
}

func TestHomeQuickPlayAvoidsLastGame(t *testing.T) {
	f := newFixture(t)
	f.c = engine.New("u-test", engine.WithGameKeys([]string{"math-calc", "math-sign"}))
	RegisterViews(f.c, f.svc)
	require.NoError(t, f.lastKey.Save([]byte("math-calc")))

	f.c.Navigate(KeyHome, nil)
	h, ok := f.c.Present().(*home)
	require.True(t, ok)
	h.quickPlay()

	assert.Equal(t, "math-sign", f.c.CurrentKey())
	assert.Equal(t, "math-sign", engine.LastGame(f.lastKey))
}

func TestHomeSubjectOpensGameSelect(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(KeyHome, nil)
	f.c.Dispatch(tea.KeyMsg{Type: tea.KeyDown})
	f.c.Dispatch(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, KeyGameSelect, f.c.CurrentKey())
	gs, ok := f.c.Present().(*gameSelect)
	require.True(t, ok)
	assert.Equal(t, model.SubjectEnglish, gs.subject)
	assert.Len(t, gs.games, len(model.GamesForSubject(model.SubjectEnglish)))
}

func TestGameSelectUnknownSubjectListsAll(t *testing.T) {
	f := newFixture(t)
	f.c.Navigate(KeyGameSelect, engine.Params{"subject": "history"})
	gs := f.c.Present().(*gameSelect)
	assert.Len(t, gs.games, len(model.Catalog()))
}

func TestAppFooterTracksRecordedSessions(t *testing.T) {
	f := newFixture(t)
	app := NewApp(f.c, f.ledger)
	assert.Contains(t, app.renderFooter(), "Sessions 0")

	f.c.Navigate("math-compare", nil)
	for i := 0; i < 4; i++ {
		f.answerRound(t, true)
	}
	out := app.renderFooter()
	for _, want := range []string{"Player u-test", "Sessions 1", "Last Which is Larger? 40 pts", "100%"} {
		assert.Contains(t, out, want)
	}
}

func TestAppStartsAtHome(t *testing.T) {
	f := newFixture(t)
	app := NewApp(f.c, f.ledger)
	app.Init()
	assert.Equal(t, KeyHome, f.c.CurrentKey())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
