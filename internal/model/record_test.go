package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionRecordDerivesAccuracy(t *testing.T) {
	game, ok := LookupGame("math-calc")
	require.True(t, ok)
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	rec := NewSessionRecord("u-1", game, start, end, 40, 4, 6, 7)

	assert.Equal(t, SubjectMath, rec.Subject)
	assert.Equal(t, "math-calc", rec.GameID)
	assert.InDelta(t, 4.0/6.0, rec.Accuracy, 1e-9)
	assert.Equal(t, MaxDifficulty, rec.Difficulty)
	assert.Equal(t, 0, rec.HintsUsed)
	assert.Equal(t, 90*time.Second, rec.Duration())
	assert.NoError(t, ValidateSessionRecord(rec))
}

func TestNewSessionRecordZeroAttempts(t *testing.T) {
	game, _ := LookupGame("science-quiz")
	now := time.Now()
	rec := NewSessionRecord("u-1", game, now, now, 0, 0, 0, 0)
	assert.Equal(t, 0.0, rec.Accuracy)
	assert.Equal(t, MinDifficulty, rec.Difficulty)
}

func TestValidateSessionRecordReportsEveryField(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	err := ValidateSessionRecord(SessionRecord{
		StartTime:  start,
		EndTime:    start.Add(-time.Second),
		Score:      -1,
		Accuracy:   1.5,
		Difficulty: 9,
	})
	require.Error(t, err)
	for _, want := range []string{"userId", "gameId", "endTime", "score", "accuracy", "difficulty"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSessionFilterMatch(t *testing.T) {
	rec := SessionRecord{UserID: "a", Subject: SubjectEnglish}
	assert.True(t, SessionFilter{}.Match(rec))
	assert.True(t, SessionFilter{UserID: "a"}.Match(rec))
	assert.True(t, SessionFilter{UserID: "a", Subject: SubjectEnglish}.Match(rec))
	assert.False(t, SessionFilter{UserID: "b"}.Match(rec))
	assert.False(t, SessionFilter{UserID: "a", Subject: SubjectMath}.Match(rec))
}

func TestCatalogCoversSubjects(t *testing.T) {
	keys := GameKeys()
	require.Len(t, keys, 17)
	assert.Len(t, GamesForSubject(SubjectMath), 7)
	assert.Len(t, GamesForSubject(SubjectEnglish), 5)
	assert.Len(t, GamesForSubject(SubjectScience), 5)
	_, ok := LookupGame("chess-blitz")
	assert.False(t, ok)
}

func TestParseSubject(t *testing.T) {
	s, ok := ParseSubject(" Science ")
	assert.True(t, ok)
	assert.Equal(t, SubjectScience, s)
	s, ok = ParseSubject("all")
	assert.True(t, ok)
	assert.Equal(t, Subject(""), s)
	_, ok = ParseSubject("history")
	assert.False(t, ok)
	assert.Equal(t, "English", SubjectEnglish.Title())
}
