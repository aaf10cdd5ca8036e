package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stealthlearn/internal/model"
)

func session(subject model.Subject, game string, score int, accuracy float64, minutes int) model.SessionRecord {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return model.SessionRecord{
		UserID:     "u-1",
		Subject:    subject,
		GameID:     game,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(minutes) * time.Minute),
		Score:      score,
		Accuracy:   accuracy,
		Difficulty: 1,
	}
}

func TestBuildReportEmpty(t *testing.T) {
	_, ok := BuildReport(nil)
	assert.False(t, ok)
}

func TestBuildReportAverages(t *testing.T) {
	sessions := []model.SessionRecord{
		session(model.SubjectMath, "math-calc", 10, 0.5, 1),
		session(model.SubjectMath, "math-calc", 20, 0.5, 2),
		session(model.SubjectEnglish, "english-spell", 30, 1.0, 3),
	}
	report, ok := BuildReport(sessions)
	require.True(t, ok)
	assert.Equal(t, 3, report.TotalSessions)
	assert.Equal(t, 6*time.Minute, report.TotalPlayTime)
	assert.InDelta(t, 20.0, report.AverageScore, 1e-9)
	assert.InDelta(t, 0.667, report.AverageAccuracy, 0.001)
	assert.Equal(t, model.SubjectMath, report.PreferredSubject)
	assert.Equal(t, []string{"math-calc", "english-spell"}, report.PreferredGames)
	assert.InDelta(t, 2.0, report.ImprovementRate, 1e-9)
}

func TestImprovementRate(t *testing.T) {
	two := []model.SessionRecord{
		session(model.SubjectMath, "math-calc", 50, 1, 1),
		session(model.SubjectMath, "math-calc", 75, 1, 1),
	}
	assert.InDelta(t, 0.5, ImprovementRate(two), 1e-9)
	assert.Equal(t, 0.0, ImprovementRate(two[:1]))
	assert.Equal(t, 0.0, ImprovementRate(nil))

	fromZero := []model.SessionRecord{
		session(model.SubjectMath, "math-calc", 0, 1, 1),
		session(model.SubjectMath, "math-calc", 30, 1, 1),
	}
	assert.InDelta(t, 30.0, ImprovementRate(fromZero), 1e-9)
}

func TestPreferredSubjectTieKeepsFirstSeen(t *testing.T) {
	sessions := []model.SessionRecord{
		session(model.SubjectScience, "science-quiz", 1, 1, 1),
		session(model.SubjectMath, "math-calc", 1, 1, 1),
		session(model.SubjectMath, "math-sign", 1, 1, 1),
		session(model.SubjectScience, "science-body", 1, 1, 1),
	}
	assert.Equal(t, model.SubjectScience, PreferredSubject(sessions))
}

func TestRankGamesStableOnTies(t *testing.T) {
	sessions := []model.SessionRecord{
		session(model.SubjectMath, "math-sign", 1, 1, 1),
		session(model.SubjectMath, "math-calc", 1, 1, 1),
		session(model.SubjectMath, "math-calc", 1, 1, 1),
		session(model.SubjectMath, "math-sort", 1, 1, 1),
	}
	assert.Equal(t, []string{"math-calc", "math-sign", "math-sort"}, RankGames(sessions))
}

func TestGameAveragesBySubject(t *testing.T) {
	sessions := []model.SessionRecord{
		session(model.SubjectMath, "math-calc", 40, 1, 1),
		session(model.SubjectEnglish, "english-spell", 90, 1, 1),
		session(model.SubjectMath, "math-calc", 60, 1, 1),
	}
	all := GameAverages(sessions, "")
	require.Len(t, all, 2)
	assert.Equal(t, model.GameAverage{GameID: "math-calc", Sessions: 2, AverageScore: 50}, all[0])

	math := GameAverages(sessions, model.SubjectMath)
	require.Len(t, math, 1)
	assert.Equal(t, "math-calc", math[0].GameID)
}

func TestFormatPlayTime(t *testing.T) {
	assert.Equal(t, "0h 0m 0s", FormatPlayTime(0))
	assert.Equal(t, "1h 2m 3s", FormatPlayTime(time.Hour+2*time.Minute+3*time.Second+900*time.Millisecond))
	assert.Equal(t, "0h 0m 0s", FormatPlayTime(-time.Minute))
}
