// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/stealthlearn/internal/model"
)

// BuildReport aggregates sessions, which must already be filtered to one
// user and kept in recording order. ok is false when sessions is empty.
func BuildReport(sessions []model.SessionRecord) (report model.Report, ok bool) {
	if len(sessions) == 0 {
		return model.Report{}, false
	}
	var playTime time.Duration
	scores := make([]float64, len(sessions))
	accuracies := make([]float64, len(sessions))
	for i, s := range sessions {
		playTime += s.Duration()
		scores[i] = float64(s.Score)
		accuracies[i] = s.Accuracy
	}
	return model.Report{
		TotalSessions:    len(sessions),
		TotalPlayTime:    playTime,
		AverageScore:     Mean(scores),
		AverageAccuracy:  Mean(accuracies),
		PreferredSubject: PreferredSubject(sessions),
		PreferredGames:   RankGames(sessions),
		ImprovementRate:  ImprovementRate(sessions),
	}, true
}

// ImprovementRate compares the last session score to the first one.
// Fewer than two sessions yield 0.
func ImprovementRate(sessions []model.SessionRecord) float64 {
	if len(sessions) < 2 {
		return 0
	}
	first := sessions[0].Score
	last := sessions[len(sessions)-1].Score
	den := first
	if den < 1 {
		den = 1
	}
	return float64(last-first) / float64(den)
}

// FormatPlayTime renders a duration as "Xh Ym Zs". Negative totals render as zero.
func FormatPlayTime(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
