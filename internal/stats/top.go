package stats

import (
	"sort"

	"github.com/verte-zerg/stealthlearn/internal/model"
)

type countEntry struct {
	key   string
	count int
	sum   float64
}

// countBy groups sessions by key in first-seen order.
func countBy(sessions []model.SessionRecord, key func(model.SessionRecord) string) []countEntry {
	index := map[string]int{}
	var entries []countEntry
	for _, s := range sessions {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(entries)
			index[k] = i
			entries = append(entries, countEntry{key: k})
		}
		entries[i].count++
		entries[i].sum += float64(s.Score)
	}
	return entries
}

// PreferredSubject returns the subject with the most sessions. Ties go to the
// subject seen first.
func PreferredSubject(sessions []model.SessionRecord) model.Subject {
	entries := countBy(sessions, func(s model.SessionRecord) string { return string(s.Subject) })
	best := -1
	for i, e := range entries {
		if best < 0 || e.count > entries[best].count {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return model.Subject(entries[best].key)
}

// RankGames returns every game id ordered by session count, most played
// first. Ties keep first-seen order.
func RankGames(sessions []model.SessionRecord) []string {
	entries := countBy(sessions, func(s model.SessionRecord) string { return s.GameID })
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

// GameAverages returns the mean score per game in first-seen order. A
// non-empty subject restricts the input first.
func GameAverages(sessions []model.SessionRecord, subject model.Subject) []model.GameAverage {
	filter := model.SessionFilter{Subject: subject}
	filtered := make([]model.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if filter.Match(s) {
			filtered = append(filtered, s)
		}
	}
	entries := countBy(filtered, func(s model.SessionRecord) string { return s.GameID })
	out := make([]model.GameAverage, len(entries))
	for i, e := range entries {
		out[i] = model.GameAverage{
			GameID:       e.key,
			Sessions:     e.count,
			AverageScore: e.sum / float64(e.count),
		}
	}
	return out
}
