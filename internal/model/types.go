// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Subject groups games by school subject.
type Subject string

// Known subjects. Records carrying any other value are kept as-is.
const (
	SubjectMath    Subject = "math"
	SubjectEnglish Subject = "english"
	SubjectScience Subject = "science"
)

// Subjects returns the known subjects in display order.
func Subjects() []Subject {
	return []Subject{SubjectMath, SubjectEnglish, SubjectScience}
}

// ParseSubject maps user input to a subject. Empty input and "all" mean no filter.
func ParseSubject(s string) (Subject, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", true
	case "math":
		return SubjectMath, true
	case "english":
		return SubjectEnglish, true
	case "science":
		return SubjectScience, true
	default:
		return "", false
	}
}

// Title returns the capitalized subject name.
func (s Subject) Title() string {
	if s == "" {
		return "All"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// SessionRecord captures one completed play-through of one game.
type SessionRecord struct {
	UserID     string    `json:"userId"`
	Subject    Subject   `json:"subject"`
	GameID     string    `json:"gameId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Score      int       `json:"score"`
	Accuracy   float64   `json:"accuracy"`
	Difficulty int       `json:"difficulty"`
	HintsUsed  int       `json:"hintsUsed"`
}

// Duration returns the wall-clock length of the session.
func (r SessionRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// SessionFilter selects records by equality. Empty fields match everything.
type SessionFilter struct {
	UserID  string
	Subject Subject
}

// Match reports whether the record satisfies the filter.
func (f SessionFilter) Match(r SessionRecord) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.Subject != "" && r.Subject != f.Subject {
		return false
	}
	return true
}

// Report aggregates a user's sessions.
type Report struct {
	TotalSessions    int
	TotalPlayTime    time.Duration
	AverageScore     float64
	AverageAccuracy  float64
	PreferredSubject Subject
	PreferredGames   []string
	ImprovementRate  float64
}

// GameAverage is the mean score of one game.
type GameAverage struct {
	GameID       string
	Sessions     int
	AverageScore float64
}

// Config defines application settings after merging file, env and flags.
type Config struct {
	Backend          string
	DataDir          string
	Sound            bool
	LogLevel         string
	PromoteThreshold float64
	DemoteThreshold  float64
	MinLevel         int
	MaxLevel         int
	Window           int
}
