// Package adaptivity picks the next difficulty tier from recent results.
package adaptivity

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/stealthlearn/internal/model"
)

// DefaultWindow is how many recent sessions of one game feed the next tier.
const DefaultWindow = 3

// Rules holds the thresholds and tier bounds.
type Rules struct {
	PromoteThreshold float64
	DemoteThreshold  float64
	MinLevel         int
	MaxLevel         int
}

// DefaultRules returns promote at 90, demote at 60, tiers 1..5.
func DefaultRules() Rules {
	return Rules{
		PromoteThreshold: 90,
		DemoteThreshold:  60,
		MinLevel:         model.MinDifficulty,
		MaxLevel:         model.MaxDifficulty,
	}
}

// Validate reports inconsistent rules.
func (r Rules) Validate() error {
	var errs []error
	if r.MinLevel < 1 {
		errs = append(errs, fmt.Errorf("min-level must be >= 1, got %d", r.MinLevel))
	}
	if r.MaxLevel < r.MinLevel {
		errs = append(errs, fmt.Errorf("max-level %d is below min-level %d", r.MaxLevel, r.MinLevel))
	}
	if r.DemoteThreshold >= r.PromoteThreshold {
		errs = append(errs, fmt.Errorf("demote-threshold %.1f must be below promote-threshold %.1f", r.DemoteThreshold, r.PromoteThreshold))
	}
	return errors.Join(errs...)
}

// Adaptor applies Rules. It is stateless and safe for concurrent use.
type Adaptor struct {
	rules Rules
}

// New returns an Adaptor for rules.
func New(rules Rules) Adaptor {
	return Adaptor{rules: rules}
}

// Rules returns the rules in use.
func (a Adaptor) Rules() Rules {
	return a.rules
}

// CalculateDifficulty moves current one tier up when the mean score of
// recent reaches the promote threshold, one tier down when it falls to the
// demote threshold, and leaves it otherwise. An empty window keeps current.
func (a Adaptor) CalculateDifficulty(recent []model.SessionRecord, current int) int {
	if len(recent) == 0 {
		return current
	}
	var sum float64
	for _, s := range recent {
		sum += float64(s.Score)
	}
	mean := sum / float64(len(recent))

	switch {
	case mean >= a.rules.PromoteThreshold:
		return min(current+1, a.rules.MaxLevel)
	case mean <= a.rules.DemoteThreshold:
		return max(current-1, a.rules.MinLevel)
	default:
		return current
	}
}

// NextDifficulty returns the tier for the next session of gameID given the
// user's subject history in recording order.
func (a Adaptor) NextDifficulty(history []model.SessionRecord, gameID string, window int) int {
	recent := RecentForGame(history, gameID, window)
	if len(recent) == 0 {
		return a.clamp(model.MinDifficulty)
	}
	current := recent[len(recent)-1].Difficulty
	if current == 0 {
		current = model.MinDifficulty
	}
	return a.clamp(a.CalculateDifficulty(recent, current))
}

func (a Adaptor) clamp(level int) int {
	return min(max(level, a.rules.MinLevel), a.rules.MaxLevel)
}

// RecentForGame returns up to window sessions of gameID, oldest first.
// A non-positive window means DefaultWindow.
func RecentForGame(history []model.SessionRecord, gameID string, window int) []model.SessionRecord {
	if window <= 0 {
		window = DefaultWindow
	}
	var matched []model.SessionRecord
	for _, s := range history {
		if s.GameID == gameID {
			matched = append(matched, s)
		}
	}
	if len(matched) > window {
		matched = matched[len(matched)-window:]
	}
	return matched
}
