package model

import (
	"errors"
	"fmt"
	"time"
)

// Difficulty tier bounds shared by every game.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// NewSessionRecord builds a record for a finished game. Accuracy is derived
// from the answer counts and the difficulty is clamped into the tier range.
func NewSessionRecord(userID string, game GameInfo, start, end time.Time, score, correct, attempts, difficulty int) SessionRecord {
	accuracy := 0.0
	if attempts > 0 {
		accuracy = float64(correct) / float64(attempts)
	}
	return SessionRecord{
		UserID:     userID,
		Subject:    game.Subject,
		GameID:     game.ID,
		StartTime:  start,
		EndTime:    end,
		Score:      score,
		Accuracy:   accuracy,
		Difficulty: ClampDifficulty(difficulty),
		HintsUsed:  0,
	}
}

// ClampDifficulty forces a tier into [MinDifficulty, MaxDifficulty].
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// ValidateSessionRecord reports every out-of-range field of a record.
func ValidateSessionRecord(r SessionRecord) error {
	var errs []error
	if r.UserID == "" {
		errs = append(errs, errors.New("userId is empty"))
	}
	if r.GameID == "" {
		errs = append(errs, errors.New("gameId is empty"))
	}
	if r.EndTime.Before(r.StartTime) {
		errs = append(errs, fmt.Errorf("endTime %s before startTime %s", r.EndTime.Format(time.RFC3339), r.StartTime.Format(time.RFC3339)))
	}
	if r.Score < 0 {
		errs = append(errs, fmt.Errorf("score %d is negative", r.Score))
	}
	if r.Accuracy < 0 || r.Accuracy > 1 {
		errs = append(errs, fmt.Errorf("accuracy %.3f outside [0,1]", r.Accuracy))
	}
	if r.Difficulty < MinDifficulty || r.Difficulty > MaxDifficulty {
		errs = append(errs, fmt.Errorf("difficulty %d outside [%d,%d]", r.Difficulty, MinDifficulty, MaxDifficulty))
	}
	if r.HintsUsed < 0 {
		errs = append(errs, fmt.Errorf("hintsUsed %d is negative", r.HintsUsed))
	}
	return errors.Join(errs...)
}
