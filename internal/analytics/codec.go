package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/stealthlearn/internal/model"
)

// document is the persisted layout of the session ledger.
type document struct {
	Sessions []model.SessionRecord `json:"sessions"`
}

// storedDocument is the write side of document.
type storedDocument struct {
	Sessions []storedRecord `json:"sessions"`
}

// storedRecord always encodes: a non-finite accuracy is written as null and a
// timestamp outside years 0..9999 as the zero time.
type storedRecord struct {
	UserID     string        `json:"userId"`
	Subject    model.Subject `json:"subject"`
	GameID     string        `json:"gameId"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Score      int           `json:"score"`
	Accuracy   *float64      `json:"accuracy"`
	Difficulty int           `json:"difficulty"`
	HintsUsed  int           `json:"hintsUsed"`
}

func toStored(r model.SessionRecord) storedRecord {
	out := storedRecord{
		UserID:     r.UserID,
		Subject:    r.Subject,
		GameID:     r.GameID,
		StartTime:  encodableTime(r.StartTime),
		EndTime:    encodableTime(r.EndTime),
		Score:      r.Score,
		Difficulty: r.Difficulty,
		HintsUsed:  r.HintsUsed,
	}
	if !math.IsNaN(r.Accuracy) && !math.IsInf(r.Accuracy, 0) {
		acc := r.Accuracy
		out.Accuracy = &acc
	}
	return out
}

func encodableTime(t time.Time) time.Time {
	if _, offset := t.Zone(); offset <= -24*60*60 || offset >= 24*60*60 {
		t = t.UTC()
	}
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}
	}
	return t
}

func encodeDocument(sessions []model.SessionRecord, indent bool) ([]byte, error) {
	doc := storedDocument{Sessions: make([]storedRecord, len(sessions))}
	for i, r := range sessions {
		doc.Sessions[i] = toStored(r)
	}
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode sessions: %w", err)
	}
	return data, nil
}

func decodeDocument(data []byte) ([]model.SessionRecord, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return doc.Sessions, nil
}
