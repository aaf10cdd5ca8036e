package analytics

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/store"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func record(user string, subject model.Subject, game string, score int, accuracy float64) model.SessionRecord {
	return model.SessionRecord{
		UserID:     user,
		Subject:    subject,
		GameID:     game,
		StartTime:  base,
		EndTime:    base.Add(90 * time.Second),
		Score:      score,
		Accuracy:   accuracy,
		Difficulty: 2,
	}
}

func TestRecordSessionKeepsOrder(t *testing.T) {
	s := Open(store.NewMemorySlot())
	var want []model.SessionRecord
	for i := 0; i < 10; i++ {
		rec := record(fmt.Sprintf("u-%d", i%3), model.SubjectMath, "math-calc", i*10, 0.5)
		s.RecordSession(rec)
		want = append(want, rec)
	}
	assert.Equal(t, want, s.Sessions(model.SessionFilter{}))
	assert.Equal(t, 10, s.Len())
}

func TestSessionsFilters(t *testing.T) {
	s := Open(store.NewMemorySlot())
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 1, 1))
	s.RecordSession(record("u-b", model.SubjectMath, "math-calc", 2, 1))
	s.RecordSession(record("u-a", model.SubjectEnglish, "english-spell", 3, 1))
	s.RecordSession(record("u-a", model.SubjectMath, "math-sign", 4, 1))

	byUser := s.Sessions(model.SessionFilter{UserID: "u-a"})
	require.Len(t, byUser, 3)
	for _, r := range byUser {
		assert.Equal(t, "u-a", r.UserID)
	}

	both := s.Sessions(model.SessionFilter{UserID: "u-a", Subject: model.SubjectMath})
	require.Len(t, both, 2)
	assert.Equal(t, 1, both[0].Score)
	assert.Equal(t, 4, both[1].Score)

	assert.Empty(t, s.Sessions(model.SessionFilter{UserID: "u-missing"}))
}

func TestSessionsReturnsCopy(t *testing.T) {
	s := Open(store.NewMemorySlot())
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 10, 1))

	got := s.Sessions(model.SessionFilter{})
	got[0].Score = 999

	assert.Equal(t, 10, s.Sessions(model.SessionFilter{})[0].Score)
}

func TestReportAbsentAndAverages(t *testing.T) {
	s := Open(store.NewMemorySlot())
	_, ok := s.Report("u-a")
	assert.False(t, ok)

	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 10, 0.5))
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 20, 0.5))
	s.RecordSession(record("u-b", model.SubjectScience, "science-quiz", 100, 0))
	s.RecordSession(record("u-a", model.SubjectEnglish, "english-spell", 30, 1.0))

	report, ok := s.Report("u-a")
	require.True(t, ok)
	assert.Equal(t, 3, report.TotalSessions)
	assert.InDelta(t, 20.0, report.AverageScore, 1e-9)
	assert.InDelta(t, 0.667, report.AverageAccuracy, 0.001)
	assert.Equal(t, 270*time.Second, report.TotalPlayTime)
	assert.Equal(t, model.SubjectMath, report.PreferredSubject)

	_, ok = s.Report("u-c")
	assert.False(t, ok)
}

func TestRoundTripThroughSlot(t *testing.T) {
	slot := store.NewMemorySlot()
	first := Open(slot)
	first.RecordSession(record("u-a", model.SubjectMath, "math-calc", 10, 0.25))
	rec := record("u-a", model.SubjectScience, "science-body", 40, 0.75)
	rec.HintsUsed = 2
	rec.StartTime = base.Add(123456789 * time.Nanosecond)
	first.RecordSession(rec)

	second := Open(slot)
	assert.Equal(t, first.Sessions(model.SessionFilter{}), second.Sessions(model.SessionFilter{}))
	assert.Equal(t, 2, slot.Saves())
}

func TestRoundTripThroughFileSlot(t *testing.T) {
	slot := store.NewFileSlot(filepath.Join(t.TempDir(), "analytics.json"))
	first := Open(slot)
	first.RecordSession(record("u-a", model.SubjectEnglish, "english-rhymes", 50, 1))

	second := Open(slot)
	assert.Equal(t, first.Sessions(model.SessionFilter{}), second.Sessions(model.SessionFilter{}))
}

func TestStoredLayout(t *testing.T) {
	slot := store.NewMemorySlot()
	s := Open(slot)
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 10, 0.5))

	data, ok, err := slot.Load()
	require.NoError(t, err)
	require.True(t, ok)
	for _, key := range []string{`"sessions":[`, `"userId":"u-a"`, `"gameId":"math-calc"`, `"hintsUsed":0`, `"startTime":"2024-03-01T10:00:00Z"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestCorruptDataStartsEmpty(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(logger.WithOutput(&logs), logger.WithLevel(logger.DEBUG))
	for _, data := range []string{"{not json", `{"sessions":"nope"}`, "[]"} {
		s := Open(store.NewMemorySlotWith([]byte(data)), WithLogger(log))
		assert.Empty(t, s.Sessions(model.SessionFilter{}), data)
	}
	assert.Contains(t, logs.String(), "WARN")
}

func TestUnknownFieldsIgnored(t *testing.T) {
	data := `{"version":2,"sessions":[{"userId":"u-a","gameId":"math-calc","subject":"math","score":7,"extra":true}]}`
	s := Open(store.NewMemorySlotWith([]byte(data)))
	got := s.Sessions(model.SessionFilter{})
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Score)
}

func TestLoadErrorStartsEmpty(t *testing.T) {
	slot := store.NewMemorySlot()
	slot.LoadErr = errors.New("disk gone")
	s := Open(slot)
	assert.Equal(t, 0, s.Len())
}

func TestSaveFailureKeepsRecordInMemory(t *testing.T) {
	var logs bytes.Buffer
	slot := store.NewMemorySlot()
	slot.SaveErr = errors.New("read-only")
	s := Open(slot, WithLogger(logger.New(logger.WithOutput(&logs))))

	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 10, 1))

	assert.Equal(t, 1, s.Len())
	assert.Contains(t, logs.String(), "ERROR")
	assert.Contains(t, logs.String(), "read-only")
}

func TestPermissiveRecords(t *testing.T) {
	s := Open(store.NewMemorySlot())
	bad := record("", "", "", -5, 3.5)
	bad.Difficulty = 42
	s.RecordSession(bad)
	assert.Equal(t, []model.SessionRecord{bad}, s.Sessions(model.SessionFilter{}))
}

func TestUnencodableRecordDoesNotStopPersistence(t *testing.T) {
	slot := store.NewMemorySlot()
	s := Open(slot)

	bad := record("u-a", model.SubjectMath, "math-calc", 10, math.NaN())
	s.RecordSession(bad)
	inf := record("u-a", model.SubjectMath, "math-sign", 15, math.Inf(1))
	inf.EndTime = time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC)
	s.RecordSession(inf)
	good := record("u-a", model.SubjectMath, "math-compare", 20, 0.75)
	s.RecordSession(good)
	assert.Equal(t, 3, slot.Saves())

	reopened := Open(slot).Sessions(model.SessionFilter{})
	require.Len(t, reopened, 3)
	assert.Equal(t, "math-calc", reopened[0].GameID)
	assert.Zero(t, reopened[0].Accuracy)
	assert.Zero(t, reopened[1].Accuracy)
	assert.True(t, reopened[1].EndTime.IsZero())
	assert.Equal(t, base, reopened[1].StartTime)
	assert.Equal(t, good, reopened[2])
}

func TestExportWithNonFiniteAccuracy(t *testing.T) {
	var buf bytes.Buffer
	s := Open(store.NewMemorySlot())
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 1, math.Inf(-1)))
	require.NoError(t, s.Export(&buf))
	assert.Contains(t, buf.String(), `"accuracy": null`)
}

func TestOnRecordHook(t *testing.T) {
	var seen []string
	s := Open(store.NewMemorySlot(), OnRecord(func(r model.SessionRecord) {
		seen = append(seen, r.GameID)
	}))
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 1, 1))
	s.RecordSession(record("u-a", model.SubjectMath, "math-sign", 1, 1))
	assert.Equal(t, []string{"math-calc", "math-sign"}, seen)
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	empty := Open(store.NewMemorySlot())
	require.NoError(t, empty.Export(&buf))
	assert.Contains(t, buf.String(), `"sessions": []`)

	buf.Reset()
	s := Open(store.NewMemorySlot())
	s.RecordSession(record("u-a", model.SubjectMath, "math-calc", 1, 1))
	require.NoError(t, s.Export(&buf))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	back, err := decodeDocument(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s.Sessions(model.SessionFilter{}), back)
}

func TestConcurrentRecordAndRead(t *testing.T) {
	s := Open(store.NewMemorySlot())
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				s.RecordSession(record(fmt.Sprintf("u-%d", w), model.SubjectMath, "math-calc", i, 1))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_ = s.Sessions(model.SessionFilter{Subject: model.SubjectMath})
				_, _ = s.Report("u-0")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, s.Len())

	perUser := s.Sessions(model.SessionFilter{UserID: "u-2"})
	require.Len(t, perUser, 25)
	for i, r := range perUser {
		assert.Equal(t, i, r.Score)
	}
}
