// Package analytics keeps the append-only ledger of completed game sessions.
package analytics

import (
	"fmt"
	"io"
	"sync"

	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/stats"
	"github.com/verte-zerg/stealthlearn/internal/store"
)

// Store is the session ledger. One instance is shared by the whole app.
type Store struct {
	mu       sync.RWMutex
	slot     store.Slot
	sessions []model.SessionRecord
	log      *logger.Logger
	onRecord []func(model.SessionRecord)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// OnRecord registers fn to run after every recorded session.
func OnRecord(fn func(model.SessionRecord)) Option {
	return func(s *Store) {
		if fn != nil {
			s.onRecord = append(s.onRecord, fn)
		}
	}
}

// Open loads the ledger from slot. Missing data yields an empty ledger, and
// so does unreadable or corrupt data after a warning.
func Open(slot store.Slot, opts ...Option) *Store {
	s := &Store{slot: slot, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithPrefix("analytics")

	data, ok, err := slot.Load()
	switch {
	case err != nil:
		s.log.Warn("failed to load sessions, starting empty: %v", err)
	case !ok || len(data) == 0:
		s.log.Debug("no stored sessions")
	default:
		sessions, err := decodeDocument(data)
		if err != nil {
			s.log.Warn("discarding stored sessions: %v", err)
			break
		}
		s.sessions = sessions
		s.log.Debug("loaded %d sessions", len(sessions))
	}
	return s
}

// RecordSession appends rec and writes the whole ledger back. Records are
// stored as given. A failed write is logged and the record stays in memory.
func (s *Store) RecordSession(rec model.SessionRecord) {
	s.mu.Lock()
	s.sessions = append(s.sessions, rec)
	if err := s.flushLocked(); err != nil {
		s.log.Error("failed to persist session for %s: %v", rec.GameID, err)
	}
	hooks := s.onRecord
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(rec)
	}
}

func (s *Store) flushLocked() error {
	data, err := encodeDocument(s.sessions, false)
	if err != nil {
		return err
	}
	if err := s.slot.Save(data); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	return nil
}

// Sessions returns the records matching filter in recording order. The
// result is a copy.
func (s *Store) Sessions(filter model.SessionFilter) []model.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		if filter.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Report summarizes the sessions of userID. ok is false when there are none.
func (s *Store) Report(userID string) (model.Report, bool) {
	return stats.BuildReport(s.Sessions(model.SessionFilter{UserID: userID}))
}

// Export writes the ledger document, indented, to w.
func (s *Store) Export(w io.Writer) error {
	s.mu.RLock()
	data, err := encodeDocument(s.sessions, true)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
