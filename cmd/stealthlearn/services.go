package main

import (
	"context"
	"fmt"

	"github.com/verte-zerg/stealthlearn/internal/analytics"
	"github.com/verte-zerg/stealthlearn/internal/config"
	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/store"
)

// services holds the storage-backed singletons of one process.
type services struct {
	ledger       *analytics.Store
	userSlot     store.Slot
	lastGameSlot store.Slot
	db           *store.Store
}

// openServices wires the slots of the configured backend and loads the ledger.
// It logs through the logger carried by ctx.
func openServices(ctx context.Context, cfg model.Config, opts ...analytics.Option) (*services, error) {
	var (
		svc          = &services{}
		sessionsSlot store.Slot
		log          = logger.FromContext(ctx)
	)
	switch cfg.Backend {
	case backendSQLite:
		st, err := store.Open(config.DBPath(cfg.DataDir))
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		svc.db = st
		sessionsSlot = st.Slot(store.KeySessions)
		svc.userSlot = st.Slot(store.KeyUserID)
		svc.lastGameSlot = st.Slot(store.KeyLastGame)
	case backendFile:
		sessionsSlot = store.NewFileSlot(config.LedgerPath(cfg.DataDir))
		svc.userSlot = store.NewFileSlot(config.UserIDPath(cfg.DataDir))
		svc.lastGameSlot = store.NewFileSlot(config.LastGamePath(cfg.DataDir))
	case backendMemory:
		sessionsSlot = store.NewMemorySlot()
		svc.userSlot = store.NewMemorySlot()
		svc.lastGameSlot = store.NewMemorySlot()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	svc.ledger = analytics.Open(sessionsSlot, append([]analytics.Option{analytics.WithLogger(log)}, opts...)...)
	log.WithPrefix("storage").WithField("backend", cfg.Backend).Debug("opened %s with %d sessions", cfg.DataDir, svc.ledger.Len())
	return svc, nil
}

// Close releases the database, if any.
func (s *services) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
