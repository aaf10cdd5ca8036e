package engine

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/store"
)

// NewUserID returns "u-" followed by eight random hex characters.
func NewUserID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "u-" + id[:8]
}

// LoadOrCreateUserID returns the id stored in slot, creating and saving a
// new one when absent. A failed save still returns a usable id.
func LoadOrCreateUserID(slot store.Slot, log *logger.Logger) string {
	if log == nil {
		log = logger.Discard()
	}
	data, ok, err := slot.Load()
	if err != nil {
		log.Warn("failed to load user id: %v", err)
	}
	if id := strings.TrimSpace(string(data)); ok && id != "" {
		return id
	}
	id := NewUserID()
	if err := slot.Save([]byte(id)); err != nil {
		log.Warn("failed to save user id: %v", err)
	}
	return id
}

// PickQuickPlay chooses a random key, avoiding last when another key exists.
func PickQuickPlay(keys []string, last string, rnd *rand.Rand) string {
	candidates := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != last {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		candidates = keys
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rnd.Intn(len(candidates))]
}

// LastGame reads the last quick-played key.
func LastGame(slot store.Slot) string {
	data, ok, err := slot.Load()
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(string(data))
}
