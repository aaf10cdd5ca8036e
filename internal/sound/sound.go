// Package sound plays short feedback cues.
package sound

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Cue names understood by every Player.
const (
	CueCorrect = "correct"
	CueWrong   = "wrong"
	CueSuccess = "success"
	CueAmbient = "ambient"
)

// ErrUnknownCue is returned for names outside the cue set.
var ErrUnknownCue = errors.New("unknown sound cue")

// Player plays a named cue.
type Player interface {
	Play(name string) error
}

// Known reports whether name is a cue.
func Known(name string) bool {
	switch name {
	case CueCorrect, CueWrong, CueSuccess, CueAmbient:
		return true
	}
	return false
}

// Bell rings the terminal bell for cues that need attention.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell returns a Bell writing to out.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

// Play implements Player.
func (b *Bell) Play(name string) error {
	if !Known(name) {
		return fmt.Errorf("%w: %q", ErrUnknownCue, name)
	}
	if name != CueWrong && name != CueSuccess {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.out, "\a"); err != nil {
		return fmt.Errorf("failed to ring bell: %w", err)
	}
	return nil
}

// Silent accepts every cue and plays nothing.
type Silent struct{}

// Play implements Player.
func (Silent) Play(name string) error {
	if !Known(name) {
		return fmt.Errorf("%w: %q", ErrUnknownCue, name)
	}
	return nil
}
