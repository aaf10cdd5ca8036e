package sound

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBellCues(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)

	require.NoError(t, b.Play(CueCorrect))
	require.NoError(t, b.Play(CueAmbient))
	assert.Empty(t, buf.String())

	require.NoError(t, b.Play(CueWrong))
	require.NoError(t, b.Play(CueSuccess))
	assert.Equal(t, "\a\a", buf.String())
}

func TestUnknownCue(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, NewBell(&buf).Play("fanfare"), ErrUnknownCue)
	assert.ErrorIs(t, Silent{}.Play("fanfare"), ErrUnknownCue)
	assert.NoError(t, Silent{}.Play(CueSuccess))
	assert.Empty(t, buf.String())
}
