package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithLevel(WARN))

	log.Info("hidden %d", 1)
	log.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} WARN  shown 2\n$`, out)
}

func TestLoggerPrefixAndFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf)).
		WithPrefix("analytics").
		WithField("user", "u-1").
		WithField("game", "math-calc")

	log.Error("flush failed")

	assert.Contains(t, buf.String(), "ERROR [analytics] flush failed game=math-calc user=u-1")
}

func TestWithFieldDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(WithOutput(&buf))
	_ = parent.WithField("k", "v")

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "k=v")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
	assert.True(t, ValidLevel("error"))
	assert.False(t, ValidLevel("loud"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf))
	ctx := NewContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))

	FromContext(context.Background()).Error("dropped")
	assert.Empty(t, buf.String())
}
