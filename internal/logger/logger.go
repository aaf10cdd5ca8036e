// Package logger provides a small leveled logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

// Log levels, lowest first.
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown input yields INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// ValidLevel reports whether s names a level.
func ValidLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// Logger writes leveled lines with an optional prefix and fields.
type Logger struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	prefix string
	fields map[string]any
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the output destination.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// New creates a Logger writing to stderr at INFO unless overridden.
func New(opts ...Option) *Logger {
	l := &Logger{
		mu:     &sync.Mutex{},
		out:    os.Stderr,
		level:  INFO,
		fields: map[string]any{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(WithOutput(io.Discard), WithLevel(ERROR+1))
}

func (l *Logger) clone() *Logger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{
		mu:     l.mu,
		out:    l.out,
		level:  l.level,
		prefix: l.prefix,
		fields: fields,
	}
}

// WithPrefix returns a logger tagging lines with [prefix].
func (l *Logger) WithPrefix(prefix string) *Logger {
	c := l.clone()
	c.prefix = prefix
	return c
}

// WithField returns a logger carrying an extra key=value pair.
func (l *Logger) WithField(key string, value any) *Logger {
	c := l.clone()
	c.fields[key] = value
	return c
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(fmt.Sprintf("%-5s", level.String()))
	sb.WriteByte(' ')
	if l.prefix != "" {
		sb.WriteString("[")
		sb.WriteString(l.prefix)
		sb.WriteString("] ")
	}
	sb.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, l.fields[k]))
		}
	}
	sb.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.out, sb.String()); err != nil {
		// Best-effort logging.
		_ = err
	}
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) { l.log(DEBUG, msg, args...) }

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) { l.log(INFO, msg, args...) }

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) { l.log(WARN, msg, args...) }

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) { l.log(ERROR, msg, args...) }

type ctxKey struct{}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Discard()
}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
