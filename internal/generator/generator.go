// Package generator builds questions for the mini-games.
package generator

import (
	"math/rand"
	"time"
)

// Question is one round of a game.
type Question struct {
	Prompt  string
	Options []string
	Answer  int
}

// Correct reports whether choice is the right option.
func (q Question) Correct(choice int) bool {
	return choice == q.Answer
}

// Source produces questions for one game.
type Source interface {
	Next(g *Generator, difficulty int) Question
}

// SourceFunc adapts a function to Source.
type SourceFunc func(g *Generator, difficulty int) Question

// Next implements Source.
func (f SourceFunc) Next(g *Generator, difficulty int) Question {
	return f(g, difficulty)
}

// Generator holds the random source shared by question sources.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Rand exposes the random source.
func (g *Generator) Rand() *rand.Rand {
	return g.rnd
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rnd.Intn(n)
}

// Between returns a value in [lo, hi].
func (g *Generator) Between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + g.rnd.Intn(hi-lo+1)
}

// choices shuffles answer among distractors and returns the options and the
// index of answer. Duplicates of answer are dropped.
func (g *Generator) choices(answer string, distractors []string) ([]string, int) {
	seen := map[string]struct{}{answer: {}}
	opts := []string{answer}
	for _, d := range distractors {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		opts = append(opts, d)
	}
	g.rnd.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	for i, o := range opts {
		if o == answer {
			return opts, i
		}
	}
	return opts, 0
}

var sources = map[string]Source{}

func register(gameID string, src Source) {
	sources[gameID] = src
}

// SourceFor returns the question source of gameID.
func SourceFor(gameID string) (Source, bool) {
	src, ok := sources[gameID]
	return src, ok
}
