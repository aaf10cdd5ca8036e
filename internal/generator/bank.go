package generator

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed banks.toml
var banksTOML string

type bankEntry struct {
	Level  int      `toml:"level"`
	Prompt string   `toml:"prompt"`
	Answer string   `toml:"answer"`
	Wrong  []string `toml:"wrong"`
}

type bankSource struct {
	entries []bankEntry
}

func (b bankSource) Next(g *Generator, difficulty int) Question {
	pool := make([]bankEntry, 0, len(b.entries))
	for _, e := range b.entries {
		if e.Level <= difficulty {
			pool = append(pool, e)
		}
	}
	if len(pool) == 0 {
		pool = b.entries
	}
	e := pool[g.Intn(len(pool))]
	opts, idx := g.choices(e.Answer, e.Wrong)
	return Question{Prompt: e.Prompt, Options: opts, Answer: idx}
}

type scrambleSource struct {
	bankSource
}

func (s scrambleSource) Next(g *Generator, difficulty int) Question {
	q := s.bankSource.Next(g, difficulty)
	q.Prompt = "Unscramble: " + scramble(g.rnd, q.Prompt)
	return q
}

func scramble(rnd *rand.Rand, word string) string {
	runes := []rune(word)
	if len(runes) < 2 {
		return word
	}
	for attempt := 0; attempt < 10; attempt++ {
		rnd.Shuffle(len(runes), func(i, j int) {
			runes[i], runes[j] = runes[j], runes[i]
		})
		if string(runes) != word {
			break
		}
	}
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

func loadBanks(data string) (map[string][]bankEntry, error) {
	banks := map[string][]bankEntry{}
	md, err := toml.Decode(data, &banks)
	if err != nil {
		return nil, fmt.Errorf("failed to parse question banks: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown bank key %q", undecoded[0].String())
	}
	for id, entries := range banks {
		for i, e := range entries {
			if e.Prompt == "" || e.Answer == "" || len(e.Wrong) == 0 {
				return nil, fmt.Errorf("bank %s entry %d is incomplete", id, i)
			}
		}
	}
	return banks, nil
}

func init() {
	banks, err := loadBanks(banksTOML)
	if err != nil {
		panic(err)
	}
	for id, entries := range banks {
		if id == "english-scramble" {
			register(id, scrambleSource{bankSource{entries: entries}})
			continue
		}
		register(id, bankSource{entries: entries})
	}
}
