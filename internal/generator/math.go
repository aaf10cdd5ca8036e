package generator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func init() {
	register("math-falling", SourceFunc(fallingQuestion))
	register("math-memory", SourceFunc(memoryQuestion))
	register("math-sort", SourceFunc(sortQuestion))
	register("math-compare", SourceFunc(compareQuestion))
	register("math-calc", SourceFunc(calcQuestion))
	register("math-pattern", SourceFunc(patternQuestion))
	register("math-sign", SourceFunc(signQuestion))
}

// numberCeiling is the largest operand used at difficulty.
func numberCeiling(difficulty int) int {
	if difficulty < 1 {
		difficulty = 1
	}
	return 10 * difficulty
}

func (g *Generator) nearby(answer, spread, count int) []string {
	out := make([]string, 0, count)
	seen := map[int]struct{}{answer: {}}
	for attempts := 0; len(out) < count && attempts < 50; attempts++ {
		delta := g.Between(1, spread)
		if g.Intn(2) == 0 {
			delta = -delta
		}
		v := answer + delta
		if v < 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, strconv.Itoa(v))
	}
	return out
}

func calcQuestion(g *Generator, difficulty int) Question {
	ceiling := numberCeiling(difficulty)
	ops := []string{"+", "-"}
	if difficulty >= 3 {
		ops = append(ops, "×")
	}
	op := ops[g.Intn(len(ops))]
	a := g.Between(1, ceiling)
	b := g.Between(1, ceiling)
	var answer int
	switch op {
	case "+":
		answer = a + b
	case "-":
		if b > a {
			a, b = b, a
		}
		answer = a - b
	default:
		a = g.Between(2, 2+difficulty*2)
		b = g.Between(2, 9)
		answer = a * b
	}
	opts, idx := g.choices(strconv.Itoa(answer), g.nearby(answer, 5, 3))
	return Question{Prompt: fmt.Sprintf("%d %s %d = ?", a, op, b), Options: opts, Answer: idx}
}

func fallingQuestion(g *Generator, difficulty int) Question {
	ceiling := numberCeiling(difficulty) / 2
	if ceiling < 5 {
		ceiling = 5
	}
	a := g.Between(1, ceiling)
	b := g.Between(1, ceiling)
	opts, idx := g.choices(strconv.Itoa(a+b), g.nearby(a+b, 3, 2+min(difficulty, 3)))
	return Question{Prompt: fmt.Sprintf("Catch %d + %d", a, b), Options: opts, Answer: idx}
}

func compareQuestion(g *Generator, difficulty int) Question {
	ceiling := numberCeiling(difficulty) * difficulty
	a := g.Between(1, ceiling)
	b := a
	for b == a {
		b = g.Between(max(1, a-ceiling/4), a+ceiling/4+1)
	}
	larger := max(a, b)
	opts := []string{strconv.Itoa(a), strconv.Itoa(b)}
	idx := 0
	if larger == b {
		idx = 1
	}
	return Question{Prompt: "Which is larger?", Options: opts, Answer: idx}
}

func signQuestion(g *Generator, difficulty int) Question {
	ceiling := numberCeiling(difficulty)
	ops := []string{"+", "-", "×"}
	op := ops[g.Intn(len(ops))]
	a := g.Between(2, ceiling)
	b := g.Between(2, min(ceiling, 9))
	var c int
	switch op {
	case "+":
		c = a + b
	case "-":
		if b > a {
			a, b = b, a
		}
		c = a - b
	default:
		c = a * b
	}
	// 2 + 2 and 2 × 2 are ambiguous.
	if a == 2 && b == 2 {
		return signQuestion(g, difficulty)
	}
	idx := 0
	for i, o := range ops {
		if o == op {
			idx = i
		}
	}
	return Question{Prompt: fmt.Sprintf("%d ? %d = %d", a, b, c), Options: ops, Answer: idx}
}

func patternQuestion(g *Generator, difficulty int) Question {
	start := g.Between(1, numberCeiling(difficulty))
	step := g.Between(1, 2+difficulty)
	terms := make([]string, 4)
	for i := range terms {
		terms[i] = strconv.Itoa(start + step*i)
	}
	next := start + step*4
	opts, idx := g.choices(strconv.Itoa(next), g.nearby(next, step+1, 3))
	return Question{Prompt: strings.Join(terms, ", ") + ", ?", Options: opts, Answer: idx}
}

func memoryQuestion(g *Generator, difficulty int) Question {
	ceiling := numberCeiling(difficulty)
	target := g.Between(5, ceiling+5)
	a := g.Between(1, target-1)
	answer := fmt.Sprintf("%d + %d", a, target-a)
	var wrong []string
	for len(wrong) < 3 {
		x := g.Between(1, target)
		y := g.Between(1, target)
		if x+y == target {
			continue
		}
		wrong = append(wrong, fmt.Sprintf("%d + %d", x, y))
	}
	opts, idx := g.choices(answer, wrong)
	return Question{Prompt: fmt.Sprintf("Which pair makes %d?", target), Options: opts, Answer: idx}
}

func sortQuestion(g *Generator, difficulty int) Question {
	count := 3 + difficulty/2
	ceiling := numberCeiling(difficulty)
	seen := map[int]struct{}{}
	nums := make([]int, 0, count)
	for len(nums) < count {
		n := g.Between(1, ceiling)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		nums = append(nums, n)
	}
	sorted := append([]int(nil), nums...)
	sort.Ints(sorted)
	answer := joinInts(sorted)

	var wrong []string
	for attempts := 0; len(wrong) < 3 && attempts < 50; attempts++ {
		shuffled := append([]int(nil), nums...)
		g.rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		s := joinInts(shuffled)
		if s != answer {
			wrong = append(wrong, s)
		}
	}
	opts, idx := g.choices(answer, wrong)
	return Question{Prompt: "Smallest to largest?", Options: opts, Answer: idx}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
