package stats

import "testing"

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparklineFlatAndRange(t *testing.T) {
	if got := Sparkline([]float64{5, 5, 5}); got != "===" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestBarClamps(t *testing.T) {
	if got := Bar(150, 4); got != "████" {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := Bar(-3, 4); got != "" {
		t.Fatalf("expected empty bar, got %q", got)
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatalf("expected 0 for empty input")
	}
	if Mean([]float64{1, 2, 3}) != 2 {
		t.Fatalf("expected 2")
	}
}
