package tui

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  string
	}{
		{"hello world", 5, "hello\nworld"},
		{"ab cd ef", 5, "ab cd\nef"},
		{"abc defg", 5, "abc\ndefg"},
		{"abcdefgh", 3, "abc\ndef\ngh"},
		{"你好世界", 4, "你好\n世界"},
		{"short", 20, "short"},
		{"one\ntwo three", 5, "one\ntwo\nthree"},
		{"no width", 0, "no width"},
	}
	for _, tc := range cases {
		if got := wrapText(tc.text, tc.width); got != tc.want {
			t.Fatalf("wrapText(%q, %d): expected %q, got %q", tc.text, tc.width, tc.want, got)
		}
	}
}

func TestBuildCellsWidths(t *testing.T) {
	cells := buildCells("a 🦔")
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if !cells[1].isSpace {
		t.Fatalf("expected space cell")
	}
	if cells[2].width != 2 {
		t.Fatalf("expected wide emoji, got width %d", cells[2].width)
	}
	if lineWidthOf(cells) != 4 {
		t.Fatalf("expected total width 4, got %d", lineWidthOf(cells))
	}
}
