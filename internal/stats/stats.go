package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/stealthlearn/internal/model"
)

const sparkChars = " .:-=+*#%@"

// DefaultBarWidth is the bar length used for a score of 100.
const DefaultBarWidth = 30

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Scores extracts session scores in order.
func Scores(sessions []model.SessionRecord) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = float64(s.Score)
	}
	return out
}

// Bar renders a horizontal bar for a 0-100 score scaled to width cells.
func Bar(score float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	cells := int(math.Round(score / 100 * float64(width)))
	if cells < 0 {
		cells = 0
	}
	if cells > width {
		cells = width
	}
	return strings.Repeat("█", cells)
}

// GameTitle returns the catalog title for a game id, or the id itself.
func GameTitle(id string) string {
	if g, ok := model.LookupGame(id); ok {
		return g.Title
	}
	return id
}

// RenderSummary prints the report overview.
func RenderSummary(w io.Writer, report model.Report) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Total sessions: %d", report.TotalSessions),
		fmt.Sprintf("Total play time: %s", FormatPlayTime(report.TotalPlayTime)),
		fmt.Sprintf("Average score: %.1f", report.AverageScore),
		fmt.Sprintf("Average accuracy: %.1f%%", report.AverageAccuracy*100),
		fmt.Sprintf("Preferred subject: %s", report.PreferredSubject),
		fmt.Sprintf("Improvement rate: %.1f%%", report.ImprovementRate*100),
	}
	if len(report.PreferredGames) > 0 {
		lines = append(lines, fmt.Sprintf("Preferred games: %s", strings.Join(report.PreferredGames, ", ")))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSessionLog prints sessions newest first.
func RenderSessionLog(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Date", "Game", "Subject", "Score", "Accuracy", "Level"}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, []string{
			s.StartTime.Local().Format("2006-01-02 15:04"),
			s.GameID,
			s.Subject.Title(),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.1f%%", s.Accuracy*100),
			fmt.Sprintf("%d", s.Difficulty),
		})
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGameAverages prints the mean score per game with a bar.
func RenderGameAverages(w io.Writer, avgs []model.GameAverage, barWidth int) error {
	if len(avgs) == 0 {
		_, err := fmt.Fprintln(w, "No games played.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Average Score by Game"); err != nil {
		return err
	}
	headers := []string{"Game", "Sessions", "Avg", ""}
	rows := make([][]string, 0, len(avgs))
	for _, a := range avgs {
		rows = append(rows, []string{
			GameTitle(a.GameID),
			fmt.Sprintf("%d", a.Sessions),
			fmt.Sprintf("%.1f", a.AverageScore),
			Bar(a.AverageScore, barWidth),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints a sparkline of smoothed scores.
func RenderTrend(w io.Writer, sessions []model.SessionRecord, window int) error {
	if len(sessions) == 0 {
		return nil
	}
	line := Sparkline(MovingAverage(Scores(sessions), window))
	_, err := fmt.Fprintf(w, "Score trend: [%s]\n", line)
	return err
}

// RenderCatalog lists games with their subject.
func RenderCatalog(w io.Writer, games []model.GameInfo) error {
	headers := []string{"ID", "Subject", "Title", "Description"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{g.ID, g.Subject.Title(), g.Title, g.Description})
	}
	for _, line := range formatTable(headers, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
