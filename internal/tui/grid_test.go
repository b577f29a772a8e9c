package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/magicsquare/internal/config"
	"github.com/kingrea/magicsquare/internal/square"
)

func testPalette() config.Palette {
	return config.Palette{
		Title: "#059669", Border: "#1f2937",
		EvenFill: "#e0f2f1", EvenText: "#0e7490",
		OddFill: "#fef2f2", OddText: "#dc2626",
		Muted: "#888888",
	}
}

func mustSquare(t *testing.T, n int) square.Square {
	t.Helper()
	sq, err := square.Construct(n)
	if err != nil {
		t.Fatalf("construct %d: %v", n, err)
	}
	return sq
}

// gridLines returns the boxed part of a render, skipping the title and the
// blank line below it.
func gridLines(out string, n int) []string {
	lines := strings.Split(out, "\n")
	return lines[2 : 2+2*n+1]
}

func TestRenderFullSquare(t *testing.T) {
	g := NewGridRenderer(lipgloss.NewRenderer(io.Discard), 6, testPalette())
	out := g.Render(mustSquare(t, 3), 9)

	if !strings.Contains(out, "The Magic Square (n=3)") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "Magic Sum: 15") {
		t.Fatalf("missing magic sum:\n%s", out)
	}
	grid := gridLines(out, 3)
	if grid[0] != "┌──────┬──────┬──────┐" {
		t.Fatalf("top rule = %q", grid[0])
	}
	if grid[len(grid)-1] != "└──────┴──────┴──────┘" {
		t.Fatalf("bottom rule = %q", grid[len(grid)-1])
	}
	wantRows := [][]string{{"8", "1", "6"}, {"3", "5", "7"}, {"4", "9", "2"}}
	for r, want := range wantRows {
		line := grid[1+2*r]
		cells := strings.Split(strings.Trim(line, "│"), "│")
		if len(cells) != 3 {
			t.Fatalf("row %d has %d cells: %q", r, len(cells), line)
		}
		for c, cell := range cells {
			if strings.TrimSpace(cell) != want[c] {
				t.Fatalf("cell (%d,%d) = %q, want %s", r, c, cell, want[c])
			}
			if lipgloss.Width(cell) != 6 {
				t.Fatalf("cell (%d,%d) width = %d", r, c, lipgloss.Width(cell))
			}
		}
	}
	for i, line := range grid {
		if lipgloss.Width(line) != 3*7+1 {
			t.Fatalf("line %d width = %d: %q", i, lipgloss.Width(line), line)
		}
	}
}

func TestRenderPartialRevealHidesLaterNumbers(t *testing.T) {
	g := NewGridRenderer(lipgloss.NewRenderer(io.Discard), 6, testPalette())
	sq := mustSquare(t, 3)

	empty := strings.Join(gridLines(g.Render(sq, 0), 3), "\n")
	if strings.ContainsAny(empty, "0123456789") {
		t.Fatalf("nothing should be revealed yet:\n%s", empty)
	}

	partial := g.Render(sq, 3)
	body := strings.Join(gridLines(partial, 3), "\n")
	for _, shown := range []string{"1", "2", "3"} {
		if !strings.Contains(body, shown) {
			t.Fatalf("expected %s to be revealed:\n%s", shown, body)
		}
	}
	if strings.ContainsAny(body, "456789") {
		t.Fatalf("later numbers leaked into the grid:\n%s", body)
	}
	if strings.Contains(partial, "Magic Sum") {
		t.Fatalf("magic sum should wait for the finished square")
	}
}

func TestRenderWidensCellsForLargeSquares(t *testing.T) {
	g := NewGridRenderer(lipgloss.NewRenderer(io.Discard), 3, testPalette())
	out := g.Render(mustSquare(t, 11), 121)
	grid := gridLines(out, 11)
	if want := 11*6 + 1; lipgloss.Width(grid[0]) != want {
		t.Fatalf("rule width = %d, want %d", lipgloss.Width(grid[0]), want)
	}
	if !strings.Contains(out, "121") {
		t.Fatalf("largest number missing")
	}
}

func TestRenderOrderOne(t *testing.T) {
	g := NewGridRenderer(lipgloss.NewRenderer(io.Discard), 6, testPalette())
	out := g.Render(mustSquare(t, 1), 1)
	if !strings.Contains(out, "Magic Sum: 1") {
		t.Fatalf("missing magic sum:\n%s", out)
	}
}

func TestRenderEmptySquare(t *testing.T) {
	g := NewGridRenderer(nil, 6, testPalette())
	if out := g.Render(square.Square{}, 0); out != "" {
		t.Fatalf("expected empty render, got %q", out)
	}
}

func TestCellLabel(t *testing.T) {
	if got := cellLabel(5, 4); got != "" {
		t.Fatalf("unrevealed label = %q", got)
	}
	if got := cellLabel(4, 4); got != "4" {
		t.Fatalf("revealed label = %q", got)
	}
}
