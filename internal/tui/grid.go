package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/magicsquare/internal/config"
	"github.com/kingrea/magicsquare/internal/square"
)

// GridRenderer draws a square as a boxed grid with even and odd cells in
// different colours, a title above and the magic sum below.
type GridRenderer struct {
	renderer  *lipgloss.Renderer
	cellWidth int
	palette   config.Palette
}

// NewGridRenderer builds a renderer. A nil lipgloss renderer uses the default
// one bound to stdout.
func NewGridRenderer(r *lipgloss.Renderer, cellWidth int, palette config.Palette) *GridRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &GridRenderer{renderer: r, cellWidth: cellWidth, palette: palette}
}

// Render draws sq with only the numbers up to revealed filled in. Numbers are
// revealed in placement order, so revealed == n² shows the finished square.
func (g *GridRenderer) Render(sq square.Square, revealed int) string {
	n := sq.Size()
	if n == 0 {
		return ""
	}
	width := g.effectiveCellWidth(n)
	gridWidth := n*(width+1) + 1

	border := g.renderer.NewStyle().Foreground(lipgloss.Color(g.palette.Border))
	title := g.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(g.palette.Title)).
		Render(Title(n))

	lines := []string{
		g.renderer.PlaceHorizontal(max(gridWidth, lipgloss.Width(title)), lipgloss.Center, title),
		"",
		border.Render(rule("┌", "┬", "┐", n, width)),
	}
	for r := 0; r < n; r++ {
		var b strings.Builder
		b.WriteString(border.Render("│"))
		for c := 0; c < n; c++ {
			b.WriteString(g.renderCell(sq.At(r, c), revealed, width))
			b.WriteString(border.Render("│"))
		}
		lines = append(lines, b.String())
		if r < n-1 {
			lines = append(lines, border.Render(rule("├", "┼", "┤", n, width)))
		}
	}
	lines = append(lines, border.Render(rule("└", "┴", "┘", n, width)))

	if revealed >= n*n {
		sum := g.renderer.NewStyle().
			Foreground(lipgloss.Color(g.palette.Border)).
			Render(SumLabel(n))
		lines = append(lines, "", g.renderer.PlaceHorizontal(gridWidth, lipgloss.Center, sum))
	}
	return strings.Join(lines, "\n")
}

func (g *GridRenderer) renderCell(value, revealed, width int) string {
	style := g.renderer.NewStyle().Width(width).Align(lipgloss.Center)
	label := cellLabel(value, revealed)
	if label == "" {
		return style.Render("")
	}
	fill, text := g.palette.OddFill, g.palette.OddText
	if value%2 == 0 {
		fill, text = g.palette.EvenFill, g.palette.EvenText
	}
	return style.
		Bold(true).
		Background(lipgloss.Color(fill)).
		Foreground(lipgloss.Color(text)).
		Render(label)
}

// effectiveCellWidth widens cells so the largest number keeps one space of
// padding on each side.
func (g *GridRenderer) effectiveCellWidth(n int) int {
	digits := len(strconv.Itoa(n * n))
	return max(g.cellWidth, digits+2)
}

func cellLabel(value, revealed int) string {
	if value > revealed {
		return ""
	}
	return strconv.Itoa(value)
}

func rule(left, mid, right string, n, width int) string {
	segment := strings.Repeat("─", width)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = segment
	}
	return left + strings.Join(parts, mid) + right
}

// Title is the heading drawn above a square of order n.
func Title(n int) string {
	return fmt.Sprintf("The Magic Square (n=%d)", n)
}

// SumLabel is the footer drawn below a finished square of order n.
func SumLabel(n int) string {
	return fmt.Sprintf("Magic Sum: %d", square.MagicSum(n))
}
