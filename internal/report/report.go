// Package report renders comparisons for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/knapcmp/knapcmp/internal/compare"
	"github.com/knapcmp/knapcmp/internal/models"
)

const (
	labelWidth    = 10
	minColumn     = 10
	annotationLen = 5
)

// annotate describes how the heuristic figure relates to the exact one.
func annotate(heuristic, exact int) string {
	switch {
	case heuristic > exact:
		return " more"
	case heuristic < exact:
		return " less"
	default:
		return "equal"
	}
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func rule(left, mid, right string, widths ...int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("═", w)
	}
	return left + strings.Join(parts, mid) + right
}

// columnWidth is the width of one solver column: wide enough for every
// cell it holds and for the name spanning both columns.
func columnWidth(c compare.Comparison) int {
	width := minColumn
	if n := utf8.RuneCountInString(c.Name); n > width*2+1 {
		width = n / 2
	}
	grow := func(s string, extra int) {
		if n := utf8.RuneCountInString(s) + extra; n > width {
			width = n
		}
	}
	for _, o := range []compare.Outcome{c.Exact, c.Heuristic} {
		grow(o.Solver, 0)
		grow(strconv.Itoa(o.Solution.TotalWeight), annotationLen)
		grow(strconv.Itoa(o.Solution.TotalValue), annotationLen)
		grow(strconv.Itoa(o.Solution.Iterations), annotationLen)
		for _, it := range o.Solution.SelectedItems {
			grow(it.String(), 0)
		}
	}
	return width
}

// Table writes the side-by-side box table for c.
func Table(w io.Writer, c compare.Comparison) error {
	width := columnWidth(c)
	exact, heuristic := c.Exact.Solution, c.Heuristic.Solution

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	wide := func(label, value string) {
		line("║" + pad(label, labelWidth) + "║" + pad(value, width*2+1) + "║")
	}
	split := func(label, left, right string) {
		line("║" + pad(label, labelWidth) + "║" + pad(left, width) + "║" + pad(right, width) + "║")
	}
	figures := func(label string, e, h int) {
		split(label, strconv.Itoa(e), pad(strconv.Itoa(h), width-annotationLen)+annotate(h, e))
	}
	divider := rule("╠", "╬", "╣", labelWidth, width, width)

	line(rule("╔", "╦", "═╗", labelWidth, width*2))
	wide("file", c.Name)
	line(rule("╠", "╬", "═╣", labelWidth, width*2))
	wide("max weight", strconv.Itoa(c.Dataset.MaxWeight))
	line(rule("╠", "╬", "╦", labelWidth, width) + strings.Repeat("═", width) + "╣")
	split("algorithm", c.Exact.Solver, c.Heuristic.Solver)
	line(divider)
	figures("weight", exact.TotalWeight, heuristic.TotalWeight)
	line(divider)
	figures("value", exact.TotalValue, heuristic.TotalValue)
	line(divider)
	figures("iterations", exact.Iterations, heuristic.Iterations)

	rows := max(len(exact.SelectedItems), len(heuristic.SelectedItems))
	if rows > 0 {
		line(divider)
	}
	for i := 0; i < rows; i++ {
		var left, right, label string
		if i < len(exact.SelectedItems) {
			left = exact.SelectedItems[i].String()
		}
		if i < len(heuristic.SelectedItems) {
			right = heuristic.SelectedItems[i].String()
		}
		if i == 0 {
			label = "items"
		}
		split(label, left, right)
	}
	line(rule("╚", "╩", "╝", labelWidth, width, width))

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary writes one line for c.
func Summary(w io.Writer, c compare.Comparison) error {
	_, err := fmt.Fprintf(w, "%s: %s value %d (weight %d, %d iterations), %s value %d (weight %d, %d iterations), ratio %.3f\n",
		c.Name,
		c.Exact.Solver, c.Exact.Solution.TotalValue, c.Exact.Solution.TotalWeight, c.Exact.Solution.Iterations,
		c.Heuristic.Solver, c.Heuristic.Solution.TotalValue, c.Heuristic.Solution.TotalWeight, c.Heuristic.Solution.Iterations,
		c.ValueRatio,
	)
	return err
}

// JSON writes c as a single JSON document.
func JSON(w io.Writer, c compare.Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(models.FromComparison(c))
}

// Writer renders comparisons in one of the supported formats.
type Writer func(io.Writer, compare.Comparison) error

// ForFormat returns the renderer for format: table, summary or json.
func ForFormat(format string) (Writer, error) {
	switch format {
	case "table", "":
		return Table, nil
	case "summary":
		return Summary, nil
	case "json":
		return JSON, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
