package ui

// columns.go computes bubbles/table column widths from flexible specs.

import (
	"github.com/charmbracelet/bubbles/table"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// minTableWidth keeps tables legible on very narrow terminals
const minTableWidth = 30

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns and
// the two-space cell padding bubbles/table adds per column are allocated.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < minTableWidth {
		totalWidth = minTableWidth
	}

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal - 2*len(specs)
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// RepositoryColumns returns column specs for the top repositories table
func RepositoryColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "#", FixedWidth: 3},
		{Title: "Repository", FlexRatio: 100, MinWidth: 16},
		{Title: "⭐ Stars", FixedWidth: 9},
	}
}
