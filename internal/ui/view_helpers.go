package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build consistent two-box layouts across all TUI models.

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripEscapeCodes removes ANSI SGR sequences
func stripEscapeCodes(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// StringWidth returns the printable cell width of s, ignoring ANSI codes
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// truncateToWidth cuts plain text to at most width cells, adding "…" when cut
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && StringWidth(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// RenderTableWithSelection renders a bubbles table with full-width selection highlight.
// The table's Selected style should be neutral (see Theme.TableStyles); this
// function applies the visible selection styling. When showCursor is false
// no row is highlighted.
//
// bubbles/table View() output: line 0 is the header, data rows follow and
// only the visible rows are present because of viewport scrolling.
func RenderTableWithSelection(t table.Model, theme Theme, width int, showCursor bool) string {
	lines := strings.Split(t.View(), "\n")
	var result []string

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	// Match bubbles table viewport: scrolls only once the cursor passes the bottom
	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		if maxStart := totalRows - height; start > maxStart {
			start = maxStart
		}
	}
	visibleCursorIndex := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, theme.Normal().Render(line))
			result = append(result, strings.Repeat("─", width))
			continue
		}

		dataRowIndex := i - 1
		if showCursor && dataRowIndex == visibleCursorIndex {
			// Strip escape codes first so embedded resets don't kill the background
			cleanLine := stripEscapeCodes(line)
			if w := StringWidth(cleanLine); w < width {
				cleanLine += strings.Repeat(" ", width-w)
			} else if w > width {
				cleanLine = truncateToWidth(cleanLine, width)
			}
			result = append(result, theme.Selected().Render(cleanLine))
			continue
		}

		if strings.TrimSpace(stripEscapeCodes(line)) == "" {
			continue
		}
		result = append(result, theme.Normal().Render(line))
	}

	return strings.Join(result, "\n")
}

// ViewHeader renders the title over a full-width divider
func ViewHeader(title string, theme Theme, innerWidth int) string {
	return theme.Title().Render(title) + "\n" +
		theme.Dim().Render(strings.Repeat("─", innerWidth))
}

// CenterText centers text within given width.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	padding := (width - textW) / 2
	return strings.Repeat(" ", padding) + text
}

// TwoBoxView constructs the standard two-box layout:
//
//	╭────────────────────────╮
//	│ Main content           │  <- theme border
//	╰────────────────────────╯
//	╭────────────────────────╮
//	│   Centered help text   │  <- 1 row
//	╰────────────────────────╯
func TwoBoxView(content, helpText string, theme Theme, layout Layout) string {
	main := theme.Frame(layout).Render(strings.TrimRight(content, "\n"))
	help := theme.Frame(layout).
		Render(CenterText(theme.Hint().Render(helpText), layout.InnerWidth))
	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}
