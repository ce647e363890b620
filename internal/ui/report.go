package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/ghfinder/internal/models"
)

// PrintProfileReport prints a search result for non-interactive use.
//
// This is a CLI report, so table structure is plain string formatting and
// lipgloss only colors the text.
func PrintProfileReport(w io.Writer, result models.SearchResult, topN int, theme Theme) {
	p := result.Profile
	if p == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderProfileCard(p, theme, DefaultWidth))
	fmt.Fprintln(w)

	top := models.TopRepositories(result.Repositories, topN)
	if len(top) == 0 {
		fmt.Fprintln(w, theme.Dim().Render("No repositories to show"))
		return
	}

	fmt.Fprintln(w, theme.Title().Render(fmt.Sprintf(repoCardTitle, topN)))

	nameWidth := 10
	for _, r := range top {
		if n := StringWidth(r.Name); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 50 {
		nameWidth = 50
	}

	header := fmt.Sprintf("%4s  %-*s  %8s", "#", nameWidth, "Repository", "Stars")
	fmt.Fprintln(w, theme.Title().Render(header))
	fmt.Fprintln(w, theme.Dim().Render(strings.Repeat("─", StringWidth(header))))

	for i, r := range top {
		name := truncateToWidth(r.Name, nameWidth)
		row := fmt.Sprintf("%4d  %-*s  %8d", i+1, nameWidth, name, r.StargazersCount)
		if i == 0 {
			fmt.Fprintln(w, theme.AccentStyle().Render(row))
		} else {
			fmt.Fprintln(w, theme.Normal().Render(row))
		}
	}
	fmt.Fprintln(w)
}

// RenderMarkdownReport renders the markdown report for the terminal with glamour
func RenderMarkdownReport(result models.SearchResult, topN int, theme Theme) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(theme.Name()),
		glamour.WithWordWrap(DefaultWidth),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(GenerateMarkdownReport(result, topN))
}

// PrintHistory prints recorded searches, newest first
func PrintHistory(w io.Writer, records []models.SearchRecord, theme Theme) {
	if len(records) == 0 {
		fmt.Fprintln(w, theme.Dim().Render("No searches recorded."))
		return
	}

	fmt.Fprintln(w, theme.Title().Render(historyTitle))
	for _, r := range records {
		outcome := string(r.Outcome)
		style := theme.Normal()
		switch r.Outcome {
		case models.OutcomeFound:
			style = theme.SuccessStyle()
		case models.OutcomeNotFound, models.OutcomeFailed:
			style = theme.ErrorStyle()
		}
		fmt.Fprintf(w, "  %s  %-39s  %s  %s\n",
			theme.Dim().Render(r.SearchedAt.Local().Format("2006-01-02 15:04")),
			r.Login,
			style.Render(fmt.Sprintf("%-9s", outcome)),
			theme.Dim().Render(fmt.Sprintf("%d repos", r.RepoCount)),
		)
	}
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("82")).
		Bold(true)
	fmt.Println(successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)
	fmt.Println(errorStyle.Render("Error: " + message))
}
