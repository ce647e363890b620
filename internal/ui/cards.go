package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/ghfinder/internal/api"
	"github.com/thesavant42/ghfinder/internal/models"
)

const (
	appTitle       = "GitHub Finder"
	loadingText    = "Loading... ⏳"
	repoCardTitle  = "Repositories (Top %d by Stars)"
	historyTitle   = "Recent Searches"
	noticeHelpText = "enter/esc: dismiss"
)

// renderSearchRow draws the username input followed by the three buttons
func renderSearchRow(input textinput.Model, theme Theme) string {
	buttons := strings.Join([]string{
		theme.Button("enter", "Search"),
		theme.Button("ctrl+l", "Clear"),
		theme.Button("ctrl+t", theme.ToggleLabel()),
	}, "  ")
	return input.View() + "\n" + buttons
}

func renderLoading(s spinner.Model, theme Theme) string {
	return s.View() + " " + theme.Normal().Render(loadingText)
}

// renderNotice draws a blocking notification box
func renderNotice(text string, theme Theme, width int) string {
	body := theme.ErrorStyle().Render(text) + "\n" + theme.Hint().Render(noticeHelpText)
	return theme.Card(width).
		BorderForeground(theme.Error).
		Render(body)
}

// maxBioLines caps the bio so a long one cannot push the repositories off screen
const maxBioLines = 2

// renderProfileCard draws the profile section
func renderProfileCard(p *models.Profile, theme Theme, width int) string {
	var b strings.Builder

	b.WriteString(theme.Title().Render(p.DisplayName()))
	if p.Login != "" && p.Login != p.DisplayName() {
		b.WriteString(" " + theme.Dim().Render("@"+p.Login))
	}
	b.WriteString("\n")

	if bio := wrapLines(strings.TrimSpace(p.Bio), width-4, maxBioLines); bio != "" {
		b.WriteString(theme.Normal().Render(bio))
		b.WriteString("\n")
	}

	b.WriteString(theme.Normal().Render(fmt.Sprintf("Followers: %d  Public Repos: %d", p.Followers, p.PublicRepos)))
	b.WriteString("\n")

	if domain := api.ProfileDomain(p); domain != "" {
		b.WriteString(theme.Normal().Render("Website: ") + theme.LinkStyle().Render(domain))
		b.WriteString("\n")
	}
	if p.HTMLURL != "" {
		b.WriteString(theme.Normal().Render("View Profile: ") + theme.LinkStyle().Render(p.HTMLURL))
	}

	return theme.Card(width).Render(strings.TrimRight(b.String(), "\n"))
}

// wrapLines word-wraps plain text to width and keeps at most maxLines,
// marking a cut with "…"
func wrapLines(text string, width, maxLines int) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	lines = lines[:maxLines]
	last := strings.TrimRight(lines[maxLines-1], " ")
	lines[maxLines-1] = truncateToWidth(last, width-1) + "…"
	return strings.Join(lines, "\n")
}

// repoRows converts the already sorted repositories into table rows
func repoRows(repos []models.Repository) []table.Row {
	rows := make([]table.Row, len(repos))
	for i, r := range repos {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.Name,
			fmt.Sprintf("%d", r.StargazersCount),
		}
	}
	return rows
}

// renderRepoCard draws the repository table inside a card
func renderRepoCard(t table.Model, topN int, theme Theme, width int, focused bool) string {
	var b strings.Builder
	b.WriteString(theme.Title().Render(fmt.Sprintf(repoCardTitle, topN)))
	b.WriteString("\n")
	b.WriteString(RenderTableWithSelection(t, theme, width-4, focused))
	return theme.Card(width).Render(b.String())
}

// renderHistory draws the recent searches panel, showing at most rows
// logins in a window that follows the cursor
func renderHistory(logins []string, cursor, rows int, theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title().Render(historyTitle))

	if len(logins) == 0 {
		b.WriteString("\n")
		b.WriteString(theme.Dim().Render("No searches yet"))
	}

	start := 0
	if rows > 0 && cursor >= rows {
		start = cursor - rows + 1
	}
	end := len(logins)
	if rows > 0 && start+rows < end {
		end = start + rows
	}

	for i := start; i < end; i++ {
		line := "• " + logins[i]
		b.WriteString("\n")
		if i == cursor {
			b.WriteString(theme.Selected().Render(line))
		} else {
			b.WriteString(theme.Normal().Render(line))
		}
	}

	return theme.Card(width).Render(b.String())
}
