package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesavant42/ghfinder/internal/api"
	"github.com/thesavant42/ghfinder/internal/models"
)

// GenerateMarkdownReport renders a search result as a markdown document
func GenerateMarkdownReport(result models.SearchResult, topN int) string {
	var sb strings.Builder

	p := result.Profile
	if p == nil {
		sb.WriteString(fmt.Sprintf("# %s\n\n", result.Login))
		sb.WriteString("No profile found.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", p.DisplayName()))
	if p.AvatarURL != "" {
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", p.Login, p.AvatarURL))
	}
	if bio := strings.TrimSpace(p.Bio); bio != "" {
		sb.WriteString(fmt.Sprintf("> %s\n\n", bio))
	}

	sb.WriteString(fmt.Sprintf("**Followers:** %d\n", p.Followers))
	sb.WriteString(fmt.Sprintf("**Public Repos:** %d\n", p.PublicRepos))
	if domain := api.ProfileDomain(p); domain != "" {
		sb.WriteString(fmt.Sprintf("**Website:** %s\n", domain))
	}
	if p.HTMLURL != "" {
		sb.WriteString(fmt.Sprintf("**Profile:** [%s](%s)\n", p.Login, p.HTMLURL))
	}
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	top := models.TopRepositories(result.Repositories, topN)
	sb.WriteString(fmt.Sprintf("## Repositories (Top %d by Stars)\n\n", topN))
	if len(top) == 0 {
		if result.Outcome == models.OutcomePartial {
			sb.WriteString("Repositories could not be fetched.\n")
		} else {
			sb.WriteString("No public repositories.\n")
		}
		return sb.String()
	}

	sb.WriteString("| Rank | Repository | Stars |\n")
	sb.WriteString("|------|------------|-------|\n")
	for i, r := range top {
		sb.WriteString(fmt.Sprintf("| %d | [%s](%s) | %d |\n", i+1, r.Name, r.HTMLURL, r.StargazersCount))
	}

	return sb.String()
}

// ExportMarkdown writes the markdown report to <dir>/<login>-<date>.md
func ExportMarkdown(result models.SearchResult, dir string, topN int) (string, error) {
	login := result.Login
	if result.Profile != nil && result.Profile.Login != "" {
		login = result.Profile.Login
	}
	safeLogin := strings.NewReplacer("/", "-", "\\", "-").Replace(login)
	filename := fmt.Sprintf("%s-%s.md", safeLogin, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(GenerateMarkdownReport(result, topN)), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}

	return path, nil
}
