package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// GitHub logins: alphanumerics and single hyphens, no leading hyphen, max 39 chars
var loginPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// ValidateUsername checks the shape of a GitHub login before a prompt accepts it
func ValidateUsername(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !loginPattern.MatchString(s) {
		return fmt.Errorf("invalid GitHub username: %q", s)
	}
	return nil
}

// PromptForUsername asks for a GitHub username
func PromptForUsername(theme Theme) (string, error) {
	var username string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter GitHub Username").
				Description("The profile and top repositories will be looked up").
				Placeholder("octocat").
				Value(&username).
				Validate(ValidateUsername),
		),
	).WithTheme(NewHuhTheme(theme))

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return strings.TrimSpace(sanitizeInput(username)), nil
}

// ConfirmClearHistory asks before wiping the search history
func ConfirmClearHistory(theme Theme, count int) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear search history?").
				Description(fmt.Sprintf("%d recorded searches will be deleted", count)).
				Affirmative("Yes, clear it").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewHuhTheme(theme))

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirm, nil
}
