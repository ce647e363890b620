package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 60
	MaxViewportWidth  = 100
	DefaultWidth      = 80 // Used when terminal size is unknown
	DefaultHeight     = 30
	MinViewportHeight = 20
	MinTableHeight    = 2 // table header + one row
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // clamped terminal height
	InnerWidth     int // ViewportWidth - 2 border chars (THE ONE RULE)
	TableWidth     int // InnerWidth - card padding
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	height := terminalHeight
	if height < MinViewportHeight {
		height = MinViewportHeight
	}
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: height,
		InnerWidth:     width - 2,
		TableWidth:     width - 6,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Theme is the display palette. It is plain data owned by whichever model
// renders with it; nothing in this package keeps a current theme.
type Theme struct {
	Dark       bool
	Background lipgloss.Color
	Border     lipgloss.Color
	Highlight  lipgloss.Color
	Text       lipgloss.Color
	TextDim    lipgloss.Color
	Accent     lipgloss.Color
	Link       lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
}

// DarkTheme is white text on black with red borders and yellow accents
func DarkTheme() Theme {
	return Theme{
		Dark:       true,
		Background: lipgloss.Color("0"),   // black
		Border:     lipgloss.Color("196"), // red
		Highlight:  lipgloss.Color("88"),  // dark red background
		Text:       lipgloss.Color("15"),  // bright white
		TextDim:    lipgloss.Color("245"), // gray
		Accent:     lipgloss.Color("226"), // bright yellow
		Link:       lipgloss.Color("86"),  // cyan
		Error:      lipgloss.Color("203"), // light red
		Success:    lipgloss.Color("82"),  // green
	}
}

// LightTheme is dark text on a light background with blue borders
func LightTheme() Theme {
	return Theme{
		Dark:       false,
		Background: lipgloss.Color("255"), // near white
		Border:     lipgloss.Color("25"),  // blue
		Highlight:  lipgloss.Color("153"), // pale blue background
		Text:       lipgloss.Color("235"), // near black
		TextDim:    lipgloss.Color("243"), // gray
		Accent:     lipgloss.Color("130"), // dark orange
		Link:       lipgloss.Color("26"),  // blue
		Error:      lipgloss.Color("160"), // red
		Success:    lipgloss.Color("28"),  // green
	}
}

// ThemeFor returns the dark or light theme
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	return ThemeFor(!t.Dark)
}

// ToggleLabel is the caption of the mode button: it names the mode you switch to
func (t Theme) ToggleLabel() string {
	if t.Dark {
		return "Light Mode"
	}
	return "Dark Mode"
}

// Name returns "dark" or "light"
func (t Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// Frame is the main viewport border.
// STYLE GUIDE: Always use .Width(ViewportWidth) with NO .Padding()
func (t Theme) Frame(layout Layout) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Background(t.Background).
		Width(layout.InnerWidth)
}

// Card is a bordered box for the profile and repository sections
func (t Theme) Card(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(width - 2)
}

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Text)
}

func (t Theme) Normal() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) Dim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextDim)
}

func (t Theme) Hint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)
}

func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Link).Underline(true)
}

func (t Theme) Selected() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Highlight).
		Bold(true)
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

// Button renders a labelled key hint like "[enter] Search"
func (t Theme) Button(key, label string) string {
	return t.AccentStyle().Render("["+key+"]") + " " + t.Normal().Render(label)
}

// TableStyles returns bubbles/table styles for this theme.
// Selection is drawn by RenderTableWithSelection, so the table's own
// Selected style stays neutral.
func (t Theme) TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(false).
		Foreground(t.Text).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.Text)
	s.Selected = lipgloss.NewStyle()
	return s
}

// NewAppSpinner creates the loading spinner in the theme's accent color
func NewAppSpinner(t Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(t.Accent)
	return s
}

// NewHuhTheme creates a huh theme matching the given palette
func NewHuhTheme(theme Theme) *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(theme.TextDim)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(theme.Text)
	t.Blurred.Base = t.Focused.Base

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Highlight).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(theme.Text).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(theme.Border)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(theme.TextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(theme.Border)

	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(theme.Error)
	t.Focused.ErrorIndicator = t.Focused.ErrorMessage

	return t
}
