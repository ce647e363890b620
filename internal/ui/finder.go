package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/ghfinder/internal/models"
)

// Notification texts shown for failed searches
const (
	NoticeUserNotFound = "User not found"
	NoticeGeneric      = "Something went wrong"
)

const (
	statusDuration = 3 * time.Second
	historyLimit   = 10
)

// Searcher performs the profile + repositories lookup for one login
type Searcher interface {
	Search(ctx context.Context, login string) models.SearchResult
}

// HistoryStore records committed searches and lists recent logins
type HistoryStore interface {
	RecordSearch(result models.SearchResult) error
	RecentLogins(limit int) ([]string, error)
}

// Message types for async operations

// searchResultMsg carries a finished search back to Update
type searchResultMsg struct {
	result models.SearchResult
}

// startSearchMsg triggers a search for the initial username
type startSearchMsg struct{}

type focusArea int

const (
	focusInput focusArea = iota
	focusRepos
	focusHistory
)

// FinderOptions configures a FinderModel
type FinderOptions struct {
	Searcher Searcher
	History  HistoryStore       // optional
	Logger   *log.Logger        // optional
	Opener   func(string) error // optional, defaults to the system browser
	Dark     bool               // start-up theme
	TopN     int                // repositories shown, defaults to 10
	Username string             // optional, searched immediately on start
	ExportTo string             // directory for ctrl+e exports, defaults to "."
}

// FinderModel is the GitHub Finder TUI: username box, search, profile card
// and top repositories.
type FinderModel struct {
	PageState

	input   textinput.Model
	spinner spinner.Model
	table   table.Model
	theme   Theme

	searcher Searcher
	history  HistoryStore
	logger   *log.Logger
	opener   func(string) error
	topN     int
	exportTo string
	initial  string

	// Search state. repos is stored as fetched and never reordered.
	profile *models.Profile
	repos   []models.Repository
	loading bool
	token   uint64 // latest issued search token
	cancel  context.CancelFunc
	last    *models.SearchResult // last committed result, for export

	// Blocking notification; key input is swallowed until dismissed
	notice string

	focus         focusArea
	historyLogins []string
	historyCursor int
	historyRows   int // visible history lines, shrinks on short terminals
}

// NewFinderModel creates the finder model
func NewFinderModel(opts FinderOptions) FinderModel {
	theme := ThemeFor(opts.Dark)
	layout := DefaultLayout()

	ti := textinput.New()
	ti.Placeholder = "Enter GitHub username"
	ti.Prompt = "› "
	ti.Width = layout.InnerWidth - 6
	ti.Focus()
	if opts.Username != "" {
		ti.SetValue(opts.Username)
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = models.DefaultTopN
	}

	opener := opts.Opener
	if opener == nil {
		opener = openURL
	}

	exportTo := opts.ExportTo
	if exportTo == "" {
		exportTo = "."
	}

	m := FinderModel{
		PageState:   NewPageState(layout),
		input:       ti,
		spinner:     NewAppSpinner(theme),
		theme:       theme,
		searcher:    opts.Searcher,
		history:     opts.History,
		logger:      opts.Logger,
		opener:      opener,
		topN:        topN,
		exportTo:    exportTo,
		initial:     strings.TrimSpace(opts.Username),
		historyRows: historyLimit,
	}
	m.table = table.New(
		table.WithColumns(CalculateColumns(RepositoryColumns(), layout.TableWidth)),
		table.WithHeight(topN+1), // header row + one row per repository
	)
	m.applyTheme()
	m.fitToHeight()
	return m
}

func (m FinderModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.WindowSize(), textinput.Blink}
	if m.initial != "" {
		cmds = append(cmds, func() tea.Msg { return startSearchMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update applies msg and then refits the table and history panel to the
// terminal height, since any state change can grow or shrink the view.
func (m FinderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	fm := next.(FinderModel)
	fm.fitToHeight()
	return fm, cmd
}

func (m FinderModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.Resize(msg.Width, msg.Height) {
			m.input.Width = m.Layout.InnerWidth - 6
			m.table.SetColumns(CalculateColumns(RepositoryColumns(), m.Layout.TableWidth))
		}
		return m, nil

	case startSearchMsg:
		return m.search()

	case searchResultMsg:
		return m.commit(msg.result), nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m FinderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	// A notification blocks everything until dismissed
	if m.notice != "" {
		if key == "enter" || key == "esc" {
			m.notice = ""
		}
		return m, nil
	}

	switch key {
	case "ctrl+l":
		m.reset()
		return m, nil
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	case "ctrl+o":
		if m.profile != nil && m.profile.HTMLURL != "" {
			m.open(m.profile.HTMLURL)
		}
		return m, nil
	case "ctrl+e":
		m.export()
		return m, nil
	case "ctrl+r":
		m.toggleHistory()
		return m, nil
	case "tab", "shift+tab":
		m.cycleFocus()
		return m, nil
	}

	switch m.focus {
	case focusRepos:
		return m.handleRepoKeys(msg)
	case focusHistory:
		return m.handleHistoryKeys(msg)
	}

	switch key {
	case "esc":
		return m.quit()
	case "enter":
		return m.search()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m FinderModel) handleRepoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setFocus(focusInput)
		return m, nil
	case "enter", "o":
		visible := m.VisibleRepositories()
		if i := m.table.Cursor(); i >= 0 && i < len(visible) {
			m.open(visible[i].HTMLURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m FinderModel) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setFocus(focusInput)
		return m, nil
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down", "j":
		if m.historyCursor < len(m.historyLogins)-1 {
			m.historyCursor++
		}
	case "enter":
		if m.historyCursor < len(m.historyLogins) {
			m.input.SetValue(m.historyLogins[m.historyCursor])
			m.input.CursorEnd()
			m.setFocus(focusInput)
			return m.search()
		}
	}
	return m, nil
}

// search starts a lookup for the current input. An empty username is a no-op.
// Any search still in flight is cancelled and its result will be discarded.
func (m FinderModel) search() (tea.Model, tea.Cmd) {
	login := strings.TrimSpace(sanitizeInput(m.input.Value()))
	if login == "" || m.searcher == nil {
		return m, nil
	}

	m.supersede()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	token := m.token

	m.loading = true
	m.profile = nil
	m.repos = nil
	m.last = nil
	m.table.SetRows(nil)
	m.setFocus(focusInput)

	if m.logger != nil {
		m.logger.Info("Search started", "login", login, "token", token)
	}

	return m, tea.Batch(m.spinner.Tick, searchCmd(ctx, m.searcher, login, token))
}

// searchCmd runs the lookup off the update loop
func searchCmd(ctx context.Context, s Searcher, login string, token uint64) tea.Cmd {
	return func() tea.Msg {
		result := s.Search(ctx, login)
		result.Token = token
		return searchResultMsg{result: result}
	}
}

// supersede cancels the in-flight search, if any, and invalidates its token
func (m *FinderModel) supersede() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.token++
}

// commit applies a finished search. Results from superseded searches are dropped.
func (m FinderModel) commit(result models.SearchResult) FinderModel {
	if result.Token != m.token || !m.loading {
		if m.logger != nil {
			m.logger.Debug("Discarding stale search result", "login", result.Login, "token", result.Token, "latest", m.token)
		}
		return m
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false

	switch result.Outcome {
	case models.OutcomeFound:
		m.profile = result.Profile
		m.repos = result.Repositories
	case models.OutcomePartial:
		// Profile stays visible next to the failure notice
		m.profile = result.Profile
		m.repos = []models.Repository{}
		m.notice = NoticeGeneric
	case models.OutcomeNotFound:
		m.notice = NoticeUserNotFound
	default:
		m.notice = NoticeGeneric
	}
	m.table.SetRows(repoRows(m.VisibleRepositories()))
	m.table.GotoTop()

	if result.Err != nil && m.logger != nil {
		m.logger.Error("Search failed", "login", result.Login, "outcome", result.Outcome, "error", result.Err)
	}

	if m.profile != nil {
		committed := result
		m.last = &committed
	}

	if m.history != nil {
		if err := m.history.RecordSearch(result); err != nil && m.logger != nil {
			m.logger.Error("Failed to record search", "login", result.Login, "error", err)
		}
	}

	return m
}

// reset clears the username, profile and repositories and abandons any
// search in flight. The theme is left alone.
func (m *FinderModel) reset() {
	m.supersede()
	m.loading = false
	m.input.SetValue("")
	m.profile = nil
	m.repos = nil
	m.last = nil
	m.table.SetRows(nil)
	m.setFocus(focusInput)
}

// fitToHeight sizes the repository table, or the history window when it is
// open, so the whole view fits in the viewport. The table scrolls, so every
// row stays reachable. Everything else is kept at its natural height.
func (m *FinderModel) fitToHeight() {
	m.historyRows = historyLimit
	m.table.SetHeight(m.topN + 1) // header row + one row per repository

	over := lipgloss.Height(m.View()) - m.Layout.ViewportHeight
	if over <= 0 {
		return
	}

	switch {
	case m.focus == focusHistory:
		shown := min(len(m.historyLogins), historyLimit)
		m.historyRows = max(1, shown-over)
	case len(m.repos) > 0:
		// The header and divider stay; data rows give up the overflow
		drawn := lipgloss.Height(RenderTableWithSelection(m.table, m.theme, m.Layout.InnerWidth-4, m.focus == focusRepos))
		rows := drawn - 2 - over
		m.table.SetHeight(max(MinTableHeight, rows+1))
	}
}

func (m *FinderModel) toggleTheme() {
	m.theme = m.theme.Toggle()
	m.applyTheme()
}

// applyTheme restyles the stateful bubbles components for the current theme
func (m *FinderModel) applyTheme() {
	m.input.PromptStyle = m.theme.AccentStyle()
	m.input.TextStyle = m.theme.Normal()
	m.input.PlaceholderStyle = m.theme.Dim()
	m.spinner.Style = m.theme.AccentStyle()
	m.table.SetStyles(m.theme.TableStyles())
}

func (m *FinderModel) cycleFocus() {
	switch m.focus {
	case focusInput:
		if len(m.repos) > 0 {
			m.setFocus(focusRepos)
		}
	default:
		m.setFocus(focusInput)
	}
}

func (m *FinderModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if f == focusRepos {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *FinderModel) toggleHistory() {
	if m.focus == focusHistory {
		m.setFocus(focusInput)
		return
	}
	if m.history == nil {
		m.SetStatus("Search history is disabled", statusDuration)
		return
	}
	logins, err := m.history.RecentLogins(historyLimit)
	if err != nil {
		m.SetStatus(fmt.Sprintf("History unavailable: %v", err), statusDuration)
		return
	}
	m.historyLogins = logins
	m.historyCursor = 0
	m.setFocus(focusHistory)
}

func (m *FinderModel) open(url string) {
	if err := m.opener(url); err != nil {
		m.SetStatus(fmt.Sprintf("Could not open browser: %v", err), statusDuration)
		return
	}
	m.SetStatus("Opened "+url, statusDuration)
}

func (m *FinderModel) export() {
	if m.last == nil {
		m.SetStatus("Nothing to export", statusDuration)
		return
	}
	path, err := ExportMarkdown(*m.last, m.exportTo, m.topN)
	if err != nil {
		m.SetStatus(fmt.Sprintf("Export failed: %v", err), statusDuration)
		return
	}
	m.SetStatus("Exported to "+path, statusDuration)
}

func (m FinderModel) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.Quitting = true
	return m, tea.Quit
}

// Username returns the current input text
func (m FinderModel) Username() string {
	return m.input.Value()
}

// Profile returns the displayed profile, or nil
func (m FinderModel) Profile() *models.Profile {
	return m.profile
}

// Repositories returns the stored repository list in fetched order
func (m FinderModel) Repositories() []models.Repository {
	return m.repos
}

// VisibleRepositories returns the repositories as rendered: a sorted copy
// truncated to the configured top N
func (m FinderModel) VisibleRepositories() []models.Repository {
	return models.TopRepositories(m.repos, m.topN)
}

// Loading reports whether a search is in flight
func (m FinderModel) Loading() bool {
	return m.loading
}

// Notice returns the pending notification text, or ""
func (m FinderModel) Notice() string {
	return m.notice
}

// Theme returns the current theme
func (m FinderModel) Theme() Theme {
	return m.theme
}

func (m FinderModel) View() string {
	if m.Quitting {
		return ""
	}

	width := m.Layout.InnerWidth
	var content strings.Builder

	// Sections are stacked without blank lines; the cards' borders separate them
	sections := []string{
		ViewHeader(appTitle, m.theme, width),
		renderSearchRow(m.input, m.theme),
	}

	if m.loading {
		sections = append(sections, renderLoading(m.spinner, m.theme))
	}
	if m.notice != "" {
		sections = append(sections, renderNotice(m.notice, m.theme, width))
	}
	if m.profile != nil {
		sections = append(sections, renderProfileCard(m.profile, m.theme, width))
	}

	// The history panel takes the repository card's place while open
	switch {
	case m.focus == focusHistory:
		sections = append(sections, renderHistory(m.historyLogins, m.historyCursor, m.historyRows, m.theme, width))
	case len(m.repos) > 0:
		sections = append(sections, renderRepoCard(m.table, m.topN, m.theme, width, m.focus == focusRepos))
	}

	if m.HasStatus() {
		sections = append(sections, m.theme.SuccessStyle().Render(m.StatusMsg))
	}

	content.WriteString(strings.Join(sections, "\n"))

	return TwoBoxView(content.String(), m.helpText(), m.theme, m.Layout)
}

func (m FinderModel) helpText() string {
	switch {
	case m.notice != "":
		return noticeHelpText
	case m.focus == focusRepos:
		return "up/down: navigate | enter: open repo | esc/tab: back to search"
	case m.focus == focusHistory:
		return "up/down: navigate | enter: search | esc: close"
	}
	return "enter: search | tab: repos | ^o: open | ^e: export | ^r: history | esc: quit"
}

// RunFinder starts the finder TUI and blocks until it exits
func RunFinder(opts FinderOptions) error {
	p := tea.NewProgram(NewFinderModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("finder TUI error: %w", err)
	}
	return nil
}
