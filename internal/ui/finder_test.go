package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/ghfinder/internal/api"
	"github.com/thesavant42/ghfinder/internal/models"
)

// fakeSearcher returns canned results per login and records every call
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string]models.SearchResult
	calls   []string
	ctxErrs []error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{results: map[string]models.SearchResult{}}
}

func (f *fakeSearcher) Search(ctx context.Context, login string) models.SearchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, login)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	r, ok := f.results[login]
	if !ok {
		r = models.SearchResult{Outcome: models.OutcomeNotFound, Err: api.ErrUserNotFound}
	}
	r.Login = login
	return r
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeHistory is an in-memory HistoryStore
type fakeHistory struct {
	recorded []models.SearchResult
	logins   []string
}

func (h *fakeHistory) RecordSearch(result models.SearchResult) error {
	h.recorded = append(h.recorded, result)
	return nil
}

func (h *fakeHistory) RecentLogins(limit int) ([]string, error) {
	if len(h.logins) > limit {
		return h.logins[:limit], nil
	}
	return h.logins, nil
}

func octocatResult(repoCount int) models.SearchResult {
	repos := make([]models.Repository, repoCount)
	for i := range repos {
		repos[i] = models.Repository{
			ID:              int64(i + 1),
			Name:            fmt.Sprintf("repo-%02d", i),
			HTMLURL:         fmt.Sprintf("https://github.com/octocat/repo-%02d", i),
			StargazersCount: (i * 37) % 101,
		}
	}
	return models.SearchResult{
		Outcome: models.OutcomeFound,
		Profile: &models.Profile{
			Login:       "octocat",
			Name:        "The Octocat",
			Followers:   5000,
			PublicRepos: repoCount,
			HTMLURL:     "https://github.com/octocat",
		},
		Repositories: repos,
	}
}

func newTestFinder(s Searcher) FinderModel {
	return NewFinderModel(FinderOptions{
		Searcher: s,
		Opener:   func(string) error { return nil },
	})
}

func update(t *testing.T, m FinderModel, msg tea.Msg) (FinderModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	fm, ok := next.(FinderModel)
	require.True(t, ok)
	return fm, cmd
}

func typeText(t *testing.T, m FinderModel, s string) FinderModel {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m FinderModel, k tea.KeyType) (FinderModel, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// searchMsgFrom runs cmd (one level of batching) and returns the search result it produced
func searchMsgFrom(t *testing.T, cmd tea.Cmd) searchResultMsg {
	t.Helper()
	require.NotNil(t, cmd)

	var pending []tea.Cmd
	switch msg := cmd().(type) {
	case searchResultMsg:
		return msg
	case tea.BatchMsg:
		pending = msg
	}
	for _, c := range pending {
		if c == nil {
			continue
		}
		if msg, ok := c().(searchResultMsg); ok {
			return msg
		}
	}
	t.Fatal("command did not produce a search result")
	return searchResultMsg{}
}

// searchFor types login, presses enter and applies the result
func searchFor(t *testing.T, m FinderModel, login string) FinderModel {
	t.Helper()
	m = typeText(t, m, login)
	m, cmd := press(t, m, tea.KeyEnter)
	require.True(t, m.Loading())
	m, _ = update(t, m, searchMsgFrom(t, cmd))
	return m
}

func TestEmptyUsernameIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\x00"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			s := newFakeSearcher()
			m := newTestFinder(s)
			if input != "" {
				m = typeText(t, m, input)
			}

			m, cmd := press(t, m, tea.KeyEnter)

			assert.Nil(t, cmd)
			assert.False(t, m.Loading())
			assert.Nil(t, m.Profile())
			assert.Empty(t, m.Repositories())
			assert.Empty(t, m.Notice())
			assert.Equal(t, 0, s.callCount())
		})
	}
}

func TestSearchFoundShowsTopTenByStars(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(15)
	m := newTestFinder(s)

	m = typeText(t, m, "octocat")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.True(t, m.Loading())
	assert.Nil(t, m.Profile())
	assert.Contains(t, m.View(), loadingText)

	m, _ = update(t, m, searchMsgFrom(t, cmd))

	assert.False(t, m.Loading())
	assert.Empty(t, m.Notice())
	require.NotNil(t, m.Profile())
	assert.Equal(t, "The Octocat", m.Profile().Name)
	assert.Equal(t, []string{"octocat"}, s.calls)

	visible := m.VisibleRepositories()
	require.Len(t, visible, 10)
	for i := 1; i < len(visible); i++ {
		assert.GreaterOrEqual(t, visible[i-1].StargazersCount, visible[i].StargazersCount)
	}
	assert.Equal(t, models.TopRepositories(octocatResult(15).Repositories, 10), visible)

	// Stored order is untouched by rendering
	_ = m.View()
	assert.Equal(t, octocatResult(15).Repositories, m.Repositories())

	view := m.View()
	assert.Contains(t, view, "The Octocat")
	assert.Contains(t, view, "Followers: 5000")
	assert.Contains(t, view, "Repositories (Top 10 by Stars)")
	assert.NotContains(t, view, loadingText)
}

func TestSearchNotFound(t *testing.T) {
	s := newFakeSearcher()
	m := newTestFinder(s)

	m = typeText(t, m, "nobody")
	m, cmd := press(t, m, tea.KeyEnter)
	msg := searchMsgFrom(t, cmd)
	m, _ = update(t, m, msg)

	assert.False(t, m.Loading())
	assert.Equal(t, NoticeUserNotFound, m.Notice())
	assert.Nil(t, m.Profile())
	assert.Empty(t, m.Repositories())
	assert.Contains(t, m.View(), NoticeUserNotFound)

	m, _ = press(t, m, tea.KeyEnter)
	assert.Empty(t, m.Notice())

	// Replaying the same result does not notify again
	m, _ = update(t, m, msg)
	assert.Empty(t, m.Notice())
	assert.Equal(t, 1, s.callCount())
}

func TestNewSearchClearsPreviousResult(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(3)
	m := searchFor(t, newTestFinder(s), "octocat")
	require.NotNil(t, m.Profile())
	require.Len(t, m.Repositories(), 3)

	// Replace the input without a reset; the search alone must clear the old result
	for range "octocat" {
		m, _ = press(t, m, tea.KeyBackspace)
	}
	m = typeText(t, m, "ghost")
	m, cmd := press(t, m, tea.KeyEnter)

	assert.True(t, m.Loading())
	assert.Nil(t, m.Profile())
	assert.Empty(t, m.Repositories())
	assert.NotContains(t, m.View(), "The Octocat")

	m, _ = update(t, m, searchMsgFrom(t, cmd))

	assert.Equal(t, NoticeUserNotFound, m.Notice())
	assert.Nil(t, m.Profile())
	assert.Empty(t, m.Repositories())
	assert.Equal(t, []string{"octocat", "ghost"}, s.calls)
}

func TestLongUsernameIsNotTruncated(t *testing.T) {
	s := newFakeSearcher()
	login := strings.Repeat("a", 60)
	m := typeText(t, newTestFinder(s), login)
	assert.Equal(t, login, m.Username())

	m, cmd := press(t, m, tea.KeyEnter)
	searchMsgFrom(t, cmd)
	assert.Equal(t, []string{login}, s.calls)
}

func TestSearchPartialKeepsProfile(t *testing.T) {
	s := newFakeSearcher()
	partial := octocatResult(0)
	partial.Outcome = models.OutcomePartial
	partial.Repositories = []models.Repository{}
	partial.Err = errors.New("repos: status 500")
	s.results["octocat"] = partial

	m := searchFor(t, newTestFinder(s), "octocat")

	assert.Equal(t, NoticeGeneric, m.Notice())
	require.NotNil(t, m.Profile())
	assert.Equal(t, "The Octocat", m.Profile().Name)
	assert.Empty(t, m.Repositories())
	assert.False(t, m.Loading())
}

func TestSearchFailed(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = models.SearchResult{Outcome: models.OutcomeFailed, Err: errors.New("dial tcp: refused")}

	m := searchFor(t, newTestFinder(s), "octocat")

	assert.Equal(t, NoticeGeneric, m.Notice())
	assert.Nil(t, m.Profile())
	assert.False(t, m.Loading())
}

func TestNoticeBlocksInput(t *testing.T) {
	m := searchFor(t, newTestFinder(newFakeSearcher()), "ghost")
	require.NotEmpty(t, m.Notice())

	m = typeText(t, m, "xyz")
	m, _ = press(t, m, tea.KeyCtrlT)

	assert.Equal(t, "ghost", m.Username())
	assert.False(t, m.Theme().Dark)

	m, _ = press(t, m, tea.KeyEsc)
	assert.Empty(t, m.Notice())
}

// viewLines counts the terminal rows a rendered view occupies
func viewLines(view string) int {
	return len(strings.Split(view, "\n"))
}

func TestViewFitsStandardTerminal(t *testing.T) {
	s := newFakeSearcher()
	result := octocatResult(15)
	result.Profile.Bio = strings.Repeat("Loves cats, code and open source. ", 8)
	result.Profile.Blog = "https://github.blog"
	s.results["octocat"] = result

	m := newTestFinder(s)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = searchFor(t, m, "octocat")

	view := m.View()
	assert.LessOrEqual(t, viewLines(view), 24)
	assert.Contains(t, view, appTitle)
	assert.Contains(t, view, "[enter] Search")
	assert.Contains(t, view, "[ctrl+l] Clear")
	assert.Contains(t, view, "The Octocat")
	assert.Contains(t, view, "Followers: 5000")
	assert.Contains(t, view, "github.blog")
	assert.Contains(t, view, "Repositories (Top 10 by Stars)")

	// The table scrolls, so the last of the top ten is still reachable
	visible := m.VisibleRepositories()
	require.Len(t, visible, 10)
	assert.NotContains(t, view, visible[9].Name)

	m, _ = press(t, m, tea.KeyTab)
	for i := 0; i < 9; i++ {
		m, _ = press(t, m, tea.KeyDown)
	}
	view = m.View()
	assert.LessOrEqual(t, viewLines(view), 24)
	assert.Contains(t, view, visible[9].Name)
}

func TestViewUsesTallTerminal(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(15)

	m := newTestFinder(s)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})
	m = searchFor(t, m, "octocat")

	view := m.View()
	assert.LessOrEqual(t, viewLines(view), 60)
	for _, r := range m.VisibleRepositories() {
		assert.Contains(t, view, r.Name)
	}
}

func TestHistoryPanelFitsShortTerminal(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(12)
	h := &fakeHistory{}
	for i := 0; i < 10; i++ {
		h.logins = append(h.logins, fmt.Sprintf("user-%02d", i))
	}

	m := NewFinderModel(FinderOptions{Searcher: s, History: h})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m = searchFor(t, m, "octocat")

	m, _ = press(t, m, tea.KeyCtrlR)
	view := m.View()
	assert.LessOrEqual(t, viewLines(view), 20)
	assert.Contains(t, view, historyTitle)
	assert.Contains(t, view, "user-00")
	assert.Contains(t, view, "The Octocat")

	for i := 0; i < 9; i++ {
		m, _ = press(t, m, tea.KeyDown)
	}
	view = m.View()
	assert.LessOrEqual(t, viewLines(view), 20)
	assert.Contains(t, view, "user-09")
	assert.NotContains(t, view, "user-00")
}

func TestOverlappingSearchesKeepLatest(t *testing.T) {
	s := newFakeSearcher()
	s.results["first"] = octocatResult(2)
	second := octocatResult(4)
	second.Profile.Name = "Second"
	s.results["second"] = second

	m := newTestFinder(s)
	m = typeText(t, m, "first")
	m, firstCmd := press(t, m, tea.KeyEnter)

	m, _ = press(t, m, tea.KeyCtrlL)
	m = typeText(t, m, "second")
	m, secondCmd := press(t, m, tea.KeyEnter)

	firstMsg := searchMsgFrom(t, firstCmd)
	secondMsg := searchMsgFrom(t, secondCmd)

	// The superseded request was cancelled before it ran
	require.Len(t, s.ctxErrs, 2)
	assert.ErrorIs(t, s.ctxErrs[0], context.Canceled)
	assert.NoError(t, s.ctxErrs[1])

	// Second resolves first, then the stale first result arrives
	m, _ = update(t, m, secondMsg)
	m, _ = update(t, m, firstMsg)

	require.NotNil(t, m.Profile())
	assert.Equal(t, "Second", m.Profile().Name)
	assert.Len(t, m.Repositories(), 4)
	assert.False(t, m.Loading())
}

func TestStaleResultWhileLatestPending(t *testing.T) {
	s := newFakeSearcher()
	s.results["first"] = octocatResult(2)
	m := newTestFinder(s)

	m = typeText(t, m, "first")
	m, firstCmd := press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter) // same login again

	m, _ = update(t, m, searchMsgFrom(t, firstCmd))

	assert.True(t, m.Loading())
	assert.Nil(t, m.Profile())
}

func TestResetClearsEverythingButTheme(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(5)
	m := searchFor(t, newTestFinder(s), "octocat")
	m, _ = press(t, m, tea.KeyCtrlT)
	require.True(t, m.Theme().Dark)

	for i := 0; i < 2; i++ {
		m, _ = press(t, m, tea.KeyCtrlL)

		assert.Equal(t, "", m.Username())
		assert.Nil(t, m.Profile())
		assert.Empty(t, m.Repositories())
		assert.Empty(t, m.VisibleRepositories())
		assert.True(t, m.Theme().Dark)
	}
}

func TestResetDiscardsInFlightSearch(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(5)
	m := newTestFinder(s)

	m = typeText(t, m, "octocat")
	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyCtrlL)
	assert.False(t, m.Loading())

	m, _ = update(t, m, searchMsgFrom(t, cmd))

	assert.Nil(t, m.Profile())
	assert.Empty(t, m.Repositories())
}

func TestToggleThemeTwiceRestores(t *testing.T) {
	m := newTestFinder(newFakeSearcher())
	other := newTestFinder(newFakeSearcher())
	original := m.Theme()
	assert.Contains(t, m.View(), "Dark Mode")

	m, _ = press(t, m, tea.KeyCtrlT)
	assert.NotEqual(t, original.Dark, m.Theme().Dark)
	assert.Contains(t, m.View(), "Light Mode")

	// Instances don't share theme state
	assert.Equal(t, original, other.Theme())

	m, _ = press(t, m, tea.KeyCtrlT)
	assert.Equal(t, original, m.Theme())
}

func TestStartupDarkTheme(t *testing.T) {
	m := NewFinderModel(FinderOptions{Searcher: newFakeSearcher(), Dark: true})
	assert.True(t, m.Theme().Dark)
	assert.Contains(t, m.View(), "Light Mode")
}

func TestOpenSelectedRepository(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(5)

	var opened []string
	m := NewFinderModel(FinderOptions{
		Searcher: s,
		Opener: func(url string) error {
			opened = append(opened, url)
			return nil
		},
	})
	m = searchFor(t, m, "octocat")

	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyEnter)

	m, _ = press(t, m, tea.KeyCtrlO)

	require.Len(t, opened, 2)
	assert.Equal(t, m.VisibleRepositories()[1].HTMLURL, opened[0])
	assert.Equal(t, "https://github.com/octocat", opened[1])
	assert.Contains(t, m.StatusMsg, "Opened")
}

func TestTabWithoutRepositoriesStaysOnInput(t *testing.T) {
	m := newTestFinder(newFakeSearcher())
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "abc")
	assert.Equal(t, "abc", m.Username())
}

func TestHistoryRecordsAndReplays(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(3)
	h := &fakeHistory{logins: []string{"octocat", "ghost"}}

	m := NewFinderModel(FinderOptions{Searcher: s, History: h})
	m = searchFor(t, m, "ghost")
	m, _ = press(t, m, tea.KeyEnter) // dismiss

	require.Len(t, h.recorded, 1)
	assert.Equal(t, models.OutcomeNotFound, h.recorded[0].Outcome)

	m, _ = press(t, m, tea.KeyCtrlR)
	assert.Contains(t, m.View(), historyTitle)

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Equal(t, "octocat", m.Username())
	m, _ = update(t, m, searchMsgFrom(t, cmd))

	require.NotNil(t, m.Profile())
	require.Len(t, h.recorded, 2)
	assert.Equal(t, models.OutcomeFound, h.recorded[1].Outcome)
	assert.Equal(t, 3, len(h.recorded[1].Repositories))
}

func TestHistoryDisabled(t *testing.T) {
	m := newTestFinder(newFakeSearcher())
	m, _ = press(t, m, tea.KeyCtrlR)
	assert.Equal(t, "Search history is disabled", m.StatusMsg)
}

func TestInitialUsernameSearchesOnStart(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(1)
	m := NewFinderModel(FinderOptions{Searcher: s, Username: "octocat"})

	m, cmd := update(t, m, startSearchMsg{})
	assert.True(t, m.Loading())
	m, _ = update(t, m, searchMsgFrom(t, cmd))

	require.NotNil(t, m.Profile())
	assert.Equal(t, "octocat", m.Username())
}

func TestExportKey(t *testing.T) {
	s := newFakeSearcher()
	s.results["octocat"] = octocatResult(3)
	dir := t.TempDir()
	m := NewFinderModel(FinderOptions{Searcher: s, ExportTo: dir})

	m, _ = press(t, m, tea.KeyCtrlE)
	assert.Equal(t, "Nothing to export", m.StatusMsg)

	m = searchFor(t, m, "octocat")
	m, _ = press(t, m, tea.KeyCtrlE)
	assert.True(t, strings.HasPrefix(m.StatusMsg, "Exported to "+dir))
}

// TestOctocatAgainstAPI runs the whole search path against a fake GitHub
func TestOctocatAgainstAPI(t *testing.T) {
	stars := []int{80, 1500, 3, 42, 990, 7, 12000, 250}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat":
			fmt.Fprint(w, `{"login":"octocat","name":"The Octocat","followers":5000,"public_repos":8,"html_url":"https://github.com/octocat"}`)
		case "/users/octocat/repos":
			parts := make([]string, len(stars))
			for i, s := range stars {
				parts[i] = fmt.Sprintf(`{"id":%d,"name":"r%d","html_url":"https://github.com/octocat/r%d","stargazers_count":%d}`, i+1, i, i, s)
			}
			fmt.Fprint(w, "["+strings.Join(parts, ",")+"]")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, 5*time.Second, nil)
	m := searchFor(t, newTestFinder(client), "octocat")

	require.NotNil(t, m.Profile())
	assert.Equal(t, 5000, m.Profile().Followers)

	visible := m.VisibleRepositories()
	require.Len(t, visible, 8)
	got := make([]int, len(visible))
	for i, r := range visible {
		got[i] = r.StargazersCount
	}
	assert.Equal(t, []int{12000, 1500, 990, 250, 80, 42, 7, 3}, got)
}
