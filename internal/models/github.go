package models

import (
	"sort"
	"time"
)

// Profile represents the subset of a GitHub user returned by /users/{login}
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Blog        string `json:"blog"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
	HTMLURL     string `json:"html_url"`
}

// DisplayName returns the profile name, falling back to the login
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// Repository represents a repository entry from /users/{login}/repos
type Repository struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
}

// DefaultTopN is how many repositories the repository card shows
const DefaultTopN = 10

// TopRepositories returns a copy of repos ordered by star count (highest first),
// truncated to n entries. Repositories with equal stars keep their fetched order.
// n <= 0 disables truncation. The input slice is never reordered.
func TopRepositories(repos []Repository, n int) []Repository {
	sorted := make([]Repository, len(repos))
	copy(sorted, repos)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StargazersCount > sorted[j].StargazersCount
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Outcome describes how a search attempt ended
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
	// OutcomePartial means the profile resolved but the repository fetch did not
	OutcomePartial Outcome = "partial"
)

// SearchResult is the single committed result of one search attempt.
// Profile is set for OutcomeFound and OutcomePartial only.
type SearchResult struct {
	Token        uint64
	Login        string
	Profile      *Profile
	Repositories []Repository
	Outcome      Outcome
	Err          error
}

// SearchRecord is a row of the search history table
type SearchRecord struct {
	ID         int64
	Login      string
	Outcome    Outcome
	RepoCount  int
	SearchedAt time.Time
}
