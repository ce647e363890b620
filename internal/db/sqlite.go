package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/ghfinder/internal/models"

	_ "modernc.org/sqlite"
)

// Fixed width so searched_at sorts correctly as text
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the SQLite database connection holding search history
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createSearchesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create searches schema: %w", err)
	}

	return &DB{conn: conn, now: time.Now}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// RecordSearch stores the outcome of one committed search
func (db *DB) RecordSearch(result models.SearchResult) error {
	_, err := db.conn.Exec(insertSearch,
		result.Login,
		string(result.Outcome),
		len(result.Repositories),
		db.now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to record search for %s: %w", result.Login, err)
	}
	return nil
}

// RecentSearches returns up to limit history rows, newest first
func (db *DB) RecentSearches(limit int) ([]models.SearchRecord, error) {
	rows, err := db.conn.Query(selectRecentSearches, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var records []models.SearchRecord
	for rows.Next() {
		var r models.SearchRecord
		var outcome, searchedAt string
		if err := rows.Scan(&r.ID, &r.Login, &outcome, &r.RepoCount, &searchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		r.Outcome = models.Outcome(outcome)
		r.SearchedAt, err = time.Parse(timeFormat, searchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse search time %q: %w", searchedAt, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecentLogins returns up to limit distinct logins, most recently searched first
func (db *DB) RecentLogins(limit int) ([]string, error) {
	rows, err := db.conn.Query(selectRecentLogins, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query logins: %w", err)
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, fmt.Errorf("failed to scan login: %w", err)
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}

// CountSearches returns the number of recorded searches
func (db *DB) CountSearches() (int, error) {
	var n int
	if err := db.conn.QueryRow(countSearches).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count searches: %w", err)
	}
	return n, nil
}

// ClearHistory deletes every recorded search and returns how many were removed
func (db *DB) ClearHistory() (int64, error) {
	res, err := db.conn.Exec(deleteSearches)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared rows: %w", err)
	}
	return n, nil
}
