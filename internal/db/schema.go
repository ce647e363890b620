package db

const createSearchesTable = `
CREATE TABLE IF NOT EXISTS searches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    login TEXT NOT NULL,
    outcome TEXT NOT NULL,
    repo_count INTEGER NOT NULL DEFAULT 0,
    searched_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_login ON searches(login);
CREATE INDEX IF NOT EXISTS idx_searches_time ON searches(searched_at);
`

const insertSearch = `
INSERT INTO searches (login, outcome, repo_count, searched_at) VALUES (?, ?, ?, ?)
`

const selectRecentSearches = `
SELECT id, login, outcome, repo_count, searched_at
FROM searches
ORDER BY searched_at DESC, id DESC
LIMIT ?
`

// Most recent search per login, newest first
const selectRecentLogins = `
SELECT login
FROM searches
GROUP BY login
ORDER BY MAX(id) DESC
LIMIT ?
`

const deleteSearches = `DELETE FROM searches`

const countSearches = `SELECT COUNT(*) FROM searches`
