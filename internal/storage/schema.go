package storage

const schema = `
-- The 'entries' table holds every persisted value under a fixed name.
CREATE TABLE IF NOT EXISTS entries (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const (
	selectEntry = `SELECT value FROM entries WHERE name = ?`
	upsertEntry = `
		INSERT INTO entries (name, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
)
