package database

import (
	"context"
	"database/sql"
	"fmt"

	"reaction-ledger/models"
	"reaction-ledger/store"
)

// TallyDB is the SQLite reaction tally log. Each flush appends one row per entry.
type TallyDB struct {
	db *sql.DB
}

var _ store.TallyStore = (*TallyDB)(nil)

// NewTallyDB opens the tally log at dbPath and ensures its table exists.
func NewTallyDB(dbPath string) (*TallyDB, error) {
	db, err := InitDB(dbPath)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS reaction_tallies (
        row_id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id TEXT NOT NULL,
        user_name TEXT NOT NULL,
        emoji TEXT NOT NULL,
        count INTEGER NOT NULL,
        flushed_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create reaction_tallies table: %w", err)
	}

	return &TallyDB{db: db}, nil
}

// Insert appends one tally row.
func (tdb *TallyDB) Insert(ctx context.Context, entry models.ReactionTallyEntry) error {
	row := store.EncodeTallyRow(entry)
	_, err := tdb.db.ExecContext(ctx,
		`INSERT INTO reaction_tallies (user_id, user_name, emoji, count) VALUES (?, ?, ?, ?)`,
		row[store.TallyColUserID], row[store.TallyColUserName], row[store.TallyColEmoji], entry.Count)
	if err != nil {
		return fmt.Errorf("failed to insert tally for user %s emoji %s: %w", entry.UserID, entry.Emoji, err)
	}
	return nil
}

// Select returns every persisted tally row in insertion order.
func (tdb *TallyDB) Select(ctx context.Context) ([]models.ReactionTallyEntry, error) {
	rows, err := tdb.db.QueryContext(ctx, `SELECT user_id, user_name, emoji, count FROM reaction_tallies ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reaction tallies: %w", err)
	}
	defer rows.Close()

	var entries []models.ReactionTallyEntry
	for rows.Next() {
		var e models.ReactionTallyEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Emoji, &e.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tally row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (tdb *TallyDB) Close() error {
	if tdb.db != nil {
		return tdb.db.Close()
	}
	return nil
}
