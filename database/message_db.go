package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"reaction-ledger/models"
	"reaction-ledger/store"
)

// MessageDB is the SQLite message log. Columns mirror the positional row layout.
type MessageDB struct {
	db *sql.DB
}

var _ store.MessageStore = (*MessageDB)(nil)

// NewMessageDB opens the message log at dbPath and ensures its table exists.
func NewMessageDB(dbPath string) (*MessageDB, error) {
	db, err := InitDB(dbPath)
	if err != nil {
		return nil, err
	}

	if err := createMessagesTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &MessageDB{db: db}, nil
}

// createMessagesTable creates the messages table if it doesn't exist
func createMessagesTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS messages (
        row_id INTEGER PRIMARY KEY AUTOINCREMENT,
        reserved TEXT DEFAULT '',
        message_id TEXT NOT NULL UNIQUE,
        post_date TEXT NOT NULL,
        post_time TEXT NOT NULL,
        author_name TEXT NOT NULL,
        text TEXT NOT NULL,
        upvote_count INTEGER,
        report_count INTEGER
    );`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_post_date ON messages(post_date);"); err != nil {
		log.Printf("Warning: failed to create index: %v", err)
	}
	return nil
}

// Select returns every stored record in insertion order. Rows that cannot be
// decoded are logged and skipped.
func (mdb *MessageDB) Select(ctx context.Context) ([]models.MessageRecord, error) {
	rows, err := mdb.db.QueryContext(ctx, `SELECT reserved, message_id, post_date, post_time, author_name, text, upvote_count, report_count
              FROM messages ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var records []models.MessageRecord
	for rows.Next() {
		cells := make([]sql.NullString, store.MessageRowWidth)
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}

		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		rec, err := store.DecodeMessageRow(row)
		if err != nil {
			log.Printf("MessageDB: skipping undecodable row: %v", err)
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return records, nil
}

// Insert appends a record. A message id that is already logged is ignored.
func (mdb *MessageDB) Insert(ctx context.Context, rec models.MessageRecord) error {
	row := store.EncodeMessageRow(rec)
	query := `INSERT OR IGNORE INTO messages (reserved, message_id, post_date, post_time, author_name, text, upvote_count, report_count)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := mdb.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		row[store.ColReserved],
		row[store.ColID],
		row[store.ColPostDate],
		row[store.ColPostTime],
		row[store.ColAuthorName],
		row[store.ColText],
		nullable(row[store.ColUpvoteCount]),
		nullable(row[store.ColReportCount]),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateByID overwrites the reconciliation columns of the record with the given id.
func (mdb *MessageDB) UpdateByID(ctx context.Context, id string, counts models.ReactionCounts) error {
	res, err := mdb.db.ExecContext(ctx,
		`UPDATE messages SET upvote_count = ?, report_count = ? WHERE message_id = ?`,
		counts.Upvotes, counts.Reports, id)
	if err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for message %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("message %s: %w", id, store.ErrRecordNotFound)
	}
	return nil
}

// Close closes the database connection.
func (mdb *MessageDB) Close() error {
	if mdb.db != nil {
		return mdb.db.Close()
	}
	return nil
}
