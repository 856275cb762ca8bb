package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ergosanitas/internal/adapters/storage"
)

// SQLiteStore implements Store over the document table and records every
// write in document_change for other views to pick up.
type SQLiteStore struct {
	db     storage.SQLDB
	origin string
}

// NewSQLiteStore creates a view with a fresh origin.
// PRE: storage.MigrateDB has run against db
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, origin: uuid.NewString()}
}

// Origin identifies this view in change records.
func (s *SQLiteStore) Origin() string { return s.origin }

// Read retrieves the document at key.
// PRE: key is non-empty
// POST: found is false when no row exists
func (s *SQLiteStore) Read(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM document WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Write upserts the document and appends a change record in one transaction.
// PRE: key is non-empty
// POST: document row holds value; one change row appended
func (s *SQLiteStore) Write(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO document (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		return s.logChange(ctx, tx, key, value, false, now)
	})
}

// Remove deletes the document; a change is logged only when a row existed.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM document WHERE key = ?", key)
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return s.logChange(ctx, tx, key, "", true, now)
	})
}

// PruneChanges deletes change records older than before.
// POST: returns the number of rows deleted
func (s *SQLiteStore) PruneChanges(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM document_change WHERE changed_at < ?",
		before.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to prune changes: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) logChange(ctx context.Context, tx *sql.Tx, key, value string, removed bool, at string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO document_change (key, value, removed, origin, changed_at)
		VALUES (?, ?, ?, ?, ?)`, key, value, boolToInt(removed), s.origin, at)
	if err != nil {
		return fmt.Errorf("failed to log change for %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DefaultPollInterval is how often SQLiteStore.Watch scans the change log.
const DefaultPollInterval = 500 * time.Millisecond

// Watch polls document_change for rows written by other origins.
// Only changes committed after Watch starts are delivered.
func (s *SQLiteStore) Watch(ctx context.Context, fn func(Change)) error {
	return s.WatchEvery(ctx, DefaultPollInterval, fn)
}

// WatchEvery is Watch with an explicit poll interval.
func (s *SQLiteStore) WatchEvery(ctx context.Context, interval time.Duration, fn func(Change)) error {
	var last int64
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM document_change").Scan(&last); err != nil {
		return fmt.Errorf("failed to read change cursor: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			changes, next, err := s.changesSince(ctx, last)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("storage_event", "event", "change_poll_failed", "error", err)
				continue
			}
			last = next
			for _, c := range changes {
				fn(c)
			}
		}
	}
}

func (s *SQLiteStore) changesSince(ctx context.Context, seq int64) ([]Change, int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, key, value, removed, origin, changed_at
		FROM document_change WHERE seq > ? ORDER BY seq`, seq)
	if err != nil {
		return nil, seq, err
	}
	defer rows.Close()

	var out []Change
	last := seq
	for rows.Next() {
		var (
			c       Change
			removed int
			at      string
		)
		if err := rows.Scan(&last, &c.Key, &c.Value, &removed, &c.Origin, &at); err != nil {
			return nil, seq, err
		}
		if c.Origin == s.origin {
			continue
		}
		c.Removed = removed != 0
		c.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, c)
	}
	return out, last, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
