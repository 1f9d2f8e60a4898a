package importlog

import (
	"context"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/importlog"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new import log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save appends an import audit entry. Entries are never updated.
// PRE: entry.ID is non-empty
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, entry domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_log
		 (id, table_key, file_name, total_rows, created_count, updated_count, failed_count, imported_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.TableKey, entry.FileName,
		entry.TotalRows, entry.CreatedCount, entry.UpdatedCount, entry.FailedCount,
		entry.ImportedBy, entry.CreatedAt.Format(timeLayout))
	return err
}

// List returns the most recent import entries, newest first.
// PRE: limit > 0
// POST: Returns at most limit entries
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, table_key, file_name, total_rows, created_count, updated_count, failed_count, imported_by, created_at
		 FROM import_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		var entry domain.Entry
		var createdAt string
		if err := rows.Scan(
			&entry.ID, &entry.TableKey, &entry.FileName,
			&entry.TotalRows, &entry.CreatedCount, &entry.UpdatedCount, &entry.FailedCount,
			&entry.ImportedBy, &createdAt,
		); err != nil {
			return nil, err
		}
		entry.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		results = append(results, entry)
	}
	return results, rows.Err()
}
