package notice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/notice"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const noticeColumns = `id, type, status, title, content, created_by, target_id, created_at, updated_at`

// GetByID retrieves a notice by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noticeColumns+` FROM notice WHERE id = ?`, id)
	entity, err := scanNotice(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Notice{}, fmt.Errorf("notice not found: %w", err)
	}
	return entity, err
}

// Save inserts or updates a notice.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, n domain.Notice) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notice (`+noticeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type=excluded.type, status=excluded.status, title=excluded.title,
		   content=excluded.content, created_by=excluded.created_by,
		   target_id=excluded.target_id, updated_at=excluded.updated_at`,
		n.ID, n.Type, n.Status, n.Title, n.Content, n.CreatedBy,
		nullableString(n.TargetID),
		n.CreatedAt.Format(timeLayout), nullableTime(n.UpdatedAt))
	return err
}

// Delete removes a notice by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notice WHERE id = ?`, id)
	return err
}

// List returns notices matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching notices ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notice WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.TargetID != "" {
		query += ` AND target_id = ?`
		args = append(args, filter.TargetID)
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Notice
	for rows.Next() {
		entity, err := scanNotice(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanNotice extracts a Notice from a row scanner function.
func scanNotice(scan func(dest ...any) error) (domain.Notice, error) {
	var entity domain.Notice
	var targetID, updatedAt sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Type,
		&entity.Status,
		&entity.Title,
		&entity.Content,
		&entity.CreatedBy,
		&targetID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Notice{}, err
	}
	if targetID.Valid {
		entity.TargetID = targetID.String
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return entity, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
