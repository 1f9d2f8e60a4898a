package trainer

import (
	"context"
	"database/sql"
	"fmt"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/trainer"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TrainerStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Trainer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, status FROM trainer WHERE id = ?", id)

	var entity domain.Trainer
	err := row.Scan(&entity.ID, &entity.Name, &entity.Phone, &entity.Status)
	if err == sql.ErrNoRows {
		return domain.Trainer{}, fmt.Errorf("trainer not found: %w", err)
	}
	return entity, err
}

// Save persists a Trainer to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Trainer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trainer (id, name, phone, status) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, phone=excluded.phone, status=excluded.status`,
		entity.ID, entity.Name, entity.Phone, entity.Status)
	return err
}

// Delete removes a Trainer from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trainer WHERE id = ?", id)
	return err
}

// List retrieves all Trainers ordered by name.
// POST: Returns all trainers
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Trainer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, phone, status FROM trainer ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainer
	for rows.Next() {
		var entity domain.Trainer
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.Phone, &entity.Status); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
