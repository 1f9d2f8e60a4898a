package class

import (
	"context"
	"database/sql"
	"fmt"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/class"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClassStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, trainer_id, season FROM class WHERE id = ?", id)

	entity, err := scanClass(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Class{}, fmt.Errorf("class not found: %w", err)
	}
	return entity, err
}

// Save persists a Class to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Class) error {
	var trainerID any
	if entity.TrainerID != "" {
		trainerID = entity.TrainerID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO class (id, name, trainer_id, season) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, trainer_id=excluded.trainer_id, season=excluded.season`,
		entity.ID, entity.Name, trainerID, entity.Season)
	return err
}

// Delete removes a Class from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM class WHERE id = ?", id)
	return err
}

// List retrieves all Classes ordered by name.
// POST: Returns all classes
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, trainer_id, season FROM class ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Class
	for rows.Next() {
		entity, err := scanClass(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanClass extracts a Class from a row scanner function.
func scanClass(scan func(dest ...any) error) (domain.Class, error) {
	var entity domain.Class
	var trainerID, season sql.NullString
	if err := scan(&entity.ID, &entity.Name, &trainerID, &season); err != nil {
		return domain.Class{}, err
	}
	entity.TrainerID = trainerID.String
	entity.Season = season.String
	return entity, nil
}
