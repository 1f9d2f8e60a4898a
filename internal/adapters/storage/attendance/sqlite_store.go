package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AttendanceStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Attendance by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Attendance, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, trainee_id, class_date, present FROM attendance WHERE id = ?", id)

	entity, err := scanAttendance(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Attendance{}, fmt.Errorf("attendance not found: %w", err)
	}
	return entity, err
}

// Save persists an Attendance to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Attendance) error {
	present := 0
	if entity.Present {
		present = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (id, trainee_id, class_date, present) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   trainee_id=excluded.trainee_id, class_date=excluded.class_date, present=excluded.present`,
		entity.ID, entity.TraineeID, entity.ClassDate, present)
	return err
}

// Delete removes an Attendance from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = ?", id)
	return err
}

// ListByTrainee retrieves all attendance rows for one trainee, newest first.
// PRE: traineeID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByTrainee(ctx context.Context, traineeID string) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx,
		"SELECT id, trainee_id, class_date, present FROM attendance WHERE trainee_id = ? ORDER BY class_date DESC", traineeID)
}

// ListByDate retrieves all attendance rows for one session date.
// PRE: classDate is in YYYY-MM-DD format
// POST: Returns matching entities
func (s *SQLiteStore) ListByDate(ctx context.Context, classDate string) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx,
		"SELECT id, trainee_id, class_date, present FROM attendance WHERE class_date = ? ORDER BY trainee_id", classDate)
}

func (s *SQLiteStore) queryAttendance(ctx context.Context, query string, args ...any) ([]domain.Attendance, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Attendance
	for rows.Next() {
		entity, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAttendance extracts an Attendance from a row scanner function.
func scanAttendance(scan func(dest ...any) error) (domain.Attendance, error) {
	var entity domain.Attendance
	var present int
	if err := scan(&entity.ID, &entity.TraineeID, &entity.ClassDate, &present); err != nil {
		return domain.Attendance{}, err
	}
	entity.Present = present != 0
	return entity, nil
}
