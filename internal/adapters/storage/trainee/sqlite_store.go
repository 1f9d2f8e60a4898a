package trainee

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/trainee"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TraineeStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const traineeColumns = "id, name_ar, name_en, phone, birth_date, class_id, monthly_fee, status"

// GetByID retrieves a Trainee by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Trainee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+traineeColumns+" FROM trainee WHERE id = ?", id)

	entity, err := scanTrainee(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Trainee{}, fmt.Errorf("trainee not found: %w", err)
	}
	return entity, err
}

// Save persists a Trainee to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Trainee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Upsert implementation
	fields := []string{"id", "name_ar", "name_en", "phone", "birth_date", "class_id", "monthly_fee", "status"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"name_ar=excluded.name_ar",
		"name_en=excluded.name_en",
		"phone=excluded.phone",
		"birth_date=excluded.birth_date",
		"class_id=excluded.class_id",
		"monthly_fee=excluded.monthly_fee",
		"status=excluded.status",
	}

	query := fmt.Sprintf(
		"INSERT INTO trainee (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var classID any
	if entity.ClassID != "" {
		classID = entity.ClassID
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.NameAr,
		entity.NameEn,
		entity.Phone,
		entity.BirthDate,
		classID,
		entity.MonthlyFee,
		entity.Status,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Trainee from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trainee WHERE id = ?", id)
	return err
}

// List retrieves Trainees based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by Arabic name
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Trainee, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + traineeColumns + " FROM trainee" + where + " ORDER BY name_ar"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainee
	for rows.Next() {
		entity, err := scanTrainee(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of trainees matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching count
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trainee"+where, args...).Scan(&count)
	return count, err
}

// SearchByName finds trainees whose name matches the query (case-insensitive LIKE).
// PRE: query is non-empty, limit > 0
// POST: Returns matching trainees ordered by Arabic name
func (s *SQLiteStore) SearchByName(ctx context.Context, query string, limit int) ([]domain.Trainee, error) {
	q := "SELECT " + traineeColumns + " FROM trainee WHERE (name_ar LIKE ? OR name_en LIKE ?) AND status != 'inactive' ORDER BY name_ar LIMIT ?"
	term := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, q, term, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainee
	for rows.Next() {
		entity, err := scanTrainee(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.ClassID != "" {
		where += " AND class_id = ?"
		args = append(args, filter.ClassID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (name_ar LIKE ? OR name_en LIKE ? OR phone LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	return where, args
}

// scanTrainee extracts a Trainee from a row scanner function.
func scanTrainee(scan func(dest ...any) error) (domain.Trainee, error) {
	var entity domain.Trainee
	var nameEn, phone, birthDate, classID sql.NullString
	var monthlyFee sql.NullFloat64
	err := scan(
		&entity.ID,
		&entity.NameAr,
		&nameEn,
		&phone,
		&birthDate,
		&classID,
		&monthlyFee,
		&entity.Status,
	)
	if err != nil {
		return domain.Trainee{}, err
	}
	entity.NameEn = nameEn.String
	entity.Phone = phone.String
	entity.BirthDate = birthDate.String
	entity.ClassID = classID.String
	entity.MonthlyFee = monthlyFee.Float64
	return entity, nil
}
