package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/payment"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PaymentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const paymentColumns = "id, trainee_id, amount, month, method, paid_at"

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE id = ?", id)

	entity, err := scanPayment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	return entity, err
}

// Save persists a Payment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	var paidAt any
	if !entity.PaidAt.IsZero() {
		paidAt = entity.PaidAt.Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   trainee_id=excluded.trainee_id, amount=excluded.amount, month=excluded.month,
		   method=excluded.method, paid_at=excluded.paid_at`,
		entity.ID, entity.TraineeID, entity.Amount, entity.Month,
		entity.Method, paidAt)
	return err
}

// Delete removes a Payment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM payment WHERE id = ?", id)
	return err
}

// ListByTrainee retrieves all payments by one trainee, newest month first.
// PRE: traineeID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListByTrainee(ctx context.Context, traineeID string) ([]domain.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE trainee_id = ? ORDER BY month DESC", traineeID)
}

// ListByMonth retrieves all payments for one billing month.
// PRE: month is in YYYY-MM format
// POST: Returns matching entities
func (s *SQLiteStore) ListByMonth(ctx context.Context, month string) ([]domain.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE month = ? ORDER BY trainee_id", month)
}

func (s *SQLiteStore) queryPayments(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		entity, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanPayment extracts a Payment from a row scanner function.
func scanPayment(scan func(dest ...any) error) (domain.Payment, error) {
	var entity domain.Payment
	var method, paidAt sql.NullString
	if err := scan(&entity.ID, &entity.TraineeID, &entity.Amount, &entity.Month, &method, &paidAt); err != nil {
		return domain.Payment{}, err
	}
	entity.Method = method.String
	if paidAt.Valid && paidAt.String != "" {
		entity.PaidAt, _ = time.Parse(timeLayout, paidAt.String)
	}
	return entity, nil
}
