package attendance

import (
	"context"

	domain "courtside/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Attendance, error)
	Save(ctx context.Context, value domain.Attendance) error
	Delete(ctx context.Context, id string) error
	ListByTrainee(ctx context.Context, traineeID string) ([]domain.Attendance, error)
	ListByDate(ctx context.Context, classDate string) ([]domain.Attendance, error)
}
