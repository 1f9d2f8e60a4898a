package payment

import (
	"context"

	domain "courtside/internal/domain/payment"
)

// Store persists Payment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	Save(ctx context.Context, value domain.Payment) error
	Delete(ctx context.Context, id string) error
	ListByTrainee(ctx context.Context, traineeID string) ([]domain.Payment, error)
	ListByMonth(ctx context.Context, month string) ([]domain.Payment, error)
}
