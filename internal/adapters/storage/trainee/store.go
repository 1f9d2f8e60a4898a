package trainee

import (
	"context"

	domain "courtside/internal/domain/trainee"
)

// Store persists Trainee state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Trainee, error)
	Save(ctx context.Context, value domain.Trainee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Trainee, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	SearchByName(ctx context.Context, query string, limit int) ([]domain.Trainee, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit   int
	Offset  int
	ClassID string
	Status  string
	Search  string
}
