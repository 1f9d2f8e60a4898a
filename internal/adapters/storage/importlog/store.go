package importlog

import (
	"context"

	domain "courtside/internal/domain/importlog"
)

// Store persists import audit entries.
type Store interface {
	Save(ctx context.Context, entry domain.Entry) error
	List(ctx context.Context, limit int) ([]domain.Entry, error)
}
