package ports

import (
	"context"
	"time"

	"github.com/rackledger/inventory/internal/core/domain"
)

// Repository persists one entity kind. Missing rows are reported as
// domain.ErrNotFound.
type Repository[T any] interface {
	// List returns every row in insertion order. A non-empty query keeps only
	// rows where any searchable column contains it, ignoring case.
	List(ctx context.Context, query string) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, entity *T) error
	// Update writes only the given columns of entity.
	Update(ctx context.Context, entity *T, columns []string) error
}

// UserRepository is the credential store.
type UserRepository interface {
	Repository[domain.User]
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// HistoryRepository is the append-only audit log.
type HistoryRepository interface {
	// Append assigns entry.ID and stores the row.
	Append(ctx context.Context, entry *domain.History) error
	// List returns the rows of one target, newest first.
	List(ctx context.Context, targetType domain.TargetType, targetID uint) ([]domain.History, error)
}

// TokenDenylist remembers revoked token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
