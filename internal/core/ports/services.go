package ports

import (
	"context"
	"time"

	"github.com/rackledger/inventory/internal/core/changelog"
	"github.com/rackledger/inventory/internal/core/domain"
)

// ResourceService is the uniform contract of every inventory collection.
type ResourceService[T any] interface {
	List(ctx context.Context, query string) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, entity *T, actor string) (*T, error)
	Update(ctx context.Context, id uint, patch changelog.Patch, actor string) (*T, error)
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	Subject   string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	Type      string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles login, per-request authentication and logout.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*AccessToken, error)
	Authenticate(ctx context.Context, token string) (*domain.User, TokenClaims, error)
	Logout(ctx context.Context, claims TokenClaims) error
}

// SettingsService lets a caller read and edit their own account.
type SettingsService interface {
	Me(ctx context.Context, username string) (*domain.User, error)
	UpdateMe(ctx context.Context, username string, patch changelog.Patch) (*domain.User, error)
}

// HistoryService reads the audit log.
type HistoryService interface {
	List(ctx context.Context, targetType domain.TargetType, targetID uint) ([]domain.History, error)
}
