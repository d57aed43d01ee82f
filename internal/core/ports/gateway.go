package ports

import (
	"context"

	"github.com/costasur/portal-clientes/internal/core/domain"
)

// LoginResult carries the backend-issued token and the raw user record,
// which may embed a populated cliente relation.
type LoginResult struct {
	Token string
	User  domain.Entity
}

// ContentGateway is the portal's view of the content backend. Implementations
// attach the bearer token per request and translate non-2xx responses into
// domain errors; they never reshape record contents, that is the normalize
// package's job.
type ContentGateway interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, token string) (domain.Entity, error)
	ChangePassword(ctx context.Context, token, currentPassword, newPassword, confirmPassword string) error
	ListObras(ctx context.Context, token string) ([]domain.Entity, error)
	ListDepartamentos(ctx context.Context, token string) ([]domain.Entity, error)
	CreateConsulta(ctx context.Context, token string, data map[string]any) (domain.Entity, error)
}
