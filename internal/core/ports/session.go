package ports

import (
	"context"
	"time"

	"github.com/costasur/portal-clientes/internal/core/domain"
)

// Session is the server-side session record. The backend token never leaves
// the server; browsers only hold the opaque portal token referencing it.
type Session struct {
	ID                 string         `json:"id"`
	BackendToken       string         `json:"backend_token"`
	User               domain.User    `json:"user"`
	Cliente            domain.Cliente `json:"cliente"`
	MustChangePassword bool           `json:"must_change_password"`
	CreatedAt          time.Time      `json:"created_at"`
	ExpiresAt          time.Time      `json:"expires_at"`
}

// SessionStore persists sessions durably across portal restarts.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type LoginOutput struct {
	Token              string
	User               domain.User
	Cliente            domain.Cliente
	MustChangePassword bool
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type SessionService interface {
	Login(ctx context.Context, identifier, password string) (*LoginOutput, error)
	// Resolve validates a portal token, loads its session, and revalidates the
	// backend token by fetching the current user. A session that fails
	// revalidation is destroyed and reported as not authenticated.
	Resolve(ctx context.Context, portalToken string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	UpdatePassword(ctx context.Context, sess *Session, in ChangePasswordInput) error
}
