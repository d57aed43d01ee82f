package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/normalize"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

const minPasswordLength = 8

// SessionService owns the portal session lifecycle: login against the content
// backend, server-side session persistence, per-request revalidation, and
// password changes.
type SessionService struct {
	gateway  ports.ContentGateway
	store    ports.SessionStore
	activity ports.ActivityPublisher
	secret   string
	ttl      time.Duration
	log      zerolog.Logger
}

func NewSessionService(
	gateway ports.ContentGateway,
	store ports.SessionStore,
	activity ports.ActivityPublisher,
	secret string,
	ttl time.Duration,
	log zerolog.Logger,
) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		gateway:  gateway,
		store:    store,
		activity: activity,
		secret:   secret,
		ttl:      ttl,
		log:      log,
	}
}

// Login authenticates against the backend, persists a server-side session and
// returns a signed portal token referencing it. Backend rejections propagate
// with the backend's message intact; the caller owns user-visible wording.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (*ports.LoginOutput, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.gateway.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	user := userFromEntity(result.User)
	cliente, ok := clienteFromEntity(result.User["cliente"])
	if !ok {
		cliente = domain.PlaceholderCliente(user)
	}

	now := time.Now().UTC()
	sess := &ports.Session{
		ID:                 uuid.NewString(),
		BackendToken:       result.Token,
		User:               user,
		Cliente:            cliente,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          now,
		ExpiresAt:          now.Add(s.ttl),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.signToken(sess)
	if err != nil {
		return nil, err
	}

	s.activity.Publish(ports.ActivityEvent{
		Type:              ports.ActivityLogin,
		UserID:            user.ID,
		Username:          user.Username,
		ClienteDocumentID: cliente.DocumentID,
		OccurredAt:        now,
	})
	s.log.Info().Str("username", user.Username).Bool("must_change_password", sess.MustChangePassword).Msg("login")

	return &ports.LoginOutput{
		Token:              token,
		User:               user,
		Cliente:            cliente,
		MustChangePassword: sess.MustChangePassword,
	}, nil
}

// Resolve validates the portal token, loads the session, and revalidates the
// backend token by re-fetching the current user. Any failure destroys the
// session and degrades to signed-out instead of surfacing the cause.
func (s *SessionService) Resolve(ctx context.Context, portalToken string) (*ports.Session, error) {
	sid, err := s.parseToken(portalToken)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	sess, err := s.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrNotAuthenticated
	}

	current, err := s.gateway.CurrentUser(ctx, sess.BackendToken)
	if err != nil {
		s.log.Debug().Err(err).Str("session_id", sid).Msg("backend token rejected, destroying session")
		_ = s.store.Delete(ctx, sid)
		return nil, domain.ErrNotAuthenticated
	}

	// Refresh the snapshot: the flag or the cliente relation may have changed
	// server-side since login.
	user := userFromEntity(current)
	sess.User = user
	sess.MustChangePassword = user.MustChangePassword
	if cliente, ok := clienteFromEntity(current["cliente"]); ok {
		sess.Cliente = cliente
	}
	if err := s.store.Update(ctx, sess); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("session refresh not persisted")
	}

	return sess, nil
}

// Logout destroys the server-side session. The backend token itself remains
// valid until its own expiry; invalidation is purely local.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	if sess != nil {
		s.activity.Publish(ports.ActivityEvent{
			Type:       ports.ActivityLogout,
			UserID:     sess.User.ID,
			Username:   sess.User.Username,
			OccurredAt: time.Now().UTC(),
		})
	}
	return nil
}

// UpdatePassword validates the form constraints locally, forwards the change
// to the backend, and clears the mandatory-change flag on success. Validation
// happens before any network call.
func (s *SessionService) UpdatePassword(ctx context.Context, sess *ports.Session, in ports.ChangePasswordInput) error {
	if sess == nil {
		return domain.ErrNotAuthenticated
	}
	if in.NewPassword != in.ConfirmPassword {
		return &domain.ValidationError{Field: "confirmPassword", Reason: "las contraseñas no coinciden"}
	}
	if len(in.NewPassword) < minPasswordLength {
		return &domain.ValidationError{Field: "newPassword", Reason: "debe tener al menos 8 caracteres"}
	}

	if err := s.gateway.ChangePassword(ctx, sess.BackendToken, in.CurrentPassword, in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}

	if sess.MustChangePassword {
		sess.MustChangePassword = false
		sess.User.MustChangePassword = false
		if err := s.store.Update(ctx, sess); err != nil {
			s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("flag clear not persisted")
		}
	}

	s.activity.Publish(ports.ActivityEvent{
		Type:       ports.ActivityPasswordChange,
		UserID:     sess.User.ID,
		Username:   sess.User.Username,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *SessionService) signToken(sess *ports.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":      sess.ID,
		"username": sess.User.Username,
		"exp":      sess.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

func (s *SessionService) parseToken(portalToken string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(portalToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return "", jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid portal token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("token missing session id")
	}
	return sid, nil
}

// userFromEntity projects a raw backend user record, tolerating the usual
// nesting variants.
func userFromEntity(e domain.Entity) domain.User {
	id, _ := normalize.NumericID(e)
	username := firstString(e, "username", "attributes.username")
	email := firstString(e, "email", "attributes.email")
	must, _ := normalize.LookupOr(e, "mustChangePassword", normalize.Lookup(e, "attributes.mustChangePassword")).(bool)
	return domain.User{
		ID:                 id,
		Username:           username,
		Email:              email,
		MustChangePassword: must,
	}
}

// clienteFromEntity projects an embedded cliente relation, whether flat or
// wrapped in data/attributes.
func clienteFromEntity(rel any) (domain.Cliente, bool) {
	if rel == nil {
		return domain.Cliente{}, false
	}
	if inner := normalize.Lookup(rel, "data"); inner != nil {
		rel = inner
	}
	m, ok := rel.(map[string]any)
	if !ok {
		return domain.Cliente{}, false
	}
	flat := normalize.Unwrap(domain.Entity(m))

	id, _ := normalize.NumericID(m)
	cliente := domain.Cliente{
		ID:         id,
		DocumentID: normalize.DocumentID(m),
		Nombre:     normalize.String(flat, "nombre"),
		Email:      normalize.String(flat, "email"),
		Telefono:   normalize.String(flat, "telefono"),
		Direccion:  normalize.String(flat, "direccion"),
	}
	if obras, ok := flat["obras"].([]any); ok {
		for _, o := range obras {
			if om, ok := o.(map[string]any); ok {
				cliente.Obras = append(cliente.Obras, domain.Entity(om))
			}
		}
	} else if data, ok := normalize.Lookup(flat["obras"], "data").([]any); ok {
		for _, o := range data {
			if om, ok := o.(map[string]any); ok {
				cliente.Obras = append(cliente.Obras, domain.Entity(om))
			}
		}
	}
	return cliente, true
}

func firstString(e domain.Entity, paths ...string) string {
	for _, p := range paths {
		if s := normalize.String(e, p); s != "" {
			return s
		}
	}
	return ""
}
