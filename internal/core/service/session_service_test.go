package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

const testSecret = "test-secret"

type stubGateway struct {
	loginResult *ports.LoginResult
	loginErr    error
	loginCalls  int

	currentUser domain.Entity
	currentErr  error

	changeErr   error
	changeCalls int

	obras    []domain.Entity
	obrasErr error

	departamentos      []domain.Entity
	departamentosCalls int

	consultaErr   error
	consultaData  map[string]any
	consultaCalls int
}

func (g *stubGateway) Login(_ context.Context, _, _ string) (*ports.LoginResult, error) {
	g.loginCalls++
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	return g.loginResult, nil
}

func (g *stubGateway) CurrentUser(_ context.Context, _ string) (domain.Entity, error) {
	if g.currentErr != nil {
		return nil, g.currentErr
	}
	return g.currentUser, nil
}

func (g *stubGateway) ChangePassword(_ context.Context, _, _, _, _ string) error {
	g.changeCalls++
	return g.changeErr
}

func (g *stubGateway) ListObras(_ context.Context, _ string) ([]domain.Entity, error) {
	return g.obras, g.obrasErr
}

func (g *stubGateway) ListDepartamentos(_ context.Context, _ string) ([]domain.Entity, error) {
	g.departamentosCalls++
	return g.departamentos, nil
}

func (g *stubGateway) CreateConsulta(_ context.Context, _ string, data map[string]any) (domain.Entity, error) {
	g.consultaCalls++
	g.consultaData = data
	if g.consultaErr != nil {
		return nil, g.consultaErr
	}
	return domain.Entity{"id": float64(1)}, nil
}

type memStore struct {
	sessions map[string]*ports.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*ports.Session)}
}

func (m *memStore) Create(_ context.Context, s *ports.Session) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*ports.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, s *ports.Session) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type recordedActivity struct {
	events []ports.ActivityEvent
}

func (r *recordedActivity) Publish(event ports.ActivityEvent) {
	r.events = append(r.events, event)
}

func backendUser(mustChange bool) domain.Entity {
	return domain.Entity{
		"id":                 float64(12),
		"username":           "mgarcia",
		"email":              "mgarcia@example.com",
		"mustChangePassword": mustChange,
		"cliente": map[string]any{
			"id":         float64(4),
			"documentId": "cli-4",
			"nombre":     "María García",
			"email":      "mgarcia@example.com",
		},
	}
}

func newSessionService(g *stubGateway, store ports.SessionStore, act ports.ActivityPublisher) *SessionService {
	return NewSessionService(g, store, act, testSecret, time.Hour, zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	gw := &stubGateway{loginResult: &ports.LoginResult{Token: "backend-jwt", User: backendUser(false)}}
	store := newMemStore()
	act := &recordedActivity{}
	svc := newSessionService(gw, store, act)

	out, err := svc.Login(context.Background(), "mgarcia", "secreta123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected a portal token")
	}
	if out.Token == "backend-jwt" {
		t.Fatal("backend token must not be handed to the client")
	}
	if out.User.Username != "mgarcia" || out.User.ID != 12 {
		t.Fatalf("unexpected user: %+v", out.User)
	}
	if out.Cliente.DocumentID != "cli-4" || out.Cliente.Nombre != "María García" {
		t.Fatalf("unexpected cliente: %+v", out.Cliente)
	}
	if out.MustChangePassword {
		t.Fatal("flag should be clear")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(store.sessions))
	}
	for _, sess := range store.sessions {
		if sess.BackendToken != "backend-jwt" {
			t.Fatalf("session must keep the backend token, got %q", sess.BackendToken)
		}
	}
	if len(act.events) != 1 || act.events[0].Type != ports.ActivityLogin {
		t.Fatalf("expected one login event, got %v", act.events)
	}
}

func TestLogin_MustChangePasswordPropagates(t *testing.T) {
	gw := &stubGateway{loginResult: &ports.LoginResult{Token: "backend-jwt", User: backendUser(true)}}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})

	out, err := svc.Login(context.Background(), "mgarcia", "secreta123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.MustChangePassword {
		t.Fatal("expected the mandatory-change flag to propagate")
	}
}

func TestLogin_PlaceholderClienteWhenUnlinked(t *testing.T) {
	user := domain.Entity{"id": float64(7), "username": "nolink", "email": "n@example.com"}
	gw := &stubGateway{loginResult: &ports.LoginResult{Token: "t", User: user}}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})

	out, err := svc.Login(context.Background(), "nolink", "secreta123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Cliente.DocumentID != "user-7" {
		t.Fatalf("expected placeholder cliente, got %+v", out.Cliente)
	}
	if out.Cliente.Nombre != "nolink" {
		t.Fatalf("placeholder should carry the username, got %q", out.Cliente.Nombre)
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	gw := &stubGateway{}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if gw.loginCalls != 0 {
		t.Fatal("empty credentials must not reach the backend")
	}
}

func TestLogin_BackendRejectionKeepsMessage(t *testing.T) {
	backendErr := &domain.BackendError{StatusCode: 400, Name: "ValidationError", Message: "Invalid identifier or password"}
	gw := &stubGateway{loginErr: backendErr}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})

	_, err := svc.Login(context.Background(), "mgarcia", "wrong")
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Message != "Invalid identifier or password" {
		t.Fatalf("backend message must survive verbatim, got %q", be.Message)
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	gw := &stubGateway{
		loginResult: &ports.LoginResult{Token: "backend-jwt", User: backendUser(false)},
		currentUser: backendUser(false),
	}
	store := newMemStore()
	svc := newSessionService(gw, store, &recordedActivity{})

	out, err := svc.Login(context.Background(), "mgarcia", "secreta123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sess, err := svc.Resolve(context.Background(), out.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sess.User.Username != "mgarcia" || sess.BackendToken != "backend-jwt" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestResolve_RefreshesFlagFromBackend(t *testing.T) {
	gw := &stubGateway{
		loginResult: &ports.LoginResult{Token: "backend-jwt", User: backendUser(false)},
		currentUser: backendUser(true),
	}
	store := newMemStore()
	svc := newSessionService(gw, store, &recordedActivity{})

	out, _ := svc.Login(context.Background(), "mgarcia", "secreta123")
	sess, err := svc.Resolve(context.Background(), out.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !sess.MustChangePassword {
		t.Fatal("flag flipped server-side must be picked up on resolve")
	}
}

func TestResolve_GarbageToken(t *testing.T) {
	svc := newSessionService(&stubGateway{}, newMemStore(), &recordedActivity{})
	if _, err := svc.Resolve(context.Background(), "not-a-jwt"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestResolve_BackendRejectionDestroysSession(t *testing.T) {
	gw := &stubGateway{
		loginResult: &ports.LoginResult{Token: "backend-jwt", User: backendUser(false)},
		currentErr:  &domain.BackendError{StatusCode: 401, Name: "UnauthorizedError", Message: "Missing or invalid credentials"},
	}
	store := newMemStore()
	svc := newSessionService(gw, store, &recordedActivity{})

	out, _ := svc.Login(context.Background(), "mgarcia", "secreta123")
	if _, err := svc.Resolve(context.Background(), out.Token); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected degradation to ErrNotAuthenticated, got %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatal("session must be destroyed when revalidation fails")
	}
}

func TestLogout(t *testing.T) {
	gw := &stubGateway{loginResult: &ports.LoginResult{Token: "backend-jwt", User: backendUser(false)}}
	store := newMemStore()
	act := &recordedActivity{}
	svc := newSessionService(gw, store, act)

	_, _ = svc.Login(context.Background(), "mgarcia", "secreta123")
	var sid string
	for id := range store.sessions {
		sid = id
	}

	if err := svc.Logout(context.Background(), sid); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatal("session should be gone")
	}
	if len(act.events) != 2 || act.events[1].Type != ports.ActivityLogout {
		t.Fatalf("expected a logout event, got %v", act.events)
	}
}

func TestLogout_UnknownSessionIsQuiet(t *testing.T) {
	svc := newSessionService(&stubGateway{}, newMemStore(), &recordedActivity{})
	if err := svc.Logout(context.Background(), "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePassword_MismatchBeforeNetwork(t *testing.T) {
	gw := &stubGateway{}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})
	sess := &ports.Session{ID: "s1", BackendToken: "t", User: domain.User{ID: 1, Username: "u"}}

	err := svc.UpdatePassword(context.Background(), sess, ports.ChangePasswordInput{
		CurrentPassword: "vieja1234",
		NewPassword:     "nueva1234",
		ConfirmPassword: "distinta",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "confirmPassword" {
		t.Fatalf("expected confirmPassword validation error, got %v", err)
	}
	if gw.changeCalls != 0 {
		t.Fatal("validation must run before any backend call")
	}
}

func TestUpdatePassword_TooShort(t *testing.T) {
	gw := &stubGateway{}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})
	sess := &ports.Session{ID: "s1", BackendToken: "t"}

	err := svc.UpdatePassword(context.Background(), sess, ports.ChangePasswordInput{
		CurrentPassword: "vieja1234",
		NewPassword:     "corta",
		ConfirmPassword: "corta",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "newPassword" {
		t.Fatalf("expected newPassword validation error, got %v", err)
	}
	if gw.changeCalls != 0 {
		t.Fatal("validation must run before any backend call")
	}
}

func TestUpdatePassword_ClearsMandatoryFlag(t *testing.T) {
	gw := &stubGateway{}
	store := newMemStore()
	act := &recordedActivity{}
	svc := newSessionService(gw, store, act)

	sess := &ports.Session{
		ID:                 "s1",
		BackendToken:       "t",
		User:               domain.User{ID: 1, Username: "u", MustChangePassword: true},
		MustChangePassword: true,
	}
	_ = store.Create(context.Background(), sess)

	err := svc.UpdatePassword(context.Background(), sess, ports.ChangePasswordInput{
		CurrentPassword: "vieja1234",
		NewPassword:     "nueva1234",
		ConfirmPassword: "nueva1234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.changeCalls != 1 {
		t.Fatalf("expected one backend call, got %d", gw.changeCalls)
	}
	if sess.MustChangePassword || sess.User.MustChangePassword {
		t.Fatal("flag must clear after a successful change")
	}
	stored, _ := store.Get(context.Background(), "s1")
	if stored.MustChangePassword {
		t.Fatal("cleared flag must be persisted")
	}
	if len(act.events) != 1 || act.events[0].Type != ports.ActivityPasswordChange {
		t.Fatalf("expected a password_change event, got %v", act.events)
	}
}

func TestUpdatePassword_BackendRejection(t *testing.T) {
	backendErr := &domain.BackendError{StatusCode: 400, Name: "ValidationError", Message: "The provided current password is invalid"}
	gw := &stubGateway{changeErr: backendErr}
	svc := newSessionService(gw, newMemStore(), &recordedActivity{})
	sess := &ports.Session{ID: "s1", BackendToken: "t", MustChangePassword: true}

	err := svc.UpdatePassword(context.Background(), sess, ports.ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "nueva1234",
		ConfirmPassword: "nueva1234",
	})
	var be *domain.BackendError
	if !errors.As(err, &be) || be.Message != "The provided current password is invalid" {
		t.Fatalf("expected verbatim backend error, got %v", err)
	}
	if !sess.MustChangePassword {
		t.Fatal("flag must not clear on failure")
	}
}

func TestUpdatePassword_NilSession(t *testing.T) {
	svc := newSessionService(&stubGateway{}, newMemStore(), &recordedActivity{})
	err := svc.UpdatePassword(context.Background(), nil, ports.ChangePasswordInput{})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestClienteFromEntity_WrappedShapes(t *testing.T) {
	wrapped := map[string]any{
		"data": map[string]any{
			"id": float64(4),
			"attributes": map[string]any{
				"documentId": "cli-4",
				"nombre":     "María García",
				"obras": map[string]any{"data": []any{
					map[string]any{"id": float64(1), "documentId": "ob-1"},
				}},
			},
		},
	}

	cliente, ok := clienteFromEntity(wrapped)
	if !ok {
		t.Fatal("expected wrapped cliente to project")
	}
	if cliente.ID != 4 || cliente.DocumentID != "cli-4" || cliente.Nombre != "María García" {
		t.Fatalf("unexpected cliente: %+v", cliente)
	}
	if len(cliente.Obras) != 1 {
		t.Fatalf("expected embedded obras relation, got %v", cliente.Obras)
	}
}
