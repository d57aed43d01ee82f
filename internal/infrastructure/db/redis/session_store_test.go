package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, ""), mr
}

func testSession(id string) *ports.Session {
	now := time.Now().UTC()
	return &ports.Session{
		ID:           id,
		BackendToken: "backend-jwt",
		User:         domain.User{ID: 12, Username: "mgarcia", Email: "mgarcia@example.com"},
		Cliente:      domain.Cliente{ID: 4, DocumentID: "cli-4", Nombre: "María García"},
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store, mr := newTestStore(t)

	sess := testSession("abc")
	require.NoError(t, store.Create(context.Background(), sess))
	require.True(t, mr.Exists("portal:session:abc"))

	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "backend-jwt", got.BackendToken)
	require.Equal(t, "mgarcia", got.User.Username)
	require.Equal(t, "cli-4", got.Cliente.DocumentID)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSessionStore_Update(t *testing.T) {
	store, _ := newTestStore(t)

	sess := testSession("abc")
	sess.MustChangePassword = true
	require.NoError(t, store.Create(context.Background(), sess))

	sess.MustChangePassword = false
	require.NoError(t, store.Update(context.Background(), sess))

	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	require.False(t, got.MustChangePassword)
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Create(context.Background(), testSession("abc")))
	require.NoError(t, store.Delete(context.Background(), "abc"))

	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting an already-missing session is not an error.
	require.NoError(t, store.Delete(context.Background(), "abc"))
}

func TestSessionStore_TTLFollowsExpiry(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Create(context.Background(), testSession("abc")))
	ttl := mr.TTL("portal:session:abc")
	require.Greater(t, ttl, 59*time.Minute)
	require.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(2 * time.Hour)
	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSessionStore_RejectsExpired(t *testing.T) {
	store, _ := newTestStore(t)

	sess := testSession("abc")
	sess.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	require.Error(t, store.Create(context.Background(), sess))
}
