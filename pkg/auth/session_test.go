package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/parfum-storefront/pkg/storage"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()

	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewSessionStore(storage.NewSlot(fs, "auth-session"))
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionStore_LoggedOutByDefault(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Nil(t, store.Current(ctx))
	assert.Empty(t, store.Token(ctx))
}

func TestSessionStore_SaveAndToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(ctx, Session{Token: token, Username: "aliya"}))

	session := store.Current(ctx)
	require.NotNil(t, session)
	assert.Equal(t, "aliya", session.Username)
	assert.Equal(t, token, store.Token(ctx))
}

func TestSessionStore_ExpiredTokenNotForwarded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token := signedToken(t, time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(ctx, Session{Token: token}))

	assert.Empty(t, store.Token(ctx), "expired token must not be attached")
	assert.NotNil(t, store.Current(ctx), "session record itself remains until logout")
}

func TestSessionStore_OpaqueTokenForwardedAsIs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Session{Token: "opaque-api-key"}))
	assert.Equal(t, "opaque-api-key", store.Token(ctx))
}

func TestSessionStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Session{Token: "tok"}))
	require.NoError(t, store.Clear(ctx))

	assert.Nil(t, store.Current(ctx))
}
