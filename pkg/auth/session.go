package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/parfum-storefront/pkg/logger"
	"github.com/tair/parfum-storefront/pkg/storage"
)

// Session is the locally persisted auth state. Token issuance and
// verification happen on the backend; the client only stores the bearer
// token it was handed and forwards it on authenticated calls.
type Session struct {
	Token    string    `json:"token"`
	Username string    `json:"username,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// SessionStore persists the current session in a storage slot.
type SessionStore struct {
	slot storage.Slot
}

// NewSessionStore creates a session store over slot.
func NewSessionStore(slot storage.Slot) *SessionStore {
	return &SessionStore{slot: slot}
}

// Current returns the persisted session, or nil when logged out.
// A corrupt session slot is treated as logged out.
func (s *SessionStore) Current(ctx context.Context) *Session {
	data, err := s.slot.Read(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to read auth session")
		return nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn(ctx).Err(err).Msg("Corrupt auth session, treating as logged out")
		return nil
	}
	if session.Token == "" {
		return nil
	}
	return &session
}

// Token returns the bearer token to attach to authenticated requests,
// or "" when there is no session or the token has expired. The token is
// parsed without signature verification; the claims only gate whether we
// bother sending it, the backend still rejects bad tokens.
func (s *SessionStore) Token(ctx context.Context) string {
	session := s.Current(ctx)
	if session == nil {
		return ""
	}
	if expired(session.Token) {
		logger.Debug(ctx).Msg("Stored token expired, skipping auth header")
		return ""
	}
	return session.Token
}

// Save persists a new session after login.
func (s *SessionStore) Save(ctx context.Context, session Session) error {
	session.SavedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.slot.Write(ctx, data)
}

// Clear removes the persisted session on logout.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.slot.Delete(ctx)
}

func expired(tokenString string) bool {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		// Not a JWT. Forward it anyway and let the backend decide.
		return false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
