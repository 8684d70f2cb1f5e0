package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/cradoe/finlap/internal/cache"
)

const (
	sessionKeyPrefix = "session:"

	// Lifetime is the sliding window: every authenticated request pushes
	// the expiry forward by this much.
	Lifetime = 30 * time.Minute

	DefaultCookieName = "finlap_session"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// Manager keeps the authoritative session state in Redis so that any
// instance of the API can resolve a cookie. Only the opaque session id
// ever travels to the client.
type Manager struct {
	cache      *cache.Cache
	cookieName string
	secure     bool
}

func New(cache *cache.Cache, cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return &Manager{
		cache:      cache,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Create stores a new session for the user and sets the cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	sessionID := hex.EncodeToString(buf)

	err := m.cache.Set(ctx, sessionKeyPrefix+sessionID, userID, Lifetime)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sessionID, nil
}

// UserID resolves the session id from the request cookie and refreshes
// the TTL, implementing the sliding expiry.
func (m *Manager) UserID(ctx context.Context, r *http.Request) (userID, sessionID string, err error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", "", ErrSessionNotFound
	}

	userID, err = m.cache.Get(ctx, sessionKeyPrefix+cookie.Value)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return "", "", ErrSessionNotFound
		}
		return "", "", err
	}

	if err := m.cache.Expire(ctx, sessionKeyPrefix+cookie.Value, Lifetime); err != nil {
		return "", "", err
	}

	return userID, cookie.Value, nil
}

// Destroy removes the session server-side and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sessionID string) error {
	if err := m.cache.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
