package context

import (
	"context"
	"net/http"

	"github.com/cradoe/finlap/internal/models"
)

type contextKey string

const (
	authenticatedUserContextKey = contextKey("authenticatedUser")
	sessionIDContextKey         = contextKey("sessionID")
)

func ContextSetAuthenticatedUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), authenticatedUserContextKey, user)
	return r.WithContext(ctx)
}

func ContextGetAuthenticatedUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(authenticatedUserContextKey).(*models.User)
	if !ok {
		return nil
	}

	return user
}

func ContextSetSessionID(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDContextKey, sessionID)
	return r.WithContext(ctx)
}

func ContextGetSessionID(r *http.Request) string {
	sessionID, ok := r.Context().Value(sessionIDContextKey).(string)
	if !ok {
		return ""
	}

	return sessionID
}
