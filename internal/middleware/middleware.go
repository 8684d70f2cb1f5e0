package middleware

import (
	gocontext "context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cradoe/finlap/internal/cache"
	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/session"

	"github.com/tomasen/realip"
)

const (
	// rateLimitWindow and rateLimitMax bound sensitive endpoints to
	// 5 requests per client IP per 15 minutes.
	rateLimitWindow = 15 * time.Minute
	rateLimitMax    = 5
)

// RequestCounter is the slice of the cache the rate limiter needs.
// *cache.Cache satisfies it.
type RequestCounter interface {
	IncrWithExpire(ctx gocontext.Context, key string, expiration time.Duration) (int64, error)
}

type Middleware struct {
	errHandler *errHandler.ErrorHandler
	logger     *slog.Logger
	UserRepo   repository.UserRepository
	Sessions   *session.Manager
	Cache      RequestCounter
	config     *config.Config
}

func New(errHandler *errHandler.ErrorHandler, logger *slog.Logger, userRepo repository.UserRepository, sessions *session.Manager, cache *cache.Cache, config *config.Config) *Middleware {
	return &Middleware{
		errHandler: errHandler,
		logger:     logger,
		UserRepo:   userRepo,
		Sessions:   sessions,
		Cache:      cache,
		config:     config,
	}
}

func (mid *Middleware) RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				mid.errHandler.ServerError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (mid *Middleware) LogAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		mid.logger.Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

// Authenticate resolves the session cookie against Redis and attaches the
// user to the request context. Requests without a valid session pass
// through unauthenticated; RequireAuthenticatedUser gates protected routes.
func (mid *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")

		userID, sessionID, err := mid.Sessions.UserID(r.Context(), r)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				mid.errHandler.ServerError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
			return
		}

		user, found, err := mid.UserRepo.GetOne(userID)
		if err != nil {
			mid.errHandler.ServerError(w, r, err)
			return
		}

		if found {
			r = context.ContextSetAuthenticatedUser(r, user)
			r = context.ContextSetSessionID(r, sessionID)
		}

		next.ServeHTTP(w, r)
	})
}

func (mid *Middleware) RequireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticatedUser := context.ContextGetAuthenticatedUser(r)

		if authenticatedUser == nil {
			mid.errHandler.AuthenticationRequired(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimit applies a fixed-window counter per client IP and route.
func (mid *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", realip.FromRequest(r), r.URL.Path)

		count, err := mid.Cache.IncrWithExpire(r.Context(), key, rateLimitWindow)
		if err != nil {
			// Redis being unreachable should not take the API down
			// with it; the request proceeds unthrottled.
			mid.logger.Error("rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > rateLimitMax {
			mid.errHandler.RateLimited(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
