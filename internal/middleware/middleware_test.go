package middleware

import (
	gocontext "context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/mocks"

	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	count int64
	err   error
}

func (s *stubCounter) IncrWithExpire(ctx gocontext.Context, key string, expiration time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}

	s.count++
	return s.count, nil
}

func newTestMiddleware(counter RequestCounter) *Middleware {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	baseURL := "http://localhost:4444"
	var wg sync.WaitGroup
	testHelper := helper.New(&baseURL, &wg, logger)

	return &Middleware{
		errHandler: errHandler.New("", new(mocks.MockMailer), logger, testHelper),
		logger:     logger,
		Cache:      counter,
	}
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	mid := newTestMiddleware(&stubCounter{})

	var handled int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
	})

	limited := mid.RateLimit(next)

	for i := 0; i < 5; i++ {
		req, err := http.NewRequest("POST", "/api/auth/login", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	require.Equal(t, 5, handled)

	req, err := http.NewRequest("POST", "/api/auth/login", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	limited.ServeHTTP(rr, req)

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, 5, handled)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, float64(errHandler.RetryAfterSeconds), response["retry_after"])
}

func TestRateLimit_FailsOpenWhenCounterErrors(t *testing.T) {
	mid := newTestMiddleware(&stubCounter{err: errors.New("redis unreachable")})

	var handled int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
	})

	req, err := http.NewRequest("POST", "/api/auth/login", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	mid.RateLimit(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, handled)
}
