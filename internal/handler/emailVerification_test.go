package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cradoe/finlap/internal/mocks"
	"github.com/cradoe/finlap/internal/models"

	"github.com/cradoe/gopass"
	"github.com/stretchr/testify/require"
)

const (
	testSelector = "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"
	testToken    = "0f1e2d3c4b5a69788796a5b4c3d2e1f0"
)

func verifyEmailRequest(t *testing.T, selector, token string) *http.Request {
	req, err := http.NewRequest("GET", fmt.Sprintf("/api/auth/email/verify/%s/%s", selector, token), nil)
	require.NoError(t, err)
	req.SetPathValue("selector", selector)
	req.SetPathValue("token", token)
	return req
}

func TestHandleVerifyEmail_ValidLink(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTokenRepo := new(mocks.MockVerificationTokenRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	hashedToken, err := gopass.Hash(testToken)
	require.NoError(t, err)

	storedToken := &models.VerificationToken{
		ID:          "token-1",
		UserID:      "user-1",
		Type:        "verify-email",
		Selector:    testSelector,
		HashedToken: hashedToken,
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	}

	mockTokenRepo.On("GetBySelector", testSelector, "verify-email").Return(storedToken, true, nil)
	mockTokenRepo.On("Delete", "token-1").Return(nil)
	mockUserRepo.On("GetOne", "user-1").Return(&models.User{ID: "user-1"}, true, nil)
	mockUserRepo.On("MarkEmailVerified", "user-1").Return(nil)

	h := NewEmailVerificationHandler(&EmailVerificationHandler{
		UserRepo:   mockUserRepo,
		TokenRepo:  mockTokenRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyEmail(rr, verifyEmailRequest(t, testSelector, testToken))

	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "Email verified successfully", response["message"])

	mockUserRepo.AssertExpectations(t)
	mockTokenRepo.AssertExpectations(t)
}

func TestHandleVerifyEmail_ExpiredLink(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTokenRepo := new(mocks.MockVerificationTokenRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	hashedToken, err := gopass.Hash(testToken)
	require.NoError(t, err)

	storedToken := &models.VerificationToken{
		ID:          "token-1",
		UserID:      "user-1",
		Type:        "verify-email",
		Selector:    testSelector,
		HashedToken: hashedToken,
		ExpiresAt:   time.Now().Add(-time.Minute),
	}

	mockTokenRepo.On("GetBySelector", testSelector, "verify-email").Return(storedToken, true, nil)
	mockTokenRepo.On("Delete", "token-1").Return(nil)

	h := NewEmailVerificationHandler(&EmailVerificationHandler{
		UserRepo:   mockUserRepo,
		TokenRepo:  mockTokenRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyEmail(rr, verifyEmailRequest(t, testSelector, testToken))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "Verification link has expired", response["message"])

	// expired tokens are purged so the link can never be retried
	mockTokenRepo.AssertCalled(t, "Delete", "token-1")
	mockUserRepo.AssertNotCalled(t, "MarkEmailVerified", "user-1")
}

func TestHandleVerifyEmail_WrongToken(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTokenRepo := new(mocks.MockVerificationTokenRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	hashedToken, err := gopass.Hash(testToken)
	require.NoError(t, err)

	storedToken := &models.VerificationToken{
		ID:          "token-1",
		UserID:      "user-1",
		Type:        "verify-email",
		Selector:    testSelector,
		HashedToken: hashedToken,
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	}

	mockTokenRepo.On("GetBySelector", testSelector, "verify-email").Return(storedToken, true, nil)

	h := NewEmailVerificationHandler(&EmailVerificationHandler{
		UserRepo:   mockUserRepo,
		TokenRepo:  mockTokenRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	wrongToken := "ffffffffffffffffffffffffffffffff"

	rr := httptest.NewRecorder()
	h.HandleVerifyEmail(rr, verifyEmailRequest(t, testSelector, wrongToken))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "Invalid verification link", response["message"])

	mockUserRepo.AssertNotCalled(t, "MarkEmailVerified", "user-1")
	mockTokenRepo.AssertNotCalled(t, "Delete", "token-1")
}

func TestHandleVerifyEmail_UnknownSelector(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTokenRepo := new(mocks.MockVerificationTokenRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	// a redeemed link looks identical to one that never existed
	mockTokenRepo.On("GetBySelector", testSelector, "verify-email").Return(nil, false, nil)

	h := NewEmailVerificationHandler(&EmailVerificationHandler{
		UserRepo:   mockUserRepo,
		TokenRepo:  mockTokenRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyEmail(rr, verifyEmailRequest(t, testSelector, testToken))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "Invalid verification link", response["message"])
}
