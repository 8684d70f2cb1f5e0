package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/flutterwave"
	"github.com/cradoe/finlap/internal/mocks"
	"github.com/cradoe/finlap/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func verifyAccountRequest(t *testing.T, user *models.User, bvn string) *http.Request {
	body, err := json.Marshal(map[string]string{"bvn": bvn})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/api/user/verify-account", bytes.NewBuffer(body))
	require.NoError(t, err)

	return context.ContextSetAuthenticatedUser(req, user)
}

func TestHandleVerifyAccount_StartsConsentFlow(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockPendingRepo := new(mocks.MockPendingBvnRepo)
	mockFlw := new(mocks.MockFlutterwave)

	testHelper := newTestHelper(nil)

	user := &models.User{
		ID:                         "user-1",
		FirstName:                  "Jane",
		LastName:                   "Doe",
		Email:                      "jane@example.com",
		IsEmailVerified:            true,
		IdentityVerificationStatus: "not-submitted",
	}

	mockUserRepo.On("GetByBvn", "12345678901").Return(nil, false, nil)
	mockUserRepo.On("SetIdentityStatus", "user-1", "pending").Return(nil)
	mockPendingRepo.On("Upsert", mock.Anything).Return("pending-1", nil)
	mockFlw.On("InitiateBvnConsent", mock.Anything, mock.Anything).
		Return(&flutterwave.BvnConsent{URL: "https://consent.example.com/abc", Reference: "ref-1"}, nil)

	h := NewIdentityHandler(&IdentityHandler{
		UserRepo:       mockUserRepo,
		PendingBvnRepo: mockPendingRepo,
		Flutterwave:    mockFlw,
		Config:         mocks.NewMockConfig(),
		ErrHandler:     newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyAccount(rr, verifyAccountRequest(t, user, "12345678901"))

	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "https://consent.example.com/abc", data["url"])

	// the pending record must carry the provider's reference
	upserted := mockPendingRepo.Calls[0].Arguments.Get(0).(*models.PendingBvnVerification)
	require.Equal(t, "ref-1", upserted.Reference)
	require.Equal(t, "12345678901", upserted.Bvn)

	mockUserRepo.AssertExpectations(t)
	mockPendingRepo.AssertExpectations(t)
	mockFlw.AssertExpectations(t)
}

func TestHandleVerifyAccount_RequiresVerifiedEmail(t *testing.T) {
	mockFlw := new(mocks.MockFlutterwave)
	testHelper := newTestHelper(nil)

	user := &models.User{
		ID:                         "user-1",
		IsEmailVerified:            false,
		IdentityVerificationStatus: "not-submitted",
	}

	h := NewIdentityHandler(&IdentityHandler{
		UserRepo:       new(mocks.MockUserRepo),
		PendingBvnRepo: new(mocks.MockPendingBvnRepo),
		Flutterwave:    mockFlw,
		Config:         mocks.NewMockConfig(),
		ErrHandler:     newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyAccount(rr, verifyAccountRequest(t, user, "12345678901"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockFlw.AssertNotCalled(t, "InitiateBvnConsent", mock.Anything, mock.Anything)
}

func TestHandleVerifyAccount_RejectsWhenAlreadyPending(t *testing.T) {
	mockPendingRepo := new(mocks.MockPendingBvnRepo)
	mockFlw := new(mocks.MockFlutterwave)
	testHelper := newTestHelper(nil)

	user := &models.User{
		ID:                         "user-1",
		IsEmailVerified:            true,
		IdentityVerificationStatus: "pending",
	}

	mockPendingRepo.On("GetByUser", "user-1").
		Return(&models.PendingBvnVerification{ID: "pending-1", UserID: "user-1"}, true, nil)

	h := NewIdentityHandler(&IdentityHandler{
		UserRepo:       new(mocks.MockUserRepo),
		PendingBvnRepo: mockPendingRepo,
		Flutterwave:    mockFlw,
		Config:         mocks.NewMockConfig(),
		ErrHandler:     newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyAccount(rr, verifyAccountRequest(t, user, "12345678901"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockFlw.AssertNotCalled(t, "InitiateBvnConsent", mock.Anything, mock.Anything)
}

func TestHandleVerifyAccount_StalePendingStatusAllowsRetry(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockPendingRepo := new(mocks.MockPendingBvnRepo)
	mockFlw := new(mocks.MockFlutterwave)
	testHelper := newTestHelper(nil)

	user := &models.User{
		ID:                         "user-1",
		FirstName:                  "Jane",
		LastName:                   "Doe",
		Email:                      "jane@example.com",
		IsEmailVerified:            true,
		IdentityVerificationStatus: "pending",
	}

	mockPendingRepo.On("GetByUser", "user-1").Return(nil, false, nil)
	mockUserRepo.On("GetByBvn", "12345678901").Return(nil, false, nil)
	mockUserRepo.On("SetIdentityStatus", "user-1", "pending").Return(nil)
	mockPendingRepo.On("Upsert", mock.Anything).Return("pending-2", nil)
	mockFlw.On("InitiateBvnConsent", mock.Anything, mock.Anything).
		Return(&flutterwave.BvnConsent{URL: "https://consent.example.com/xyz", Reference: "ref-2"}, nil)

	h := NewIdentityHandler(&IdentityHandler{
		UserRepo:       mockUserRepo,
		PendingBvnRepo: mockPendingRepo,
		Flutterwave:    mockFlw,
		Config:         mocks.NewMockConfig(),
		ErrHandler:     newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyAccount(rr, verifyAccountRequest(t, user, "12345678901"))

	require.Equal(t, http.StatusOK, rr.Code)
	mockFlw.AssertExpectations(t)
	mockPendingRepo.AssertExpectations(t)
}

func TestHandleVerifyAccount_BvnClaimedByAnotherUser(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockFlw := new(mocks.MockFlutterwave)
	testHelper := newTestHelper(nil)

	user := &models.User{
		ID:                         "user-1",
		IsEmailVerified:            true,
		IdentityVerificationStatus: "not-submitted",
	}

	mockUserRepo.On("GetByBvn", "12345678901").Return(&models.User{ID: "user-2"}, true, nil)

	h := NewIdentityHandler(&IdentityHandler{
		UserRepo:       mockUserRepo,
		PendingBvnRepo: new(mocks.MockPendingBvnRepo),
		Flutterwave:    mockFlw,
		Config:         mocks.NewMockConfig(),
		ErrHandler:     newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyAccount(rr, verifyAccountRequest(t, user, "12345678901"))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "BVN already used by another user", response["message"])

	mockFlw.AssertNotCalled(t, "InitiateBvnConsent", mock.Anything, mock.Anything)
}

func TestHandleVerifyAccount_InvalidBvn(t *testing.T) {
	testHelper := newTestHelper(nil)

	user := &models.User{
		ID:                         "user-1",
		IsEmailVerified:            true,
		IdentityVerificationStatus: "not-submitted",
	}

	h := NewIdentityHandler(&IdentityHandler{
		UserRepo:       new(mocks.MockUserRepo),
		PendingBvnRepo: new(mocks.MockPendingBvnRepo),
		Flutterwave:    new(mocks.MockFlutterwave),
		Config:         mocks.NewMockConfig(),
		ErrHandler:     newTestErrHandler(testHelper),
	})

	rr := httptest.NewRecorder()
	h.HandleVerifyAccount(rr, verifyAccountRequest(t, user, "1234"))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Contains(t, response["errors"], "BVN must be 11 digits")
}
