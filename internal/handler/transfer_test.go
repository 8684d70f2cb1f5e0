package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/mocks"
	"github.com/cradoe/finlap/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func transferRequest(t *testing.T, sender *models.User, body map[string]any) *http.Request {
	requestBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/api/wallet/transfer", bytes.NewBuffer(requestBody))
	require.NoError(t, err)

	return context.ContextSetAuthenticatedUser(req, sender)
}

func newTransferTestHandler(userRepo *mocks.MockUserRepo, transactionRepo *mocks.MockTransactionRepo) *TransferHandler {
	testHelper := newTestHelper(nil)

	return NewTransferHandler(&TransferHandler{
		UserRepo:        userRepo,
		TransactionRepo: transactionRepo,
		Flutterwave:     new(mocks.MockFlutterwave),
		ErrHandler:      newTestErrHandler(testHelper),
	})
}

func verifiedSender(balance float64) *models.User {
	return &models.User{
		ID:                 "sender-1",
		UserTag:            "jane_d",
		IsIdentityVerified: true,
		Balance:            balance,
	}
}

func TestHandleTransferMoney_DuplicateReference(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTransactionRepo := new(mocks.MockTransactionRepo)

	mockTransactionRepo.On("FindByReference", "ref-1").Return(&models.Transaction{ID: "txn-1"}, true, nil)

	h := newTransferTestHandler(mockUserRepo, mockTransactionRepo)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, transferRequest(t, verifiedSender(5000), map[string]any{
		"recipient_tag":    "john_s",
		"amount":           1000,
		"reference_number": "ref-1",
	}))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Contains(t, response["errors"], ErrDuplicateTransfer.Error())

	mockTransactionRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestHandleTransferMoney_RecipientNotFound(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTransactionRepo := new(mocks.MockTransactionRepo)

	mockTransactionRepo.On("FindByReference", "ref-1").Return(nil, false, nil)
	mockUserRepo.On("GetByTag", "ghost").Return(nil, false, nil)

	h := newTransferTestHandler(mockUserRepo, mockTransactionRepo)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, transferRequest(t, verifiedSender(5000), map[string]any{
		"recipient_tag":    "ghost",
		"amount":           1000,
		"reference_number": "ref-1",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, ErrRecipientNotFound.Error(), response["message"])
}

func TestHandleTransferMoney_SelfTransfer(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTransactionRepo := new(mocks.MockTransactionRepo)

	sender := verifiedSender(5000)

	mockTransactionRepo.On("FindByReference", "ref-1").Return(nil, false, nil)
	mockUserRepo.On("GetByTag", "jane_d").Return(sender, true, nil)

	h := newTransferTestHandler(mockUserRepo, mockTransactionRepo)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, transferRequest(t, sender, map[string]any{
		"recipient_tag":    "jane_d",
		"amount":           1000,
		"reference_number": "ref-1",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	mockTransactionRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestHandleTransferMoney_InsufficientBalance(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTransactionRepo := new(mocks.MockTransactionRepo)

	mockTransactionRepo.On("FindByReference", "ref-1").Return(nil, false, nil)
	mockUserRepo.On("GetByTag", "john_s").Return(&models.User{ID: "recipient-1", UserTag: "john_s"}, true, nil)

	h := newTransferTestHandler(mockUserRepo, mockTransactionRepo)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, transferRequest(t, verifiedSender(100), map[string]any{
		"recipient_tag":    "john_s",
		"amount":           1000,
		"reference_number": "ref-1",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, ErrInsufficientBalance.Error(), response["message"])

	mockTransactionRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestHandleTransferMoney_RequiresVerifiedIdentity(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTransactionRepo := new(mocks.MockTransactionRepo)

	sender := &models.User{
		ID:                 "sender-1",
		UserTag:            "jane_d",
		IsIdentityVerified: false,
		Balance:            5000,
	}

	h := newTransferTestHandler(mockUserRepo, mockTransactionRepo)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, transferRequest(t, sender, map[string]any{
		"recipient_tag":    "john_s",
		"amount":           1000,
		"reference_number": "ref-1",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockTransactionRepo.AssertNotCalled(t, "FindByReference", mock.Anything)
}
