package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/mocks"
	"github.com/cradoe/finlap/internal/models"

	"github.com/cradoe/gopass"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestHelper(wg *sync.WaitGroup) *helper.HelperRepository {
	baseURL := "http://localhost:4444"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return helper.New(&baseURL, wg, logger)
}

func newTestErrHandler(help *helper.HelperRepository) *errHandler.ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := new(mocks.MockMailer)
	return errHandler.New("", mailer, logger, help)
}

func TestHandleAuthRegister_ValidInput(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)
	mockTokenRepo := new(mocks.MockVerificationTokenRepo)
	mockMailer := new(mocks.MockMailer)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	mockUserRepo.On("GetByEmail", "jane@example.com").Return(nil, false, nil)
	mockUserRepo.On("GetByTag", "jane_d").Return(nil, false, nil)
	mockUserRepo.On("Insert", mock.Anything).Return("user-1", nil)

	mockTokenRepo.On("DeleteAllForUser", "user-1", "verify-email").Return(nil)
	mockTokenRepo.On("Insert", mock.Anything).Return("token-1", nil)

	mockMailer.On("Send", "jane@example.com", mock.Anything, []string{WelcomeVerificationTemplate}).Return(nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		TokenRepo:  mockTokenRepo,
		Mailer:     mockMailer,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"first_name": "jane",
		"last_name":  "doe",
		"email":      "Jane@Example.com",
		"user_tag":   "jane_d",
		"password":   "S3cure#pass",
	})

	req, err := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()

	authHandler.HandleAuthRegister(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusCreated, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "success", response["status"])

	// name casing and email lowercasing happen before the insert
	insertedUser := mockUserRepo.Calls[2].Arguments.Get(0).(*models.User)
	require.Equal(t, "Jane", insertedUser.FirstName)
	require.Equal(t, "Doe", insertedUser.LastName)
	require.Equal(t, "jane@example.com", insertedUser.Email)

	mockUserRepo.AssertExpectations(t)
	mockTokenRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestHandleAuthRegister_DuplicateEmail(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	mockUserRepo.On("GetByEmail", "jane@example.com").Return(&models.User{ID: "user-1"}, true, nil)
	mockUserRepo.On("GetByTag", "jane_d").Return(nil, false, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"user_tag":   "jane_d",
		"password":   "S3cure#pass",
	})

	req, err := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(requestBody))
	require.NoError(t, err)

	rr := httptest.NewRecorder()

	authHandler.HandleAuthRegister(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "error", response["status"])
	require.Contains(t, response["errors"], "Email already used by another user")

	mockUserRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestHandleAuthLogin_UnknownAccount(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	mockUserRepo.On("GetByEmailOrTag", "ghost@example.com").Return(nil, false, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever123",
	})

	req, err := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(requestBody))
	require.NoError(t, err)

	rr := httptest.NewRecorder()

	authHandler.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Contains(t, response["errors"], "Invalid email or password")
}

func TestHandleAuthLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(mocks.MockUserRepo)

	var wg sync.WaitGroup
	testHelper := newTestHelper(&wg)

	hashed, err := gopass.Hash("C0rrect#pass")
	require.NoError(t, err)

	testUser := &models.User{
		ID:             "user-1",
		Email:          "jane@example.com",
		HashedPassword: hashed,
	}

	mockUserRepo.On("GetByEmailOrTag", "jane@example.com").Return(testUser, true, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		Helper:     testHelper,
		Config:     mocks.NewMockConfig(),
		ErrHandler: newTestErrHandler(testHelper),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "jane@example.com",
		"password": "Wr0ng#pass",
	})

	req, err := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(requestBody))
	require.NoError(t, err)

	rr := httptest.NewRecorder()

	authHandler.HandleAuthLogin(rr, req)

	// the message must not reveal whether the account exists
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]any
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Contains(t, response["errors"], "Invalid email or password")
}
