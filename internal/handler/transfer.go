package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/flutterwave"
	"github.com/cradoe/finlap/internal/models"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/stream"
	"github.com/cradoe/finlap/internal/validator"
)

var (
	ErrRecipientNotFound     = errors.New("recipient not found")
	ErrAttemptForSameAccount = errors.New("you can't transfer to your own account")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrDuplicateTransfer     = errors.New("this appears to be a duplicate transaction")
	ErrUnverifiedIdentity    = errors.New("verify your identity before making transfers")
)

const transferDebitTopic = "transfer.debit"

type TransferHandler struct {
	UserRepo        repository.UserRepository
	TransactionRepo repository.TransactionRepository
	Flutterwave     flutterwave.Service
	Stream          *stream.KafkaStream

	ErrHandler *errHandler.ErrorHandler
}

func NewTransferHandler(handler *TransferHandler) *TransferHandler {
	return &TransferHandler{
		UserRepo:        handler.UserRepo,
		TransactionRepo: handler.TransactionRepo,
		Flutterwave:     handler.Flutterwave,
		Stream:          handler.Stream,
		ErrHandler:      handler.ErrHandler,
	}
}

// InitiatedTransfer is both the response payload for a freshly created
// transfer and the message the workers pass along the debit/credit pipeline.
type InitiatedTransfer struct {
	ID              string  `json:"id"`
	ReferenceNumber string  `json:"reference_number"`
	SenderID        string  `json:"sender_id"`
	RecipientID     string  `json:"recipient_id"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	CreatedAt       string  `json:"created_at"`
}

// HandleTransferMoney initiates a wallet to wallet transfer:
// validate the input, check for an idempotency replay via the reference
// number, resolve the recipient by tag, then create a pending transaction
// and hand the money movement to the background workers.
// The balance check here only gives a friendly early error; the debit
// worker re-checks atomically, so a concurrent spend can never overdraw.
func (h *TransferHandler) HandleTransferMoney(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RecipientTag    string              `json:"recipient_tag"`
		Amount          float64             `json:"amount"`
		ReferenceNumber string              `json:"reference_number"`
		Description     string              `json:"description"`
		Validator       validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.RecipientTag = strings.TrimSpace(input.RecipientTag)

	input.Validator.Check(input.Amount > 0, "Amount is required")
	input.Validator.Check(validator.NotBlank(input.ReferenceNumber), "Reference number is required")
	input.Validator.Check(validator.NotBlank(input.RecipientTag), "Recipient tag is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	sender := context.ContextGetAuthenticatedUser(r)

	if !sender.IsIdentityVerified {
		response.JSONErrorResponse(w, nil, ErrUnverifiedIdentity.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	_, found, err := h.TransactionRepo.FindByReference(input.ReferenceNumber)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if found {
		input.Validator.AddError(ErrDuplicateTransfer.Error())
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	recipient, found, err := h.UserRepo.GetByTag(input.RecipientTag)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		response.JSONErrorResponse(w, nil, ErrRecipientNotFound.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	if recipient.ID == sender.ID {
		response.JSONErrorResponse(w, nil, ErrAttemptForSameAccount.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	if sender.Balance < input.Amount {
		response.JSONErrorResponse(w, nil, ErrInsufficientBalance.Error(), http.StatusUnprocessableEntity, nil)
		return
	}

	newTransaction := &models.Transaction{
		ReferenceNumber: input.ReferenceNumber,
		SenderID:        sender.ID,
		RecipientID:     recipient.ID,
		Amount:          input.Amount,
		Description:     sql.NullString{String: input.Description, Valid: input.Description != ""},
	}

	transaction, err := h.TransactionRepo.Insert(newTransaction)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	transferRes := &InitiatedTransfer{
		ID:              transaction.ID,
		ReferenceNumber: transaction.ReferenceNumber,
		SenderID:        sender.ID,
		RecipientID:     recipient.ID,
		Status:          transaction.Status,
		Amount:          transaction.Amount,
		CreatedAt:       transaction.CreatedAt.Format(time.RFC3339),
	}

	jsonMessage, err := json.Marshal(transferRes)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// Produce message so that the debit worker can debit the sender
	go h.Stream.ProduceMessage(transferDebitTopic, string(jsonMessage))

	message := "Transfer initiated successfully"
	err = response.JSONOkResponse(w, transferRes, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *TransferHandler) HandleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.Flutterwave.Banks(r.Context())
	if err != nil {
		var apiErr *flutterwave.APIError
		if errors.As(err, &apiErr) {
			response.JSONErrorResponse(w, nil, apiErr.Message, http.StatusBadRequest, nil)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Banks retrieved successfully"
	err = response.JSONOkResponse(w, banks, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *TransferHandler) HandleResolveAccount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AccountNumber string              `json:"account_number"`
		BankCode      string              `json:"bank_code"`
		Validator     validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.AccountNumber), "Account number is required")
	input.Validator.Check(validator.Matches(input.AccountNumber, validator.RgxAccountNumber), "Account number must be 10 digits")
	input.Validator.Check(validator.NotBlank(input.BankCode), "Bank code is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	account, err := h.Flutterwave.ResolveAccount(r.Context(), input.AccountNumber, input.BankCode)
	if err != nil {
		var apiErr *flutterwave.APIError
		if errors.As(err, &apiErr) {
			response.JSONErrorResponse(w, nil, apiErr.Message, http.StatusBadRequest, nil)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Account resolved successfully"
	err = response.JSONOkResponse(w, account, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
