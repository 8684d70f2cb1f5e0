package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/flutterwave"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/models"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/smtp"
)

// bvnCompletedEvent is the only provider event this webhook acts on.
const bvnCompletedEvent = "bvn.completed"

// bvnCompletedProviderStatus is the provider's terminal status for a consent
// flow the user actually finished.
const bvnCompletedProviderStatus = "COMPLETED"

type WebhookHandler struct {
	UserRepo       repository.UserRepository
	PendingBvnRepo repository.PendingBvnVerificationRepository
	Flutterwave    flutterwave.Service
	Mailer         smtp.MailerInterface
	Helper         *helper.HelperRepository
	Config         *config.Config

	ErrHandler *errHandler.ErrorHandler
}

func NewWebhookHandler(handler *WebhookHandler) *WebhookHandler {
	return &WebhookHandler{
		UserRepo:       handler.UserRepo,
		PendingBvnRepo: handler.PendingBvnRepo,
		Flutterwave:    handler.Flutterwave,
		Mailer:         handler.Mailer,
		Helper:         handler.Helper,
		Config:         handler.Config,
		ErrHandler:     handler.ErrHandler,
	}
}

// HandleFlutterwaveWebhook resolves a pending BVN verification from the
// provider's callback. The signature check comes before anything else;
// an unsigned or mis-signed request must not touch any record.
//
// The provider retries deliveries, so every path here is idempotent: a
// reference that no longer has a pending record, or a user who is already
// verified, short-circuits without a second state change or a second email.
func (h *WebhookHandler) HandleFlutterwaveWebhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get("verif-hash")
	if signature == "" || signature != h.Config.Flutterwave.WebhookSecretHash {
		response.JSONErrorResponse(w, nil, "Invalid webhook signature", http.StatusUnauthorized, nil)
		return
	}

	var input struct {
		Payload struct {
			Event string `json:"event"`
			Data  struct {
				Status    string `json:"status"`
				Reference string `json:"reference"`
				FirstName string `json:"firstname"`
				LastName  string `json:"lastname"`
			} `json:"data"`
		} `json:"payload"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	if input.Payload.Event != bvnCompletedEvent {
		response.JSONErrorResponse(w, nil, "Unhandled webhook event", http.StatusBadRequest, nil)
		return
	}

	pending, found, err := h.PendingBvnRepo.GetByReference(input.Payload.Data.Reference)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "Unknown verification reference", http.StatusBadRequest, nil)
		return
	}

	user, found, err := h.UserRepo.GetOne(pending.UserID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "Unknown verification reference", http.StatusBadRequest, nil)
		return
	}

	if user.IsIdentityVerified {
		message := "Verification already resolved"
		err = response.JSONOkResponse(w, nil, message, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	namesMatch := strings.EqualFold(input.Payload.Data.FirstName, user.FirstName) &&
		strings.EqualFold(input.Payload.Data.LastName, user.LastName)

	if input.Payload.Data.Status == bvnCompletedProviderStatus && namesMatch {
		h.approveVerification(w, r, user, pending)
		return
	}

	reason := "BVN verification failed"
	if input.Payload.Data.Status == bvnCompletedProviderStatus {
		reason = "The names on the BVN do not match your profile"
	}

	h.rejectVerification(w, r, user, pending, reason)
}

// approveVerification provisions the virtual account before flipping the
// user's status. If the provider call fails we return a 500 with nothing
// changed, so the webhook retry gets a clean second attempt.
func (h *WebhookHandler) approveVerification(w http.ResponseWriter, r *http.Request, user *models.User, pending *models.PendingBvnVerification) {
	account, err := h.Flutterwave.CreateVirtualAccount(r.Context(), user.Email, pending.Bvn, true)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.UserRepo.ApproveIdentity(user.ID, pending.Bvn); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	accountDetails := &models.VirtualAccountDetails{
		AccountNumber: account.AccountNumber,
		BankName:      account.BankName,
		FlwRef:        account.FlwRef,
		OrderRef:      account.OrderRef,
		CreatedAt:     time.Now(),
	}

	if err := h.UserRepo.AttachVirtualAccount(user.ID, accountDetails); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.PendingBvnRepo.Delete(pending.ID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["FirstName"] = user.FirstName
		emailData["AccountNumber"] = account.AccountNumber
		emailData["BankName"] = account.BankName

		return h.Mailer.Send(user.Email, emailData, BvnVerificationSuccessTemplate)
	})

	message := "Verification approved"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WebhookHandler) rejectVerification(w http.ResponseWriter, r *http.Request, user *models.User, pending *models.PendingBvnVerification, reason string) {
	if err := h.UserRepo.SetIdentityStatus(user.ID, repository.IdentityRejectedStatus); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.PendingBvnRepo.Delete(pending.ID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["FirstName"] = user.FirstName
		emailData["Reason"] = reason

		return h.Mailer.Send(user.Email, emailData, BvnVerificationFailedTemplate)
	})

	message := "Verification rejected"
	err := response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
