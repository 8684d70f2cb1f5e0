package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/flutterwave"
	"github.com/cradoe/finlap/internal/models"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/validator"
)

type IdentityHandler struct {
	UserRepo       repository.UserRepository
	PendingBvnRepo repository.PendingBvnVerificationRepository
	Flutterwave    flutterwave.Service
	Config         *config.Config

	ErrHandler *errHandler.ErrorHandler
}

func NewIdentityHandler(handler *IdentityHandler) *IdentityHandler {
	return &IdentityHandler{
		UserRepo:       handler.UserRepo,
		PendingBvnRepo: handler.PendingBvnRepo,
		Flutterwave:    handler.Flutterwave,
		Config:         handler.Config,
		ErrHandler:     handler.ErrHandler,
	}
}

// HandleVerifyAccount starts the BVN consent flow with the payment provider.
// The request only records intent; the outcome arrives asynchronously on the
// webhook once the user grants consent and the provider runs its checks.
func (h *IdentityHandler) HandleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Bvn       string              `json:"bvn"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Bvn), "BVN is required")
	input.Validator.Check(validator.Matches(input.Bvn, validator.RgxBvn), "BVN must be 11 digits")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	if !user.IsEmailVerified {
		response.JSONErrorResponse(w, nil, "Verify your email before submitting a BVN", http.StatusBadRequest, nil)
		return
	}

	switch user.IdentityVerificationStatus {
	case repository.IdentityApprovedStatus:
		response.JSONErrorResponse(w, nil, "Identity already verified", http.StatusBadRequest, nil)
		return
	case repository.IdentityPendingStatus:
		// A pending status without a pending record means the earlier
		// flow was torn down; the user may start over.
		_, found, err := h.PendingBvnRepo.GetByUser(user.ID)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		if found {
			response.JSONErrorResponse(w, nil, "A verification is already in progress", http.StatusBadRequest, nil)
			return
		}
	}

	claimedBy, found, err := h.UserRepo.GetByBvn(input.Bvn)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if found && claimedBy.ID != user.ID {
		response.JSONErrorResponse(w, nil, "BVN already used by another user", http.StatusBadRequest, nil)
		return
	}

	consent, err := h.Flutterwave.InitiateBvnConsent(r.Context(), &flutterwave.BvnConsentInput{
		Bvn:         input.Bvn,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		RedirectURL: fmt.Sprintf("%s/account/verification", h.Config.FrontendURL),
	})
	if err != nil {
		var apiErr *flutterwave.APIError
		if errors.As(err, &apiErr) {
			response.JSONErrorResponse(w, nil, apiErr.Message, http.StatusBadRequest, nil)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	_, err = h.PendingBvnRepo.Upsert(&models.PendingBvnVerification{
		UserID:    user.ID,
		Bvn:       input.Bvn,
		Reference: consent.Reference,
	})
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.UserRepo.SetIdentityStatus(user.ID, repository.IdentityPendingStatus); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"url": consent.URL,
	}

	message := "BVN verification initiated"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
