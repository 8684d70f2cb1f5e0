package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/smtp"
	"github.com/cradoe/finlap/internal/validator"

	"github.com/cradoe/gopass"
)

type EmailVerificationHandler struct {
	UserRepo  repository.UserRepository
	TokenRepo repository.VerificationTokenRepository
	Mailer    smtp.MailerInterface
	Helper    *helper.HelperRepository
	Config    *config.Config

	ErrHandler *errHandler.ErrorHandler
}

func NewEmailVerificationHandler(handler *EmailVerificationHandler) *EmailVerificationHandler {
	return &EmailVerificationHandler{
		UserRepo:   handler.UserRepo,
		TokenRepo:  handler.TokenRepo,
		Mailer:     handler.Mailer,
		Helper:     handler.Helper,
		Config:     handler.Config,
		ErrHandler: handler.ErrHandler,
	}
}

// Redeeming a verification link is a selector lookup followed by a hash
// comparison of the secret half. The selector narrows to one row without
// leaking whether the token itself is right, so an attacker cannot
// enumerate valid tokens through lookups.
func (h *EmailVerificationHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	selector := r.PathValue("selector")
	token := r.PathValue("token")

	var v validator.Validator
	v.Check(validator.Matches(selector, validator.RgxHexadecimal), "Invalid verification link")
	v.Check(validator.Matches(token, validator.RgxHexadecimal), "Invalid verification link")

	if v.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, v.Errors)
		return
	}

	verificationToken, found, err := h.TokenRepo.GetBySelector(selector, repository.VerificationTokenEmailType)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "Invalid verification link", http.StatusBadRequest, nil)
		return
	}

	if verificationToken.ExpiresAt.Before(time.Now()) {
		if err := h.TokenRepo.Delete(verificationToken.ID); err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		response.JSONErrorResponse(w, nil, "Verification link has expired", http.StatusBadRequest, nil)
		return
	}

	tokenMatches, err := gopass.ComparePasswordAndHash(token, verificationToken.HashedToken)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !tokenMatches {
		response.JSONErrorResponse(w, nil, "Invalid verification link", http.StatusBadRequest, nil)
		return
	}

	user, found, err := h.UserRepo.GetOne(verificationToken.UserID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "Invalid verification link", http.StatusNotFound, nil)
		return
	}

	if user.IsEmailVerified {
		if err := h.TokenRepo.Delete(verificationToken.ID); err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		response.JSONErrorResponse(w, nil, "Email already verified", http.StatusBadRequest, nil)
		return
	}

	if err := h.UserRepo.MarkEmailVerified(user.ID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.TokenRepo.Delete(verificationToken.ID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Email verified successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *EmailVerificationHandler) HandleResendVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Email = strings.TrimSpace(input.Email)

	input.Validator.Check(validator.NotBlank(input.Email), "Username/email is required")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user, found, err := h.UserRepo.GetByEmailOrTag(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "No account found with this username/email", http.StatusNotFound, nil)
		return
	}

	if user.IsEmailVerified {
		response.JSONErrorResponse(w, nil, "Email already verified", http.StatusBadRequest, nil)
		return
	}

	selector, token, err := issueVerificationToken(h.TokenRepo, user.ID, repository.VerificationTokenEmailType)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["FirstName"] = user.FirstName
		emailData["Link"] = verificationLink(h.Config.FrontendURL, "verify-email", selector, token)

		return h.Mailer.Send(user.Email, emailData, EmailVerificationTemplate)
	})

	message := "Verification link resent"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
