package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/smtp"
	"github.com/cradoe/finlap/internal/validator"

	"github.com/cradoe/gopass"
)

type PasswordHandler struct {
	UserRepo  repository.UserRepository
	TokenRepo repository.VerificationTokenRepository
	Mailer    smtp.MailerInterface
	Helper    *helper.HelperRepository
	Config    *config.Config

	ErrHandler *errHandler.ErrorHandler
}

func NewPasswordHandler(handler *PasswordHandler) *PasswordHandler {
	return &PasswordHandler{
		UserRepo:   handler.UserRepo,
		TokenRepo:  handler.TokenRepo,
		Mailer:     handler.Mailer,
		Helper:     handler.Helper,
		Config:     handler.Config,
		ErrHandler: handler.ErrHandler,
	}
}

func (h *PasswordHandler) HandlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
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

	selector, token, err := issueVerificationToken(h.TokenRepo, user.ID, repository.VerificationTokenPasswordType)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["FirstName"] = user.FirstName
		emailData["Link"] = verificationLink(h.Config.FrontendURL, "reset-password", selector, token)

		return h.Mailer.Send(user.Email, emailData, ResetPasswordRequestTemplate)
	})

	message := "Password reset link sent"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *PasswordHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	selector := r.PathValue("selector")
	token := r.PathValue("token")

	var input struct {
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.Matches(selector, validator.RgxHexadecimal), "Invalid password reset link")
	input.Validator.Check(validator.Matches(token, validator.RgxHexadecimal), "Invalid password reset link")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	verificationToken, found, err := h.TokenRepo.GetBySelector(selector, repository.VerificationTokenPasswordType)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "Invalid password reset link", http.StatusBadRequest, nil)
		return
	}

	if verificationToken.ExpiresAt.Before(time.Now()) {
		if err := h.TokenRepo.Delete(verificationToken.ID); err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		response.JSONErrorResponse(w, nil, "Password reset link has expired", http.StatusBadRequest, nil)
		return
	}

	tokenMatches, err := gopass.ComparePasswordAndHash(token, verificationToken.HashedToken)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !tokenMatches {
		response.JSONErrorResponse(w, nil, "Invalid password reset link", http.StatusBadRequest, nil)
		return
	}

	user, found, err := h.UserRepo.GetOne(verificationToken.UserID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		response.JSONErrorResponse(w, nil, "Invalid password reset link", http.StatusNotFound, nil)
		return
	}

	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	input.Validator.Check(validator.MinRunes(input.Password, 6), "Password must be at least 6 characters")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.UserRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.TokenRepo.Delete(verificationToken.ID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["FirstName"] = user.FirstName

		return h.Mailer.Send(user.Email, emailData, ResetPasswordTemplate)
	})

	message := "Password changed successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandlePasswordUpdate changes the password of the logged-in user after
// re-checking the current one.
func (h *PasswordHandler) HandlePasswordUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password    string              `json:"password"`
		NewPassword string              `json:"new_password"`
		Validator   validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Password), "Password is required")
	input.Validator.Check(validator.NotBlank(input.NewPassword), "New password is required")
	input.Validator.Check(validator.MinRunes(input.NewPassword, 6), "Password must be at least 6 characters")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	_, errs := gopass.Validate(input.NewPassword)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !passwordMatches {
		input.Validator.AddError("Invalid password")
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.NewPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.UserRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Password updated"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
