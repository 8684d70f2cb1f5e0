package handler

import (
	"net/http"
	"strings"

	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/models"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/session"
	"github.com/cradoe/finlap/internal/smtp"
	"github.com/cradoe/finlap/internal/validator"

	"github.com/cradoe/gopass"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type AuthHandler struct {
	UserRepo  repository.UserRepository
	TokenRepo repository.VerificationTokenRepository
	Sessions  *session.Manager
	Mailer    smtp.MailerInterface
	Helper    *helper.HelperRepository
	Config    *config.Config

	ErrHandler *errHandler.ErrorHandler
}

func NewAuthHandler(handler *AuthHandler) *AuthHandler {
	return &AuthHandler{
		UserRepo:   handler.UserRepo,
		TokenRepo:  handler.TokenRepo,
		Sessions:   handler.Sessions,
		Mailer:     handler.Mailer,
		Helper:     handler.Helper,
		Config:     handler.Config,
		ErrHandler: handler.ErrHandler,
	}
}

var titleCaser = cases.Title(language.English)

// New user registration involves:
// input validations, checking that the unique fields (email, user tag) are
// not already taken, hashing the password and creating the user record.
// A verification token is issued immediately so the welcome email can carry
// the verify-email link. The optional referrer is attached by tag.
func (h *AuthHandler) HandleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FirstName string              `json:"first_name"`
		LastName  string              `json:"last_name"`
		Email     string              `json:"email"`
		UserTag   string              `json:"user_tag"`
		Password  string              `json:"password"`
		Referrer  string              `json:"referrer"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = titleCaser.String(strings.TrimSpace(input.FirstName))
	input.LastName = titleCaser.String(strings.TrimSpace(input.LastName))
	input.UserTag = strings.TrimSpace(input.UserTag)

	// we need to validate the password to make sure it meets the minimum requirements
	// the Validate function returns a slice of errors if the password does not meet the requirements
	_, errs := gopass.Validate(input.Password)

	if errs != nil {
		// return any errors found before we check the other fields
		// It's important that users have a strong password
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	input.Validator.Check(validator.NotBlank(input.FirstName), "First name is required")
	input.Validator.Check(validator.Matches(input.FirstName, validator.RgxName), "First name can only contain letters and spaces")

	input.Validator.Check(validator.NotBlank(input.LastName), "Last name is required")
	input.Validator.Check(validator.Matches(input.LastName, validator.RgxName), "Last name can only contain letters and spaces")

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")

	input.Validator.Check(validator.NotBlank(input.UserTag), "Username is required")
	input.Validator.Check(validator.Matches(input.UserTag, validator.RgxUserTag), "Username can only contain letters, numbers, underscores and periods")

	input.Validator.Check(validator.MinRunes(input.Password, 6), "Password must be at least 6 characters")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	// we want to make sure no two users share an email or a tag;
	// the checks here give friendly messages, the unique indexes close the race
	_, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	input.Validator.Check(!found, "Email already used by another user")

	_, found, err = h.UserRepo.GetByTag(input.UserTag)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	input.Validator.Check(!found, "Username already used by another user")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	createdUser := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		UserTag:        input.UserTag,
		Email:          input.Email,
		HashedPassword: hashedPassword,
	}

	userID, err := h.UserRepo.Insert(createdUser)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if input.Referrer != "" {
		referrer, found, err := h.UserRepo.GetByTag(input.Referrer)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		if found {
			err = h.UserRepo.SetReferrer(userID, referrer.ID)
			if err != nil {
				h.ErrHandler.ServerError(w, r, err)
				return
			}
		}
	}

	selector, token, err := issueVerificationToken(h.TokenRepo, userID, repository.VerificationTokenEmailType)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["FirstName"] = createdUser.FirstName
		emailData["Link"] = verificationLink(h.Config.FrontendURL, "verify-email", selector, token)

		return h.Mailer.Send(createdUser.Email, emailData, WelcomeVerificationTemplate)
	})

	message := "User created successfully"

	err = response.JSONCreatedResponse(w, nil, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// Login resolves the identifier as either an email address or a user tag,
// both case-insensitive, and deliberately returns the same message for an
// unknown account and a wrong password.
func (h *AuthHandler) HandleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Email = strings.TrimSpace(input.Email)

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.NotBlank(input.Password), "Password is required")

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
		input.Validator.AddError("Invalid email or password")
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !passwordMatches {
		input.Validator.AddError("Invalid email or password")
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	_, err = h.Sessions.Create(r.Context(), w, user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Login successful"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AuthHandler) HandleAuthLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := context.ContextGetSessionID(r)

	if sessionID != "" {
		err := h.Sessions.Destroy(r.Context(), w, sessionID)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	message := "Logout successful"
	err := response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
