package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/context"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/file"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/request"
	"github.com/cradoe/finlap/internal/response"
	"github.com/cradoe/finlap/internal/smtp"
	"github.com/cradoe/finlap/internal/validator"
)

type AccountDetailsResponseData struct {
	Number    string    `json:"number"`
	BankName  string    `json:"bank_name"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileResponseData struct {
	ID                         string                      `json:"id"`
	FirstName                  string                      `json:"first_name"`
	LastName                   string                      `json:"last_name"`
	UserTag                    string                      `json:"user_tag"`
	Email                      string                      `json:"email"`
	IsEmailVerified            bool                        `json:"is_email_verified"`
	IsIdentityVerified         bool                        `json:"is_identity_verified"`
	IdentityVerificationStatus string                      `json:"identity_verification_status"`
	Balance                    string                      `json:"balance"`
	Photo                      string                      `json:"photo,omitempty"`
	AccountDetails             *AccountDetailsResponseData `json:"account_details,omitempty"`
	CreatedAt                  time.Time                   `json:"created_at"`
}

type UserHandler struct {
	UserRepo     repository.UserRepository
	TokenRepo    repository.VerificationTokenRepository
	Mailer       smtp.MailerInterface
	Helper       *helper.HelperRepository
	Config       *config.Config
	FileUploader *file.FileUploader

	ErrHandler *errHandler.ErrorHandler
}

func NewUserHandler(handler *UserHandler) *UserHandler {
	return &UserHandler{
		UserRepo:     handler.UserRepo,
		TokenRepo:    handler.TokenRepo,
		Mailer:       handler.Mailer,
		Helper:       handler.Helper,
		Config:       handler.Config,
		FileUploader: handler.FileUploader,
		ErrHandler:   handler.ErrHandler,
	}
}

func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	data := &ProfileResponseData{
		ID:                         user.ID,
		FirstName:                  user.FirstName,
		LastName:                   user.LastName,
		UserTag:                    user.UserTag,
		Email:                      user.Email,
		IsEmailVerified:            user.IsEmailVerified,
		IsIdentityVerified:         user.IsIdentityVerified,
		IdentityVerificationStatus: user.IdentityVerificationStatus,
		Balance:                    strconv.FormatFloat(user.Balance, 'f', 2, 64),
		Photo:                      user.Photo.String,
		CreatedAt:                  user.CreatedAt,
	}

	if user.AccountNumber.Valid {
		data.AccountDetails = &AccountDetailsResponseData{
			Number:    user.AccountNumber.String,
			BankName:  user.AccountBankName.String,
			CreatedAt: user.AccountCreatedAt.Time,
		}
	}

	message := "User found"
	err := response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// Profile updates re-run the registration-time validations on whichever
// fields changed. Names are frozen once identity verification has been
// approved because the provider attested to them; an email change drops
// the verified flag and triggers a fresh verification link.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FirstName string              `json:"first_name"`
		LastName  string              `json:"last_name"`
		UserTag   string              `json:"user_tag"`
		Email     string              `json:"email"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = titleCaser.String(strings.TrimSpace(input.FirstName))
	input.LastName = titleCaser.String(strings.TrimSpace(input.LastName))
	input.UserTag = strings.TrimSpace(input.UserTag)

	input.Validator.Check(validator.NotBlank(input.FirstName), "First name is required")
	input.Validator.Check(validator.Matches(input.FirstName, validator.RgxName), "First name can only contain letters and spaces")

	input.Validator.Check(validator.NotBlank(input.LastName), "Last name is required")
	input.Validator.Check(validator.Matches(input.LastName, validator.RgxName), "Last name can only contain letters and spaces")

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")

	input.Validator.Check(validator.NotBlank(input.UserTag), "Username is required")
	input.Validator.Check(validator.Matches(input.UserTag, validator.RgxUserTag), "Username can only contain letters, numbers, underscores and periods")

	namesChanged := input.FirstName != user.FirstName || input.LastName != user.LastName
	if namesChanged && user.IsIdentityVerified {
		input.Validator.AddError("Names cannot be changed after identity verification")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	emailChanged := input.Email != user.Email
	if emailChanged {
		_, found, err := h.UserRepo.GetByEmail(input.Email)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		input.Validator.Check(!found, "Email already used by another user")
	}

	if !strings.EqualFold(input.UserTag, user.UserTag) {
		_, found, err := h.UserRepo.GetByTag(input.UserTag)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		input.Validator.Check(!found, "Username already used by another user")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.UserTag = input.UserTag
	user.Email = input.Email
	if emailChanged {
		user.IsEmailVerified = false
	}

	if err := h.UserRepo.UpdateProfile(user); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if emailChanged {
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
	}

	message := "Profile updated successfully"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *UserHandler) HandleUpdateProfilePhoto(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(10 << 20) // 10 MB
	if err != nil {
		message := errors.New("invalid request data")
		h.ErrHandler.BadRequest(w, r, message)
		return
	}

	uploadedFile, fileHeader, err := r.FormFile("file")
	if err != nil {
		message := errors.New("error retrieving the file")
		h.ErrHandler.BadRequest(w, r, message)
		return
	}
	defer uploadedFile.Close()

	fileExtension := filepath.Ext(fileHeader.Filename)

	tempFile, err := os.CreateTemp("", fmt.Sprintf("upload-*%s", fileExtension))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer tempFile.Close()
	defer os.Remove(tempFile.Name())

	_, err = tempFile.ReadFrom(uploadedFile)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	fileURL, err := h.FileUploader.UploadFile(tempFile.Name())
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	if err := h.UserRepo.ChangePhoto(user.ID, fileURL); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"photo": fileURL,
	}

	message := "Profile photo updated successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
