package handler

import (
	"fmt"
	"time"

	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/models"
	"github.com/cradoe/finlap/internal/repository"

	"github.com/cradoe/gopass"
)

// Email template names, matching the files under assets/emails.
const (
	WelcomeVerificationTemplate    = "welcome-verification.tmpl"
	EmailVerificationTemplate      = "email-verification.tmpl"
	ResetPasswordRequestTemplate   = "reset-password-request.tmpl"
	ResetPasswordTemplate          = "reset-password.tmpl"
	BvnVerificationSuccessTemplate = "bvn-verification-success.tmpl"
	BvnVerificationFailedTemplate  = "bvn-verification-failed.tmpl"
	TransferDebitAlertTemplate     = "transfer-debit-alert.tmpl"
	TransferCreditAlertTemplate    = "transfer-credit-alert.tmpl"
)

// verificationTokenTTL bounds how long an emailed link stays redeemable.
const verificationTokenTTL = 15 * time.Minute

// issueVerificationToken purges any live token of the same type and creates
// a fresh selector/token pair. The plaintext token only ever exists in the
// emailed link; the database keeps its hash.
func issueVerificationToken(repo repository.VerificationTokenRepository, userID, tokenType string) (selector, token string, err error) {
	err = repo.DeleteAllForUser(userID, tokenType)
	if err != nil {
		return "", "", err
	}

	selector = helper.GenerateRandomToken()
	token = helper.GenerateRandomToken()

	hashedToken, err := gopass.Hash(token)
	if err != nil {
		return "", "", err
	}

	_, err = repo.Insert(&models.VerificationToken{
		UserID:      userID,
		Type:        tokenType,
		Selector:    selector,
		HashedToken: hashedToken,
		ExpiresAt:   time.Now().Add(verificationTokenTTL),
	})
	if err != nil {
		return "", "", err
	}

	return selector, token, nil
}

func verificationLink(frontendURL, page, selector, token string) string {
	return fmt.Sprintf("%s/%s?selector=%s&token=%s", frontendURL, page, selector, token)
}
