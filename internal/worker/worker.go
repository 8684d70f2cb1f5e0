package worker

import (
	"context"

	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/smtp"
	"github.com/cradoe/finlap/internal/stream"
)

type Worker struct {
	KafkaStream     *stream.KafkaStream
	UserRepo        repository.UserRepository
	TransactionRepo repository.TransactionRepository
	Mailer          smtp.MailerInterface
	Helper          *helper.HelperRepository
	Ctx             context.Context
}

const (
	// transferDebitGroupID is used for workers that needs to take action whenever a request for debit was initiated
	transferDebitGroupID = "transfer-debit-group"

	// transferCreditGroupID is used for workers that needs to take action whenever a request for credit was initiated
	transferCreditGroupID = "transfer-credit-group"

	// transferSuccessGroupID is used for workers that needs to take action when a transfer request has been completed
	transferSuccessGroupID = "transfer-success-group"

	// transferFailedGroupID is used for workers that clean up after a transfer that could not complete
	transferFailedGroupID = "transfer-failed-group"

	// Topics
	// TransferDebitTopic is used to create request to debit the sender's balance, when they initiate a transfer request to another user.
	TransferDebitTopic = "transfer.debit"

	// TransferCreditTopic is used to create request that credits the recipient's balance during wallet-wallet transaction
	TransferCreditTopic = "transfer.credit"

	// TransferFailedTopic is used to create request to mark transaction as failed and revert all actions, to avoid inconsistent data
	TransferFailedTopic = "transfer.failed"

	// TransferSuccessTopic is used to create request to mark transaction as successful after debit and credit has been completed
	TransferSuccessTopic = "transfer.success"
)

// Our workers typically need access to the repositories and kafka event stream
// worker-specific dependency can be passed as argument to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream:     wk.KafkaStream,
		UserRepo:        wk.UserRepo,
		TransactionRepo: wk.TransactionRepo,
		Mailer:          wk.Mailer,
		Helper:          wk.Helper,
		Ctx:             wk.Ctx,
	}
}
