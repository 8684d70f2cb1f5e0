// Successful transfers are the ones that have gone through debiting (sender)
// and crediting (recipient). A record was created in the transactions table
// synchronously when the transfer was initiated; we need to mark that record
// as successful and send alerts to both involved users.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cradoe/finlap/internal/handler"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/stream"
)

func (wk *Worker) SuccessTransferWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferSuccessGroupID,
		Topic:   TransferSuccessTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("SuccessTransferWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				message := e.Value

				var transferReq handler.InitiatedTransfer
				json.Unmarshal(message, &transferReq)

				success := wk.completeTransferOperation(&transferReq)
				if success {
					wk.sendTransferAlerts(&transferReq)
				}
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			}
		}
	}
}

func (wk *Worker) completeTransferOperation(transferReq *handler.InitiatedTransfer) bool {
	err := wk.TransactionRepo.UpdateStatus(transferReq.ID, repository.TransactionSuccessStatus)
	if err != nil {
		log.Printf("Error updating transaction status: %v", err)
		return false
	}

	return true
}

func (wk *Worker) sendTransferAlerts(transferReq *handler.InitiatedTransfer) bool {
	sender, _, err := wk.UserRepo.GetOne(transferReq.SenderID)
	if err != nil {
		log.Printf("Error finding sender's account for debit alert: %v", err)
		return false
	}

	recipient, _, err := wk.UserRepo.GetOne(transferReq.RecipientID)
	if err != nil {
		log.Printf("Error finding recipient's account for credit alert: %v", err)
		return false
	}

	// debit alert to sender
	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["FirstName"] = sender.FirstName
		emailData["Amount"] = transferReq.Amount
		emailData["RecipientName"] = recipient.FirstName + " " + recipient.LastName
		emailData["TransactionID"] = transferReq.ReferenceNumber
		emailData["NewBalance"] = sender.Balance

		return wk.Mailer.Send(sender.Email, emailData, handler.TransferDebitAlertTemplate)
	})

	// credit alert to recipient
	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["FirstName"] = recipient.FirstName
		emailData["Amount"] = transferReq.Amount
		emailData["SenderName"] = sender.FirstName + " " + sender.LastName
		emailData["TransactionID"] = transferReq.ReferenceNumber
		emailData["NewBalance"] = recipient.Balance

		return wk.Mailer.Send(recipient.Email, emailData, handler.TransferCreditAlertTemplate)
	})

	return true
}
