package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cradoe/finlap/internal/handler"
	"github.com/cradoe/finlap/internal/stream"
)

func (wk *Worker) DebitWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferDebitGroupID,
		Topic:   TransferDebitTopic, // Listen to debit the sender's account
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("DebitWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100) // Poll every 100ms
			switch e := event.(type) {
			case *kafka.Message:
				message := e.Value

				var transferReq handler.InitiatedTransfer
				json.Unmarshal(message, &transferReq)

				success := wk.debitAccount(&transferReq)
				if success {
					// Produce message so that the credit worker can credit the recipient
					wk.KafkaStream.ProduceMessage(TransferCreditTopic, string(message))
				} else {
					wk.KafkaStream.ProduceMessage(TransferFailedTopic, string(message))
				}
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			}
		}
	}
}

// debitAccount takes the amount off the sender. The update carries its own
// balance guard, so a sender who spent the money between initiation and now
// simply fails the transfer instead of going negative.
func (wk *Worker) debitAccount(transferReq *handler.InitiatedTransfer) bool {
	debited, err := wk.UserRepo.Debit(transferReq.SenderID, transferReq.Amount)
	if err != nil {
		log.Printf("Error debiting account: %v", err)
		return false
	}

	if !debited {
		log.Printf("Insufficient balance for transfer %s", transferReq.ReferenceNumber)
		return false
	}

	return true
}
