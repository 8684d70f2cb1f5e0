package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cradoe/finlap/internal/handler"
	"github.com/cradoe/finlap/internal/stream"
)

func (wk *Worker) CreditWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferCreditGroupID,
		Topic:   TransferCreditTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("CreditWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100) // Poll every 100ms
			switch e := event.(type) {
			case *kafka.Message:
				message := e.Value

				var transferReq handler.InitiatedTransfer
				json.Unmarshal(message, &transferReq)

				success := wk.creditAccount(&transferReq)
				if success {
					// Produce message so the success worker can mark the transaction as successful
					wk.KafkaStream.ProduceMessage(TransferSuccessTopic, string(message))
				} else {
					wk.KafkaStream.ProduceMessage(TransferFailedTopic, string(message))
				}
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			}
		}
	}
}

// creditAccount pays the recipient. A failure here means the sender was
// already debited, so the money goes back before the transfer is failed.
func (wk *Worker) creditAccount(transferReq *handler.InitiatedTransfer) bool {
	err := wk.UserRepo.Credit(transferReq.RecipientID, transferReq.Amount)
	if err != nil {
		log.Printf("Error crediting account: %v", err)

		if revertErr := wk.UserRepo.Credit(transferReq.SenderID, transferReq.Amount); revertErr != nil {
			log.Printf("Error reverting debit for transfer %s: %v", transferReq.ReferenceNumber, revertErr)
		}

		return false
	}

	return true
}
