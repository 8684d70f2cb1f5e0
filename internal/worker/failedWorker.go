package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cradoe/finlap/internal/handler"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/stream"
)

// FailedTransferWorker marks transfers that could not complete. Any balance
// reversal has already happened by the time a message lands on this topic.
func (wk *Worker) FailedTransferWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferFailedGroupID,
		Topic:   TransferFailedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("FailedTransferWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				message := e.Value

				var transferReq handler.InitiatedTransfer
				json.Unmarshal(message, &transferReq)

				err := wk.TransactionRepo.UpdateStatus(transferReq.ID, repository.TransactionFailedStatus)
				if err != nil {
					log.Printf("Error marking transaction as failed: %v", err)
				}
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			}
		}
	}
}
