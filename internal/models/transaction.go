package models

import (
	"database/sql"
	"time"
)

type Transaction struct {
	ID              string         `db:"id"`
	ReferenceNumber string         `db:"reference_number"`
	SenderID        string         `db:"sender_id"`
	RecipientID     string         `db:"recipient_id"`
	Amount          float64        `db:"amount"`
	Status          string         `db:"status"`
	Description     sql.NullString `db:"description"`
	CreatedAt       time.Time      `db:"created_at"`
}
