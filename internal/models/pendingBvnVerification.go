package models

import "time"

type PendingBvnVerification struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Bvn       string    `db:"bvn"`
	Reference string    `db:"reference"`
	CreatedAt time.Time `db:"created_at"`
}
