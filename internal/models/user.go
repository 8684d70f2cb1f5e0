package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID                         string         `db:"id"`
	FirstName                  string         `db:"first_name"`
	LastName                   string         `db:"last_name"`
	UserTag                    string         `db:"user_tag"`
	Email                      string         `db:"email"`
	IsEmailVerified            bool           `db:"is_email_verified"`
	IsIdentityVerified         bool           `db:"is_identity_verified"`
	IdentityVerificationStatus string         `db:"identity_verification_status"`
	HashedPassword             string         `db:"hashed_password"`
	Balance                    float64        `db:"balance"`
	Bvn                        sql.NullString `db:"bvn"`
	AccountNumber              sql.NullString `db:"account_number"`
	AccountBankName            sql.NullString `db:"account_bank_name"`
	AccountFlwRef              sql.NullString `db:"account_flw_ref"`
	AccountOrderRef            sql.NullString `db:"account_order_ref"`
	AccountCreatedAt           sql.NullTime   `db:"account_created_at"`
	Photo                      sql.NullString `db:"photo"`
	ReferrerID                 sql.NullString `db:"referrer_id"`
	CreatedAt                  time.Time      `db:"created_at"`
}

// VirtualAccountDetails carries the provider-issued bank account
// attached to a user after successful identity verification.
type VirtualAccountDetails struct {
	AccountNumber string
	BankName      string
	FlwRef        string
	OrderRef      string
	CreatedAt     time.Time
}
