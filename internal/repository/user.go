package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/finlap/internal/models"
)

type UserRepository interface {
	Insert(user *models.User) (string, error)
	GetOne(id string) (*models.User, bool, error)
	GetByEmail(email string) (*models.User, bool, error)
	GetByEmailOrTag(identifier string) (*models.User, bool, error)
	GetByTag(tag string) (*models.User, bool, error)
	GetByBvn(bvn string) (*models.User, bool, error)
	MarkEmailVerified(id string) error
	UpdatePassword(id, hashedPassword string) error
	UpdateProfile(user *models.User) error
	SetIdentityStatus(id, status string) error
	ApproveIdentity(id, bvn string) error
	AttachVirtualAccount(id string, account *models.VirtualAccountDetails) error
	SetReferrer(id, referrerID string) error
	ChangePhoto(id, photo string) error
	Debit(id string, amount float64) (bool, error)
	Credit(id string, amount float64) error
}

const (
	// IdentityNotSubmittedStatus is the default before a user ever submits a BVN.
	IdentityNotSubmittedStatus = "not-submitted"

	// IdentityPendingStatus indicates a consent flow is in flight with the provider.
	IdentityPendingStatus = "pending"

	// IdentityApprovedStatus is terminal; the user can no longer change their names.
	IdentityApprovedStatus = "approved"

	// IdentityRejectedStatus allows resubmission with a corrected BVN.
	IdentityRejectedStatus = "rejected"
)

type UserRepositoryImpl struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (repo *UserRepositoryImpl) Insert(user *models.User) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO users (first_name, last_name, user_tag, email, hashed_password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		user.FirstName,
		user.LastName,
		user.UserTag,
		user.Email,
		user.HashedPassword,
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (repo *UserRepositoryImpl) GetOne(id string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE id = $1`

	err := repo.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) GetByEmail(email string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE email = LOWER($1)`

	err := repo.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

// GetByEmailOrTag resolves login identifiers: either the email address or
// the user tag, both matched case-insensitively.
func (repo *UserRepositoryImpl) GetByEmailOrTag(identifier string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE email = LOWER($1) OR LOWER(user_tag) = LOWER($1)`

	err := repo.db.GetContext(ctx, &user, query, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) GetByTag(tag string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE LOWER(user_tag) = LOWER($1)`

	err := repo.db.GetContext(ctx, &user, query, tag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) GetByBvn(bvn string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE bvn = $1`

	err := repo.db.GetContext(ctx, &user, query, bvn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) MarkEmailVerified(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET is_email_verified = true WHERE id = $1`

	_, err := repo.db.ExecContext(ctx, query, id)
	return err
}

func (repo *UserRepositoryImpl) UpdatePassword(id, hashedPassword string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET hashed_password = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, hashedPassword, id)
	return err
}

// UpdateProfile writes the mutable identity fields. Changing the email
// also resets the email verification flag, the handler is expected to
// issue a fresh verification token afterwards.
func (repo *UserRepositoryImpl) UpdateProfile(user *models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, user_tag = $3, email = LOWER($4), is_email_verified = $5
		WHERE id = $6`

	_, err := repo.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.UserTag,
		user.Email,
		user.IsEmailVerified,
		user.ID,
	)
	return err
}

func (repo *UserRepositoryImpl) SetIdentityStatus(id, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET identity_verification_status = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

func (repo *UserRepositoryImpl) ApproveIdentity(id, bvn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET identity_verification_status = $1, is_identity_verified = true, bvn = $2
		WHERE id = $3`

	_, err := repo.db.ExecContext(ctx, query, IdentityApprovedStatus, bvn, id)
	return err
}

func (repo *UserRepositoryImpl) AttachVirtualAccount(id string, account *models.VirtualAccountDetails) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET account_number = $1, account_bank_name = $2, account_flw_ref = $3, account_order_ref = $4, account_created_at = $5
		WHERE id = $6`

	_, err := repo.db.ExecContext(ctx, query,
		account.AccountNumber,
		account.BankName,
		account.FlwRef,
		account.OrderRef,
		account.CreatedAt,
		id,
	)
	return err
}

func (repo *UserRepositoryImpl) SetReferrer(id, referrerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET referrer_id = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, referrerID, id)
	return err
}

func (repo *UserRepositoryImpl) ChangePhoto(id, photo string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET photo = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, photo, id)
	return err
}

// Debit subtracts from the balance with a guard so a concurrent transfer
// can never push it below zero. Returns false when funds were insufficient.
func (repo *UserRepositoryImpl) Debit(id string, amount float64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1`

	result, err := repo.db.ExecContext(ctx, query, amount, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (repo *UserRepositoryImpl) Credit(id string, amount float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET balance = balance + $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, amount, id)
	return err
}
