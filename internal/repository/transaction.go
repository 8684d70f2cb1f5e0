package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/finlap/internal/models"
)

type TransactionRepository interface {
	Insert(transaction *models.Transaction) (*models.Transaction, error)
	FindByReference(referenceNumber string) (*models.Transaction, bool, error)
	GetOne(id string) (*models.Transaction, bool, error)
	UpdateStatus(id, status string) error
}

const (
	TransactionPendingStatus = "pending"
	TransactionSuccessStatus = "success"
	TransactionFailedStatus  = "failed"
)

type TransactionRepositoryImpl struct {
	db *DB
}

func NewTransactionRepository(db *DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (repo *TransactionRepositoryImpl) Insert(transaction *models.Transaction) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO transactions (reference_number, sender_id, recipient_id, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at`

	err := repo.db.QueryRowContext(ctx, query,
		transaction.ReferenceNumber,
		transaction.SenderID,
		transaction.RecipientID,
		transaction.Amount,
		transaction.Description,
	).Scan(&transaction.ID, &transaction.Status, &transaction.CreatedAt)
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

func (repo *TransactionRepositoryImpl) FindByReference(referenceNumber string) (*models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transaction models.Transaction

	query := `SELECT * FROM transactions WHERE reference_number = $1`

	err := repo.db.GetContext(ctx, &transaction, query, referenceNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &transaction, true, err
}

func (repo *TransactionRepositoryImpl) GetOne(id string) (*models.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transaction models.Transaction

	query := `SELECT * FROM transactions WHERE id = $1`

	err := repo.db.GetContext(ctx, &transaction, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &transaction, true, err
}

func (repo *TransactionRepositoryImpl) UpdateStatus(id, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE transactions SET status = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}
