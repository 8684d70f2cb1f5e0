package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/finlap/internal/models"
)

type PendingBvnVerificationRepository interface {
	Upsert(pending *models.PendingBvnVerification) (string, error)
	GetByReference(reference string) (*models.PendingBvnVerification, bool, error)
	GetByUser(userID string) (*models.PendingBvnVerification, bool, error)
	Delete(id string) error
}

type PendingBvnVerificationRepositoryImpl struct {
	db *DB
}

func NewPendingBvnVerificationRepository(db *DB) PendingBvnVerificationRepository {
	return &PendingBvnVerificationRepositoryImpl{db: db}
}

// Upsert creates the pending record, or overwrites the BVN and provider
// reference when the user re-submits before the previous flow resolved.
// The unique index on user_id closes the duplicate-submission race.
func (repo *PendingBvnVerificationRepositoryImpl) Upsert(pending *models.PendingBvnVerification) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO pending_bvn_verifications (user_id, bvn, reference)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET bvn = EXCLUDED.bvn, reference = EXCLUDED.reference, created_at = now()
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		pending.UserID,
		pending.Bvn,
		pending.Reference,
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (repo *PendingBvnVerificationRepositoryImpl) GetByReference(reference string) (*models.PendingBvnVerification, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var pending models.PendingBvnVerification

	query := `SELECT * FROM pending_bvn_verifications WHERE reference = $1`

	err := repo.db.GetContext(ctx, &pending, query, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &pending, true, err
}

func (repo *PendingBvnVerificationRepositoryImpl) GetByUser(userID string) (*models.PendingBvnVerification, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var pending models.PendingBvnVerification

	query := `SELECT * FROM pending_bvn_verifications WHERE user_id = $1`

	err := repo.db.GetContext(ctx, &pending, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &pending, true, err
}

func (repo *PendingBvnVerificationRepositoryImpl) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `DELETE FROM pending_bvn_verifications WHERE id = $1`

	_, err := repo.db.ExecContext(ctx, query, id)
	return err
}
