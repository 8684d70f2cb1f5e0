package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cradoe/finlap/internal/models"
)

type VerificationTokenRepository interface {
	Insert(token *models.VerificationToken) (string, error)
	GetBySelector(selector, tokenType string) (*models.VerificationToken, bool, error)
	Delete(id string) error
	DeleteAllForUser(userID, tokenType string) error
}

const (
	// VerificationTokenEmailType marks tokens issued for email verification links.
	VerificationTokenEmailType = "verify-email"

	// VerificationTokenPasswordType marks tokens issued for password reset links.
	VerificationTokenPasswordType = "reset-password"
)

type VerificationTokenRepositoryImpl struct {
	db *DB
}

func NewVerificationTokenRepository(db *DB) VerificationTokenRepository {
	return &VerificationTokenRepositoryImpl{db: db}
}

func (repo *VerificationTokenRepositoryImpl) Insert(token *models.VerificationToken) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO verification_tokens (user_id, type, selector, hashed_token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		token.UserID,
		token.Type,
		token.Selector,
		token.HashedToken,
		token.ExpiresAt,
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (repo *VerificationTokenRepositoryImpl) GetBySelector(selector, tokenType string) (*models.VerificationToken, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var token models.VerificationToken

	query := `SELECT * FROM verification_tokens WHERE selector = $1 AND type = $2`

	err := repo.db.GetContext(ctx, &token, query, selector, tokenType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &token, true, err
}

func (repo *VerificationTokenRepositoryImpl) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `DELETE FROM verification_tokens WHERE id = $1`

	_, err := repo.db.ExecContext(ctx, query, id)
	return err
}

// DeleteAllForUser purges every live token of the given type before a new
// one is issued, so at most one link is redeemable per user at any time.
func (repo *VerificationTokenRepositoryImpl) DeleteAllForUser(userID, tokenType string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `DELETE FROM verification_tokens WHERE user_id = $1 AND type = $2`

	_, err := repo.db.ExecContext(ctx, query, userID, tokenType)
	return err
}
