package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cradoe/finlap/assets"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
)

const defaultTimeout = 3 * time.Second

type DB struct {
	*sqlx.DB
}

// Database interface defines available repositories
type Database interface {
	User() UserRepository
	VerificationToken() VerificationTokenRepository
	PendingBvnVerification() PendingBvnVerificationRepository
	Transaction() TransactionRepository

	Close() error
}

// DatabaseImpl implements the Database interface
type DatabaseImpl struct {
	db *DB

	userRepo        UserRepository
	tokenRepo       VerificationTokenRepository
	pendingBvnRepo  PendingBvnVerificationRepository
	transactionRepo TransactionRepository

	mu sync.Mutex
}

// New initializes a database connection and runs migrations if enabled
func New(dsn string, automigrate bool) (Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", "postgres://"+dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	if automigrate {
		iofsDriver, err := iofs.New(assets.EmbeddedFiles, "migrations")
		if err != nil {
			return nil, err
		}

		migrator, err := migrate.NewWithSourceInstance("iofs", iofsDriver, "postgres://"+dsn)
		if err != nil {
			return nil, err
		}

		if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, err
		}
	}

	return &DatabaseImpl{db: &DB{db}}, nil
}

func (d *DatabaseImpl) Close() error {
	return d.db.Close()
}

func (d *DatabaseImpl) User() UserRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.userRepo == nil {
		d.userRepo = NewUserRepository(d.db)
	}
	return d.userRepo
}

func (d *DatabaseImpl) VerificationToken() VerificationTokenRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tokenRepo == nil {
		d.tokenRepo = NewVerificationTokenRepository(d.db)
	}
	return d.tokenRepo
}

func (d *DatabaseImpl) PendingBvnVerification() PendingBvnVerificationRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pendingBvnRepo == nil {
		d.pendingBvnRepo = NewPendingBvnVerificationRepository(d.db)
	}
	return d.pendingBvnRepo
}

func (d *DatabaseImpl) Transaction() TransactionRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.transactionRepo == nil {
		d.transactionRepo = NewTransactionRepository(d.db)
	}
	return d.transactionRepo
}
