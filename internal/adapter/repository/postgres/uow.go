package postgres

import (
	"context"
	"fmt"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
)

// unitOfWork implements domain.UnitOfWork
type unitOfWork struct {
	db *DB
}

// NewUnitOfWork creates a unit of work that opens one database transaction
// per call and hands the use case a repository bound to it.
func NewUnitOfWork(db *DB) domain.UnitOfWork {
	return &unitOfWork{db: db}
}

// WithinTx begins a transaction, runs fn against a repository bound to it,
// and commits if fn returns nil. Any error from fn rolls the transaction
// back, so no partial save is ever visible outside it.
func (u *unitOfWork) WithinTx(ctx context.Context, fn func(repo domain.AuctionsRepository) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewAuctionsRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
