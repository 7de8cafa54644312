package domain

import "context"

// AuctionsRepository defines the persistence operations for the auction
// aggregate. Implementations are bound to a single transactional scope
// owned by the caller; they never begin or commit transactions themselves.
type AuctionsRepository interface {
	// Get reconstructs a full auction aggregate, bids included.
	// Returns ErrAuctionNotFound if the ID is unknown.
	Get(ctx context.Context, id int64) (*Auction, error)

	// Save reconciles the aggregate's bid set against storage:
	// stored bids missing from the aggregate are deleted, bids without an
	// ID are inserted (and receive their ID), and the denormalized current
	// price is rewritten from the bid set.
	Save(ctx context.Context, auction *Auction) error
}

// UnitOfWork runs a function against a repository bound to one database
// transaction. The transaction commits if fn returns nil and rolls back
// otherwise, so every repository call inside fn is atomically visible
// or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repo AuctionsRepository) error) error
}
