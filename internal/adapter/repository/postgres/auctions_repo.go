package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
)

// Querier is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy it, so a repository can be bound to a
// transaction owned by the caller without beginning or committing itself.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// auctionsRepository implements domain.AuctionsRepository
type auctionsRepository struct {
	q Querier
}

// NewAuctionsRepository creates a repository bound to the given connection
// or transaction handle. The handle is borrowed: the repository never
// closes, commits, or rolls it back.
func NewAuctionsRepository(q Querier) domain.AuctionsRepository {
	return &auctionsRepository{q: q}
}

// Get reconstructs the auction aggregate from its row and all bid rows.
func (r *auctionsRepository) Get(ctx context.Context, id int64) (*domain.Auction, error) {
	query := `
		SELECT id, title, starting_price, ends_at
		FROM auctions
		WHERE id = $1
	`

	var auction domain.Auction
	var startingPriceStr string

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&auction.ID,
		&auction.Title,
		&startingPriceStr,
		&auction.EndsAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrAuctionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get auction by ID: %w", err)
	}

	startingPrice, err := decimal.NewFromString(startingPriceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse starting_price: %w", err)
	}
	auction.StartingPrice = startingPrice

	bids, err := r.loadBids(ctx, id)
	if err != nil {
		return nil, err
	}
	auction.Bids = bids

	return &auction, nil
}

func (r *auctionsRepository) loadBids(ctx context.Context, auctionID int64) ([]domain.Bid, error) {
	query := `
		SELECT id, bidder_id, amount
		FROM bids
		WHERE auction_id = $1
		ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var id int64
		var bidderID int64
		var amountStr string

		if err := rows.Scan(&id, &bidderID, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bid amount: %w", err)
		}

		bidID := id
		bids = append(bids, domain.Bid{
			ID:       &bidID,
			BidderID: bidderID,
			Amount:   amount,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bids: %w", err)
	}

	return bids, nil
}

// Save reconciles the aggregate's bid set against the stored rows:
// stored bids missing from the aggregate are deleted, bids without an ID
// are inserted and receive their ID, matched bids are left untouched, and
// the denormalized current_price column is rewritten from the bid set.
// All statements run on the repository's handle, so when that handle is a
// transaction the whole save is atomically visible or rolled back.
func (r *auctionsRepository) Save(ctx context.Context, auction *domain.Auction) error {
	storedIDs, err := r.storedBidIDs(ctx, auction.ID)
	if err != nil {
		return err
	}

	kept := make(map[int64]struct{}, len(auction.Bids))
	for _, bid := range auction.Bids {
		if bid.ID != nil {
			kept[*bid.ID] = struct{}{}
		}
	}

	var removed []int64
	for _, id := range storedIDs {
		if _, ok := kept[id]; !ok {
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		deleteQuery := `DELETE FROM bids WHERE auction_id = $1 AND id = ANY($2)`
		if _, err := r.q.ExecContext(ctx, deleteQuery, auction.ID, pq.Array(removed)); err != nil {
			return translateConstraint(fmt.Errorf("failed to delete withdrawn bids: %w", err))
		}
	}

	insertQuery := `
		INSERT INTO bids (amount, auction_id, bidder_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	for i := range auction.Bids {
		bid := &auction.Bids[i]
		if bid.ID != nil {
			continue
		}

		var newID int64
		err := r.q.QueryRowContext(ctx, insertQuery,
			bid.Amount.String(),
			auction.ID,
			bid.BidderID,
		).Scan(&newID)
		if err != nil {
			return translateConstraint(fmt.Errorf("failed to insert bid: %w", err))
		}
		bid.ID = &newID
	}

	updateQuery := `UPDATE auctions SET current_price = $1 WHERE id = $2`

	res, err := r.q.ExecContext(ctx, updateQuery, auction.CurrentPrice().String(), auction.ID)
	if err != nil {
		return translateConstraint(fmt.Errorf("failed to update current price: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrAuctionNotFound, auction.ID)
	}

	return nil
}

func (r *auctionsRepository) storedBidIDs(ctx context.Context, auctionID int64) ([]int64, error) {
	query := `SELECT id FROM bids WHERE auction_id = $1`

	rows, err := r.q.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stored bid IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bid ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bid IDs: %w", err)
	}

	return ids, nil
}

// translateConstraint maps integrity violations (class 23) onto
// domain.ErrConstraintViolation while keeping the driver error in the
// chain. Other errors, connectivity included, pass through untouched.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err)
	}
	return err
}
