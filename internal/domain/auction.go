package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bid represents a single bid placed on an auction.
// A nil ID marks a bid that has not been persisted yet; the repository
// assigns the ID on save. Bids are immutable once persisted.
type Bid struct {
	ID       *int64
	BidderID int64
	Amount   decimal.Decimal
}

// Auction is the aggregate root for an auction and its bids.
// All bid mutations go through the aggregate so that the current price
// stays a pure function of the bid set.
type Auction struct {
	ID            int64
	Title         string
	StartingPrice decimal.Decimal
	EndsAt        time.Time
	Bids          []Bid
}

// AddBid appends a new, not-yet-persisted bid to the auction.
// Returns ErrInvalidBid if the amount is not positive. Whether the amount
// beats the current price is not checked here.
func (a *Auction) AddBid(bidderID int64, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidBid, amount)
	}

	a.Bids = append(a.Bids, Bid{
		BidderID: bidderID,
		Amount:   amount,
	})

	return nil
}

// WithdrawBids removes every bid whose ID is in ids.
// Unknown IDs are ignored, so the call is idempotent. Bids without an ID
// have never been persisted and can never match.
func (a *Auction) WithdrawBids(ids []int64) {
	if len(ids) == 0 || len(a.Bids) == 0 {
		return
	}

	withdrawn := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		withdrawn[id] = struct{}{}
	}

	kept := a.Bids[:0]
	for _, bid := range a.Bids {
		if bid.ID != nil {
			if _, ok := withdrawn[*bid.ID]; ok {
				continue
			}
		}
		kept = append(kept, bid)
	}
	a.Bids = kept
}

// CurrentPrice returns the highest bid amount, or the starting price if
// the auction has no bids. It is always recomputed from the bid set and
// never stored on the aggregate.
func (a *Auction) CurrentPrice() decimal.Decimal {
	price := a.StartingPrice
	for _, bid := range a.Bids {
		if bid.Amount.GreaterThan(price) {
			price = bid.Amount
		}
	}
	return price
}

// Ended reports whether the auction has finished at the given time.
func (a *Auction) Ended(now time.Time) bool {
	return !now.Before(a.EndsAt)
}
