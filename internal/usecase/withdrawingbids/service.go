package withdrawingbids

import (
	"context"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
)

// WithdrawBidsInput represents the input for withdrawing bids
type WithdrawBidsInput struct {
	AuctionID int64
	BidIDs    []int64
}

// WithdrawBidsService handles removal of placed bids from an auction
type WithdrawBidsService struct {
	UoW domain.UnitOfWork
}

// NewWithdrawBidsService creates a new WithdrawBidsService instance
func NewWithdrawBidsService(uow domain.UnitOfWork) *WithdrawBidsService {
	return &WithdrawBidsService{UoW: uow}
}

// WithdrawBids removes the given bids from the auction and saves the
// result in one transaction. Unknown bid IDs are ignored, so repeating a
// withdrawal is harmless. The stored current price is recomputed from the
// remaining bids as part of the save.
func (s *WithdrawBidsService) WithdrawBids(ctx context.Context, input WithdrawBidsInput) error {
	return s.UoW.WithinTx(ctx, func(repo domain.AuctionsRepository) error {
		auction, err := repo.Get(ctx, input.AuctionID)
		if err != nil {
			return err
		}

		auction.WithdrawBids(input.BidIDs)

		return repo.Save(ctx, auction)
	})
}
