package placingbid

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
)

// PlaceBidInput represents the input for placing a bid
type PlaceBidInput struct {
	AuctionID int64
	BidderID  int64
	Amount    decimal.Decimal
}

// PlaceBidOutput reports the outcome of a placed bid
type PlaceBidOutput struct {
	BidID        int64
	IsWinning    bool
	CurrentPrice decimal.Decimal
}

// PlaceBidService handles bid placement
type PlaceBidService struct {
	UoW domain.UnitOfWork
	Now func() time.Time
}

// NewPlaceBidService creates a new PlaceBidService instance
func NewPlaceBidService(uow domain.UnitOfWork) *PlaceBidService {
	return &PlaceBidService{
		UoW: uow,
		Now: time.Now,
	}
}

// PlaceBid loads the auction, appends the bid and saves, all inside one
// transaction. Returns ErrAuctionEnded for auctions past their end time;
// amount validation is the aggregate's job.
func (s *PlaceBidService) PlaceBid(ctx context.Context, input PlaceBidInput) (*PlaceBidOutput, error) {
	var output *PlaceBidOutput

	err := s.UoW.WithinTx(ctx, func(repo domain.AuctionsRepository) error {
		auction, err := repo.Get(ctx, input.AuctionID)
		if err != nil {
			return err
		}

		if auction.Ended(s.Now()) {
			return fmt.Errorf("%w: auction %d", domain.ErrAuctionEnded, auction.ID)
		}

		if err := auction.AddBid(input.BidderID, input.Amount); err != nil {
			return err
		}

		if err := repo.Save(ctx, auction); err != nil {
			return err
		}

		// Save assigned the new bid its row ID
		newBid := auction.Bids[len(auction.Bids)-1]

		output = &PlaceBidOutput{
			BidID:        *newBid.ID,
			IsWinning:    auction.CurrentPrice().Equal(input.Amount),
			CurrentPrice: auction.CurrentPrice(),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
