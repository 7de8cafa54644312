package auctiondetails

import (
	"context"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
)

// AuctionDetailsService exposes the read side: a fully reconstructed
// auction aggregate for presentation.
type AuctionDetailsService struct {
	UoW domain.UnitOfWork
}

// NewAuctionDetailsService creates a new AuctionDetailsService instance
func NewAuctionDetailsService(uow domain.UnitOfWork) *AuctionDetailsService {
	return &AuctionDetailsService{UoW: uow}
}

// GetAuction loads the auction with all its bids.
func (s *AuctionDetailsService) GetAuction(ctx context.Context, id int64) (*domain.Auction, error) {
	var auction *domain.Auction

	err := s.UoW.WithinTx(ctx, func(repo domain.AuctionsRepository) error {
		var err error
		auction, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return auction, nil
}
