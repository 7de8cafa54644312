// Package rest exposes the auction use cases over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/placingbid"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/withdrawingbids"
)

// BidPlacer places a bid on an auction.
type BidPlacer interface {
	PlaceBid(ctx context.Context, input placingbid.PlaceBidInput) (*placingbid.PlaceBidOutput, error)
}

// BidWithdrawer removes placed bids from an auction.
type BidWithdrawer interface {
	WithdrawBids(ctx context.Context, input withdrawingbids.WithdrawBidsInput) error
}

// AuctionGetter loads a full auction aggregate.
type AuctionGetter interface {
	GetAuction(ctx context.Context, id int64) (*domain.Auction, error)
}

// Handler implements the HTTP handlers for the auction API.
type Handler struct {
	placeBid     BidPlacer
	withdrawBids BidWithdrawer
	auctions     AuctionGetter
	logger       *zap.Logger
	adminToken   string
}

// NewHandler creates a new HTTP handler instance.
func NewHandler(placeBid BidPlacer, withdrawBids BidWithdrawer, auctions AuctionGetter, logger *zap.Logger, adminToken string) *Handler {
	return &Handler{
		placeBid:     placeBid,
		withdrawBids: withdrawBids,
		auctions:     auctions,
		logger:       logger,
		adminToken:   adminToken,
	}
}

type bidResponse struct {
	ID       int64           `json:"id"`
	BidderID int64           `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type auctionResponse struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	EndsAt        time.Time       `json:"ends_at"`
	Bids          []bidResponse   `json:"bids"`
}

// GetAuction returns an auction with all its bids.
func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFromURL(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	auction, err := h.auctions.GetAuction(r.Context(), auctionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := auctionResponse{
		ID:            auction.ID,
		Title:         auction.Title,
		StartingPrice: auction.StartingPrice,
		CurrentPrice:  auction.CurrentPrice(),
		EndsAt:        auction.EndsAt,
		Bids:          make([]bidResponse, 0, len(auction.Bids)),
	}
	for _, bid := range auction.Bids {
		resp.Bids = append(resp.Bids, bidResponse{
			ID:       *bid.ID,
			BidderID: bid.BidderID,
			Amount:   bid.Amount,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type placeBidRequest struct {
	BidderID int64           `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type placeBidResponse struct {
	BidID        int64           `json:"bid_id"`
	IsWinning    bool            `json:"is_winning"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

// PlaceBid places a new bid on an auction.
func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFromURL(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	output, err := h.placeBid.PlaceBid(r.Context(), placingbid.PlaceBidInput{
		AuctionID: auctionID,
		BidderID:  req.BidderID,
		Amount:    req.Amount,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, placeBidResponse{
		BidID:        output.BidID,
		IsWinning:    output.IsWinning,
		CurrentPrice: output.CurrentPrice,
	})
}

type withdrawBidsRequest struct {
	BidIDs []int64 `json:"bid_ids"`
}

// WithdrawBids removes the given bids from an auction. Admin only.
func (h *Handler) WithdrawBids(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFromURL(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req withdrawBidsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	err = h.withdrawBids.WithdrawBids(r.Context(), withdrawingbids.WithdrawBidsInput{
		AuctionID: auctionID,
		BidIDs:    req.BidIDs,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func auctionIDFromURL(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "auctionID"), 10, 64)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response error", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidBid), errors.Is(err, domain.ErrAuctionEnded):
		http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrConstraintViolation):
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
	default:
		h.logger.Error("request handling error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
