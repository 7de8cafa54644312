package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mlisowski/auctionhouse-backend/internal/domain"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/placingbid"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/withdrawingbids"
)

const testAdminToken = "test-admin-token"

// MockBidPlacer is a mock implementation of BidPlacer for testing
type MockBidPlacer struct {
	mock.Mock
}

func (m *MockBidPlacer) PlaceBid(ctx context.Context, input placingbid.PlaceBidInput) (*placingbid.PlaceBidOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*placingbid.PlaceBidOutput), args.Error(1)
}

// MockBidWithdrawer is a mock implementation of BidWithdrawer for testing
type MockBidWithdrawer struct {
	mock.Mock
}

func (m *MockBidWithdrawer) WithdrawBids(ctx context.Context, input withdrawingbids.WithdrawBidsInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockAuctionGetter is a mock implementation of AuctionGetter for testing
type MockAuctionGetter struct {
	mock.Mock
}

func (m *MockAuctionGetter) GetAuction(ctx context.Context, id int64) (*domain.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Auction), args.Error(1)
}

type testHarness struct {
	placer     *MockBidPlacer
	withdrawer *MockBidWithdrawer
	getter     *MockAuctionGetter
	server     *httptest.Server
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		placer:     new(MockBidPlacer),
		withdrawer: new(MockBidWithdrawer),
		getter:     new(MockAuctionGetter),
	}

	handler := NewHandler(h.placer, h.withdrawer, h.getter, zap.NewNop(), testAdminToken)
	h.server = httptest.NewServer(handler.SetupRouter())
	t.Cleanup(h.server.Close)

	return h
}

func (h *testHarness) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, h.server.URL+path, &buf)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestGetAuction(t *testing.T) {
	h := newTestHarness(t)

	bidID := int64(10)
	h.getter.On("GetAuction", mock.Anything, int64(1)).Return(&domain.Auction{
		ID:            1,
		Title:         "Cool socks",
		StartingPrice: decimal.RequireFromString("7.50"),
		EndsAt:        time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Bids: []domain.Bid{
			{ID: &bidID, BidderID: 5, Amount: decimal.RequireFromString("15.00")},
		},
	}, nil)

	resp := h.doJSON(t, http.MethodGet, "/api/auctions/1", nil, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var got auctionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Cool socks", got.Title)
	assert.True(t, decimal.RequireFromString("15.00").Equal(got.CurrentPrice))
	require.Len(t, got.Bids, 1)
	assert.Equal(t, int64(10), got.Bids[0].ID)
}

func TestGetAuction_NotFound(t *testing.T) {
	h := newTestHarness(t)

	h.getter.On("GetAuction", mock.Anything, int64(99)).Return(nil, domain.ErrAuctionNotFound)

	resp := h.doJSON(t, http.MethodGet, "/api/auctions/99", nil, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetAuction_BadID(t *testing.T) {
	h := newTestHarness(t)

	resp := h.doJSON(t, http.MethodGet, "/api/auctions/not-a-number", nil, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaceBid(t *testing.T) {
	h := newTestHarness(t)

	h.placer.On("PlaceBid", mock.Anything, mock.MatchedBy(func(input placingbid.PlaceBidInput) bool {
		return input.AuctionID == 1 &&
			input.BidderID == 7 &&
			input.Amount.Equal(decimal.RequireFromString("30.00"))
	})).Return(&placingbid.PlaceBidOutput{
		BidID:        2,
		IsWinning:    true,
		CurrentPrice: decimal.RequireFromString("30.00"),
	}, nil)

	resp := h.doJSON(t, http.MethodPost, "/api/auctions/1/bids",
		map[string]any{"bidder_id": 7, "amount": "30.00"}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got placeBidResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, int64(2), got.BidID)
	assert.True(t, got.IsWinning)
	assert.True(t, decimal.RequireFromString("30.00").Equal(got.CurrentPrice))
}

func TestPlaceBid_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "invalid bid", serviceErr: domain.ErrInvalidBid, wantStatus: http.StatusUnprocessableEntity},
		{name: "ended auction", serviceErr: domain.ErrAuctionEnded, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown bidder", serviceErr: domain.ErrConstraintViolation, wantStatus: http.StatusConflict},
		{name: "unknown auction", serviceErr: domain.ErrAuctionNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHarness(t)

			h.placer.On("PlaceBid", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)

			resp := h.doJSON(t, http.MethodPost, "/api/auctions/1/bids",
				map[string]any{"bidder_id": 7, "amount": "30.00"}, nil)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestWithdrawBids(t *testing.T) {
	h := newTestHarness(t)

	h.withdrawer.On("WithdrawBids", mock.Anything, withdrawingbids.WithdrawBidsInput{
		AuctionID: 1,
		BidIDs:    []int64{10, 11},
	}).Return(nil)

	resp := h.doJSON(t, http.MethodPost, "/api/auctions/1/withdraw-bids",
		map[string]any{"bid_ids": []int64{10, 11}},
		map[string]string{"Authorization": "Bearer " + testAdminToken})

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	h.withdrawer.AssertExpectations(t)
}

func TestWithdrawBids_Unauthorized(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "missing token", headers: nil},
		{name: "wrong token", headers: map[string]string{"Authorization": "Bearer wrong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHarness(t)

			resp := h.doJSON(t, http.MethodPost, "/api/auctions/1/withdraw-bids",
				map[string]any{"bid_ids": []int64{10}}, tt.headers)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			h.withdrawer.AssertNotCalled(t, "WithdrawBids", mock.Anything, mock.Anything)
		})
	}
}
