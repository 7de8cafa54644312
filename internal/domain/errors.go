package domain

import "errors"

// ErrAuctionNotFound is returned when no auction exists for the requested ID.
var ErrAuctionNotFound = errors.New("auction not found")

// ErrInvalidBid is returned when a bid violates an aggregate rule,
// such as a non-positive amount.
var ErrInvalidBid = errors.New("invalid bid")

// ErrAuctionEnded is returned when a bid is placed on a finished auction.
var ErrAuctionEnded = errors.New("auction already ended")

// ErrConstraintViolation is returned when the store rejects a save due to
// referential integrity, e.g. an unknown bidder ID. It always wraps the
// underlying driver error.
var ErrConstraintViolation = errors.New("persistence constraint violated")
