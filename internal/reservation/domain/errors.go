package domain

import "errors"

var (
	ErrBusNotFound         = errors.New("bus not found")
	ErrNotEnoughSeats      = errors.New("not enough seats available")
	ErrInvalidCancellation = errors.New("invalid cancellation request")
	ErrInvalidSeatCount    = errors.New("seat count must be positive")
	ErrInvalidBus          = errors.New("invalid bus")
	ErrDuplicateBus        = errors.New("duplicate bus number")
)
