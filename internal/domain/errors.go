package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// AllOutOfStockError is returned by order placement when no requested line
// could be allocated. It carries the full shortage detail for the caller.
type AllOutOfStockError struct {
	Shortages []ShortageRecord
}

func (e *AllOutOfStockError) Error() string {
	return "all requested products are out of stock"
}
