package models

import (
	"errors"
	"fmt"
)

// Sentinel errors translated at the request boundary
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports user-correctable malformed input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InsufficientStockError identifies the first offending item of a
// rejected stock decrement group. Reported as a structured non-5xx
// response so the UI can react.
type InsufficientStockError struct {
	StockItemID int64
	Name        string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for item %s. Available: %d, Ordered: %d",
		e.Name, e.Available, e.Requested)
}
