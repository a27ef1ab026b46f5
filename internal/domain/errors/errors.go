package errors

import (
	"errors"
	"fmt"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmptyBatch         = errors.New("batch contains no orders")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
)

// InvalidTransitionError carries the attempted transition and the set of
// states the table permits from the current one.
type InvalidTransitionError struct {
	From    model.OrderStatus
	To      model.OrderStatus
	Allowed []model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s (allowed: %v)", e.From, e.To, e.Allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewInvalidTransition builds the error with the allowed set filled from the
// shared transition table.
func NewInvalidTransition(from, to model.OrderStatus) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Allowed: model.AllowedNext(from)}
}
