package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned (wrapped) when an order, split, fabric, product or seamstress does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a create would duplicate an existing record.
	ErrConflict = errors.New("already exists")
	// ErrInvalidTransition is returned when a command is not allowed in the order's current status.
	ErrInvalidTransition = errors.New("invalid transition")
)

// ValidationError rejects a command before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Shortage is one color whose fabric stock cannot cover the rolls an order needs.
type Shortage struct {
	Fabric    string          `json:"fabric"`
	Color     string          `json:"color"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

// Missing returns how many rolls are lacking.
func (s Shortage) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// InsufficientStockError lists every short color of a rejected cutting transition.
type InsufficientStockError struct {
	OrderID   string
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s/%s needs %s rolls, has %s (missing %s)",
			s.Fabric, s.Color, s.Required.StringFixed(2), s.Available.StringFixed(2), s.Missing().StringFixed(2)))
	}
	return fmt.Sprintf("insufficient fabric stock for order %s: %s", e.OrderID, strings.Join(parts, "; "))
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

func invalidTransition(orderID string, format string, args ...any) error {
	return fmt.Errorf("order %s: %s: %w", orderID, fmt.Sprintf(format, args...), ErrInvalidTransition)
}
