package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The functions in this file are the order lifecycle engine. They take the current order
// (and, for cutting, a fabric snapshot) and return a new order value or a rejection.
// They never mutate their inputs and never perform I/O; OrderService persists the results.

// PlannedItem is one color line of a new order.
type PlannedItem struct {
	Color         string          `json:"color" validate:"required"`
	ColorHex      string          `json:"colorHex"`
	RollsUsed     decimal.Decimal `json:"rollsUsed"`
	PiecesPerSize int             `json:"piecesPerSize" validate:"gte=0"`
}

// NewOrderInput carries everything needed to plan an order. ReferenceCode is the
// reference selection; the remaining header fields are free text.
type NewOrderInput struct {
	ID            string        `json:"id"`
	ReferenceID   string        `json:"referenceId"`
	ReferenceCode string        `json:"referenceCode"`
	Description   string        `json:"description"`
	Fabric        string        `json:"fabric"`
	GridType      string        `json:"gridType"`
	Notes         string        `json:"notes"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	Items         []PlannedItem `json:"items"`
}

// CutInput is the realized cut of one color.
type CutInput struct {
	Color    string           `json:"color" validate:"required"`
	ColorHex string           `json:"colorHex"`
	Sizes    SizeDistribution `json:"sizes" validate:"required"`
}

// DistributionRequest asks to hand the given sizes of one color to a seamstress.
type DistributionRequest struct {
	Color string           `json:"color" validate:"required"`
	Sizes SizeDistribution `json:"sizes" validate:"required"`
}

// CanTransition reports whether an order may move from one status to another.
// Only single forward steps are allowed; staying put is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return to == from || to.Rank() == from.Rank()+1
}

func advance(o *ProductionOrder, to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return invalidTransition(o.ID, "cannot move from %s to %s", o.Status, to)
	}
	o.Status = to
	return nil
}

// NewOrder plans an order in PLANNED status. Each item gets an estimated size grid with
// PiecesPerSize pieces for every size in sizes.
func NewOrder(in NewOrderInput, sizes []string, now time.Time) (*ProductionOrder, error) {
	items, err := planItems(in, sizes)
	if err != nil {
		return nil, err
	}

	created := now
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		created = *in.CreatedAt
	}
	description := in.Description
	if description == "" {
		description = in.ReferenceCode
	}

	return &ProductionOrder{
		ID:                 strings.TrimSpace(in.ID),
		ReferenceID:        in.ReferenceID,
		ReferenceCode:      strings.TrimSpace(in.ReferenceCode),
		Description:        description,
		Fabric:             strings.TrimSpace(in.Fabric),
		GridType:           in.GridType,
		Status:             StatusPlanned,
		Notes:              in.Notes,
		Items:              items,
		ActiveCuttingItems: []OrderItem{},
		Splits:             []OrderSplit{},
		CreatedAt:          created,
		UpdatedAt:          now,
	}, nil
}

// EditPlanned replaces the header and items of an order that has not started cutting.
func EditPlanned(o *ProductionOrder, in NewOrderInput, sizes []string, now time.Time) (*ProductionOrder, error) {
	if o.Status != StatusPlanned {
		return nil, invalidTransition(o.ID, "only PLANNED orders can be edited (status is %s)", o.Status)
	}
	in.ID = o.ID
	if in.CreatedAt == nil {
		created := o.CreatedAt
		in.CreatedAt = &created
	}
	edited, err := NewOrder(in, sizes, now)
	if err != nil {
		return nil, err
	}
	return edited, nil
}

func planItems(in NewOrderInput, sizes []string) ([]OrderItem, error) {
	if strings.TrimSpace(in.ReferenceCode) == "" && strings.TrimSpace(in.ReferenceID) == "" {
		return nil, validationErr("referenceCode", "a product reference must be selected")
	}
	if strings.TrimSpace(in.Fabric) == "" {
		return nil, validationErr("fabric", "fabric is required")
	}
	if len(in.Items) == 0 {
		return nil, validationErr("items", "at least one color is required")
	}
	if len(sizes) == 0 {
		return nil, validationErr("gridType", "size grid %q has no sizes", in.GridType)
	}

	items := make([]OrderItem, 0, len(in.Items))
	for i, p := range in.Items {
		if strings.TrimSpace(p.Color) == "" {
			return nil, validationErr("items", "line %d: color is required", i+1)
		}
		if p.RollsUsed.IsNegative() {
			return nil, validationErr("items", "line %d: rolls cannot be negative", i+1)
		}
		if p.PiecesPerSize < 0 {
			return nil, validationErr("items", "line %d: pieces per size cannot be negative", i+1)
		}
		grid := make(SizeDistribution, len(sizes))
		for _, s := range sizes {
			grid[s] = p.PiecesPerSize
		}
		hex := p.ColorHex
		if hex == "" {
			hex = "#ccc"
		}
		items = append(items, OrderItem{
			Color:            strings.TrimSpace(p.Color),
			ColorHex:         hex,
			RollsUsed:        p.RollsUsed,
			PiecesPerSizeEst: p.PiecesPerSize,
			EstimatedPieces:  p.PiecesPerSize * len(sizes),
			Sizes:            grid,
		})
	}
	return items, nil
}

// StartCutting moves a PLANNED order to CUTTING and computes the fabric it consumes.
//
// With PolicyPessimistic, any short color (including a color with no fabric record) rejects
// the transition with an *InsufficientStockError listing all of them; no deltas are returned.
// With PolicyOptimistic, stock is clamped at zero and colors without a fabric record are skipped.
func StartCutting(o *ProductionOrder, fabrics []Fabric, policy StockPolicy, now time.Time) (*ProductionOrder, []FabricDelta, error) {
	if o.Status != StatusPlanned {
		return nil, nil, invalidTransition(o.ID, "cutting can only start from PLANNED (status is %s)", o.Status)
	}

	deltas, shortages := PlanConsumption(fabrics, o.Fabric, o.Items, policy, now)
	if len(shortages) > 0 {
		return nil, nil, &InsufficientStockError{OrderID: o.ID, Shortages: shortages}
	}

	next := o.Clone()
	if err := advance(next, StatusCutting); err != nil {
		return nil, nil, err
	}
	next.UpdatedAt = now
	return next, deltas, nil
}

// ConfirmCut records the realized cut. The estimate on Items stays as planned; each color's
// CutSizes and ActualPieces hold the confirmed quantities, and ActiveCuttingItems becomes the
// pool available for distribution. Allowed while CUTTING and before any distribution.
func ConfirmCut(o *ProductionOrder, cuts []CutInput, now time.Time) (*ProductionOrder, error) {
	if o.Status != StatusCutting {
		return nil, invalidTransition(o.ID, "cut can only be confirmed while CUTTING (status is %s)", o.Status)
	}
	if len(o.Splits) > 0 {
		return nil, invalidTransition(o.ID, "cut cannot be changed after distribution started")
	}
	if len(cuts) == 0 {
		return nil, validationErr("items", "at least one color must be cut")
	}

	seen := make(map[string]bool, len(cuts))
	for i, c := range cuts {
		key := strings.ToLower(strings.TrimSpace(c.Color))
		if key == "" {
			return nil, validationErr("items", "line %d: color is required", i+1)
		}
		if seen[key] {
			return nil, validationErr("items", "color %s appears more than once", c.Color)
		}
		seen[key] = true
		for size, q := range c.Sizes {
			if q < 0 {
				return nil, validationErr("items", "%s size %s: quantity cannot be negative", c.Color, size)
			}
		}
	}

	next := o.Clone()
	active := make([]OrderItem, 0, len(cuts))
	for _, c := range cuts {
		sizes := c.Sizes.Normalized()
		idx := findItem(next.Items, c.Color)
		if idx < 0 {
			next.Items = append(next.Items, OrderItem{
				Color:    strings.TrimSpace(c.Color),
				ColorHex: c.ColorHex,
				Sizes:    SizeDistribution{},
			})
			idx = len(next.Items) - 1
		}
		item := &next.Items[idx]
		item.CutSizes = sizes.Clone()
		item.ActualPieces = sizes.Total()
		if c.ColorHex != "" && item.ColorHex == "" {
			item.ColorHex = c.ColorHex
		}

		active = append(active, OrderItem{
			Color:        item.Color,
			ColorHex:     item.ColorHex,
			RollsUsed:    decimal.Zero,
			ActualPieces: sizes.Total(),
			Sizes:        sizes,
		})
	}
	next.ActiveCuttingItems = active
	next.UpdatedAt = now
	return next, nil
}

// Distribute hands cut pieces to a seamstress. Every requested size is capped at what remains
// for that color, so the pool never goes negative; excess is silently dropped. The new split
// records exactly what was transferred. A CUTTING order is promoted to SEWING.
func Distribute(o *ProductionOrder, s Seamstress, reqs []DistributionRequest, splitID string, now time.Time) (*ProductionOrder, *OrderSplit, error) {
	if o.Status != StatusCutting && o.Status != StatusSewing {
		return nil, nil, invalidTransition(o.ID, "pieces can only be distributed while CUTTING or SEWING (status is %s)", o.Status)
	}
	if !s.Active {
		return nil, nil, validationErr("seamstressId", "seamstress %s is not active", s.Name)
	}
	if len(reqs) == 0 {
		return nil, nil, validationErr("items", "nothing requested")
	}

	next := o.Clone()
	var splitItems []OrderItem
	for _, req := range reqs {
		idx := findItem(next.ActiveCuttingItems, req.Color)
		if idx < 0 {
			continue
		}
		pool := &next.ActiveCuttingItems[idx]
		sent := make(SizeDistribution)
		asked := req.Sizes.Normalized()
		for _, size := range asked.Sizes() {
			want := asked[size]
			have := pool.Sizes[size]
			n := min(max(want, 0), max(have, 0))
			if n == 0 {
				continue
			}
			sent[size] = n
			pool.Sizes[size] = have - n
		}
		pool.ActualPieces = pool.Sizes.Total()
		if len(sent) == 0 {
			continue
		}
		splitItems = append(splitItems, OrderItem{
			Color:           pool.Color,
			ColorHex:        pool.ColorHex,
			RollsUsed:       decimal.Zero,
			EstimatedPieces: sent.Total(),
			ActualPieces:    sent.Total(),
			Sizes:           sent,
		})
	}
	if len(splitItems) == 0 {
		return nil, nil, validationErr("items", "no pieces available for the requested colors and sizes")
	}

	split := OrderSplit{
		ID:             splitID,
		SeamstressID:   s.ID,
		SeamstressName: s.Name,
		Status:         StatusSewing,
		Items:          splitItems,
		CreatedAt:      now,
	}
	next.Splits = append(next.Splits, split)
	if next.Status == StatusCutting {
		if err := advance(next, StatusSewing); err != nil {
			return nil, nil, err
		}
	}
	next.UpdatedAt = now
	created := split.Clone()
	return next, &created, nil
}

// FinishSplit marks a packet as sewn. The order itself becomes FINISHED once every split is
// FINISHED and the cutting pool is empty; otherwise it stays SEWING.
func FinishSplit(o *ProductionOrder, splitID string, now time.Time) (*ProductionOrder, error) {
	if o.Status != StatusSewing {
		return nil, invalidTransition(o.ID, "splits can only be finished while SEWING (status is %s)", o.Status)
	}
	idx := o.FindSplit(splitID)
	if idx < 0 {
		return nil, notFound("split", splitID)
	}
	if o.Splits[idx].Status == StatusFinished {
		return nil, invalidTransition(o.ID, "split %s is already finished", splitID)
	}

	next := o.Clone()
	finished := now
	next.Splits[idx].Status = StatusFinished
	next.Splits[idx].FinishedAt = &finished
	next.UpdatedAt = now

	if IsComplete(next) {
		if err := advance(next, StatusFinished); err != nil {
			return nil, err
		}
		done := now
		next.FinishedAt = &done
	}
	return next, nil
}

// IsComplete reports whether all splits are FINISHED and no cut piece is left to distribute.
// An order with no splits is never complete.
func IsComplete(o *ProductionOrder) bool {
	if len(o.Splits) == 0 {
		return false
	}
	for _, s := range o.Splits {
		if s.Status != StatusFinished {
			return false
		}
	}
	return o.RemainingPieces() == 0
}

func findItem(items []OrderItem, color string) int {
	for i, it := range items {
		if strings.EqualFold(strings.TrimSpace(it.Color), strings.TrimSpace(color)) {
			return i
		}
	}
	return -1
}
