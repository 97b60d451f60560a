package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderService drives production orders through the lifecycle engine and persists the results.
// Fabric deltas from the cutting transition are written before the order itself.
type OrderService interface {
	// Records
	CreateOrder(ctx context.Context, in NewOrderInput) (*ProductionOrder, error)
	// UpdateOrder replaces the header and items of a PLANNED order.
	UpdateOrder(ctx context.Context, id string, in NewOrderInput) (*ProductionOrder, error)
	// PatchOrder merges the non-nil header fields. Status and the nested lists are never patched.
	PatchOrder(ctx context.Context, id string, patch OrderPatch) (*ProductionOrder, error)
	DeleteOrder(ctx context.Context, id string) error

	// Lifecycle
	StartCutting(ctx context.Context, id string) (*CuttingResult, error)
	ConfirmCut(ctx context.Context, id string, cuts []CutInput) (*ProductionOrder, error)
	Distribute(ctx context.Context, id, seamstressID string, reqs []DistributionRequest) (*ProductionOrder, *OrderSplit, error)
	FinishSplit(ctx context.Context, id, splitID string) (*ProductionOrder, error)

	// Queries
	GetOrder(ctx context.Context, id string) (*ProductionOrder, error)
	// ListOrders returns orders newest first, optionally restricted to one status.
	ListOrders(ctx context.Context, status *OrderStatus) ([]ProductionOrder, error)
	// NextOrderID suggests the largest numeric order id plus one ("1" when there is none).
	NextOrderID(ctx context.Context) (string, error)
}

// OrderPatch holds the header fields a partial update may change.
type OrderPatch struct {
	Description *string    `json:"description,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Fabric      *string    `json:"fabric,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// CuttingResult is the outcome of a successful cutting transition.
type CuttingResult struct {
	Order  *ProductionOrder `json:"order"`
	Deltas []FabricDelta    `json:"deltas"`
}

type orderService struct {
	store  Store
	grids  SizeGrids
	policy StockPolicy
	now    func() time.Time
}

func NewOrderService(store Store, grids SizeGrids, policy StockPolicy) OrderService {
	if grids == nil {
		grids = DefaultSizeGrids()
	}
	if policy == "" {
		policy = PolicyPessimistic
	}
	return &orderService{store: store, grids: grids, policy: policy, now: storeClock}
}

// ── Records ──────────────────────────────────────────────────────────────────

func (s *orderService) CreateOrder(ctx context.Context, in NewOrderInput) (*ProductionOrder, error) {
	if err := s.applyProductDefaults(ctx, s.store, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ID) == "" {
		id, err := s.NextOrderID(ctx)
		if err != nil {
			return nil, err
		}
		in.ID = id
	}
	if in.GridType == "" {
		in.GridType = DefaultGridType
	}
	in.CreatedAt = storeTimePtr(in.CreatedAt)

	order, err := NewOrder(in, s.grids.Sizes(in.GridType), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order %s: %w", order.ID, err)
	}
	return order, nil
}

// applyProductDefaults fills empty header fields from the selected product reference.
func (s *orderService) applyProductDefaults(ctx context.Context, store Store, in *NewOrderInput) error {
	if strings.TrimSpace(in.ReferenceID) == "" {
		return nil
	}
	p, err := store.GetProduct(ctx, in.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to resolve product reference: %w", err)
	}
	if in.ReferenceCode == "" {
		in.ReferenceCode = p.Code
	}
	if in.Description == "" {
		in.Description = p.Description
	}
	if in.Fabric == "" {
		in.Fabric = p.DefaultFabric
	}
	if in.GridType == "" {
		in.GridType = p.DefaultGrid
	}
	return nil
}

// storeTimePtr truncates an optional caller-supplied time to store precision.
func storeTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := storeTime(*t)
	return &v
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, in NewOrderInput) (*ProductionOrder, error) {
	in.CreatedAt = storeTimePtr(in.CreatedAt)
	var updated *ProductionOrder
	err := s.store.WithinTx(ctx, func(tx Store) error {
		current, err := tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if err := s.applyProductDefaults(ctx, tx, &in); err != nil {
			return err
		}
		if in.GridType == "" {
			in.GridType = current.GridType
		}
		updated, err = EditPlanned(current, in, s.grids.Sizes(in.GridType), s.now())
		if err != nil {
			return err
		}
		if err := tx.PutOrder(ctx, updated); err != nil {
			return fmt.Errorf("failed to update order %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *orderService) PatchOrder(ctx context.Context, id string, patch OrderPatch) (*ProductionOrder, error) {
	return s.transition(ctx, id, "patch", func(_ Store, current *ProductionOrder) (*ProductionOrder, error) {
		return s.applyPatch(id, current, patch)
	})
}

func (s *orderService) applyPatch(id string, current *ProductionOrder, patch OrderPatch) (*ProductionOrder, error) {
	next := current.Clone()
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}
	if patch.CreatedAt != nil && !patch.CreatedAt.IsZero() {
		next.CreatedAt = storeTime(*patch.CreatedAt)
	}
	if patch.Fabric != nil {
		fabric := strings.TrimSpace(*patch.Fabric)
		if fabric == "" {
			return nil, validationErr("fabric", "fabric is required")
		}
		// Fabric was already consumed once cutting started.
		if !strings.EqualFold(fabric, current.Fabric) && current.Status != StatusPlanned {
			return nil, invalidTransition(id, "fabric can only change while PLANNED (status is %s)", current.Status)
		}
		next.Fabric = fabric
	}
	next.UpdatedAt = s.now()
	return next, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

func (s *orderService) StartCutting(ctx context.Context, id string) (*CuttingResult, error) {
	var result *CuttingResult
	err := s.store.WithinTx(ctx, func(tx Store) error {
		order, err := tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		fabrics, err := tx.ListFabrics(ctx)
		if err != nil {
			return fmt.Errorf("failed to load fabric stock: %w", err)
		}

		now := s.now()
		next, deltas, err := StartCutting(order, fabrics, s.policy, now)
		if err != nil {
			return err
		}

		// Ledger writes first, then the order.
		for _, d := range deltas {
			f, err := tx.GetFabric(ctx, d.FabricID)
			if err != nil {
				return fmt.Errorf("failed to reload fabric %s/%s: %w", d.Name, d.Color, err)
			}
			f.StockRolls = d.After
			f.UpdatedAt = now
			if err := tx.PutFabric(ctx, f); err != nil {
				return fmt.Errorf("failed to decrement fabric %s/%s: %w", d.Name, d.Color, err)
			}
		}
		if err := tx.PutOrder(ctx, next); err != nil {
			return fmt.Errorf("failed to save order %s: %w", id, err)
		}
		result = &CuttingResult{Order: next, Deltas: deltas}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// transition reads order id, applies step and writes the result inside one unit of work,
// so concurrent commands on the same order never both act on the same snapshot.
func (s *orderService) transition(ctx context.Context, id, action string, step func(tx Store, order *ProductionOrder) (*ProductionOrder, error)) (*ProductionOrder, error) {
	var next *ProductionOrder
	err := s.store.WithinTx(ctx, func(tx Store) error {
		order, err := tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		next, err = step(tx, order)
		if err != nil {
			return err
		}
		if err := tx.PutOrder(ctx, next); err != nil {
			return fmt.Errorf("failed to save %s for order %s: %w", action, id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *orderService) ConfirmCut(ctx context.Context, id string, cuts []CutInput) (*ProductionOrder, error) {
	return s.transition(ctx, id, "cut", func(_ Store, order *ProductionOrder) (*ProductionOrder, error) {
		return ConfirmCut(order, cuts, s.now())
	})
}

func (s *orderService) Distribute(ctx context.Context, id, seamstressID string, reqs []DistributionRequest) (*ProductionOrder, *OrderSplit, error) {
	var split *OrderSplit
	next, err := s.transition(ctx, id, "distribution", func(tx Store, order *ProductionOrder) (*ProductionOrder, error) {
		seamstress, err := tx.GetSeamstress(ctx, seamstressID)
		if err != nil {
			return nil, err
		}
		var next *ProductionOrder
		next, split, err = Distribute(order, *seamstress, reqs, uuid.NewString(), s.now())
		return next, err
	})
	if err != nil {
		return nil, nil, err
	}
	return next, split, nil
}

func (s *orderService) FinishSplit(ctx context.Context, id, splitID string) (*ProductionOrder, error) {
	return s.transition(ctx, id, "split "+splitID, func(_ Store, order *ProductionOrder) (*ProductionOrder, error) {
		return FinishSplit(order, splitID, s.now())
	})
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, id string) (*ProductionOrder, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, status *OrderStatus) ([]ProductionOrder, error) {
	all, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]ProductionOrder, 0, len(all))
	for _, o := range all {
		if status != nil && o.Status != *status {
			continue
		}
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return NewerFirst(orders[i], orders[j])
	})
	return orders, nil
}

func (s *orderService) NextOrderID(ctx context.Context) (string, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list orders: %w", err)
	}
	highest := 0
	for _, o := range orders {
		n, err := strconv.Atoi(strings.TrimSpace(o.ID))
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return strconv.Itoa(highest + 1), nil
}
