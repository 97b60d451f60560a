package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FabricService manages fabric stock records. Stock only grows through AddStock; the cutting
// transition in OrderService is the only consumer.
type FabricService interface {
	CreateFabric(ctx context.Context, f Fabric) (*Fabric, error)
	// ReplaceFabric overwrites every editable field of the fabric with id.
	ReplaceFabric(ctx context.Context, id string, f Fabric) (*Fabric, error)
	PatchFabric(ctx context.Context, id string, patch FabricPatch) (*Fabric, error)
	// AddStock adds a strictly positive number of rolls, rounded to two decimals.
	AddStock(ctx context.Context, id string, rolls decimal.Decimal) (*Fabric, error)
	DeleteFabric(ctx context.Context, id string) error

	GetFabric(ctx context.Context, id string) (*Fabric, error)
	// FindFabric looks a fabric up by (name, color), case-insensitively.
	FindFabric(ctx context.Context, name, color string) (*Fabric, error)
	ListFabrics(ctx context.Context, filter FabricFilter) ([]Fabric, error)
}

// FabricFilter narrows ListFabrics. Name and Color are case-insensitive substrings.
type FabricFilter struct {
	Name     string
	Color    string
	MinStock *decimal.Decimal
}

// FabricPatch holds the fields a partial update may change. Stock cannot be patched below zero.
type FabricPatch struct {
	Name       *string          `json:"name,omitempty"`
	Color      *string          `json:"color,omitempty"`
	ColorHex   *string          `json:"colorHex,omitempty"`
	StockRolls *decimal.Decimal `json:"stockRolls,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

type fabricService struct {
	store Store
	now   func() time.Time
}

func NewFabricService(store Store) FabricService {
	return &fabricService{store: store, now: storeClock}
}

func validateFabric(f Fabric) error {
	if strings.TrimSpace(f.Name) == "" {
		return validationErr("name", "fabric name is required")
	}
	if strings.TrimSpace(f.Color) == "" {
		return validationErr("color", "fabric color is required")
	}
	if f.StockRolls.IsNegative() {
		return validationErr("stockRolls", "stock cannot be negative, got %s", f.StockRolls.String())
	}
	return nil
}

// ensureUnique rejects a (name, color) pair already used by another fabric.
func (s *fabricService) ensureUnique(ctx context.Context, f Fabric) error {
	fabrics, err := s.store.ListFabrics(ctx)
	if err != nil {
		return fmt.Errorf("failed to list fabrics: %w", err)
	}
	for _, other := range fabrics {
		if other.ID != f.ID && SameFabricKey(other.Name, other.Color, f.Name, f.Color) {
			return fmt.Errorf("fabric %s/%s: %w", f.Name, f.Color, ErrConflict)
		}
	}
	return nil
}

func (s *fabricService) CreateFabric(ctx context.Context, f Fabric) (*Fabric, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Color = strings.TrimSpace(f.Color)
	if err := validateFabric(f); err != nil {
		return nil, err
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if err := s.ensureUnique(ctx, f); err != nil {
		return nil, err
	}
	now := s.now()
	f.StockRolls = f.StockRolls.Round(stockPlaces)
	f.CreatedAt = now
	f.UpdatedAt = now
	if err := s.store.CreateFabric(ctx, &f); err != nil {
		return nil, fmt.Errorf("failed to create fabric: %w", err)
	}
	return &f, nil
}

func (s *fabricService) ReplaceFabric(ctx context.Context, id string, f Fabric) (*Fabric, error) {
	current, err := s.store.GetFabric(ctx, id)
	if err != nil {
		return nil, err
	}
	f.ID = id
	f.Name = strings.TrimSpace(f.Name)
	f.Color = strings.TrimSpace(f.Color)
	if err := validateFabric(f); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, f); err != nil {
		return nil, err
	}
	f.StockRolls = f.StockRolls.Round(stockPlaces)
	f.CreatedAt = current.CreatedAt
	f.UpdatedAt = s.now()
	if err := s.store.PutFabric(ctx, &f); err != nil {
		return nil, fmt.Errorf("failed to replace fabric %s: %w", id, err)
	}
	return &f, nil
}

func (s *fabricService) PatchFabric(ctx context.Context, id string, patch FabricPatch) (*Fabric, error) {
	current, err := s.store.GetFabric(ctx, id)
	if err != nil {
		return nil, err
	}
	f := *current
	if patch.Name != nil {
		f.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		f.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.ColorHex != nil {
		f.ColorHex = *patch.ColorHex
	}
	if patch.StockRolls != nil {
		f.StockRolls = patch.StockRolls.Round(stockPlaces)
	}
	if patch.Notes != nil {
		f.Notes = *patch.Notes
	}
	if err := validateFabric(f); err != nil {
		return nil, err
	}
	if patch.Name != nil || patch.Color != nil {
		if err := s.ensureUnique(ctx, f); err != nil {
			return nil, err
		}
	}
	f.UpdatedAt = s.now()
	if err := s.store.PutFabric(ctx, &f); err != nil {
		return nil, fmt.Errorf("failed to patch fabric %s: %w", id, err)
	}
	return &f, nil
}

func (s *fabricService) AddStock(ctx context.Context, id string, rolls decimal.Decimal) (*Fabric, error) {
	current, err := s.store.GetFabric(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := AddStock(*current, rolls, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.PutFabric(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to add stock to fabric %s: %w", id, err)
	}
	return &updated, nil
}

func (s *fabricService) DeleteFabric(ctx context.Context, id string) error {
	if err := s.store.DeleteFabric(ctx, id); err != nil {
		return fmt.Errorf("failed to delete fabric %s: %w", id, err)
	}
	return nil
}

func (s *fabricService) GetFabric(ctx context.Context, id string) (*Fabric, error) {
	return s.store.GetFabric(ctx, id)
}

func (s *fabricService) FindFabric(ctx context.Context, name, color string) (*Fabric, error) {
	fabrics, err := s.store.ListFabrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}
	idx := FindFabric(fabrics, name, color)
	if idx < 0 {
		return nil, notFound("fabric", name+"/"+color)
	}
	return &fabrics[idx], nil
}

func (s *fabricService) ListFabrics(ctx context.Context, filter FabricFilter) ([]Fabric, error) {
	all, err := s.store.ListFabrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	color := strings.ToLower(strings.TrimSpace(filter.Color))

	fabrics := make([]Fabric, 0, len(all))
	for _, f := range all {
		if name != "" && !strings.Contains(strings.ToLower(f.Name), name) {
			continue
		}
		if color != "" && !strings.Contains(strings.ToLower(f.Color), color) {
			continue
		}
		if filter.MinStock != nil && f.StockRolls.LessThan(*filter.MinStock) {
			continue
		}
		fabrics = append(fabrics, f)
	}
	sort.SliceStable(fabrics, func(i, j int) bool {
		a, b := strings.ToLower(fabrics[i].Name), strings.ToLower(fabrics[j].Name)
		if a != b {
			return a < b
		}
		return strings.ToLower(fabrics[i].Color) < strings.ToLower(fabrics[j].Color)
	})
	return fabrics, nil
}
