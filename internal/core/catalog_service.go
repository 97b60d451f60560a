package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CatalogService maintains product references and the seamstress roster.
// Orders and splits copy what they need, so edits here never rewrite history.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]ProductReference, error)
	GetProduct(ctx context.Context, id string) (*ProductReference, error)
	CreateProduct(ctx context.Context, p ProductReference) (*ProductReference, error)
	ReplaceProduct(ctx context.Context, id string, p ProductReference) (*ProductReference, error)
	PatchProduct(ctx context.Context, id string, patch ProductPatch) (*ProductReference, error)
	DeleteProduct(ctx context.Context, id string) error

	ListSeamstresses(ctx context.Context) ([]Seamstress, error)
	GetSeamstress(ctx context.Context, id string) (*Seamstress, error)
	CreateSeamstress(ctx context.Context, s Seamstress) (*Seamstress, error)
	ReplaceSeamstress(ctx context.Context, id string, s Seamstress) (*Seamstress, error)
	PatchSeamstress(ctx context.Context, id string, patch SeamstressPatch) (*Seamstress, error)
	DeleteSeamstress(ctx context.Context, id string) error
}

type ProductPatch struct {
	Code                   *string        `json:"code,omitempty"`
	Description            *string        `json:"description,omitempty"`
	DefaultFabric          *string        `json:"defaultFabric,omitempty"`
	DefaultColors          *[]ColorOption `json:"defaultColors,omitempty"`
	DefaultGrid            *string        `json:"defaultGrid,omitempty"`
	EstimatedPiecesPerRoll *int           `json:"estimatedPiecesPerRoll,omitempty"`
}

type SeamstressPatch struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

type catalogService struct {
	store Store
	grids SizeGrids
}

func NewCatalogService(store Store, grids SizeGrids) CatalogService {
	if grids == nil {
		grids = DefaultSizeGrids()
	}
	return &catalogService{store: store, grids: grids}
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) validateProduct(p ProductReference) error {
	if strings.TrimSpace(p.Code) == "" {
		return validationErr("code", "product code is required")
	}
	if p.EstimatedPiecesPerRoll < 0 {
		return validationErr("estimatedPiecesPerRoll", "cannot be negative")
	}
	if p.DefaultGrid != "" && s.grids.Sizes(p.DefaultGrid) == nil {
		return validationErr("defaultGrid", "unknown size grid %q", p.DefaultGrid)
	}
	for i, c := range p.DefaultColors {
		if strings.TrimSpace(c.Name) == "" {
			return validationErr("defaultColors", "color %d has no name", i+1)
		}
	}
	return nil
}

// ensureUniqueCode rejects a product code already used by another product.
func (s *catalogService) ensureUniqueCode(ctx context.Context, p ProductReference) error {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	for _, other := range products {
		if other.ID != p.ID && strings.EqualFold(strings.TrimSpace(other.Code), strings.TrimSpace(p.Code)) {
			return fmt.Errorf("product code %s: %w", p.Code, ErrConflict)
		}
	}
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]ProductReference, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Code < products[j].Code })
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*ProductReference, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, p ProductReference) (*ProductReference, error) {
	p.Code = strings.TrimSpace(p.Code)
	if err := s.validateProduct(p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.ensureUniqueCode(ctx, p); err != nil {
		return nil, err
	}
	if p.DefaultColors == nil {
		p.DefaultColors = []ColorOption{}
	}
	if err := s.store.CreateProduct(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to create product %s: %w", p.Code, err)
	}
	return &p, nil
}

func (s *catalogService) ReplaceProduct(ctx context.Context, id string, p ProductReference) (*ProductReference, error) {
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	p.ID = id
	p.Code = strings.TrimSpace(p.Code)
	if err := s.validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, p); err != nil {
		return nil, err
	}
	if p.DefaultColors == nil {
		p.DefaultColors = []ColorOption{}
	}
	if err := s.store.PutProduct(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to replace product %s: %w", id, err)
	}
	return &p, nil
}

func (s *catalogService) PatchProduct(ctx context.Context, id string, patch ProductPatch) (*ProductReference, error) {
	current, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p := *current
	if patch.Code != nil {
		p.Code = strings.TrimSpace(*patch.Code)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.DefaultFabric != nil {
		p.DefaultFabric = *patch.DefaultFabric
	}
	if patch.DefaultColors != nil {
		p.DefaultColors = append([]ColorOption{}, (*patch.DefaultColors)...)
	}
	if patch.DefaultGrid != nil {
		p.DefaultGrid = *patch.DefaultGrid
	}
	if patch.EstimatedPiecesPerRoll != nil {
		p.EstimatedPiecesPerRoll = *patch.EstimatedPiecesPerRoll
	}
	if err := s.validateProduct(p); err != nil {
		return nil, err
	}
	if patch.Code != nil {
		if err := s.ensureUniqueCode(ctx, p); err != nil {
			return nil, err
		}
	}
	if err := s.store.PutProduct(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to patch product %s: %w", id, err)
	}
	return &p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// ── Seamstresses ─────────────────────────────────────────────────────────────

func validateSeamstress(s Seamstress) error {
	if strings.TrimSpace(s.Name) == "" {
		return validationErr("name", "seamstress name is required")
	}
	return nil
}

func (s *catalogService) ListSeamstresses(ctx context.Context) ([]Seamstress, error) {
	seamstresses, err := s.store.ListSeamstresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seamstresses: %w", err)
	}
	sort.SliceStable(seamstresses, func(i, j int) bool { return seamstresses[i].Name < seamstresses[j].Name })
	return seamstresses, nil
}

func (s *catalogService) GetSeamstress(ctx context.Context, id string) (*Seamstress, error) {
	return s.store.GetSeamstress(ctx, id)
}

func (s *catalogService) CreateSeamstress(ctx context.Context, m Seamstress) (*Seamstress, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := validateSeamstress(m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.store.CreateSeamstress(ctx, &m); err != nil {
		return nil, fmt.Errorf("failed to create seamstress %s: %w", m.Name, err)
	}
	return &m, nil
}

func (s *catalogService) ReplaceSeamstress(ctx context.Context, id string, m Seamstress) (*Seamstress, error) {
	if _, err := s.store.GetSeamstress(ctx, id); err != nil {
		return nil, err
	}
	m.ID = id
	m.Name = strings.TrimSpace(m.Name)
	if err := validateSeamstress(m); err != nil {
		return nil, err
	}
	if err := s.store.PutSeamstress(ctx, &m); err != nil {
		return nil, fmt.Errorf("failed to replace seamstress %s: %w", id, err)
	}
	return &m, nil
}

func (s *catalogService) PatchSeamstress(ctx context.Context, id string, patch SeamstressPatch) (*Seamstress, error) {
	current, err := s.store.GetSeamstress(ctx, id)
	if err != nil {
		return nil, err
	}
	m := *current
	if patch.Name != nil {
		m.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		m.Phone = *patch.Phone
	}
	if patch.Specialty != nil {
		m.Specialty = *patch.Specialty
	}
	if patch.Address != nil {
		m.Address = *patch.Address
	}
	if patch.City != nil {
		m.City = *patch.City
	}
	if patch.Active != nil {
		m.Active = *patch.Active
	}
	if err := validateSeamstress(m); err != nil {
		return nil, err
	}
	if err := s.store.PutSeamstress(ctx, &m); err != nil {
		return nil, fmt.Errorf("failed to patch seamstress %s: %w", id, err)
	}
	return &m, nil
}

// DeleteSeamstress removes the profile. Splits keep the seamstress id and name they were created with.
func (s *catalogService) DeleteSeamstress(ctx context.Context, id string) error {
	if err := s.store.DeleteSeamstress(ctx, id); err != nil {
		return fmt.Errorf("failed to delete seamstress %s: %w", id, err)
	}
	return nil
}
