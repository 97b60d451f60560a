package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the stage of a production order or of one of its splits.
// Orders move through the pipeline:
//
//	PLANNED → CUTTING → SEWING → FINISHED
//
// Splits only use SEWING and FINISHED.
type OrderStatus string

const (
	StatusPlanned  OrderStatus = "PLANNED"
	StatusCutting  OrderStatus = "CUTTING"
	StatusSewing   OrderStatus = "SEWING"
	StatusFinished OrderStatus = "FINISHED"
)

// AllStatuses lists the pipeline stages in order.
var AllStatuses = []OrderStatus{StatusPlanned, StatusCutting, StatusSewing, StatusFinished}

// Rank returns the position of s in the pipeline, or -1 for an unknown status.
func (s OrderStatus) Rank() int {
	for i, st := range AllStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the pipeline stages.
func (s OrderStatus) Valid() bool { return s.Rank() >= 0 }

// SizeDistribution maps a garment size (P, M, G, GG...) to a piece count.
type SizeDistribution map[string]int

// Total returns the sum of all sizes.
func (d SizeDistribution) Total() int {
	total := 0
	for _, q := range d {
		total += q
	}
	return total
}

// Normalized returns a copy keyed by NormalizeSize. Labels that collapse onto one size are summed.
func (d SizeDistribution) Normalized() SizeDistribution {
	out := make(SizeDistribution, len(d))
	for size, q := range d {
		out[NormalizeSize(size)] += q
	}
	return out
}

// Clone returns an independent copy of d. A nil distribution clones to an empty one.
func (d SizeDistribution) Clone() SizeDistribution {
	out := make(SizeDistribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Sizes returns the size keys sorted alphabetically.
func (d SizeDistribution) Sizes() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ColorOption is one of a product's default colors.
type ColorOption struct {
	Name string `json:"name" validate:"required"`
	Hex  string `json:"hex,omitempty"`
}

// ProductReference is a catalog entry. Orders copy the fields they need at creation,
// so later catalog maintenance does not rewrite order history.
type ProductReference struct {
	ID                     string        `json:"id"`
	Code                   string        `json:"code"`
	Description            string        `json:"description"`
	DefaultFabric          string        `json:"defaultFabric"`
	DefaultColors          []ColorOption `json:"defaultColors"`
	DefaultGrid            string        `json:"defaultGrid"`
	EstimatedPiecesPerRoll int           `json:"estimatedPiecesPerRoll"`
}

// Fabric is a stock-keeping unit identified by (Name, Color), compared case-insensitively.
// StockRolls is measured in rolls and is never negative.
type Fabric struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	ColorHex   string          `json:"colorHex"`
	StockRolls decimal.Decimal `json:"stockRolls"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Seamstress is a worker profile. Splits reference it by ID and keep a copy of the name.
type Seamstress struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Active    bool   `json:"active"`
}

// OrderItem is one color of an order.
//
// On ProductionOrder.Items the estimate fields (RollsUsed, PiecesPerSizeEst, EstimatedPieces, Sizes)
// are set at creation and never change; CutSizes and ActualPieces record the confirmed cut.
// On ActiveCuttingItems and split items, Sizes is the live quantity and ActualPieces its total.
type OrderItem struct {
	Color            string           `json:"color" validate:"required"`
	ColorHex         string           `json:"colorHex,omitempty"`
	RollsUsed        decimal.Decimal  `json:"rollsUsed"`
	PiecesPerSizeEst int              `json:"piecesPerSizeEst" validate:"gte=0"`
	EstimatedPieces  int              `json:"estimatedPieces" validate:"gte=0"`
	ActualPieces     int              `json:"actualPieces" validate:"gte=0"`
	Sizes            SizeDistribution `json:"sizes" validate:"dive,gte=0"`
	CutSizes         SizeDistribution `json:"cutSizes,omitempty" validate:"omitempty,dive,gte=0"`
}

// Clone returns a deep copy of the item.
func (i OrderItem) Clone() OrderItem {
	out := i
	out.Sizes = i.Sizes.Clone()
	if i.CutSizes != nil {
		out.CutSizes = i.CutSizes.Clone()
	}
	return out
}

// OrderSplit is one work packet handed to one seamstress. Only Status and FinishedAt
// change after creation.
type OrderSplit struct {
	ID             string      `json:"id" validate:"required"`
	SeamstressID   string      `json:"seamstressId" validate:"required"`
	SeamstressName string      `json:"seamstressName"`
	Status         OrderStatus `json:"status" validate:"oneof=SEWING FINISHED"`
	Items          []OrderItem `json:"items" validate:"dive"`
	CreatedAt      time.Time   `json:"createdAt"`
	FinishedAt     *time.Time  `json:"finishedAt,omitempty"`
}

// Pieces returns the number of pieces in the packet.
func (s OrderSplit) Pieces() int {
	total := 0
	for _, it := range s.Items {
		total += it.ActualPieces
	}
	return total
}

// Clone returns a deep copy of the split.
func (s OrderSplit) Clone() OrderSplit {
	out := s
	out.Items = cloneItems(s.Items)
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		out.FinishedAt = &t
	}
	return out
}

// ProductionOrder is the central aggregate. It exclusively owns Items, ActiveCuttingItems and Splits.
type ProductionOrder struct {
	ID                 string       `json:"id"`
	ReferenceID        string       `json:"referenceId"`
	ReferenceCode      string       `json:"referenceCode"`
	Description        string       `json:"description"`
	Fabric             string       `json:"fabric"`
	GridType           string       `json:"gridType"`
	Status             OrderStatus  `json:"status"`
	Notes              string       `json:"notes"`
	Items              []OrderItem  `json:"items"`
	ActiveCuttingItems []OrderItem  `json:"activeCuttingItems"`
	Splits             []OrderSplit `json:"splits"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
	FinishedAt         *time.Time   `json:"finishedAt,omitempty"`
}

// Clone returns a deep copy so engine transitions never alias the caller's order.
func (o *ProductionOrder) Clone() *ProductionOrder {
	out := *o
	out.Items = cloneItems(o.Items)
	out.ActiveCuttingItems = cloneItems(o.ActiveCuttingItems)
	out.Splits = make([]OrderSplit, len(o.Splits))
	for i, s := range o.Splits {
		out.Splits[i] = s.Clone()
	}
	if o.FinishedAt != nil {
		t := *o.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}

// NewerFirst orders a before b when a was created later. Ties are broken by id, with
// longer ids first, so numeric ids compare by value ("10" before "9").
func NewerFirst(a, b ProductionOrder) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if len(a.ID) != len(b.ID) {
		return len(a.ID) > len(b.ID)
	}
	return a.ID > b.ID
}

// RemainingPieces returns the number of cut pieces not yet handed to a seamstress.
func (o *ProductionOrder) RemainingPieces() int {
	total := 0
	for _, it := range o.ActiveCuttingItems {
		total += it.Sizes.Total()
	}
	return total
}

// FindSplit returns the index of the split with the given ID, or -1.
func (o *ProductionOrder) FindSplit(id string) int {
	for i, s := range o.Splits {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []OrderItem) []OrderItem {
	out := make([]OrderItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
