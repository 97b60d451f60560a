package app

import (
	"time"

	"garment-tracker/internal/core"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the input for planning a new production order.
// ID is optional; the next numeric id is assigned when it is empty.
type CreateOrderRequest struct {
	ID            string             `json:"id"`
	ReferenceID   string             `json:"referenceId"`
	ReferenceCode string             `json:"referenceCode" validate:"required_without=ReferenceID"`
	Description   string             `json:"description"`
	Fabric        string             `json:"fabric"`
	GridType      string             `json:"gridType"`
	Notes         string             `json:"notes"`
	CreatedAt     *time.Time         `json:"createdAt,omitempty"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest is one planned color of a CreateOrderRequest.
type OrderItemRequest struct {
	Color         string          `json:"color" validate:"required"`
	ColorHex      string          `json:"colorHex"`
	RollsUsed     decimal.Decimal `json:"rollsUsed"`
	PiecesPerSize int             `json:"piecesPerSize" validate:"gte=0"`
}

func (r CreateOrderRequest) toInput() core.NewOrderInput {
	items := make([]core.PlannedItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, core.PlannedItem{
			Color:         it.Color,
			ColorHex:      it.ColorHex,
			RollsUsed:     it.RollsUsed,
			PiecesPerSize: it.PiecesPerSize,
		})
	}
	return core.NewOrderInput{
		ID:            r.ID,
		ReferenceID:   r.ReferenceID,
		ReferenceCode: r.ReferenceCode,
		Description:   r.Description,
		Fabric:        r.Fabric,
		GridType:      r.GridType,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		Items:         items,
	}
}

// ConfirmCutRequest records the realized cut of an order in CUTTING.
type ConfirmCutRequest struct {
	OrderID string          `json:"-" validate:"required"`
	Items   []core.CutInput `json:"items" validate:"required,min=1,dive"`
}

// DistributeRequest hands cut pieces to one seamstress.
type DistributeRequest struct {
	OrderID      string                     `json:"-" validate:"required"`
	SeamstressID string                     `json:"seamstressId" validate:"required"`
	Items        []core.DistributionRequest `json:"items" validate:"required,min=1,dive"`
}

// FabricRequest is the full body of a fabric create or replace.
type FabricRequest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name" validate:"required"`
	Color      string          `json:"color" validate:"required"`
	ColorHex   string          `json:"colorHex"`
	StockRolls decimal.Decimal `json:"stockRolls"`
	Notes      string          `json:"notes"`
}

func (r FabricRequest) toFabric() core.Fabric {
	return core.Fabric{
		ID:         r.ID,
		Name:       r.Name,
		Color:      r.Color,
		ColorHex:   r.ColorHex,
		StockRolls: r.StockRolls,
		Notes:      r.Notes,
	}
}

// AddStockRequest is a manual stock entry. Rolls must be positive.
type AddStockRequest struct {
	FabricID string          `json:"-" validate:"required"`
	Rolls    decimal.Decimal `json:"rolls"`
}

// FabricListRequest filters the fabric list. MinStock is optional.
type FabricListRequest struct {
	Name     string
	Color    string
	MinStock *decimal.Decimal
}

// ProductRequest is the full body of a product create or replace.
type ProductRequest struct {
	ID                     string             `json:"id"`
	Code                   string             `json:"code" validate:"required"`
	Description            string             `json:"description"`
	DefaultFabric          string             `json:"defaultFabric"`
	DefaultColors          []core.ColorOption `json:"defaultColors" validate:"omitempty,dive"`
	DefaultGrid            string             `json:"defaultGrid"`
	EstimatedPiecesPerRoll int                `json:"estimatedPiecesPerRoll" validate:"gte=0"`
}

func (r ProductRequest) toProduct() core.ProductReference {
	return core.ProductReference{
		ID:                     r.ID,
		Code:                   r.Code,
		Description:            r.Description,
		DefaultFabric:          r.DefaultFabric,
		DefaultColors:          r.DefaultColors,
		DefaultGrid:            r.DefaultGrid,
		EstimatedPiecesPerRoll: r.EstimatedPiecesPerRoll,
	}
}

// SeamstressRequest is the full body of a seamstress create or replace.
// Active defaults to true when omitted.
type SeamstressRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Active    *bool  `json:"active"`
}

func (r SeamstressRequest) toSeamstress() core.Seamstress {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return core.Seamstress{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Specialty: r.Specialty,
		Address:   r.Address,
		City:      r.City,
		Active:    active,
	}
}

// PeriodReportRequest asks for Periods buckets of Granularity (day, week or month), the
// last one containing End. Empty values default to 7 daily buckets ending now.
type PeriodReportRequest struct {
	Granularity string    `json:"granularity" validate:"omitempty,oneof=day week month"`
	Periods     int       `json:"periods" validate:"gte=0,lte=366"`
	End         time.Time `json:"end"`
}

// PiecesReportRequest filters the production report. Zero values mean unbounded.
type PiecesReportRequest struct {
	From         *time.Time
	To           *time.Time
	Fabric       string
	SeamstressID string
}
