package app

import (
	"context"
	"time"

	"garment-tracker/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListOrders returns orders newest first, optionally filtered by status.
	ListOrders(ctx context.Context, status *string) (*OrderListResult, error)
	GetOrder(ctx context.Context, id string) (*core.ProductionOrder, error)
	// CreateOrder plans a new order in PLANNED status.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.ProductionOrder, error)
	// UpdateOrder replaces header and items of a PLANNED order.
	UpdateOrder(ctx context.Context, id string, req CreateOrderRequest) (*core.ProductionOrder, error)
	PatchOrder(ctx context.Context, id string, patch core.OrderPatch) (*core.ProductionOrder, error)
	DeleteOrder(ctx context.Context, id string) error
	NextOrderID(ctx context.Context) (*NextOrderIDResult, error)

	// StartCutting moves a PLANNED order to CUTTING and decrements fabric stock.
	StartCutting(ctx context.Context, id string) (*core.CuttingResult, error)
	// ConfirmCut records the realized cut and fills the pool available for distribution.
	ConfirmCut(ctx context.Context, req ConfirmCutRequest) (*core.ProductionOrder, error)
	// Distribute hands cut pieces to a seamstress, creating a SEWING split.
	Distribute(ctx context.Context, req DistributeRequest) (*DistributionResult, error)
	// FinishSplit marks a split FINISHED, finishing the order when nothing is left.
	FinishSplit(ctx context.Context, orderID, splitID string) (*FinishSplitResult, error)

	ListFabrics(ctx context.Context, req FabricListRequest) (*FabricListResult, error)
	GetFabric(ctx context.Context, id string) (*core.Fabric, error)
	CreateFabric(ctx context.Context, req FabricRequest) (*core.Fabric, error)
	ReplaceFabric(ctx context.Context, id string, req FabricRequest) (*core.Fabric, error)
	PatchFabric(ctx context.Context, id string, patch core.FabricPatch) (*core.Fabric, error)
	DeleteFabric(ctx context.Context, id string) error
	// FindFabric looks a fabric up by name and color, case-insensitively.
	FindFabric(ctx context.Context, name, color string) (*core.Fabric, error)
	// AddStock records a manual stock entry.
	AddStock(ctx context.Context, req AddStockRequest) (*core.Fabric, error)

	ListProducts(ctx context.Context) ([]core.ProductReference, error)
	GetProduct(ctx context.Context, id string) (*core.ProductReference, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*core.ProductReference, error)
	ReplaceProduct(ctx context.Context, id string, req ProductRequest) (*core.ProductReference, error)
	PatchProduct(ctx context.Context, id string, patch core.ProductPatch) (*core.ProductReference, error)
	DeleteProduct(ctx context.Context, id string) error

	ListSeamstresses(ctx context.Context) ([]core.Seamstress, error)
	GetSeamstress(ctx context.Context, id string) (*core.Seamstress, error)
	CreateSeamstress(ctx context.Context, req SeamstressRequest) (*core.Seamstress, error)
	ReplaceSeamstress(ctx context.Context, id string, req SeamstressRequest) (*core.Seamstress, error)
	PatchSeamstress(ctx context.Context, id string, patch core.SeamstressPatch) (*core.Seamstress, error)
	DeleteSeamstress(ctx context.Context, id string) error

	// Dashboard summarizes production as of now.
	Dashboard(ctx context.Context, now time.Time) (*core.Dashboard, error)
	PiecesReport(ctx context.Context, req PiecesReportRequest) (*core.ProductionReport, error)
	// ProductionByPeriod returns finished pieces per day, week or month, oldest first.
	ProductionByPeriod(ctx context.Context, req PeriodReportRequest) (*PeriodReportResult, error)
	SeamstressStats(ctx context.Context) (*SeamstressStatsResult, error)

	// SizeGrids returns the configured size grids.
	SizeGrids() core.SizeGrids
}
