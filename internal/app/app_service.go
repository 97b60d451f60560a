package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"garment-tracker/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type appService struct {
	orders    core.OrderService
	fabrics   core.FabricService
	catalog   core.CatalogService
	reporting core.ReportingService
	grids     core.SizeGrids
	validate  *validator.Validate
	logger    *logrus.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	orders core.OrderService,
	fabrics core.FabricService,
	catalog core.CatalogService,
	reporting core.ReportingService,
	grids core.SizeGrids,
	logger *logrus.Logger,
) ApplicationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &appService{
		orders:    orders,
		fabrics:   fabrics,
		catalog:   catalog,
		reporting: reporting,
		grids:     grids,
		validate:  newValidator(),
		logger:    logger,
	}
}

// New wires the core services over store.
func New(store core.Store, grids core.SizeGrids, policy core.StockPolicy, loc *time.Location, logger *logrus.Logger) ApplicationService {
	return NewAppService(
		core.NewOrderService(store, grids, policy),
		core.NewFabricService(store),
		core.NewCatalogService(store, grids),
		core.NewReportingService(store, loc),
		grids,
		logger,
	)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// check validates req and reports the first failing field as a *core.ValidationError.
func (s *appService) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &core.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		}
	}
	return fmt.Errorf("failed to validate request: %w", err)
}

func (s *appService) logTransition(order *core.ProductionOrder, from core.OrderStatus, event string) {
	entry := s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"event":    event,
		"from":     from,
		"to":       order.Status,
	})
	if from != order.Status {
		entry.Info("order status changed")
		return
	}
	entry.Debug("order updated")
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (s *appService) ListOrders(ctx context.Context, status *string) (*OrderListResult, error) {
	var filter *core.OrderStatus
	result := &OrderListResult{}
	if status != nil && *status != "" {
		st := core.OrderStatus(strings.ToUpper(*status))
		if !st.Valid() {
			return nil, &core.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *status)}
		}
		filter = &st
		result.Status = string(st)
	}
	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.Orders = orders
	return result, nil
}

func (s *appService) GetOrder(ctx context.Context, id string) (*core.ProductionOrder, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.ProductionOrder, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	order, err := s.orders.CreateOrder(ctx, req.toInput())
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"order_id": order.ID, "to": order.Status}).Info("order planned")
	return order, nil
}

func (s *appService) UpdateOrder(ctx context.Context, id string, req CreateOrderRequest) (*core.ProductionOrder, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.orders.UpdateOrder(ctx, id, req.toInput())
}

func (s *appService) PatchOrder(ctx context.Context, id string, patch core.OrderPatch) (*core.ProductionOrder, error) {
	return s.orders.PatchOrder(ctx, id, patch)
}

func (s *appService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

func (s *appService) NextOrderID(ctx context.Context) (*NextOrderIDResult, error) {
	id, err := s.orders.NextOrderID(ctx)
	if err != nil {
		return nil, err
	}
	return &NextOrderIDResult{ID: id}, nil
}

func (s *appService) StartCutting(ctx context.Context, id string) (*core.CuttingResult, error) {
	result, err := s.orders.StartCutting(ctx, id)
	if err != nil {
		var short *core.InsufficientStockError
		if errors.As(err, &short) {
			s.logger.WithFields(logrus.Fields{
				"order_id":  id,
				"shortages": len(short.Shortages),
			}).Warn("cutting rejected: insufficient fabric")
		}
		return nil, err
	}
	for _, d := range result.Deltas {
		s.logger.WithFields(logrus.Fields{
			"order_id":  id,
			"fabric_id": d.FabricID,
			"fabric":    d.Name,
			"color":     d.Color,
			"consumed":  d.Consumed().String(),
			"remaining": d.After.String(),
		}).Info("fabric consumed")
	}
	s.logTransition(result.Order, core.StatusPlanned, "start_cutting")
	return result, nil
}

func (s *appService) ConfirmCut(ctx context.Context, req ConfirmCutRequest) (*core.ProductionOrder, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	order, err := s.orders.ConfirmCut(ctx, req.OrderID, req.Items)
	if err != nil {
		return nil, err
	}
	s.logTransition(order, order.Status, "confirm_cut")
	return order, nil
}

func (s *appService) Distribute(ctx context.Context, req DistributeRequest) (*DistributionResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	before, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	order, split, err := s.orders.Distribute(ctx, req.OrderID, req.SeamstressID, req.Items)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"split_id":      split.ID,
		"seamstress_id": split.SeamstressID,
		"pieces":        split.Pieces(),
		"remaining":     order.RemainingPieces(),
	}).Info("pieces distributed")
	s.logTransition(order, before.Status, "distribute")
	return &DistributionResult{Order: order, Split: split}, nil
}

func (s *appService) FinishSplit(ctx context.Context, orderID, splitID string) (*FinishSplitResult, error) {
	order, err := s.orders.FinishSplit(ctx, orderID, splitID)
	if err != nil {
		return nil, err
	}
	s.logTransition(order, core.StatusSewing, "finish_split")
	return &FinishSplitResult{Order: order, OrderFinished: order.Status == core.StatusFinished}, nil
}

// ── Fabrics ──────────────────────────────────────────────────────────────────

func (s *appService) ListFabrics(ctx context.Context, req FabricListRequest) (*FabricListResult, error) {
	fabrics, err := s.fabrics.ListFabrics(ctx, core.FabricFilter{Name: req.Name, Color: req.Color, MinStock: req.MinStock})
	if err != nil {
		return nil, err
	}
	return &FabricListResult{Fabrics: fabrics}, nil
}

func (s *appService) GetFabric(ctx context.Context, id string) (*core.Fabric, error) {
	return s.fabrics.GetFabric(ctx, id)
}

func (s *appService) FindFabric(ctx context.Context, name, color string) (*core.Fabric, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &core.ValidationError{Field: "name", Message: "fabric name is required"}
	}
	if strings.TrimSpace(color) == "" {
		return nil, &core.ValidationError{Field: "color", Message: "fabric color is required"}
	}
	return s.fabrics.FindFabric(ctx, name, color)
}

func (s *appService) CreateFabric(ctx context.Context, req FabricRequest) (*core.Fabric, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.fabrics.CreateFabric(ctx, req.toFabric())
}

func (s *appService) ReplaceFabric(ctx context.Context, id string, req FabricRequest) (*core.Fabric, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.fabrics.ReplaceFabric(ctx, id, req.toFabric())
}

func (s *appService) PatchFabric(ctx context.Context, id string, patch core.FabricPatch) (*core.Fabric, error) {
	return s.fabrics.PatchFabric(ctx, id, patch)
}

func (s *appService) DeleteFabric(ctx context.Context, id string) error {
	return s.fabrics.DeleteFabric(ctx, id)
}

func (s *appService) AddStock(ctx context.Context, req AddStockRequest) (*core.Fabric, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	fabric, err := s.fabrics.AddStock(ctx, req.FabricID, req.Rolls)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"fabric_id": fabric.ID,
		"added":     req.Rolls.String(),
		"stock":     fabric.StockRolls.String(),
	}).Info("fabric stock added")
	return fabric, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) ([]core.ProductReference, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *appService) GetProduct(ctx context.Context, id string) (*core.ProductReference, error) {
	return s.catalog.GetProduct(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*core.ProductReference, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.catalog.CreateProduct(ctx, req.toProduct())
}

func (s *appService) ReplaceProduct(ctx context.Context, id string, req ProductRequest) (*core.ProductReference, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.catalog.ReplaceProduct(ctx, id, req.toProduct())
}

func (s *appService) PatchProduct(ctx context.Context, id string, patch core.ProductPatch) (*core.ProductReference, error) {
	return s.catalog.PatchProduct(ctx, id, patch)
}

func (s *appService) DeleteProduct(ctx context.Context, id string) error {
	return s.catalog.DeleteProduct(ctx, id)
}

func (s *appService) ListSeamstresses(ctx context.Context) ([]core.Seamstress, error) {
	return s.catalog.ListSeamstresses(ctx)
}

func (s *appService) GetSeamstress(ctx context.Context, id string) (*core.Seamstress, error) {
	return s.catalog.GetSeamstress(ctx, id)
}

func (s *appService) CreateSeamstress(ctx context.Context, req SeamstressRequest) (*core.Seamstress, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.catalog.CreateSeamstress(ctx, req.toSeamstress())
}

func (s *appService) ReplaceSeamstress(ctx context.Context, id string, req SeamstressRequest) (*core.Seamstress, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	return s.catalog.ReplaceSeamstress(ctx, id, req.toSeamstress())
}

func (s *appService) PatchSeamstress(ctx context.Context, id string, patch core.SeamstressPatch) (*core.Seamstress, error) {
	return s.catalog.PatchSeamstress(ctx, id, patch)
}

func (s *appService) DeleteSeamstress(ctx context.Context, id string) error {
	return s.catalog.DeleteSeamstress(ctx, id)
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) Dashboard(ctx context.Context, now time.Time) (*core.Dashboard, error) {
	return s.reporting.Dashboard(ctx, now)
}

func (s *appService) PiecesReport(ctx context.Context, req PiecesReportRequest) (*core.ProductionReport, error) {
	return s.reporting.PiecesProduced(ctx, core.ReportFilter{
		From:         req.From,
		To:           req.To,
		Fabric:       req.Fabric,
		SeamstressID: req.SeamstressID,
	})
}

func (s *appService) ProductionByPeriod(ctx context.Context, req PeriodReportRequest) (*PeriodReportResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	g := core.Granularity(strings.ToLower(req.Granularity))
	if g == "" {
		g = core.Day
	}
	if req.Periods == 0 {
		req.Periods = 7
	}
	if req.End.IsZero() {
		req.End = time.Now()
	}
	series, err := s.reporting.PiecesByPeriod(ctx, g, req.End, req.Periods)
	if err != nil {
		return nil, err
	}
	return &PeriodReportResult{Granularity: g, Series: series}, nil
}

func (s *appService) SeamstressStats(ctx context.Context) (*SeamstressStatsResult, error) {
	stats, err := s.reporting.SeamstressStats(ctx)
	if err != nil {
		return nil, err
	}
	return &SeamstressStatsResult{Stats: stats, Idle: core.IdleSeamstresses(stats)}, nil
}

func (s *appService) SizeGrids() core.SizeGrids {
	return s.grids
}
