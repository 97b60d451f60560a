package core_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"garment-tracker/internal/core"
	"garment-tracker/internal/db/memstore"
)

type services struct {
	store     *memstore.Store
	orders    core.OrderService
	fabrics   core.FabricService
	catalog   core.CatalogService
	reporting core.ReportingService
}

func setupServices(t *testing.T, policy core.StockPolicy) (*services, context.Context) {
	t.Helper()
	store := memstore.New()
	grids := core.DefaultSizeGrids()
	return &services{
		store:     store,
		orders:    core.NewOrderService(store, grids, policy),
		fabrics:   core.NewFabricService(store),
		catalog:   core.NewCatalogService(store, grids),
		reporting: core.NewReportingService(store, time.UTC),
	}, context.Background()
}

func mustFabric(t *testing.T, svc *services, ctx context.Context, name, color, stock string) *core.Fabric {
	t.Helper()
	f, err := svc.fabrics.CreateFabric(ctx, core.Fabric{Name: name, Color: color, StockRolls: rolls(stock)})
	if err != nil {
		t.Fatalf("CreateFabric(%s/%s) failed: %v", name, color, err)
	}
	return f
}

func mustSeamstress(t *testing.T, svc *services, ctx context.Context, name string) *core.Seamstress {
	t.Helper()
	s, err := svc.catalog.CreateSeamstress(ctx, core.Seamstress{Name: name, Active: true})
	if err != nil {
		t.Fatalf("CreateSeamstress(%s) failed: %v", name, err)
	}
	return s
}

func TestOrderService_FullProductionCycle(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	fabric := mustFabric(t, svc, ctx, "Viscose", "Azul", "10")
	ana := mustSeamstress(t, svc, ctx, "Ana")
	bia := mustSeamstress(t, svc, ctx, "Bia")

	// 1. Plan
	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ReferenceCode: "REF-1",
		Fabric:        "viscose",
		Items:         []core.PlannedItem{{Color: "azul", RollsUsed: rolls("4.5"), PiecesPerSize: 5}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "1" || order.GridType != core.DefaultGridType {
		t.Errorf("expected id 1 on STANDARD grid, got %q on %q", order.ID, order.GridType)
	}

	// 2. Cut: fabric is consumed in the same unit of work
	res, err := svc.orders.StartCutting(ctx, order.ID)
	if err != nil {
		t.Fatalf("StartCutting failed: %v", err)
	}
	if res.Order.Status != core.StatusCutting || len(res.Deltas) != 1 {
		t.Fatalf("unexpected cutting result: %+v", res)
	}
	stored, err := svc.fabrics.GetFabric(ctx, fabric.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.StockRolls.Equal(rolls("5.5")) {
		t.Errorf("expected 5.5 rolls left, got %s", stored.StockRolls)
	}

	// 3. Confirm the real cut
	if _, err := svc.orders.ConfirmCut(ctx, order.ID, []core.CutInput{
		{Color: "Azul", Sizes: core.SizeDistribution{"P": 4, "M": 6}},
	}); err != nil {
		t.Fatalf("ConfirmCut failed: %v", err)
	}

	// 4. Two packets
	_, splitA, err := svc.orders.Distribute(ctx, order.ID, ana.ID, []core.DistributionRequest{
		{Color: "Azul", Sizes: core.SizeDistribution{"P": 4}},
	})
	if err != nil {
		t.Fatalf("Distribute to Ana failed: %v", err)
	}
	current, splitB, err := svc.orders.Distribute(ctx, order.ID, bia.ID, []core.DistributionRequest{
		{Color: "Azul", Sizes: core.SizeDistribution{"M": 10}},
	})
	if err != nil {
		t.Fatalf("Distribute to Bia failed: %v", err)
	}
	if current.Status != core.StatusSewing || splitB.Pieces() != 6 {
		t.Errorf("expected SEWING and a 6-piece packet, got %s / %d", current.Status, splitB.Pieces())
	}
	if splitA.ID == "" || splitA.ID == splitB.ID {
		t.Error("every split needs its own id")
	}

	// 5. Finish
	if current, err = svc.orders.FinishSplit(ctx, order.ID, splitA.ID); err != nil {
		t.Fatalf("FinishSplit A failed: %v", err)
	}
	if current.Status != core.StatusSewing {
		t.Errorf("expected SEWING with one packet open, got %s", current.Status)
	}
	if current, err = svc.orders.FinishSplit(ctx, order.ID, splitB.ID); err != nil {
		t.Fatalf("FinishSplit B failed: %v", err)
	}
	if current.Status != core.StatusFinished || current.FinishedAt == nil {
		t.Errorf("expected FINISHED with finishedAt, got %s", current.Status)
	}

	report, err := svc.reporting.PiecesProduced(ctx, core.ReportFilter{})
	if err != nil {
		t.Fatalf("PiecesProduced failed: %v", err)
	}
	if report.Pieces != 10 {
		t.Errorf("expected 10 pieces produced, got %d", report.Pieces)
	}

	next, err := svc.orders.NextOrderID(ctx)
	if err != nil || next != "2" {
		t.Errorf("expected next id 2, got %q (%v)", next, err)
	}
}

func TestOrderService_StartCuttingShortageLeavesStateUntouched(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	azul := mustFabric(t, svc, ctx, "Viscose", "Azul", "5.0")
	preto := mustFabric(t, svc, ctx, "Viscose", "Preto", "9")

	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ID:            "O1",
		ReferenceCode: "REF-1",
		Fabric:        "Viscose",
		Items: []core.PlannedItem{
			{Color: "Preto", RollsUsed: rolls("2"), PiecesPerSize: 1},
			{Color: "Azul", RollsUsed: rolls("7.0"), PiecesPerSize: 1},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.orders.StartCutting(ctx, order.ID)
	var short *core.InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	for _, f := range []*core.Fabric{azul, preto} {
		got, err := svc.fabrics.GetFabric(ctx, f.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !got.StockRolls.Equal(f.StockRolls) {
			t.Errorf("%s: stock changed from %s to %s", f.Color, f.StockRolls, got.StockRolls)
		}
	}
	got, err := svc.orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != core.StatusPlanned {
		t.Errorf("expected PLANNED, got %s", got.Status)
	}
}

func TestOrderService_OptimisticPolicy(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyOptimistic)
	azul := mustFabric(t, svc, ctx, "Viscose", "Azul", "1")
	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ReferenceCode: "REF-1",
		Fabric:        "Viscose",
		Items:         []core.PlannedItem{{Color: "Azul", RollsUsed: rolls("3"), PiecesPerSize: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.orders.StartCutting(ctx, order.ID); err != nil {
		t.Fatalf("StartCutting failed: %v", err)
	}
	got, _ := svc.fabrics.GetFabric(ctx, azul.ID)
	if !got.StockRolls.IsZero() {
		t.Errorf("expected stock clamped to zero, got %s", got.StockRolls)
	}
}

func TestOrderService_ProductDefaults(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	product, err := svc.catalog.CreateProduct(ctx, core.ProductReference{
		Code: "VST-01", Description: "Vestido midi", DefaultFabric: "Linho", DefaultGrid: "standard",
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ReferenceID: product.ID,
		Items:       []core.PlannedItem{{Color: "Cru", PiecesPerSize: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ReferenceCode != "VST-01" || order.Description != "Vestido midi" || order.Fabric != "Linho" {
		t.Errorf("product defaults not applied: %+v", order)
	}
	if order.Items[0].EstimatedPieces != 8 {
		t.Errorf("expected 8 estimated pieces, got %d", order.Items[0].EstimatedPieces)
	}

	if _, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{ReferenceID: "missing", Items: []core.PlannedItem{{Color: "Cru"}}}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown product, got %v", err)
	}
}

func TestOrderService_PatchOrder(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	mustFabric(t, svc, ctx, "Viscose", "Azul", "10")
	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ReferenceCode: "REF-1", Fabric: "Viscose",
		Items: []core.PlannedItem{{Color: "Azul", RollsUsed: rolls("1"), PiecesPerSize: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	notes := "urgent"
	patched, err := svc.orders.PatchOrder(ctx, order.ID, core.OrderPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("PatchOrder failed: %v", err)
	}
	if patched.Notes != "urgent" || patched.Status != core.StatusPlanned || len(patched.Items) != 1 {
		t.Errorf("patch must only touch notes, got %+v", patched)
	}

	if _, err := svc.orders.StartCutting(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	linho := "Linho"
	if _, err := svc.orders.PatchOrder(ctx, order.ID, core.OrderPatch{Fabric: &linho}); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition changing fabric after cutting, got %v", err)
	}
	if _, err := svc.orders.UpdateOrder(ctx, order.ID, core.NewOrderInput{ReferenceCode: "R", Fabric: "Viscose", Items: []core.PlannedItem{{Color: "Azul"}}}); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition replacing a CUTTING order, got %v", err)
	}
}

func TestOrderService_ListOrdersNewestFirst(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	for i, day := range []int{3, 1, 2} {
		created := time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
		if _, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
			ReferenceCode: "R", Fabric: "Viscose", CreatedAt: &created,
			Items: []core.PlannedItem{{Color: "Azul"}},
		}); err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
	}
	orders, err := svc.orders.ListOrders(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 3 || orders[0].CreatedAt.Day() != 3 || orders[2].CreatedAt.Day() != 1 {
		t.Errorf("expected newest first, got %v, %v, %v", orders[0].CreatedAt, orders[1].CreatedAt, orders[2].CreatedAt)
	}

	cutting := core.StatusCutting
	filtered, err := svc.orders.ListOrders(ctx, &cutting)
	if err != nil || len(filtered) != 0 {
		t.Errorf("expected no CUTTING orders, got %d (%v)", len(filtered), err)
	}

	if err := svc.orders.DeleteOrder(ctx, "2"); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := svc.orders.GetOrder(ctx, "2"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFabricService(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	f := mustFabric(t, svc, ctx, "Viscose", "Azul", "10.0")
	mustFabric(t, svc, ctx, "Linho", "Cru", "0.5")

	if _, err := svc.fabrics.CreateFabric(ctx, core.Fabric{Name: " VISCOSE", Color: "azul"}); !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for a duplicate (name, color), got %v", err)
	}
	if _, err := svc.fabrics.CreateFabric(ctx, core.Fabric{Name: "Seda", Color: "Rosa", StockRolls: rolls("-1")}); err == nil {
		t.Error("expected negative stock to be rejected")
	}

	updated, err := svc.fabrics.AddStock(ctx, f.ID, rolls("3.2"))
	if err != nil {
		t.Fatalf("AddStock failed: %v", err)
	}
	if !updated.StockRolls.Equal(rolls("13.2")) {
		t.Errorf("expected 13.2, got %s", updated.StockRolls)
	}
	if updated.UpdatedAt.Before(f.UpdatedAt) {
		t.Error("AddStock must refresh updatedAt")
	}

	found, err := svc.fabrics.FindFabric(ctx, "viscose", "AZUL")
	if err != nil || found.ID != f.ID {
		t.Errorf("FindFabric: expected %s, got %+v (%v)", f.ID, found, err)
	}

	floor := rolls("1")
	list, err := svc.fabrics.ListFabrics(ctx, core.FabricFilter{MinStock: &floor})
	if err != nil || len(list) != 1 || list[0].ID != f.ID {
		t.Errorf("expected only Viscose above 1 roll, got %+v (%v)", list, err)
	}
	list, _ = svc.fabrics.ListFabrics(ctx, core.FabricFilter{})
	if len(list) != 2 || list[0].Name != "Linho" {
		t.Errorf("expected fabrics sorted by name, got %+v", list)
	}

	neg := rolls("-2")
	if _, err := svc.fabrics.PatchFabric(ctx, f.ID, core.FabricPatch{StockRolls: &neg}); err == nil {
		t.Error("expected a patch below zero to be rejected")
	}
	if err := svc.fabrics.DeleteFabric(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFabric failed: %v", err)
	}
	if _, err := svc.fabrics.AddStock(ctx, f.ID, rolls("1")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	p, err := svc.catalog.CreateProduct(ctx, core.ProductReference{Code: "CAM-01"})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := svc.catalog.CreateProduct(ctx, core.ProductReference{Code: "cam-01"}); !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for a duplicate code, got %v", err)
	}
	var verr *core.ValidationError
	if _, err := svc.catalog.CreateProduct(ctx, core.ProductReference{Code: "X", DefaultGrid: "PLUS"}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for an unknown grid, got %v", err)
	}

	desc := "Camiseta basica"
	patched, err := svc.catalog.PatchProduct(ctx, p.ID, core.ProductPatch{Description: &desc})
	if err != nil || patched.Description != desc || patched.Code != "CAM-01" {
		t.Errorf("unexpected patch result %+v (%v)", patched, err)
	}

	s := mustSeamstress(t, svc, ctx, "Ana")
	inactive := false
	if _, err := svc.catalog.PatchSeamstress(ctx, s.ID, core.SeamstressPatch{Active: &inactive}); err != nil {
		t.Fatalf("PatchSeamstress failed: %v", err)
	}
	list, err := svc.catalog.ListSeamstresses(ctx)
	if err != nil || len(list) != 1 || list[0].Active {
		t.Errorf("expected one inactive seamstress, got %+v (%v)", list, err)
	}
	if _, err := svc.catalog.CreateSeamstress(ctx, core.Seamstress{}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for a nameless seamstress, got %v", err)
	}
}

func TestReportingService_RangeValidation(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	var verr *core.ValidationError
	if _, err := svc.reporting.PiecesProduced(ctx, core.ReportFilter{From: &from, To: &to}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for an inverted range, got %v", err)
	}

	to = from.AddDate(0, 0, 3)
	report, err := svc.reporting.PiecesProduced(ctx, core.ReportFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("PiecesProduced failed: %v", err)
	}
	if len(report.Series) != 3 || report.Pieces != 0 {
		t.Errorf("expected 3 empty daily buckets, got %d buckets / %d pieces", len(report.Series), report.Pieces)
	}

	if _, err := svc.reporting.PiecesByPeriod(ctx, core.Granularity("year"), from, 2); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for an unknown granularity, got %v", err)
	}
}

func TestOrderService_TimestampsMatchStoredPrecision(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	created := time.Date(2026, 3, 2, 9, 30, 15, 123_456_789, time.FixedZone("BRT", -3*3600))
	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ReferenceCode: "R", Fabric: "Viscose", CreatedAt: &created,
		Items: []core.PlannedItem{{Color: "Azul"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 3, 2, 12, 30, 15, 123_456_000, time.UTC)
	if !order.CreatedAt.Equal(want) || order.CreatedAt.Location() != time.UTC {
		t.Errorf("expected createdAt %v, got %v", want, order.CreatedAt)
	}
	if order.UpdatedAt.Nanosecond()%int(core.TimePrecision) != 0 {
		t.Errorf("updatedAt carries sub-microsecond digits: %v", order.UpdatedAt)
	}

	stored, err := svc.orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.CreatedAt.Equal(order.CreatedAt) || !stored.UpdatedAt.Equal(order.UpdatedAt) {
		t.Errorf("stored timestamps differ from the returned ones: %v/%v vs %v/%v",
			stored.CreatedAt, stored.UpdatedAt, order.CreatedAt, order.UpdatedAt)
	}
}

func TestOrderService_SameInstantOrdersByNumericID(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		if _, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
			ReferenceCode: "R", Fabric: "Viscose", CreatedAt: &created,
			Items: []core.PlannedItem{{Color: "Azul"}},
		}); err != nil {
			t.Fatal(err)
		}
	}
	orders, err := svc.orders.ListOrders(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if orders[0].ID != "10" || orders[1].ID != "9" || orders[9].ID != "1" {
		t.Errorf("expected 10, 9, ..., 1; got %s, %s, ..., %s", orders[0].ID, orders[1].ID, orders[9].ID)
	}
}

func TestOrderService_ConcurrentDistributeConservesPieces(t *testing.T) {
	svc, ctx := setupServices(t, core.PolicyPessimistic)
	mustFabric(t, svc, ctx, "Viscose", "Azul", "10")
	ana := mustSeamstress(t, svc, ctx, "Ana")
	order, err := svc.orders.CreateOrder(ctx, core.NewOrderInput{
		ReferenceCode: "R", Fabric: "Viscose",
		Items: []core.PlannedItem{{Color: "Azul", RollsUsed: rolls("1"), PiecesPerSize: 5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.orders.StartCutting(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.orders.ConfirmCut(ctx, order.ID, []core.CutInput{
		{Color: "Azul", Sizes: core.SizeDistribution{"P": 10}},
	}); err != nil {
		t.Fatal(err)
	}

	const workers = 25
	var wg sync.WaitGroup
	var sent atomic.Int64
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, split, err := svc.orders.Distribute(ctx, order.ID, ana.ID, []core.DistributionRequest{
				{Color: "Azul", Sizes: core.SizeDistribution{"P": 1}},
			})
			if err == nil {
				sent.Add(int64(split.Pieces()))
			}
		}()
	}
	wg.Wait()

	final, err := svc.orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sent.Load() != 10 || len(final.Splits) != 10 {
		t.Errorf("expected 10 one-piece packets, got %d pieces in %d packets", sent.Load(), len(final.Splits))
	}
	if final.RemainingPieces() != 0 {
		t.Errorf("expected an empty pool, got %d", final.RemainingPieces())
	}
}
