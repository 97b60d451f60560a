package core_test

import (
	"errors"
	"testing"
	"time"

	"garment-tracker/internal/core"

	"github.com/shopspring/decimal"
)

var (
	t0      = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	grid    = []string{"P", "M", "G", "GG"}
	s1      = core.Seamstress{ID: "s1", Name: "Ana", Active: true}
	s2      = core.Seamstress{ID: "s2", Name: "Bia", Active: true}
	viscose = []core.Fabric{
		{ID: "f1", Name: "Viscose", Color: "Azul", StockRolls: decimal.RequireFromString("5.0")},
		{ID: "f2", Name: "Viscose", Color: "Preto", StockRolls: decimal.RequireFromString("10.0")},
	}
)

func rolls(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// plannedOrder returns a PLANNED order with one color per entry of colorRolls.
func plannedOrder(t *testing.T, colorRolls ...string) *core.ProductionOrder {
	t.Helper()
	in := core.NewOrderInput{ID: "1", ReferenceCode: "REF-10", Fabric: "Viscose"}
	for i := 0; i+1 < len(colorRolls); i += 2 {
		in.Items = append(in.Items, core.PlannedItem{
			Color: colorRolls[i], RollsUsed: rolls(colorRolls[i+1]), PiecesPerSize: 10,
		})
	}
	o, err := core.NewOrder(in, grid, t0)
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}
	return o
}

// cutOrder takes an order through cutting and cut confirmation with the given distribution for "Azul".
func cutOrder(t *testing.T, cut core.SizeDistribution) *core.ProductionOrder {
	t.Helper()
	o := plannedOrder(t, "Azul", "2.0")
	o, _, err := core.StartCutting(o, viscose, core.PolicyPessimistic, t0)
	if err != nil {
		t.Fatalf("StartCutting failed: %v", err)
	}
	o, err = core.ConfirmCut(o, []core.CutInput{{Color: "Azul", Sizes: cut}}, t0)
	if err != nil {
		t.Fatalf("ConfirmCut failed: %v", err)
	}
	return o
}

func TestNewOrder_BuildsEstimateGrid(t *testing.T) {
	o := plannedOrder(t, "Azul", "2.5", "Preto", "1")
	if o.Status != core.StatusPlanned {
		t.Errorf("expected PLANNED, got %s", o.Status)
	}
	if o.Description != "REF-10" {
		t.Errorf("description should default to the reference code, got %q", o.Description)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	azul := o.Items[0]
	if azul.EstimatedPieces != 40 {
		t.Errorf("expected 40 estimated pieces, got %d", azul.EstimatedPieces)
	}
	for _, size := range grid {
		if azul.Sizes[size] != 10 {
			t.Errorf("size %s: expected 10, got %d", size, azul.Sizes[size])
		}
	}
	if azul.ColorHex != "#ccc" {
		t.Errorf("expected default color hex, got %q", azul.ColorHex)
	}
	if len(o.ActiveCuttingItems) != 0 || len(o.Splits) != 0 {
		t.Error("a new order must have no cutting pool and no splits")
	}
}

func TestNewOrder_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    core.NewOrderInput
		sizes []string
		field string
	}{
		{
			name:  "missing reference",
			in:    core.NewOrderInput{Fabric: "Viscose", Items: []core.PlannedItem{{Color: "Azul"}}},
			sizes: grid,
			field: "referenceCode",
		},
		{
			name:  "missing fabric",
			in:    core.NewOrderInput{ReferenceCode: "R", Items: []core.PlannedItem{{Color: "Azul"}}},
			sizes: grid,
			field: "fabric",
		},
		{
			name:  "no items",
			in:    core.NewOrderInput{ReferenceCode: "R", Fabric: "Viscose"},
			sizes: grid,
			field: "items",
		},
		{
			name:  "negative rolls",
			in:    core.NewOrderInput{ReferenceCode: "R", Fabric: "Viscose", Items: []core.PlannedItem{{Color: "Azul", RollsUsed: rolls("-1")}}},
			sizes: grid,
			field: "items",
		},
		{
			name:  "empty grid",
			in:    core.NewOrderInput{ReferenceCode: "R", Fabric: "Viscose", Items: []core.PlannedItem{{Color: "Azul"}}},
			sizes: nil,
			field: "gridType",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.NewOrder(tt.in, tt.sizes, t0)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestEditPlanned_OnlyWhilePlanned(t *testing.T) {
	o := plannedOrder(t, "Azul", "1")
	in := core.NewOrderInput{ReferenceCode: "REF-11", Fabric: "Viscose", Items: []core.PlannedItem{{Color: "Preto", PiecesPerSize: 5}}}
	edited, err := core.EditPlanned(o, in, grid, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("EditPlanned failed: %v", err)
	}
	if edited.ID != o.ID || !edited.CreatedAt.Equal(o.CreatedAt) {
		t.Error("edit must keep the order id and creation date")
	}
	if edited.Items[0].Color != "Preto" || edited.Items[0].EstimatedPieces != 20 {
		t.Errorf("unexpected items after edit: %+v", edited.Items)
	}

	cutting, _, err := core.StartCutting(o, viscose, core.PolicyPessimistic, t0)
	if err != nil {
		t.Fatalf("StartCutting failed: %v", err)
	}
	if _, err := core.EditPlanned(cutting, in, grid, t0); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition editing a CUTTING order, got %v", err)
	}
}

func TestStartCutting_ConsumesFabric(t *testing.T) {
	o := plannedOrder(t, "Azul", "2.0", "azul", "1.5", "Preto", "3")
	next, deltas, err := core.StartCutting(o, viscose, core.PolicyPessimistic, t0)
	if err != nil {
		t.Fatalf("StartCutting failed: %v", err)
	}
	if next.Status != core.StatusCutting {
		t.Errorf("expected CUTTING, got %s", next.Status)
	}
	if o.Status != core.StatusPlanned {
		t.Error("StartCutting must not mutate its input")
	}
	if len(deltas) != 2 {
		t.Fatalf("expected one delta per fabric, got %d", len(deltas))
	}
	if deltas[0].FabricID != "f1" || !deltas[0].After.Equal(rolls("1.5")) {
		t.Errorf("Azul: expected 5.0 - 3.5 = 1.5, got %+v", deltas[0])
	}
	if !deltas[1].Consumed().Equal(rolls("3")) {
		t.Errorf("Preto: expected 3 rolls consumed, got %s", deltas[1].Consumed())
	}
	if !viscose[0].StockRolls.Equal(rolls("5.0")) {
		t.Error("StartCutting must not mutate the fabric snapshot")
	}
}

func TestStartCutting_PessimisticShortage(t *testing.T) {
	o := plannedOrder(t, "Azul", "7.0", "Verde", "1")
	next, deltas, err := core.StartCutting(o, viscose, core.PolicyPessimistic, t0)
	var short *core.InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if next != nil || deltas != nil {
		t.Error("a rejected transition must return no order and no deltas")
	}
	if len(short.Shortages) != 2 {
		t.Fatalf("expected both short colors to be listed, got %+v", short.Shortages)
	}
	if !short.Shortages[0].Missing().Equal(rolls("2")) {
		t.Errorf("Azul: expected 2 rolls missing, got %s", short.Shortages[0].Missing())
	}
	if !short.Shortages[1].Available.IsZero() {
		t.Errorf("Verde has no fabric record, expected 0 available, got %s", short.Shortages[1].Available)
	}
	if o.Status != core.StatusPlanned || !viscose[0].StockRolls.Equal(rolls("5.0")) {
		t.Error("order and stock must be unchanged after a rejected transition")
	}
}

func TestStartCutting_OptimisticClampsAtZero(t *testing.T) {
	o := plannedOrder(t, "Azul", "7.0", "Verde", "1")
	next, deltas, err := core.StartCutting(o, viscose, core.PolicyOptimistic, t0)
	if err != nil {
		t.Fatalf("StartCutting failed: %v", err)
	}
	if next.Status != core.StatusCutting {
		t.Errorf("expected CUTTING, got %s", next.Status)
	}
	if len(deltas) != 1 {
		t.Fatalf("colors without a fabric record are skipped, got %d deltas", len(deltas))
	}
	if !deltas[0].After.IsZero() {
		t.Errorf("expected stock clamped to zero, got %s", deltas[0].After)
	}
}

func TestStartCutting_WrongStatus(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 1})
	if _, _, err := core.StartCutting(o, viscose, core.PolicyPessimistic, t0); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestConfirmCut_KeepsEstimate(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 12, "M": 9, "G": 10, "GG": 8})
	item := o.Items[0]
	if item.EstimatedPieces != 40 || item.Sizes["P"] != 10 {
		t.Errorf("estimate must stay as planned, got %+v", item)
	}
	if item.ActualPieces != 39 || item.CutSizes["P"] != 12 {
		t.Errorf("expected actual cut of 39 with P=12, got %+v", item)
	}
	if len(o.ActiveCuttingItems) != 1 || o.ActiveCuttingItems[0].ActualPieces != 39 {
		t.Fatalf("expected cutting pool of 39, got %+v", o.ActiveCuttingItems)
	}
	if o.Status != core.StatusCutting {
		t.Errorf("confirming the cut must not change status, got %s", o.Status)
	}
}

func TestConfirmCut_Rejections(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 10})

	_, err := core.ConfirmCut(o, []core.CutInput{{Color: "Azul"}, {Color: "AZUL"}}, t0)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for duplicate color, got %v", err)
	}
	_, err = core.ConfirmCut(o, []core.CutInput{{Color: "Azul", Sizes: core.SizeDistribution{"P": -1}}}, t0)
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for negative size, got %v", err)
	}

	o, _, err = core.Distribute(o, s1, []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"P": 1}}}, "sp1", t0)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if _, err := core.ConfirmCut(o, []core.CutInput{{Color: "Azul", Sizes: core.SizeDistribution{"P": 3}}}, t0); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after distribution, got %v", err)
	}
}

func TestDistribute_Scenario(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 10, "M": 10, "G": 10, "GG": 10})
	next, split, err := core.Distribute(o, s1, []core.DistributionRequest{
		{Color: "Azul", Sizes: core.SizeDistribution{"P": 10, "M": 5}},
	}, "sp1", t0)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	pool := next.ActiveCuttingItems[0].Sizes
	want := core.SizeDistribution{"P": 0, "M": 5, "G": 10, "GG": 10}
	for size, q := range want {
		if pool[size] != q {
			t.Errorf("pool size %s: expected %d, got %d", size, q, pool[size])
		}
	}
	if next.ActiveCuttingItems[0].ActualPieces != 25 {
		t.Errorf("expected 25 remaining, got %d", next.ActiveCuttingItems[0].ActualPieces)
	}
	if split.Pieces() != 15 || split.Status != core.StatusSewing {
		t.Errorf("expected SEWING split of 15 pieces, got %d %s", split.Pieces(), split.Status)
	}
	if split.SeamstressName != "Ana" {
		t.Errorf("split must copy the seamstress name, got %q", split.SeamstressName)
	}
	if next.Status != core.StatusSewing {
		t.Errorf("expected SEWING, got %s", next.Status)
	}
	if o.ActiveCuttingItems[0].Sizes["P"] != 10 {
		t.Error("Distribute must not mutate its input")
	}
}

func TestDistribute_CapsAtRemaining(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 3, "M": 2})
	next, split, err := core.Distribute(o, s1, []core.DistributionRequest{
		{Color: "azul", Sizes: core.SizeDistribution{"P": 50, "M": -4, "G": 7}},
	}, "sp1", t0)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if split.Pieces() != 3 {
		t.Errorf("expected 3 pieces transferred, got %d", split.Pieces())
	}
	for size, q := range next.ActiveCuttingItems[0].Sizes {
		if q < 0 {
			t.Errorf("size %s went negative: %d", size, q)
		}
	}
	if next.ActiveCuttingItems[0].Sizes["M"] != 2 {
		t.Errorf("negative request must not add back to the pool, got M=%d", next.ActiveCuttingItems[0].Sizes["M"])
	}

	_, _, err = core.Distribute(next, s2, []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"P": 1}}}, "sp2", t0)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError when nothing is left, got %v", err)
	}
}

func TestDistribute_Rejections(t *testing.T) {
	planned := plannedOrder(t, "Azul", "1")
	req := []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"P": 1}}}
	if _, _, err := core.Distribute(planned, s1, req, "sp", t0); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for PLANNED order, got %v", err)
	}

	o := cutOrder(t, core.SizeDistribution{"P": 5})
	inactive := core.Seamstress{ID: "s9", Name: "Caio", Active: false}
	var verr *core.ValidationError
	if _, _, err := core.Distribute(o, inactive, req, "sp", t0); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for inactive seamstress, got %v", err)
	}
	if _, _, err := core.Distribute(o, s1, []core.DistributionRequest{{Color: "Rosa", Sizes: core.SizeDistribution{"P": 1}}}, "sp", t0); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for unknown color, got %v", err)
	}
}

func TestConservationOfPieces(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 7, "M": 11, "G": 4, "GG": 0})
	requests := []core.SizeDistribution{
		{"P": 3, "M": 20},
		{"P": 9, "G": 1},
		{"G": 2, "GG": 5},
	}
	for i, sizes := range requests {
		var err error
		o, _, err = core.Distribute(o, s1, []core.DistributionRequest{{Color: "Azul", Sizes: sizes}}, string(rune('a'+i)), t0)
		if err != nil {
			t.Fatalf("distribution %d failed: %v", i, err)
		}
		distributed := 0
		for _, s := range o.Splits {
			distributed += s.Pieces()
		}
		if got := distributed + o.RemainingPieces(); got != 22 {
			t.Errorf("after distribution %d: splits + pool = %d, want 22", i, got)
		}
	}
}

func TestFinishSplit_Scenario(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 2, "M": 2})
	o, _, err := core.Distribute(o, s1, []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"P": 2}}}, "a", t0)
	if err != nil {
		t.Fatal(err)
	}
	o, _, err = core.Distribute(o, s2, []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"M": 2}}}, "b", t0)
	if err != nil {
		t.Fatal(err)
	}

	later := t0.Add(48 * time.Hour)
	o, err = core.FinishSplit(o, "a", later)
	if err != nil {
		t.Fatalf("FinishSplit failed: %v", err)
	}
	if o.Status != core.StatusSewing || o.FinishedAt != nil {
		t.Errorf("order must stay SEWING while a split is open, got %s", o.Status)
	}
	if o.Splits[0].FinishedAt == nil || !o.Splits[0].FinishedAt.Equal(later) {
		t.Error("finished split must record its finish time")
	}

	if _, err := core.FinishSplit(o, "a", later); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition finishing twice, got %v", err)
	}
	if _, err := core.FinishSplit(o, "zzz", later); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown split, got %v", err)
	}

	o, err = core.FinishSplit(o, "b", later)
	if err != nil {
		t.Fatalf("FinishSplit failed: %v", err)
	}
	if o.Status != core.StatusFinished {
		t.Errorf("expected FINISHED, got %s", o.Status)
	}
	if o.FinishedAt == nil || !o.FinishedAt.Equal(later) {
		t.Error("FINISHED order must record finishedAt")
	}
}

func TestFinishSplit_PoolNotEmpty(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 2, "M": 2})
	o, _, err := core.Distribute(o, s1, []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"P": 2}}}, "a", t0)
	if err != nil {
		t.Fatal(err)
	}
	o, err = core.FinishSplit(o, "a", t0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != core.StatusSewing {
		t.Errorf("pieces left in the pool must keep the order SEWING, got %s", o.Status)
	}
	if core.IsComplete(o) {
		t.Error("IsComplete must be false with pieces left to distribute")
	}
}

func TestIsComplete_NoSplits(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{})
	if core.IsComplete(o) {
		t.Error("an order with no splits is never complete")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to core.OrderStatus
		want     bool
	}{
		{core.StatusPlanned, core.StatusCutting, true},
		{core.StatusCutting, core.StatusSewing, true},
		{core.StatusSewing, core.StatusFinished, true},
		{core.StatusSewing, core.StatusSewing, true},
		{core.StatusPlanned, core.StatusSewing, false},
		{core.StatusSewing, core.StatusCutting, false},
		{core.StatusFinished, core.StatusPlanned, false},
		{core.OrderStatus("LOST"), core.StatusPlanned, false},
	}
	for _, tt := range tests {
		if got := core.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusNeverMovesBackward(t *testing.T) {
	o := cutOrder(t, core.SizeDistribution{"P": 1})
	o, _, err := core.Distribute(o, s1, []core.DistributionRequest{{Color: "Azul", Sizes: core.SizeDistribution{"P": 1}}}, "a", t0)
	if err != nil {
		t.Fatal(err)
	}
	rank := o.Status.Rank()
	if _, _, err := core.StartCutting(o, viscose, core.PolicyOptimistic, t0); err == nil {
		t.Error("StartCutting on a SEWING order must fail")
	}
	if _, err := core.ConfirmCut(o, []core.CutInput{{Color: "Azul", Sizes: core.SizeDistribution{"P": 1}}}, t0); err == nil {
		t.Error("ConfirmCut on a SEWING order must fail")
	}
	o, err = core.FinishSplit(o, "a", t0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status.Rank() < rank {
		t.Errorf("status moved backward to %s", o.Status)
	}
}

func TestSizeLabelsAreCaseInsensitive(t *testing.T) {
	merged := core.SizeDistribution{"p": 2, "P": 3, " p ": 1, "gg": 4}.Normalized()
	if len(merged) != 2 || merged["P"] != 6 || merged["GG"] != 4 {
		t.Errorf("expected P=6 GG=4, got %v", merged)
	}

	o := cutOrder(t, core.SizeDistribution{"p": 3, "m": 2})
	item := o.Items[0]
	if item.CutSizes["P"] != 3 || item.CutSizes["M"] != 2 || len(item.CutSizes) != 2 {
		t.Fatalf("cut sizes must use grid labels, got %v", item.CutSizes)
	}
	if o.ActiveCuttingItems[0].Sizes["P"] != 3 {
		t.Fatalf("pool must use grid labels, got %v", o.ActiveCuttingItems[0].Sizes)
	}

	next, split, err := core.Distribute(o, s1, []core.DistributionRequest{
		{Color: "Azul", Sizes: core.SizeDistribution{"p": 1, "P": 1, "m": 2}},
	}, "sp1", t0)
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if split.Pieces() != 4 || split.Items[0].Sizes["P"] != 2 {
		t.Errorf("expected 4 pieces with P=2, got %v", split.Items[0].Sizes)
	}
	if next.RemainingPieces() != 1 || next.ActiveCuttingItems[0].Sizes["P"] != 1 {
		t.Errorf("expected one P left in the pool, got %v", next.ActiveCuttingItems[0].Sizes)
	}
}

func TestNewerFirst(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		a, b core.ProductionOrder
		want bool
	}{
		{core.ProductionOrder{ID: "1", CreatedAt: day.Add(time.Microsecond)}, core.ProductionOrder{ID: "2", CreatedAt: day}, true},
		{core.ProductionOrder{ID: "10", CreatedAt: day}, core.ProductionOrder{ID: "9", CreatedAt: day}, true},
		{core.ProductionOrder{ID: "9", CreatedAt: day}, core.ProductionOrder{ID: "10", CreatedAt: day}, false},
		{core.ProductionOrder{ID: "3", CreatedAt: day}, core.ProductionOrder{ID: "2", CreatedAt: day}, true},
		{core.ProductionOrder{ID: "2", CreatedAt: day}, core.ProductionOrder{ID: "2", CreatedAt: day}, false},
	}
	for _, tt := range tests {
		if got := core.NewerFirst(tt.a, tt.b); got != tt.want {
			t.Errorf("NewerFirst(%s, %s) = %v, want %v", tt.a.ID, tt.b.ID, got, tt.want)
		}
	}
}
