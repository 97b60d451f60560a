package app

import "garment-tracker/internal/core"

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.ProductionOrder `json:"orders"`
	Status string                 `json:"status,omitempty"`
}

// DistributionResult is returned by Distribute.
type DistributionResult struct {
	Order *core.ProductionOrder `json:"order"`
	Split *core.OrderSplit      `json:"split"`
}

// FinishSplitResult is returned by FinishSplit. OrderFinished is true when this split
// completed the order.
type FinishSplitResult struct {
	Order         *core.ProductionOrder `json:"order"`
	OrderFinished bool                  `json:"orderFinished"`
}

// NextOrderIDResult is returned by NextOrderID.
type NextOrderIDResult struct {
	ID string `json:"id"`
}

// FabricListResult is returned by ListFabrics.
type FabricListResult struct {
	Fabrics []core.Fabric `json:"fabrics"`
}

// PeriodReportResult is returned by ProductionByPeriod.
type PeriodReportResult struct {
	Granularity core.Granularity   `json:"granularity"`
	Series      []core.PeriodTotal `json:"series"`
}

// SeamstressStatsResult is returned by SeamstressStats.
type SeamstressStatsResult struct {
	Stats []core.SeamstressStat `json:"stats"`
	Idle  []core.Seamstress     `json:"idle"`
}
