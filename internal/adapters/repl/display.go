package repl

import (
	"fmt"
	"io"
	"strings"

	"garment-tracker/internal/app"
	"garment-tracker/internal/core"
)

func rule(w io.Writer, ch string, n int) {
	fmt.Fprintln(w, strings.Repeat(ch, n))
}

func printDashboard(w io.Writer, d *core.Dashboard) {
	fmt.Fprintln(w)
	rule(w, "=", 62)
	fmt.Fprintf(w, "  %-58s\n", "WORKSHOP DASHBOARD")
	fmt.Fprintf(w, "  Generated: %s\n", d.GeneratedAt.Format("2006-01-02 15:04"))
	rule(w, "=", 62)
	fmt.Fprintf(w, "  Orders total        %8d\n", d.TotalOrders)
	for _, st := range core.AllStatuses {
		fmt.Fprintf(w, "    %-18s%8d\n", st, d.StatusCounts[st])
	}
	fmt.Fprintf(w, "  Packets in sewing   %8d\n", d.SewingPackets)
	fmt.Fprintf(w, "  Seamstresses busy   %8d\n", d.ActiveSeamstresses)
	fmt.Fprintf(w, "  Pieces produced     %8d\n", d.TotalPiecesProduced)
	fmt.Fprintf(w, "  Pieces this month   %8d\n", d.MonthPiecesProduced)
	rule(w, "-", 62)
	fmt.Fprintln(w, "  LAST 7 DAYS")
	for _, p := range d.Weekly {
		fmt.Fprintf(w, "    %s  %6d\n", p.Start.Format("Mon 02/01"), p.Pieces)
	}
	if len(d.Idle) > 0 {
		rule(w, "-", 62)
		names := make([]string, 0, len(d.Idle))
		for _, st := range d.Idle {
			names = append(names, st.Seamstress.Name)
		}
		fmt.Fprintf(w, "  Idle: %s\n", strings.Join(names, ", "))
	}
	rule(w, "=", 62)
}

func printOrders(w io.Writer, result *app.OrderListResult) {
	fmt.Fprintln(w)
	rule(w, "=", 80)
	title := "PRODUCTION ORDERS"
	if result.Status != "" {
		title += " (" + result.Status + ")"
	}
	fmt.Fprintf(w, "  %s\n", title)
	rule(w, "=", 80)
	if len(result.Orders) == 0 {
		fmt.Fprintln(w, "  No orders found.")
		rule(w, "=", 80)
		return
	}
	fmt.Fprintf(w, "  %-6s %-12s %-20s %-10s %8s %8s  %s\n", "ID", "REFERENCE", "FABRIC", "STATUS", "PIECES", "TO SEND", "CREATED")
	rule(w, "-", 80)
	for _, o := range result.Orders {
		pieces := 0
		for _, it := range o.Items {
			if it.CutSizes != nil {
				pieces += it.ActualPieces
			} else {
				pieces += it.EstimatedPieces
			}
		}
		fmt.Fprintf(w, "  %-6s %-12s %-20s %-10s %8d %8d  %s\n",
			o.ID, o.ReferenceCode, o.Fabric, o.Status, pieces, o.RemainingPieces(), o.CreatedAt.Format("2006-01-02"))
	}
	rule(w, "=", 80)
}

func printOrderDetail(w io.Writer, o *core.ProductionOrder) {
	fmt.Fprintln(w)
	rule(w, "-", 60)
	fmt.Fprintf(w, "  Order:     %s\n", o.ID)
	fmt.Fprintf(w, "  Reference: %s  %s\n", o.ReferenceCode, o.Description)
	fmt.Fprintf(w, "  Fabric:    %s\n", o.Fabric)
	fmt.Fprintf(w, "  Status:    %s\n", o.Status)
	fmt.Fprintf(w, "  Created:   %s\n", o.CreatedAt.Format("2006-01-02"))
	rule(w, "-", 60)
	fmt.Fprintf(w, "  %-14s %8s %8s %8s  %s\n", "COLOR", "ROLLS", "EST", "CUT", "SIZES")
	for _, it := range o.Items {
		sizes := it.Sizes
		if it.CutSizes != nil {
			sizes = it.CutSizes
		}
		fmt.Fprintf(w, "  %-14s %8s %8d %8d  %s\n", it.Color, it.RollsUsed.StringFixed(2), it.EstimatedPieces, it.ActualPieces, formatSizes(sizes))
	}
	if len(o.ActiveCuttingItems) > 0 {
		rule(w, "-", 60)
		fmt.Fprintln(w, "  TO DISTRIBUTE")
		for _, it := range o.ActiveCuttingItems {
			fmt.Fprintf(w, "  %-14s %8d  %s\n", it.Color, it.ActualPieces, formatSizes(it.Sizes))
		}
	}
	if len(o.Splits) > 0 {
		rule(w, "-", 60)
		fmt.Fprintln(w, "  PACKETS")
		for _, s := range o.Splits {
			fmt.Fprintf(w, "  %-8.8s %-16s %-9s %6d\n", s.ID, s.SeamstressName, s.Status, s.Pieces())
		}
	}
	rule(w, "-", 60)
}

func printFabrics(w io.Writer, result *app.FabricListResult) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintln(w, "  FABRIC STOCK")
	rule(w, "=", 72)
	if len(result.Fabrics) == 0 {
		fmt.Fprintln(w, "  No fabrics found.")
		rule(w, "=", 72)
		return
	}
	fmt.Fprintf(w, "  %-36s %-14s %-10s %8s\n", "ID", "NAME", "COLOR", "ROLLS")
	rule(w, "-", 72)
	for _, f := range result.Fabrics {
		fmt.Fprintf(w, "  %-36s %-14s %-10s %8s\n", f.ID, f.Name, f.Color, f.StockRolls.StringFixed(2))
	}
	rule(w, "=", 72)
}

func printSeamstresses(w io.Writer, result *app.SeamstressStatsResult) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintln(w, "  SEAMSTRESSES")
	rule(w, "=", 72)
	if len(result.Stats) == 0 {
		fmt.Fprintln(w, "  No seamstresses found.")
		rule(w, "=", 72)
		return
	}
	fmt.Fprintf(w, "  %-36s %-16s %7s %9s\n", "ID", "NAME", "SEWING", "PRODUCED")
	rule(w, "-", 72)
	for _, st := range result.Stats {
		name := st.Seamstress.Name
		if !st.Seamstress.Active {
			name += " (off)"
		}
		fmt.Fprintf(w, "  %-36s %-16s %7d %9d\n", st.Seamstress.ID, name, st.ActivePackets, st.Produced)
	}
	rule(w, "=", 72)
}

func printProducts(w io.Writer, products []core.ProductReference) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintln(w, "  PRODUCT REFERENCES")
	rule(w, "=", 72)
	if len(products) == 0 {
		fmt.Fprintln(w, "  No products found.")
		rule(w, "=", 72)
		return
	}
	fmt.Fprintf(w, "  %-10s %-28s %-16s %s\n", "CODE", "DESCRIPTION", "FABRIC", "GRID")
	rule(w, "-", 72)
	for _, p := range products {
		fmt.Fprintf(w, "  %-10s %-28s %-16s %s\n", p.Code, p.Description, p.DefaultFabric, p.DefaultGrid)
	}
	rule(w, "=", 72)
}

func printProduction(w io.Writer, result *app.PeriodReportResult) {
	layout := "Mon 02/01"
	switch result.Granularity {
	case core.Week:
		layout = "week of 02/01"
	case core.Month:
		layout = "Jan 2006"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  PIECES PRODUCED BY %s\n", strings.ToUpper(string(result.Granularity)))
	rule(w, "-", 40)
	total := 0
	for _, p := range result.Series {
		fmt.Fprintf(w, "  %-16s %8d\n", p.Start.Format(layout), p.Pieces)
		total += p.Pieces
	}
	rule(w, "-", 40)
	fmt.Fprintf(w, "  %-16s %8d\n", "Total", total)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  dashboard                         production summary")
	fmt.Fprintln(w, "  orders [status]                   list orders, newest first")
	fmt.Fprintln(w, "  order <id>                        order detail")
	fmt.Fprintln(w, "  next-id                           suggested id for a new order")
	fmt.Fprintln(w, "  new-order <reference> <fabric>    plan an order (interactive)")
	fmt.Fprintln(w, "  cut-start <id>                    start cutting and consume fabric")
	fmt.Fprintln(w, "  cut <id>                          confirm the real cut (interactive)")
	fmt.Fprintln(w, "  distribute <id> <seamstress-id>   hand pieces to a seamstress (interactive)")
	fmt.Fprintln(w, "  finish <id> <split-id>            mark a packet as sewn")
	fmt.Fprintln(w, "  fabrics                           fabric stock")
	fmt.Fprintln(w, "  stock-add <fabric-id> <rolls>     manual stock entry")
	fmt.Fprintln(w, "  production [day|week|month] [n]   finished pieces per period")
	fmt.Fprintln(w, "  seamstresses                      workload per seamstress")
	fmt.Fprintln(w, "  products                          product references")
	fmt.Fprintln(w, "  exit")
}

func formatSizes(d core.SizeDistribution) string {
	parts := make([]string, 0, len(d))
	for _, size := range d.Sizes() {
		parts = append(parts, fmt.Sprintf("%s=%d", size, d[size]))
	}
	return strings.Join(parts, " ")
}
