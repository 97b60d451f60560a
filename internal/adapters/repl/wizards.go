package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"garment-tracker/internal/app"
	"garment-tracker/internal/core"

	"github.com/shopspring/decimal"
)

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	raw, err := s.reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if err != nil && raw == "" {
		return "", false
	}
	return raw, true
}

// parseSizes reads "P=10 M=5" into a distribution.
func parseSizes(fields []string) (core.SizeDistribution, error) {
	sizes := core.SizeDistribution{}
	for _, f := range fields {
		size, qty, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(size) == "" {
			return nil, fmt.Errorf("expected SIZE=QTY, got %q", f)
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid quantity in %q", f)
		}
		sizes[core.NormalizeSize(size)] = n
	}
	return sizes, nil
}

// newOrderWizard plans an order line by line.
func (s *Shell) newOrderWizard(ctx context.Context, reference, fabric string) error {
	fmt.Fprintf(s.out, "Planning order for reference %s on %s\n", reference, fabric)
	fmt.Fprintln(s.out, "Enter one color per line. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(s.out, "Format per line: <color> <rolls> <pieces-per-size>")
	fmt.Fprintln(s.out, "  Example: Azul 2.5 10")

	var items []app.OrderItemRequest
	for {
		raw, ok := s.prompt(fmt.Sprintf("  Color %d: ", len(items)+1))
		if !ok || strings.EqualFold(raw, "cancel") {
			fmt.Fprintln(s.out, "Order planning cancelled.")
			return nil
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		if raw == "" {
			continue
		}
		parts := strings.Fields(raw)
		if len(parts) != 3 {
			fmt.Fprintln(s.out, "  Invalid format. Use: <color> <rolls> <pieces-per-size>")
			continue
		}
		rolls, err := decimal.NewFromString(parts[1])
		if err != nil || rolls.IsNegative() {
			fmt.Fprintln(s.out, "  Invalid rolls.")
			continue
		}
		pieces, err := strconv.Atoi(parts[2])
		if err != nil || pieces < 0 {
			fmt.Fprintln(s.out, "  Invalid pieces per size.")
			continue
		}
		items = append(items, app.OrderItemRequest{Color: parts[0], RollsUsed: rolls, PiecesPerSize: pieces})
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No colors entered. Order not created.")
		return nil
	}

	grid, _ := s.prompt("Size grid (leave blank for STANDARD): ")
	notes, _ := s.prompt("Notes (optional): ")

	order, err := s.svc.CreateOrder(ctx, app.CreateOrderRequest{
		ReferenceCode: reference,
		Fabric:        fabric,
		GridType:      grid,
		Notes:         notes,
		Items:         items,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nOrder %s planned.\n", order.ID)
	printOrderDetail(s.out, order)
	fmt.Fprintf(s.out, "Use 'cut-start %s' when cutting begins.\n", order.ID)
	return nil
}

// cutWizard confirms the real cut, one color per line.
func (s *Shell) cutWizard(ctx context.Context, orderID string) error {
	order, err := s.svc.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Confirming cut of order %s. One color per line: <color> SIZE=QTY ...\n", order.ID)
	for _, it := range order.Items {
		fmt.Fprintf(s.out, "  planned %s: %s\n", it.Color, formatSizes(it.Sizes))
	}

	var cuts []core.CutInput
	for {
		raw, ok := s.prompt(fmt.Sprintf("  Color %d: ", len(cuts)+1))
		if !ok || strings.EqualFold(raw, "cancel") {
			fmt.Fprintln(s.out, "Cut not confirmed.")
			return nil
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		parts := strings.Fields(raw)
		if len(parts) < 2 {
			continue
		}
		sizes, err := parseSizes(parts[1:])
		if err != nil {
			fmt.Fprintf(s.out, "  %v\n", err)
			continue
		}
		cuts = append(cuts, core.CutInput{Color: parts[0], Sizes: sizes})
	}

	order, err = s.svc.ConfirmCut(ctx, app.ConfirmCutRequest{OrderID: orderID, Items: cuts})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Cut confirmed: %d pieces to distribute.\n", order.RemainingPieces())
	return nil
}

// distributeWizard hands pieces to one seamstress, one color per line.
func (s *Shell) distributeWizard(ctx context.Context, orderID, seamstressID string) error {
	order, err := s.svc.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Available:")
	for _, it := range order.ActiveCuttingItems {
		fmt.Fprintf(s.out, "  %s: %s\n", it.Color, formatSizes(it.Sizes))
	}
	fmt.Fprintln(s.out, "One color per line: <color> SIZE=QTY ...  ('done' to send, 'cancel' to abort)")

	var reqs []core.DistributionRequest
	for {
		raw, ok := s.prompt("  > ")
		if !ok || strings.EqualFold(raw, "cancel") {
			fmt.Fprintln(s.out, "Nothing distributed.")
			return nil
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		parts := strings.Fields(raw)
		if len(parts) < 2 {
			continue
		}
		sizes, err := parseSizes(parts[1:])
		if err != nil {
			fmt.Fprintf(s.out, "  %v\n", err)
			continue
		}
		reqs = append(reqs, core.DistributionRequest{Color: parts[0], Sizes: sizes})
	}

	result, err := s.svc.Distribute(ctx, app.DistributeRequest{OrderID: orderID, SeamstressID: seamstressID, Items: reqs})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Packet %s: %d pieces to %s. %d left to distribute.\n",
		result.Split.ID, result.Split.Pieces(), result.Split.SeamstressName, result.Order.RemainingPieces())
	return nil
}
