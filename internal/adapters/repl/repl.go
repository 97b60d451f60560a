// Package repl is the interactive workshop shell. The one-shot CLI reuses its command
// dispatcher, so both surfaces accept the same commands.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"garment-tracker/internal/app"

	"github.com/shopspring/decimal"
)

// ErrExit is returned by Execute for the exit command.
var ErrExit = errors.New("exit")

var timeNow = time.Now

// Shell dispatches workshop commands against the application service.
type Shell struct {
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
}

// NewShell creates a shell reading interactive answers from in and printing to out.
func NewShell(svc app.ApplicationService, in io.Reader, out io.Writer) *Shell {
	return &Shell{svc: svc, reader: bufio.NewReader(in), out: out}
}

func (s *Shell) usage(format string) error {
	fmt.Fprintln(s.out, "Usage: "+format)
	return nil
}

// Execute runs one command. tokens[0] is the command name.
func (s *Shell) Execute(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	args := tokens[1:]

	switch cmd {
	case "dashboard", "dash", "d":
		dash, err := s.svc.Dashboard(ctx, timeNow())
		if err != nil {
			return err
		}
		printDashboard(s.out, dash)

	case "orders", "o":
		var status *string
		if len(args) > 0 {
			status = &args[0]
		}
		result, err := s.svc.ListOrders(ctx, status)
		if err != nil {
			return err
		}
		printOrders(s.out, result)

	case "order":
		if len(args) < 1 {
			return s.usage("order <id>")
		}
		order, err := s.svc.GetOrder(ctx, args[0])
		if err != nil {
			return err
		}
		printOrderDetail(s.out, order)

	case "next-id":
		result, err := s.svc.NextOrderID(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, result.ID)

	case "new-order":
		if len(args) < 2 {
			return s.usage("new-order <reference-code> <fabric>")
		}
		return s.newOrderWizard(ctx, args[0], strings.Join(args[1:], " "))

	case "cut-start":
		if len(args) < 1 {
			return s.usage("cut-start <order-id>")
		}
		result, err := s.svc.StartCutting(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Order %s is now %s.\n", result.Order.ID, result.Order.Status)
		for _, d := range result.Deltas {
			fmt.Fprintf(s.out, "  %s/%s: %s -> %s rolls\n", d.Name, d.Color, d.Before.StringFixed(2), d.After.StringFixed(2))
		}

	case "cut":
		if len(args) < 1 {
			return s.usage("cut <order-id>")
		}
		return s.cutWizard(ctx, args[0])

	case "distribute", "dist":
		if len(args) < 2 {
			return s.usage("distribute <order-id> <seamstress-id>")
		}
		return s.distributeWizard(ctx, args[0], args[1])

	case "finish":
		if len(args) < 2 {
			return s.usage("finish <order-id> <split-id>")
		}
		result, err := s.svc.FinishSplit(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if result.OrderFinished {
			fmt.Fprintf(s.out, "Packet finished. Order %s is FINISHED.\n", result.Order.ID)
		} else {
			fmt.Fprintf(s.out, "Packet finished. Order %s has %d pieces left to distribute.\n", result.Order.ID, result.Order.RemainingPieces())
		}

	case "fabrics", "stock":
		result, err := s.svc.ListFabrics(ctx, app.FabricListRequest{})
		if err != nil {
			return err
		}
		printFabrics(s.out, result)

	case "stock-add":
		if len(args) < 2 {
			return s.usage("stock-add <fabric-id> <rolls>")
		}
		rolls, err := decimal.NewFromString(args[1])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid rolls: %s\n", args[1])
			return nil
		}
		fabric, err := s.svc.AddStock(ctx, app.AddStockRequest{FabricID: args[0], Rolls: rolls})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s/%s now has %s rolls.\n", fabric.Name, fabric.Color, fabric.StockRolls.StringFixed(2))

	case "production", "prod":
		req := app.PeriodReportRequest{End: timeNow()}
		if len(args) > 0 {
			req.Granularity = args[0]
		}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return s.usage("production [day|week|month] [periods]")
			}
			req.Periods = n
		}
		result, err := s.svc.ProductionByPeriod(ctx, req)
		if err != nil {
			return err
		}
		printProduction(s.out, result)

	case "seamstresses", "team":
		result, err := s.svc.SeamstressStats(ctx)
		if err != nil {
			return err
		}
		printSeamstresses(s.out, result)

	case "products", "refs":
		products, err := s.svc.ListProducts(ctx)
		if err != nil {
			return err
		}
		printProducts(s.out, products)

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return ErrExit

	default:
		fmt.Fprintf(s.out, "Unknown command: %s  (type help for all commands)\n", cmd)
	}
	return nil
}

// Run starts the interactive loop and returns when the user exits or input ends.
func (s *Shell) Run(ctx context.Context) {
	fmt.Fprintln(s.out, "Garment Workshop")
	fmt.Fprintln(s.out, "Type help for commands.")
	fmt.Fprintln(s.out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(s.out, "\n> ")
		input, err := s.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			if execErr := s.Execute(ctx, strings.Fields(input)); execErr != nil {
				if errors.Is(execErr, ErrExit) {
					fmt.Fprintln(s.out, "Goodbye!")
					return
				}
				fmt.Fprintf(s.out, "Error: %v\n", execErr)
			}
		}
		if err != nil {
			return
		}
	}
}
