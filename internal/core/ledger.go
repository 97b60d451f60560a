package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockPolicy decides what the cutting transition does when fabric stock is short.
type StockPolicy string

const (
	// PolicyPessimistic checks every color before touching stock and rejects the whole
	// transition when any color is short.
	PolicyPessimistic StockPolicy = "pessimistic"
	// PolicyOptimistic decrements what it can and clamps each fabric at zero.
	PolicyOptimistic StockPolicy = "optimistic"
)

// ParseStockPolicy maps a configuration string to a policy. Empty means pessimistic.
func ParseStockPolicy(s string) (StockPolicy, error) {
	switch StockPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPessimistic:
		return PolicyPessimistic, nil
	case PolicyOptimistic:
		return PolicyOptimistic, nil
	}
	return "", fmt.Errorf("unknown stock policy %q (want pessimistic or optimistic)", s)
}

// stockPlaces is the precision stock quantities are rounded to after every mutation.
const stockPlaces = 2

// FabricDelta is a stock change the lifecycle engine asks the caller to persist.
type FabricDelta struct {
	FabricID string          `json:"fabricId"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Before   decimal.Decimal `json:"before"`
	After    decimal.Decimal `json:"after"`
}

// Consumed returns how many rolls the delta removes.
func (d FabricDelta) Consumed() decimal.Decimal {
	return d.Before.Sub(d.After)
}

// SameFabricKey compares a (name, color) pair the way fabric lookups do.
func SameFabricKey(name, color, otherName, otherColor string) bool {
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(otherName)) &&
		strings.EqualFold(strings.TrimSpace(color), strings.TrimSpace(otherColor))
}

// FindFabric returns the index of the fabric matching (name, color) case-insensitively, or -1.
func FindFabric(fabrics []Fabric, name, color string) int {
	for i, f := range fabrics {
		if SameFabricKey(f.Name, f.Color, name, color) {
			return i
		}
	}
	return -1
}

// AddStock returns f with delta rolls added. Only strictly positive deltas are accepted.
func AddStock(f Fabric, delta decimal.Decimal, now time.Time) (Fabric, error) {
	if !delta.IsPositive() {
		return f, validationErr("rolls", "stock entry must be positive, got %s", delta.String())
	}
	f.StockRolls = f.StockRolls.Add(delta).Round(stockPlaces)
	f.UpdatedAt = now
	return f, nil
}

// ConsumeStock returns f with rolls removed. Under PolicyPessimistic a shortfall is rejected;
// under PolicyOptimistic the stock is clamped at zero.
func ConsumeStock(f Fabric, rolls decimal.Decimal, policy StockPolicy, now time.Time) (Fabric, error) {
	if rolls.IsNegative() {
		return f, validationErr("rolls", "consumed rolls cannot be negative, got %s", rolls.String())
	}
	after := f.StockRolls.Sub(rolls)
	if after.IsNegative() {
		if policy != PolicyOptimistic {
			return f, &InsufficientStockError{Shortages: []Shortage{{
				Fabric: f.Name, Color: f.Color, Required: rolls, Available: f.StockRolls,
			}}}
		}
		after = decimal.Zero
	}
	f.StockRolls = after.Round(stockPlaces)
	f.UpdatedAt = now
	return f, nil
}

// fabricNeed is the total rolls one order requires of one color.
type fabricNeed struct {
	color string
	rolls decimal.Decimal
}

// aggregateNeeds sums rolls per color (case-insensitive), preserving first-seen order.
func aggregateNeeds(items []OrderItem) []fabricNeed {
	var needs []fabricNeed
	for _, it := range items {
		found := false
		for i := range needs {
			if strings.EqualFold(strings.TrimSpace(needs[i].color), strings.TrimSpace(it.Color)) {
				needs[i].rolls = needs[i].rolls.Add(it.RollsUsed)
				found = true
				break
			}
		}
		if !found {
			needs = append(needs, fabricNeed{color: it.Color, rolls: it.RollsUsed})
		}
	}
	return needs
}

// PlanConsumption computes the fabric deltas for consuming the rolls of items from fabricName.
// Nothing is mutated: the snapshot is only read. Under PolicyPessimistic every shortage is
// collected before returning, so the caller sees the complete list at once.
func PlanConsumption(fabrics []Fabric, fabricName string, items []OrderItem, policy StockPolicy, now time.Time) ([]FabricDelta, []Shortage) {
	var deltas []FabricDelta
	var shortages []Shortage
	for _, need := range aggregateNeeds(items) {
		if !need.rolls.IsPositive() {
			continue
		}
		idx := FindFabric(fabrics, fabricName, need.color)
		if idx < 0 {
			if policy == PolicyPessimistic {
				shortages = append(shortages, Shortage{
					Fabric: fabricName, Color: need.color, Required: need.rolls, Available: decimal.Zero,
				})
			}
			continue
		}
		f := fabrics[idx]
		updated, err := ConsumeStock(f, need.rolls, policy, now)
		if err != nil {
			shortages = append(shortages, Shortage{
				Fabric: f.Name, Color: f.Color, Required: need.rolls, Available: f.StockRolls,
			})
			continue
		}
		deltas = append(deltas, FabricDelta{
			FabricID: f.ID, Name: f.Name, Color: f.Color, Before: f.StockRolls, After: updated.StockRolls,
		})
	}
	return deltas, shortages
}
