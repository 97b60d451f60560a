package core

import "strings"

// DefaultGridType is used when an order or product names no grid.
const DefaultGridType = "STANDARD"

// SizeGrids maps a grid type (STANDARD, PLUS, INFANT...) to its ordered sizes.
type SizeGrids map[string][]string

// NormalizeSize is the canonical form of a size label: trimmed and upper-cased. Grids and
// every cut or distribution key go through it, so "gg" and "GG" name one size.
func NormalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

// DefaultSizeGrids returns the grids available when no grid file is configured.
func DefaultSizeGrids() SizeGrids {
	return SizeGrids{DefaultGridType: {"P", "M", "G", "GG"}}
}

// Sizes returns the sizes of gridType, matched case-insensitively. An empty grid type
// resolves to STANDARD. Unknown grid types return nil.
func (g SizeGrids) Sizes(gridType string) []string {
	name := strings.ToUpper(strings.TrimSpace(gridType))
	if name == "" {
		name = DefaultGridType
	}
	for k, sizes := range g {
		if strings.ToUpper(k) == name {
			return append([]string(nil), sizes...)
		}
	}
	return nil
}
