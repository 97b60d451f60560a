package core

import (
	"sort"
	"strings"
	"time"
)

// Everything here is a projection over the full order set. Nothing is cached: each call
// rescans the orders it is given.

// ReportFilter narrows the production totals. Zero values mean "no bound".
// From is inclusive and To exclusive, both compared against split FinishedAt.
type ReportFilter struct {
	From         *time.Time
	To           *time.Time
	Fabric       string
	SeamstressID string
}

func (f ReportFilter) matches(o ProductionOrder, s OrderSplit) bool {
	if s.Status != StatusFinished {
		return false
	}
	if f.Fabric != "" && !strings.EqualFold(strings.TrimSpace(o.Fabric), strings.TrimSpace(f.Fabric)) {
		return false
	}
	if f.SeamstressID != "" && s.SeamstressID != f.SeamstressID {
		return false
	}
	if f.From != nil || f.To != nil {
		if s.FinishedAt == nil {
			return false
		}
		if f.From != nil && s.FinishedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && !s.FinishedAt.Before(*f.To) {
			return false
		}
	}
	return true
}

// CountByStatus returns the number of orders in each pipeline stage. Every stage is present.
func CountByStatus(orders []ProductionOrder) map[OrderStatus]int {
	counts := make(map[OrderStatus]int, len(AllStatuses))
	for _, st := range AllStatuses {
		counts[st] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// SewingPackets counts splits still being sewn across all orders.
func SewingPackets(orders []ProductionOrder) int {
	n := 0
	for _, o := range orders {
		for _, s := range o.Splits {
			if s.Status == StatusSewing {
				n++
			}
		}
	}
	return n
}

// ActiveSeamstressCount counts distinct seamstresses holding at least one SEWING split.
func ActiveSeamstressCount(orders []ProductionOrder) int {
	ids := make(map[string]struct{})
	for _, o := range orders {
		for _, s := range o.Splits {
			if s.Status == StatusSewing {
				ids[s.SeamstressID] = struct{}{}
			}
		}
	}
	return len(ids)
}

// PiecesProduced sums the pieces of FINISHED splits that pass the filter.
func PiecesProduced(orders []ProductionOrder, f ReportFilter) int {
	total := 0
	for _, o := range orders {
		for _, s := range o.Splits {
			if f.matches(o, s) {
				total += s.Pieces()
			}
		}
	}
	return total
}

// Granularity is the width of a production bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// PeriodTotal is the production of one bucket [Start, End).
type PeriodTotal struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Pieces int       `json:"pieces"`
}

// bucketStart truncates t to the start of its bucket in loc. Weeks start on Monday.
func bucketStart(t time.Time, g Granularity, loc *time.Location) time.Time {
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	switch g {
	case Week:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return day
	}
}

func bucketStep(t time.Time, g Granularity, n int) time.Time {
	switch g {
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// PiecesByPeriod returns n consecutive buckets, oldest first, the last one containing end.
func PiecesByPeriod(orders []ProductionOrder, g Granularity, end time.Time, n int, loc *time.Location) []PeriodTotal {
	if n <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	last := bucketStart(end, g, loc)
	out := make([]PeriodTotal, n)
	for i := 0; i < n; i++ {
		start := bucketStep(last, g, i-(n-1))
		stop := bucketStep(start, g, 1)
		out[i] = PeriodTotal{
			Start:  start,
			End:    stop,
			Pieces: PiecesProduced(orders, ReportFilter{From: &start, To: &stop}),
		}
	}
	return out
}

// SeamstressStat is one seamstress's workload and output.
type SeamstressStat struct {
	Seamstress      Seamstress `json:"seamstress"`
	ActivePackets   int        `json:"activePackets"`
	FinishedPackets int        `json:"finishedPackets"`
	Produced        int        `json:"produced"`
	Idle            bool       `json:"isIdle"`
}

// SeamstressStats computes per-seamstress packets and produced pieces, sorted by produced
// pieces descending, then by name.
func SeamstressStats(orders []ProductionOrder, seamstresses []Seamstress) []SeamstressStat {
	type tally struct{ active, finished, produced int }
	bySeamstress := make(map[string]*tally)
	for _, o := range orders {
		for _, s := range o.Splits {
			t := bySeamstress[s.SeamstressID]
			if t == nil {
				t = &tally{}
				bySeamstress[s.SeamstressID] = t
			}
			switch s.Status {
			case StatusSewing:
				t.active++
			case StatusFinished:
				t.finished++
				t.produced += s.Pieces()
			}
		}
	}

	stats := make([]SeamstressStat, 0, len(seamstresses))
	for _, s := range seamstresses {
		st := SeamstressStat{Seamstress: s}
		if t := bySeamstress[s.ID]; t != nil {
			st.ActivePackets = t.active
			st.FinishedPackets = t.finished
			st.Produced = t.produced
		}
		st.Idle = s.Active && st.ActivePackets == 0
		stats = append(stats, st)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Produced != stats[j].Produced {
			return stats[i].Produced > stats[j].Produced
		}
		return stats[i].Seamstress.Name < stats[j].Seamstress.Name
	})
	return stats
}

// IdleSeamstresses returns the seamstresses of stats that are active with no packet in
// progress, in stats order. The result is never nil.
func IdleSeamstresses(stats []SeamstressStat) []Seamstress {
	idle := []Seamstress{}
	for _, st := range stats {
		if st.Idle {
			idle = append(idle, st.Seamstress)
		}
	}
	return idle
}

// Dashboard is the home screen summary.
type Dashboard struct {
	GeneratedAt         time.Time           `json:"generatedAt"`
	TotalOrders         int                 `json:"totalOrders"`
	StatusCounts        map[OrderStatus]int `json:"statusCounts"`
	SewingPackets       int                 `json:"sewingPackets"`
	ActiveSeamstresses  int                 `json:"activeSeamstresses"`
	TotalPiecesProduced int                 `json:"totalPiecesProduced"`
	MonthPiecesProduced int                 `json:"monthPiecesProduced"`
	Weekly              []PeriodTotal       `json:"weekly"`
	Monthly             []PeriodTotal       `json:"monthly"`
	Seamstresses        []SeamstressStat    `json:"seamstresses"`
	Idle                []SeamstressStat    `json:"idle"`
	Busy                []SeamstressStat    `json:"busy"`
}

// BuildDashboard assembles the dashboard for the moment now, bucketing dates in loc.
// Weekly holds the last 7 days and Monthly the last 6 calendar months.
func BuildDashboard(orders []ProductionOrder, seamstresses []Seamstress, now time.Time, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.Local
	}
	monthStart := bucketStart(now, Month, loc)
	monthEnd := bucketStep(monthStart, Month, 1)

	stats := SeamstressStats(orders, seamstresses)
	d := Dashboard{
		GeneratedAt:         now,
		TotalOrders:         len(orders),
		StatusCounts:        CountByStatus(orders),
		SewingPackets:       SewingPackets(orders),
		ActiveSeamstresses:  ActiveSeamstressCount(orders),
		TotalPiecesProduced: PiecesProduced(orders, ReportFilter{}),
		MonthPiecesProduced: PiecesProduced(orders, ReportFilter{From: &monthStart, To: &monthEnd}),
		Weekly:              PiecesByPeriod(orders, Day, now, 7, loc),
		Monthly:             PiecesByPeriod(orders, Month, now, 6, loc),
		Seamstresses:        stats,
		Idle:                []SeamstressStat{},
		Busy:                []SeamstressStat{},
	}
	for _, st := range stats {
		switch {
		case st.Idle:
			d.Idle = append(d.Idle, st)
		case st.ActivePackets > 0:
			d.Busy = append(d.Busy, st)
		}
	}
	return d
}
