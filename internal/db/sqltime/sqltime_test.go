package sqltime_test

import (
	"testing"
	"time"

	"garment-tracker/internal/db/sqltime"
)

func TestFormatAndParse(t *testing.T) {
	sp := time.FixedZone("BRT", -3*3600)
	in := time.Date(2026, 3, 2, 9, 30, 15, 0, sp)

	stored := sqltime.Format(in)
	if stored != "2026-03-02 12:30:15" {
		t.Fatalf("expected UTC without a fraction, got %q", stored)
	}
	back, err := sqltime.Parse(stored)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !back.Equal(in) {
		t.Errorf("expected %v, got %v", in, back)
	}

	if sqltime.Format(time.Time{}) != "" {
		t.Error("the zero time must format as empty")
	}
	if z, err := sqltime.Parse(""); err != nil || !z.IsZero() {
		t.Errorf("empty must parse to the zero time, got %v (%v)", z, err)
	}
	if _, err := sqltime.Parse("02/03/2026"); err == nil {
		t.Error("expected an error for a foreign layout")
	}
}

func TestFractionalSecondsRoundTrip(t *testing.T) {
	tests := []struct {
		in     time.Time
		stored string
	}{
		{time.Date(2026, 3, 4, 10, 11, 12, 345_000_000, time.UTC), "2026-03-04 10:11:12.345"},
		{time.Date(2026, 3, 4, 10, 11, 12, 123_456_000, time.UTC), "2026-03-04 10:11:12.123456"},
		{time.Date(2026, 3, 4, 10, 11, 12, 1_000, time.UTC), "2026-03-04 10:11:12.000001"},
	}
	for _, tt := range tests {
		stored := sqltime.Format(tt.in)
		if stored != tt.stored {
			t.Errorf("Format(%v) = %q, want %q", tt.in, stored, tt.stored)
		}
		back, err := sqltime.Parse(stored)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", stored, err)
		}
		if !back.Equal(tt.in) {
			t.Errorf("round trip of %v gave %v", tt.in, back)
		}
	}

	// PostgreSQL renders microseconds zero-padded.
	back, err := sqltime.Parse("2026-03-04 10:11:12.345000")
	if err != nil || !back.Equal(tests[0].in) {
		t.Errorf("Parse of padded fraction = %v, %v", back, err)
	}
}

func TestTruncateDropsSubMicrosecond(t *testing.T) {
	in := time.Date(2026, 3, 4, 10, 11, 12, 123_456_789, time.FixedZone("BRT", -3*3600))
	got := sqltime.Truncate(in)
	want := time.Date(2026, 3, 4, 13, 11, 12, 123_456_000, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("Truncate = %v, want %v", got, want)
	}
	back, err := sqltime.Parse(sqltime.Format(in))
	if err != nil || !back.Equal(got) {
		t.Errorf("stored value %v differs from truncated %v (%v)", back, got, err)
	}
	if !sqltime.Truncate(time.Time{}).IsZero() {
		t.Error("the zero time must stay zero")
	}
}

func TestParseAny(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-02T12:30:15Z", time.Date(2026, 3, 2, 12, 30, 15, 0, time.UTC)},
		{"2026-03-02T12:30:15.123Z", time.Date(2026, 3, 2, 12, 30, 15, 123_000_000, time.UTC)},
		{"2026-03-02T09:30:15-03:00", time.Date(2026, 3, 2, 12, 30, 15, 0, time.UTC)},
		{"2026-03-02T12:30:15", time.Date(2026, 3, 2, 12, 30, 15, 0, time.UTC)},
		{"2026-03-02 12:30:15.5", time.Date(2026, 3, 2, 12, 30, 15, 500_000_000, time.UTC)},
		{"2026-03-02", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := sqltime.ParseAny(tt.in)
		if err != nil || !got.Equal(tt.want) {
			t.Errorf("ParseAny(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := sqltime.ParseAny("yesterday"); err == nil {
		t.Error("expected an error for free text")
	}
}
