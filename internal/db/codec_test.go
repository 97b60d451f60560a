package db_test

import (
	"bytes"
	"strings"
	"testing"

	"garment-tracker/internal/core"
	"garment-tracker/internal/db"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newCodec() (*db.BlobCodec, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return db.NewBlobCodec(logger), &buf
}

func TestBlobCodec_ItemsRoundTrip(t *testing.T) {
	codec, logs := newCodec()
	items := []core.OrderItem{{
		Color:        "Azul",
		RollsUsed:    decimal.RequireFromString("2.5"),
		ActualPieces: 3,
		Sizes:        core.SizeDistribution{"P": 1, "M": 2},
	}}
	raw, err := codec.Encode(items)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got := codec.DecodeItems("orders", "1", "items", raw)
	if len(got) != 1 || got[0].Sizes["M"] != 2 || !got[0].RollsUsed.Equal(items[0].RollsUsed) {
		t.Errorf("unexpected decode: %+v", got)
	}
	if logs.Len() != 0 {
		t.Errorf("a valid blob must not log, got %s", logs.String())
	}
}

func TestBlobCodec_InvalidBlobs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `[{"color": "Azul"`},
		{"wrong shape", `{"color": "Azul"}`},
		{"missing color", `[{"color": "", "sizes": {"P": 1}}]`},
		{"negative size", `[{"color": "Azul", "sizes": {"P": -4}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, logs := newCodec()
			got := codec.DecodeItems("orders", "7", "activeCuttingItems", []byte(tt.raw))
			if got == nil || len(got) != 0 {
				t.Errorf("expected an empty non-nil list, got %#v", got)
			}
			if !strings.Contains(logs.String(), `"level":"warning"`) || !strings.Contains(logs.String(), `"id":"7"`) {
				t.Errorf("expected a WARN entry naming the record, got %s", logs.String())
			}
		})
	}
}

func TestBlobCodec_EmptyValues(t *testing.T) {
	codec, logs := newCodec()
	for _, raw := range [][]byte{nil, []byte("null")} {
		if got := codec.DecodeSplits("orders", "1", "splits", raw); got == nil || len(got) != 0 {
			t.Errorf("expected empty splits for %q, got %#v", raw, got)
		}
		if got := codec.DecodeColors("products", "p", "defaultColors", raw); got == nil || len(got) != 0 {
			t.Errorf("expected empty colors for %q, got %#v", raw, got)
		}
	}
	if logs.Len() != 0 {
		t.Errorf("absent blobs are not an error, got %s", logs.String())
	}
}

func TestBlobCodec_Splits(t *testing.T) {
	codec, logs := newCodec()
	good := `[{"id":"a","seamstressId":"s1","seamstressName":"Ana","status":"SEWING","items":[{"color":"Azul","sizes":{"P":2},"actualPieces":2}],"createdAt":"2026-03-02T12:00:00Z"}]`
	splits := codec.DecodeSplits("orders", "1", "splits", []byte(good))
	if len(splits) != 1 || splits[0].Pieces() != 2 {
		t.Fatalf("unexpected splits: %+v", splits)
	}

	bad := strings.Replace(good, `"SEWING"`, `"PLANNED"`, 1)
	if got := codec.DecodeSplits("orders", "1", "splits", []byte(bad)); len(got) != 0 {
		t.Errorf("a split can only be SEWING or FINISHED, got %+v", got)
	}
	if logs.Len() == 0 {
		t.Error("expected the invalid split to be logged")
	}
}
