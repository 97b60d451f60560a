package db

import (
	"encoding/json"
	"fmt"
	"time"

	"garment-tracker/internal/core"
	"garment-tracker/internal/db/sqltime"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func sqlTimestampArg(t time.Time) *string {
	s := sqltime.Format(t)
	if s == "" {
		return nil
	}
	return &s
}

func sqlTimestampPtrArg(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return sqlTimestampArg(*t)
}

// BlobCodec converts the nested lists of a record to and from their JSONB columns.
// Decoded values are checked with the same struct tags the API validates; a blob that is
// malformed or fails validation decodes to an empty list and is logged at WARN.
type BlobCodec struct {
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewBlobCodec(logger *logrus.Logger) *BlobCodec {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BlobCodec{validate: validator.New(), logger: logger}
}

func (c *BlobCodec) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blob: %w", err)
	}
	return b, nil
}

func (c *BlobCodec) warn(table, id, field string, raw []byte, err error) {
	c.logger.WithFields(logrus.Fields{
		"module":   "db",
		"funcName": "decode",
		"table":    table,
		"id":       id,
		"field":    field,
		"bytes":    len(raw),
	}).Warn("discarding unreadable blob: " + err.Error())
}

// DecodeItems decodes an items-shaped column.
func (c *BlobCodec) DecodeItems(table, id, field string, raw []byte) []core.OrderItem {
	items := []core.OrderItem{}
	if len(raw) == 0 || string(raw) == "null" {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		c.warn(table, id, field, raw, err)
		return []core.OrderItem{}
	}
	for i := range items {
		if err := c.validate.Struct(&items[i]); err != nil {
			c.warn(table, id, field, raw, err)
			return []core.OrderItem{}
		}
		if items[i].Sizes == nil {
			items[i].Sizes = core.SizeDistribution{}
		}
	}
	return items
}

// DecodeSplits decodes the splits column.
func (c *BlobCodec) DecodeSplits(table, id, field string, raw []byte) []core.OrderSplit {
	splits := []core.OrderSplit{}
	if len(raw) == 0 || string(raw) == "null" {
		return splits
	}
	if err := json.Unmarshal(raw, &splits); err != nil {
		c.warn(table, id, field, raw, err)
		return []core.OrderSplit{}
	}
	for i := range splits {
		if err := c.validate.Struct(&splits[i]); err != nil {
			c.warn(table, id, field, raw, err)
			return []core.OrderSplit{}
		}
		if splits[i].Items == nil {
			splits[i].Items = []core.OrderItem{}
		}
	}
	return splits
}

// DecodeColors decodes a product's default color list.
func (c *BlobCodec) DecodeColors(table, id, field string, raw []byte) []core.ColorOption {
	colors := []core.ColorOption{}
	if len(raw) == 0 || string(raw) == "null" {
		return colors
	}
	if err := json.Unmarshal(raw, &colors); err != nil {
		c.warn(table, id, field, raw, err)
		return []core.ColorOption{}
	}
	for i := range colors {
		if err := c.validate.Struct(&colors[i]); err != nil {
			c.warn(table, id, field, raw, err)
			return []core.ColorOption{}
		}
	}
	return colors
}
