package db

import (
	"context"
	"errors"
	"fmt"

	"garment-tracker/internal/core"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, reference_id, reference_code, description, fabric, grid_type, status, notes,
	items, active_cutting_items, splits,
	to_char(created_at, 'YYYY-MM-DD HH24:MI:SS.US'), to_char(updated_at, 'YYYY-MM-DD HH24:MI:SS.US'),
	to_char(finished_at, 'YYYY-MM-DD HH24:MI:SS.US')`

func (s *Store) scanOrder(row pgx.Row) (*core.ProductionOrder, error) {
	var o core.ProductionOrder
	var items, active, splits []byte
	var created, updated, finished *string
	if err := row.Scan(&o.ID, &o.ReferenceID, &o.ReferenceCode, &o.Description, &o.Fabric, &o.GridType, &o.Status, &o.Notes,
		&items, &active, &splits, &created, &updated, &finished); err != nil {
		return nil, err
	}
	o.Items = s.codec.DecodeItems("orders", o.ID, "items", items)
	o.ActiveCuttingItems = s.codec.DecodeItems("orders", o.ID, "active_cutting_items", active)
	o.Splits = s.codec.DecodeSplits("orders", o.ID, "splits", splits)

	var err error
	if o.CreatedAt, err = storedTime(created); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = storedTime(updated); err != nil {
		return nil, err
	}
	if o.FinishedAt, err = storedTimePtr(finished); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]core.ProductionOrder, error) {
	rows, err := s.q.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC NULLS LAST, length(id) DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []core.ProductionOrder{}
	for rows.Next() {
		o, err := s.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, id string) (*core.ProductionOrder, error) {
	o, err := s.scanOrder(s.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`+s.lockClause(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return o, nil
}

// orderArgs encodes the blobs and timestamps of o in column order, starting at id.
func (s *Store) orderArgs(o *core.ProductionOrder) ([]any, error) {
	items, err := s.codec.Encode(o.Items)
	if err != nil {
		return nil, err
	}
	active, err := s.codec.Encode(o.ActiveCuttingItems)
	if err != nil {
		return nil, err
	}
	splits, err := s.codec.Encode(o.Splits)
	if err != nil {
		return nil, err
	}
	return []any{
		o.ID, o.ReferenceID, o.ReferenceCode, o.Description, o.Fabric, o.GridType, string(o.Status), o.Notes,
		items, active, splits,
		sqlTimestampArg(o.CreatedAt), sqlTimestampArg(o.UpdatedAt), sqlTimestampPtrArg(o.FinishedAt),
	}, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *core.ProductionOrder) error {
	args, err := s.orderArgs(o)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		INSERT INTO orders (id, reference_id, reference_code, description, fabric, grid_type, status, notes,
		                    items, active_cutting_items, splits, created_at, updated_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::timestamp, $13::timestamp, $14::timestamp)
		ON CONFLICT DO NOTHING
	`, args...)
	if err != nil {
		return mapWriteErr("order", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", o.ID, core.ErrConflict)
	}
	return nil
}

func (s *Store) PutOrder(ctx context.Context, o *core.ProductionOrder) error {
	args, err := s.orderArgs(o)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE orders
		SET reference_id = $2, reference_code = $3, description = $4, fabric = $5, grid_type = $6,
		    status = $7, notes = $8, items = $9, active_cutting_items = $10, splits = $11,
		    created_at = $12::timestamp, updated_at = $13::timestamp, finished_at = $14::timestamp
		WHERE id = $1
	`, args...)
	if err != nil {
		return mapWriteErr("order", o.ID, err)
	}
	return requireRow(tag, "order", o.ID)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return requireRow(tag, "order", id)
}
