package db

import (
	"context"
	"errors"
	"fmt"

	"garment-tracker/internal/core"

	"github.com/jackc/pgx/v5"
)

const fabricColumns = `id, name, color, color_hex, stock_rolls, notes,
	to_char(created_at, 'YYYY-MM-DD HH24:MI:SS.US'), to_char(updated_at, 'YYYY-MM-DD HH24:MI:SS.US')`

func scanFabric(row pgx.Row) (*core.Fabric, error) {
	var f core.Fabric
	var created, updated *string
	if err := row.Scan(&f.ID, &f.Name, &f.Color, &f.ColorHex, &f.StockRolls, &f.Notes, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if f.CreatedAt, err = storedTime(created); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = storedTime(updated); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) ListFabrics(ctx context.Context) ([]core.Fabric, error) {
	rows, err := s.q.Query(ctx, `SELECT `+fabricColumns+` FROM fabrics ORDER BY lower(name), lower(color)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fabrics: %w", err)
	}
	defer rows.Close()

	fabrics := []core.Fabric{}
	for rows.Next() {
		f, err := scanFabric(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fabric: %w", err)
		}
		fabrics = append(fabrics, *f)
	}
	return fabrics, rows.Err()
}

func (s *Store) GetFabric(ctx context.Context, id string) (*core.Fabric, error) {
	f, err := scanFabric(s.q.QueryRow(ctx, `SELECT `+fabricColumns+` FROM fabrics WHERE id = $1`+s.lockClause(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fabric %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch fabric %s: %w", id, err)
	}
	return f, nil
}

func (s *Store) CreateFabric(ctx context.Context, f *core.Fabric) error {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO fabrics (id, name, color, color_hex, stock_rolls, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::timestamp, $8::timestamp)
		ON CONFLICT DO NOTHING
	`, f.ID, f.Name, f.Color, f.ColorHex, f.StockRolls, f.Notes, sqlTimestampArg(f.CreatedAt), sqlTimestampArg(f.UpdatedAt))
	if err != nil {
		return mapWriteErr("fabric", f.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fabric %s/%s: %w", f.Name, f.Color, core.ErrConflict)
	}
	return nil
}

func (s *Store) PutFabric(ctx context.Context, f *core.Fabric) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE fabrics
		SET name = $2, color = $3, color_hex = $4, stock_rolls = $5, notes = $6,
		    created_at = $7::timestamp, updated_at = $8::timestamp
		WHERE id = $1
	`, f.ID, f.Name, f.Color, f.ColorHex, f.StockRolls, f.Notes, sqlTimestampArg(f.CreatedAt), sqlTimestampArg(f.UpdatedAt))
	if err != nil {
		return mapWriteErr("fabric", f.ID, err)
	}
	return requireRow(tag, "fabric", f.ID)
}

func (s *Store) DeleteFabric(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM fabrics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fabric %s: %w", id, err)
	}
	return requireRow(tag, "fabric", id)
}
