package db

import (
	"context"
	"errors"
	"fmt"

	"garment-tracker/internal/core"

	"github.com/jackc/pgx/v5"
)

// ── Products ─────────────────────────────────────────────────────────────────

const productColumns = `id, code, description, default_fabric, default_colors, default_grid, estimated_pieces_per_roll`

func (s *Store) scanProduct(row pgx.Row) (*core.ProductReference, error) {
	var p core.ProductReference
	var colors []byte
	if err := row.Scan(&p.ID, &p.Code, &p.Description, &p.DefaultFabric, &colors, &p.DefaultGrid, &p.EstimatedPiecesPerRoll); err != nil {
		return nil, err
	}
	p.DefaultColors = s.codec.DecodeColors("products", p.ID, "default_colors", colors)
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]core.ProductReference, error) {
	rows, err := s.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []core.ProductReference{}
	for rows.Next() {
		p, err := s.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (*core.ProductReference, error) {
	p, err := s.scanProduct(s.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *core.ProductReference) error {
	colors, err := s.codec.Encode(p.DefaultColors)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`, p.ID, p.Code, p.Description, p.DefaultFabric, colors, p.DefaultGrid, p.EstimatedPiecesPerRoll)
	if err != nil {
		return mapWriteErr("product", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", p.ID, core.ErrConflict)
	}
	return nil
}

func (s *Store) PutProduct(ctx context.Context, p *core.ProductReference) error {
	colors, err := s.codec.Encode(p.DefaultColors)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE products
		SET code = $2, description = $3, default_fabric = $4, default_colors = $5,
		    default_grid = $6, estimated_pieces_per_roll = $7
		WHERE id = $1
	`, p.ID, p.Code, p.Description, p.DefaultFabric, colors, p.DefaultGrid, p.EstimatedPiecesPerRoll)
	if err != nil {
		return mapWriteErr("product", p.ID, err)
	}
	return requireRow(tag, "product", p.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return requireRow(tag, "product", id)
}

// ── Seamstresses ─────────────────────────────────────────────────────────────

const seamstressColumns = `id, name, phone, specialty, address, city, active`

func scanSeamstress(row pgx.Row) (*core.Seamstress, error) {
	var m core.Seamstress
	if err := row.Scan(&m.ID, &m.Name, &m.Phone, &m.Specialty, &m.Address, &m.City, &m.Active); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListSeamstresses(ctx context.Context) ([]core.Seamstress, error) {
	rows, err := s.q.Query(ctx, `SELECT `+seamstressColumns+` FROM seamstresses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seamstresses: %w", err)
	}
	defer rows.Close()

	seamstresses := []core.Seamstress{}
	for rows.Next() {
		m, err := scanSeamstress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seamstress: %w", err)
		}
		seamstresses = append(seamstresses, *m)
	}
	return seamstresses, rows.Err()
}

func (s *Store) GetSeamstress(ctx context.Context, id string) (*core.Seamstress, error) {
	m, err := scanSeamstress(s.q.QueryRow(ctx, `SELECT `+seamstressColumns+` FROM seamstresses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("seamstress %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch seamstress %s: %w", id, err)
	}
	return m, nil
}

func (s *Store) CreateSeamstress(ctx context.Context, m *core.Seamstress) error {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO seamstresses (`+seamstressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`, m.ID, m.Name, m.Phone, m.Specialty, m.Address, m.City, m.Active)
	if err != nil {
		return mapWriteErr("seamstress", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("seamstress %s: %w", m.ID, core.ErrConflict)
	}
	return nil
}

func (s *Store) PutSeamstress(ctx context.Context, m *core.Seamstress) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE seamstresses
		SET name = $2, phone = $3, specialty = $4, address = $5, city = $6, active = $7
		WHERE id = $1
	`, m.ID, m.Name, m.Phone, m.Specialty, m.Address, m.City, m.Active)
	if err != nil {
		return mapWriteErr("seamstress", m.ID, err)
	}
	return requireRow(tag, "seamstress", m.ID)
}

func (s *Store) DeleteSeamstress(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM seamstresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete seamstress %s: %w", id, err)
	}
	return requireRow(tag, "seamstress", id)
}
