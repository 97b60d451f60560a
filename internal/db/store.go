package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garment-tracker/internal/core"
	"garment-tracker/internal/db/sqltime"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

var _ core.Store = (*Store)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL implementation of core.Store.
type Store struct {
	pool  *pgxpool.Pool
	q     querier
	codec *BlobCodec
	inTx  bool
}

func NewStore(pool *pgxpool.Pool, logger *logrus.Logger) *Store {
	return &Store{pool: pool, q: pool, codec: NewBlobCodec(logger)}
}

// WithinTx runs fn against a transaction-scoped Store and commits when fn returns nil.
// Nested calls reuse the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx core.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, q: tx, codec: s.codec, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockClause makes single-row reads inside a transaction hold the row until commit, so
// read-modify-write commands on the same record run one after the other.
func (s *Store) lockClause() string {
	if s.inTx {
		return " FOR UPDATE"
	}
	return ""
}

// mapWriteErr turns unique violations into core.ErrConflict.
func mapWriteErr(entity, id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s %s: %w", entity, id, core.ErrConflict)
	}
	return fmt.Errorf("failed to write %s %s: %w", entity, id, err)
}

// requireRow reports core.ErrNotFound when an UPDATE or DELETE matched nothing.
func requireRow(tag pgconn.CommandTag, entity, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, core.ErrNotFound)
	}
	return nil
}

func storedTime(s *string) (time.Time, error) {
	if s == nil {
		return time.Time{}, nil
	}
	return sqltime.Parse(*s)
}

func storedTimePtr(s *string) (*time.Time, error) {
	t, err := storedTime(s)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}
