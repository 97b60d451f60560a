package core

import (
	"context"
	"time"
)

// TimePrecision is the finest timestamp unit every Store keeps. Service clocks and
// caller-supplied times are truncated to it, so a returned record equals a later read.
const TimePrecision = time.Microsecond

func storeTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(TimePrecision)
}

func storeClock() time.Time {
	return storeTime(time.Now())
}

// Store is the persistence collaborator. Every implementation returns errors wrapping
// ErrNotFound for missing ids and ErrConflict for duplicate creates.
type Store interface {
	ProductRepository
	SeamstressRepository
	FabricRepository
	OrderRepository

	// WithinTx runs fn against a Store whose writes are applied together. Implementations
	// without transactions apply the writes in the order fn issues them.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]ProductReference, error)
	GetProduct(ctx context.Context, id string) (*ProductReference, error)
	CreateProduct(ctx context.Context, p *ProductReference) error
	PutProduct(ctx context.Context, p *ProductReference) error
	DeleteProduct(ctx context.Context, id string) error
}

type SeamstressRepository interface {
	ListSeamstresses(ctx context.Context) ([]Seamstress, error)
	GetSeamstress(ctx context.Context, id string) (*Seamstress, error)
	CreateSeamstress(ctx context.Context, s *Seamstress) error
	PutSeamstress(ctx context.Context, s *Seamstress) error
	DeleteSeamstress(ctx context.Context, id string) error
}

// FabricRepository lists fabrics ordered by name, then color.
type FabricRepository interface {
	ListFabrics(ctx context.Context) ([]Fabric, error)
	GetFabric(ctx context.Context, id string) (*Fabric, error)
	CreateFabric(ctx context.Context, f *Fabric) error
	PutFabric(ctx context.Context, f *Fabric) error
	DeleteFabric(ctx context.Context, id string) error
}

// OrderRepository lists orders newest first.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]ProductionOrder, error)
	GetOrder(ctx context.Context, id string) (*ProductionOrder, error)
	CreateOrder(ctx context.Context, o *ProductionOrder) error
	PutOrder(ctx context.Context, o *ProductionOrder) error
	DeleteOrder(ctx context.Context, id string) error
}
