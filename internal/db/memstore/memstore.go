// Package memstore provides an in-memory core.Store used by tests and by STORE=memory demo runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"garment-tracker/internal/core"
)

var _ core.Store = (*Store)(nil)

type state struct {
	products     map[string]core.ProductReference
	seamstresses map[string]core.Seamstress
	fabrics      map[string]core.Fabric
	orders       map[string]*core.ProductionOrder
}

func newState() *state {
	return &state{
		products:     make(map[string]core.ProductReference),
		seamstresses: make(map[string]core.Seamstress),
		fabrics:      make(map[string]core.Fabric),
		orders:       make(map[string]*core.ProductionOrder),
	}
}

func cloneProduct(p core.ProductReference) core.ProductReference {
	p.DefaultColors = append([]core.ColorOption{}, p.DefaultColors...)
	return p
}

func (st *state) clone() *state {
	out := newState()
	for id, p := range st.products {
		out.products[id] = cloneProduct(p)
	}
	for id, s := range st.seamstresses {
		out.seamstresses[id] = s
	}
	for id, f := range st.fabrics {
		out.fabrics[id] = f
	}
	for id, o := range st.orders {
		out.orders[id] = o.Clone()
	}
	return out
}

// Store keeps every record in memory. Reads return copies, so callers never alias stored state.
type Store struct {
	mu    sync.RWMutex
	state *state
}

func New() *Store {
	return &Store{state: newState()}
}

// WithinTx runs fn against a snapshot and swaps it in only when fn succeeds.
// Transactions are serialized with every other write.
func (s *Store) WithinTx(ctx context.Context, fn func(tx core.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStore{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// ── Products ─────────────────────────────────────────────────────────────────

func (st *state) listProducts() []core.ProductReference {
	out := make([]core.ProductReference, 0, len(st.products))
	for _, p := range st.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (st *state) getProduct(id string) (*core.ProductReference, error) {
	p, ok := st.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, core.ErrNotFound)
	}
	p = cloneProduct(p)
	return &p, nil
}

func (st *state) createProduct(p *core.ProductReference) error {
	if _, ok := st.products[p.ID]; ok {
		return fmt.Errorf("product %s: %w", p.ID, core.ErrConflict)
	}
	st.products[p.ID] = cloneProduct(*p)
	return nil
}

func (st *state) putProduct(p *core.ProductReference) error {
	if _, ok := st.products[p.ID]; !ok {
		return fmt.Errorf("product %s: %w", p.ID, core.ErrNotFound)
	}
	st.products[p.ID] = cloneProduct(*p)
	return nil
}

func (st *state) deleteProduct(id string) error {
	if _, ok := st.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, core.ErrNotFound)
	}
	delete(st.products, id)
	return nil
}

// ── Seamstresses ─────────────────────────────────────────────────────────────

func (st *state) listSeamstresses() []core.Seamstress {
	out := make([]core.Seamstress, 0, len(st.seamstresses))
	for _, s := range st.seamstresses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (st *state) getSeamstress(id string) (*core.Seamstress, error) {
	s, ok := st.seamstresses[id]
	if !ok {
		return nil, fmt.Errorf("seamstress %s: %w", id, core.ErrNotFound)
	}
	return &s, nil
}

func (st *state) createSeamstress(s *core.Seamstress) error {
	if _, ok := st.seamstresses[s.ID]; ok {
		return fmt.Errorf("seamstress %s: %w", s.ID, core.ErrConflict)
	}
	st.seamstresses[s.ID] = *s
	return nil
}

func (st *state) putSeamstress(s *core.Seamstress) error {
	if _, ok := st.seamstresses[s.ID]; !ok {
		return fmt.Errorf("seamstress %s: %w", s.ID, core.ErrNotFound)
	}
	st.seamstresses[s.ID] = *s
	return nil
}

func (st *state) deleteSeamstress(id string) error {
	if _, ok := st.seamstresses[id]; !ok {
		return fmt.Errorf("seamstress %s: %w", id, core.ErrNotFound)
	}
	delete(st.seamstresses, id)
	return nil
}

// ── Fabrics ──────────────────────────────────────────────────────────────────

func (st *state) listFabrics() []core.Fabric {
	out := make([]core.Fabric, 0, len(st.fabrics))
	for _, f := range st.fabrics {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return strings.ToLower(out[i].Color) < strings.ToLower(out[j].Color)
	})
	return out
}

func (st *state) getFabric(id string) (*core.Fabric, error) {
	f, ok := st.fabrics[id]
	if !ok {
		return nil, fmt.Errorf("fabric %s: %w", id, core.ErrNotFound)
	}
	return &f, nil
}

func (st *state) createFabric(f *core.Fabric) error {
	if _, ok := st.fabrics[f.ID]; ok {
		return fmt.Errorf("fabric %s: %w", f.ID, core.ErrConflict)
	}
	st.fabrics[f.ID] = *f
	return nil
}

func (st *state) putFabric(f *core.Fabric) error {
	if _, ok := st.fabrics[f.ID]; !ok {
		return fmt.Errorf("fabric %s: %w", f.ID, core.ErrNotFound)
	}
	st.fabrics[f.ID] = *f
	return nil
}

func (st *state) deleteFabric(id string) error {
	if _, ok := st.fabrics[id]; !ok {
		return fmt.Errorf("fabric %s: %w", id, core.ErrNotFound)
	}
	delete(st.fabrics, id)
	return nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (st *state) listOrders() []core.ProductionOrder {
	out := make([]core.ProductionOrder, 0, len(st.orders))
	for _, o := range st.orders {
		out = append(out, *o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return core.NewerFirst(out[i], out[j]) })
	return out
}

func (st *state) getOrder(id string) (*core.ProductionOrder, error) {
	o, ok := st.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, core.ErrNotFound)
	}
	return o.Clone(), nil
}

func (st *state) createOrder(o *core.ProductionOrder) error {
	if _, ok := st.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, core.ErrConflict)
	}
	st.orders[o.ID] = o.Clone()
	return nil
}

func (st *state) putOrder(o *core.ProductionOrder) error {
	if _, ok := st.orders[o.ID]; !ok {
		return fmt.Errorf("order %s: %w", o.ID, core.ErrNotFound)
	}
	st.orders[o.ID] = o.Clone()
	return nil
}

func (st *state) deleteOrder(id string) error {
	if _, ok := st.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, core.ErrNotFound)
	}
	delete(st.orders, id)
	return nil
}
