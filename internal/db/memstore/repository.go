package memstore

import (
	"context"

	"garment-tracker/internal/core"
)

// txStore is the view handed to WithinTx callbacks. It works on the snapshot without locking;
// the enclosing Store holds its write lock for the whole callback.
type txStore struct {
	state *state
}

func (t *txStore) WithinTx(ctx context.Context, fn func(tx core.Store) error) error {
	return fn(t)
}

// ── Products ──

func (s *Store) ListProducts(ctx context.Context) ([]core.ProductReference, error) {
	var out []core.ProductReference
	err := s.read(func(st *state) error {
		out = st.listProducts()
		return nil
	})
	return out, err
}

func (s *Store) GetProduct(ctx context.Context, id string) (*core.ProductReference, error) {
	var out *core.ProductReference
	err := s.read(func(st *state) error {
		var err error
		out, err = st.getProduct(id)
		return err
	})
	return out, err
}

func (s *Store) CreateProduct(ctx context.Context, p *core.ProductReference) error {
	return s.write(func(st *state) error { return st.createProduct(p) })
}

func (s *Store) PutProduct(ctx context.Context, p *core.ProductReference) error {
	return s.write(func(st *state) error { return st.putProduct(p) })
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.write(func(st *state) error { return st.deleteProduct(id) })
}

func (t *txStore) ListProducts(ctx context.Context) ([]core.ProductReference, error) {
	return t.state.listProducts(), nil
}

func (t *txStore) GetProduct(ctx context.Context, id string) (*core.ProductReference, error) {
	return t.state.getProduct(id)
}

func (t *txStore) CreateProduct(ctx context.Context, p *core.ProductReference) error {
	return t.state.createProduct(p)
}

func (t *txStore) PutProduct(ctx context.Context, p *core.ProductReference) error {
	return t.state.putProduct(p)
}

func (t *txStore) DeleteProduct(ctx context.Context, id string) error {
	return t.state.deleteProduct(id)
}

// ── Seamstresses ──

func (s *Store) ListSeamstresses(ctx context.Context) ([]core.Seamstress, error) {
	var out []core.Seamstress
	err := s.read(func(st *state) error {
		out = st.listSeamstresses()
		return nil
	})
	return out, err
}

func (s *Store) GetSeamstress(ctx context.Context, id string) (*core.Seamstress, error) {
	var out *core.Seamstress
	err := s.read(func(st *state) error {
		var err error
		out, err = st.getSeamstress(id)
		return err
	})
	return out, err
}

func (s *Store) CreateSeamstress(ctx context.Context, m *core.Seamstress) error {
	return s.write(func(st *state) error { return st.createSeamstress(m) })
}

func (s *Store) PutSeamstress(ctx context.Context, m *core.Seamstress) error {
	return s.write(func(st *state) error { return st.putSeamstress(m) })
}

func (s *Store) DeleteSeamstress(ctx context.Context, id string) error {
	return s.write(func(st *state) error { return st.deleteSeamstress(id) })
}

func (t *txStore) ListSeamstresses(ctx context.Context) ([]core.Seamstress, error) {
	return t.state.listSeamstresses(), nil
}

func (t *txStore) GetSeamstress(ctx context.Context, id string) (*core.Seamstress, error) {
	return t.state.getSeamstress(id)
}

func (t *txStore) CreateSeamstress(ctx context.Context, m *core.Seamstress) error {
	return t.state.createSeamstress(m)
}

func (t *txStore) PutSeamstress(ctx context.Context, m *core.Seamstress) error {
	return t.state.putSeamstress(m)
}

func (t *txStore) DeleteSeamstress(ctx context.Context, id string) error {
	return t.state.deleteSeamstress(id)
}

// ── Fabrics ──

func (s *Store) ListFabrics(ctx context.Context) ([]core.Fabric, error) {
	var out []core.Fabric
	err := s.read(func(st *state) error {
		out = st.listFabrics()
		return nil
	})
	return out, err
}

func (s *Store) GetFabric(ctx context.Context, id string) (*core.Fabric, error) {
	var out *core.Fabric
	err := s.read(func(st *state) error {
		var err error
		out, err = st.getFabric(id)
		return err
	})
	return out, err
}

func (s *Store) CreateFabric(ctx context.Context, f *core.Fabric) error {
	return s.write(func(st *state) error { return st.createFabric(f) })
}

func (s *Store) PutFabric(ctx context.Context, f *core.Fabric) error {
	return s.write(func(st *state) error { return st.putFabric(f) })
}

func (s *Store) DeleteFabric(ctx context.Context, id string) error {
	return s.write(func(st *state) error { return st.deleteFabric(id) })
}

func (t *txStore) ListFabrics(ctx context.Context) ([]core.Fabric, error) {
	return t.state.listFabrics(), nil
}

func (t *txStore) GetFabric(ctx context.Context, id string) (*core.Fabric, error) {
	return t.state.getFabric(id)
}

func (t *txStore) CreateFabric(ctx context.Context, f *core.Fabric) error {
	return t.state.createFabric(f)
}

func (t *txStore) PutFabric(ctx context.Context, f *core.Fabric) error {
	return t.state.putFabric(f)
}

func (t *txStore) DeleteFabric(ctx context.Context, id string) error {
	return t.state.deleteFabric(id)
}

// ── Orders ──

func (s *Store) ListOrders(ctx context.Context) ([]core.ProductionOrder, error) {
	var out []core.ProductionOrder
	err := s.read(func(st *state) error {
		out = st.listOrders()
		return nil
	})
	return out, err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*core.ProductionOrder, error) {
	var out *core.ProductionOrder
	err := s.read(func(st *state) error {
		var err error
		out, err = st.getOrder(id)
		return err
	})
	return out, err
}

func (s *Store) CreateOrder(ctx context.Context, o *core.ProductionOrder) error {
	return s.write(func(st *state) error { return st.createOrder(o) })
}

func (s *Store) PutOrder(ctx context.Context, o *core.ProductionOrder) error {
	return s.write(func(st *state) error { return st.putOrder(o) })
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.write(func(st *state) error { return st.deleteOrder(id) })
}

func (t *txStore) ListOrders(ctx context.Context) ([]core.ProductionOrder, error) {
	return t.state.listOrders(), nil
}

func (t *txStore) GetOrder(ctx context.Context, id string) (*core.ProductionOrder, error) {
	return t.state.getOrder(id)
}

func (t *txStore) CreateOrder(ctx context.Context, o *core.ProductionOrder) error {
	return t.state.createOrder(o)
}

func (t *txStore) PutOrder(ctx context.Context, o *core.ProductionOrder) error {
	return t.state.putOrder(o)
}

func (t *txStore) DeleteOrder(ctx context.Context, id string) error {
	return t.state.deleteOrder(id)
}
