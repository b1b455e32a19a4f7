// Package memory implementa los puertos de persistencia del catálogo en memoria.
// Se usa para planificación offline (factoryctl plan) y en tests.
package memory

import (
	"context"
	"sync"

	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

var _ catalog.TxRunner = (*Store)(nil)

// Store guarda materias primas y productos. Los productos se listan en orden de inserción.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	materials map[string]entity.RawMaterial
	products  map[string]entity.Product // composiciones guardan solo RawMaterial.ID
	order     []string
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		materials: make(map[string]entity.RawMaterial),
		products:  make(map[string]entity.Product),
	}
}

// RawMaterials devuelve el repositorio de materias primas sobre este store.
func (s *Store) RawMaterials() *RawMaterialRepo { return &RawMaterialRepo{s: s} }

// Products devuelve el repositorio de productos sobre este store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Run ejecuta fn de forma serializada; si fn falla se restaura el estado previo.
// Las escrituras fuera de Run esperan a que termine la transacción en curso, así
// un rollback no descarta cambios ajenos. Las lecturas no esperan.
func (s *Store) Run(ctx context.Context, fn func(
	rawRepo repository.RawMaterialRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	backup := s.snapshot()
	if err := fn(&RawMaterialRepo{s: s, inTx: true}, &ProductRepo{s: s, inTx: true}); err != nil {
		s.restore(backup)
		return err
	}
	return nil
}

// lockWrite toma mu para escribir. Fuera de una transacción toma antes txMu
// (orden fijo txMu -> mu). Devuelve la función que libera ambos.
func (s *Store) lockWrite(inTx bool) func() {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

type state struct {
	materials map[string]entity.RawMaterial
	products  map[string]entity.Product
	order     []string
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := state{
		materials: make(map[string]entity.RawMaterial, len(s.materials)),
		products:  make(map[string]entity.Product, len(s.products)),
		order:     append([]string(nil), s.order...),
	}
	for k, v := range s.materials {
		st.materials[k] = v
	}
	for k, v := range s.products {
		v.Compositions = append([]entity.Composition(nil), v.Compositions...)
		st.products[k] = v
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = st.materials
	s.products = st.products
	s.order = st.order
}
