package memory

import (
	"context"

	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Al leer, cada composición recibe una copia
// actual de su materia prima (equivalente al JOIN de la versión PostgreSQL).
type ProductRepo struct {
	s    *Store
	inTx bool // dentro de Store.Run, que ya tiene txMu
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	if _, exists := r.s.products[p.ID]; exists || r.codeTaken(p.Code, "") {
		return domain.ErrDuplicate
	}
	if err := r.checkMaterials(p); err != nil {
		return err
	}
	r.s.products[p.ID] = stripped(p)
	r.s.order = append(r.s.order, p.ID)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(p), nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.order {
		if p := r.s.products[id]; p.Code == code {
			return r.hydrate(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	current, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	if r.codeTaken(p.Code, p.ID) {
		return domain.ErrDuplicate
	}
	if err := r.checkMaterials(p); err != nil {
		return err
	}
	p.CreatedAt = current.CreatedAt
	r.s.products[p.ID] = stripped(p)
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.products[id]; !ok {
		return nil
	}
	delete(r.s.products, id)
	for i, pid := range r.s.order {
		if pid == id {
			r.s.order = append(r.s.order[:i:i], r.s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.s.order))
	for _, id := range r.s.order {
		list = append(list, r.hydrate(r.s.products[id]))
	}
	return paginate(list, limit, offset), nil
}

// codeTaken y checkMaterials requieren r.s.mu tomado.
func (r *ProductRepo) codeTaken(code, exceptID string) bool {
	for id, p := range r.s.products {
		if p.Code == code && id != exceptID {
			return true
		}
	}
	return false
}

func (r *ProductRepo) checkMaterials(p *entity.Product) error {
	for _, c := range p.Compositions {
		if _, ok := r.s.materials[c.RawMaterial.ID]; !ok {
			return domain.ErrConflict
		}
	}
	return nil
}

func (r *ProductRepo) hydrate(p entity.Product) *entity.Product {
	comps := make([]entity.Composition, len(p.Compositions))
	for i, c := range p.Compositions {
		c.RawMaterial = r.s.materials[c.RawMaterial.ID]
		comps[i] = c
	}
	p.Compositions = comps
	return &p
}

func stripped(p *entity.Product) entity.Product {
	out := *p
	out.Compositions = make([]entity.Composition, len(p.Compositions))
	for i, c := range p.Compositions {
		c.ProductID = p.ID
		c.RawMaterial = entity.RawMaterial{ID: c.RawMaterial.ID}
		out.Compositions[i] = c
	}
	return out
}
