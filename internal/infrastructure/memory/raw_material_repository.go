package memory

import (
	"context"
	"sort"
	"time"

	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo materias primas en memoria.
type RawMaterialRepo struct {
	s    *Store
	inTx bool // dentro de Store.Run, que ya tiene txMu
}

func (r *RawMaterialRepo) Create(_ context.Context, m *entity.RawMaterial) error {
	defer r.s.lockWrite(r.inTx)()
	if _, exists := r.s.materials[m.ID]; exists || r.codeTaken(m.Code, "") {
		return domain.ErrDuplicate
	}
	r.s.materials[m.ID] = *m
	return nil
}

func (r *RawMaterialRepo) GetByID(_ context.Context, id string) (*entity.RawMaterial, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *RawMaterialRepo) GetByCode(_ context.Context, code string) (*entity.RawMaterial, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.materials {
		if m.Code == code {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *RawMaterialRepo) Update(_ context.Context, m *entity.RawMaterial) error {
	defer r.s.lockWrite(r.inTx)()
	current, ok := r.s.materials[m.ID]
	if !ok {
		return nil
	}
	if r.codeTaken(m.Code, m.ID) {
		return domain.ErrDuplicate
	}
	m.CreatedAt = current.CreatedAt
	r.s.materials[m.ID] = *m
	return nil
}

func (r *RawMaterialRepo) UpsertByCode(_ context.Context, m *entity.RawMaterial) error {
	defer r.s.lockWrite(r.inTx)()
	for id, existing := range r.s.materials {
		if existing.Code == m.Code {
			existing.Name = m.Name
			existing.StockQuantity = m.StockQuantity
			existing.Unit = m.Unit
			existing.UpdatedAt = time.Now()
			r.s.materials[id] = existing
			m.ID = id
			return nil
		}
	}
	r.s.materials[m.ID] = *m
	return nil
}

func (r *RawMaterialRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite(r.inTx)()
	for _, p := range r.s.products {
		for _, c := range p.Compositions {
			if c.RawMaterial.ID == id {
				return domain.ErrConflict
			}
		}
	}
	delete(r.s.materials, id)
	return nil
}

func (r *RawMaterialRepo) List(_ context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	r.s.mu.RLock()
	list := make([]*entity.RawMaterial, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		m := m
		list = append(list, &m)
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return paginate(list, limit, offset), nil
}

// codeTaken requiere r.s.mu tomado.
func (r *RawMaterialRepo) codeTaken(code, exceptID string) bool {
	for id, m := range r.s.materials {
		if m.Code == code && id != exceptID {
			return true
		}
	}
	return false
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
