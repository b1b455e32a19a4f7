package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

const rawMaterialColumns = `id, code, name, stock_quantity, unit, created_at, updated_at`

// RawMaterialRepo implementación del puerto RawMaterialRepository sobre PostgreSQL (usable con pool o tx).
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

func (r *RawMaterialRepo) Create(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		INSERT INTO raw_materials (id, code, name, stock_quantity, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.Code, m.Name, m.StockQuantity, m.Unit, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert raw material: %w", err)
	}
	return nil
}

func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.getOne(ctx, `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = $1`, id)
}

func (r *RawMaterialRepo) GetByCode(ctx context.Context, code string) (*entity.RawMaterial, error) {
	return r.getOne(ctx, `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE code = $1`, code)
}

func (r *RawMaterialRepo) getOne(ctx context.Context, query string, arg string) (*entity.RawMaterial, error) {
	m, err := scanRawMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return m, nil
}

func (r *RawMaterialRepo) Update(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		UPDATE raw_materials
		SET code = $2, name = $3, stock_quantity = $4, unit = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.Code, m.Name, m.StockQuantity, m.Unit, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update raw material: %w", err)
	}
	return nil
}

// UpsertByCode inserta o actualiza por código; m.ID queda con el id persistido.
func (r *RawMaterialRepo) UpsertByCode(ctx context.Context, m *entity.RawMaterial) error {
	query := `
		INSERT INTO raw_materials (id, code, name, stock_quantity, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
		    stock_quantity = EXCLUDED.stock_quantity,
		    unit = EXCLUDED.unit,
		    updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query, m.ID, m.Code, m.Name, m.StockQuantity, m.Unit, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("upsert raw material %s: %w", m.Code, err)
	}
	return nil
}

func (r *RawMaterialRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete raw material: %w", err)
	}
	return nil
}

func (r *RawMaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	query := `SELECT ` + rawMaterialColumns + ` FROM raw_materials ORDER BY code LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()

	list := []*entity.RawMaterial{}
	for rows.Next() {
		m, err := scanRawMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan raw material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanRawMaterial(row pgx.Row) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.StockQuantity, &m.Unit, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
