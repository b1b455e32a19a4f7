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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, sale_value, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// Las composiciones se leen con la materia prima (JOIN) ordenadas por position.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y sus composiciones. Llamar dentro de una tx.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, name, sale_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.Code, p.Name, p.SaleValue, p.CreatedAt, p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return r.insertCompositions(ctx, p)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

func (r *ProductRepo) getOne(ctx context.Context, query, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadCompositions(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza el producto y reemplaza todas sus composiciones. Llamar dentro de una tx.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, sale_value = $4, updated_at = $5
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, p.ID, p.Code, p.Name, p.SaleValue, p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_compositions WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete compositions: %w", err)
	}
	return r.insertCompositions(ctx, p)
}

// Delete elimina el producto; las composiciones caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, code LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := r.loadCompositions(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) insertCompositions(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO product_compositions (id, product_id, raw_material_id, required_quantity, position)
		VALUES ($1, $2, $3, $4, $5)`
	for i, c := range p.Compositions {
		if _, err := r.q.Exec(ctx, query, c.ID, p.ID, c.RawMaterial.ID, c.RequiredQuantity, i); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NewNotFound("materia prima", c.RawMaterial.ID)
			}
			return fmt.Errorf("insert composition: %w", err)
		}
	}
	return nil
}

// loadCompositions carga en una sola consulta las composiciones de todos los productos dados.
func (r *ProductRepo) loadCompositions(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Compositions = []entity.Composition{}
	}

	query := `
		SELECT pc.id, pc.product_id, pc.required_quantity,
		       rm.id, rm.code, rm.name, rm.stock_quantity, rm.unit, rm.created_at, rm.updated_at
		FROM product_compositions pc
		JOIN raw_materials rm ON rm.id = pc.raw_material_id
		WHERE pc.product_id = ANY($1::uuid[])
		ORDER BY pc.product_id, pc.position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list compositions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.Composition
		m := &c.RawMaterial
		if err := rows.Scan(
			&c.ID, &c.ProductID, &c.RequiredQuantity,
			&m.ID, &m.Code, &m.Name, &m.StockQuantity, &m.Unit, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan composition: %w", err)
		}
		if p, ok := byID[c.ProductID]; ok {
			p.Compositions = append(p.Compositions, c)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.SaleValue, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
