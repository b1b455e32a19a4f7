package catalog

import (
	"context"

	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		rawRepo repository.RawMaterialRepository,
		productRepo repository.ProductRepository,
	) error) error
}
