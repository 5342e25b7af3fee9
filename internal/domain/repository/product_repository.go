package repository

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// LowStockItem fila del reporte de productos agotados o bajo mínimo.
type LowStockItem struct {
	ProductID    string
	SKU          string
	Name         string
	CurrentStock int64
	MinStock     int64
	IsLowStock   bool
	IsOutOfStock bool
	Deficit      int64 // MinStock - CurrentStock
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// AdjustCurrentStock es de uso exclusivo del motor de stock, dentro de su
// transacción: incrementa/decrementa el agregado desnormalizado.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	AdjustCurrentStock(ctx context.Context, productID string, delta int64) error
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve activos agotados o bajo mínimo, orden ascendente
	// por stock actual. El predicado columna-a-columna vive aquí, no en el caller.
	ListLowStock(ctx context.Context) ([]LowStockItem, error)
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
