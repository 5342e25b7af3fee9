package repository

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar el saldo por
// producto+bodega. Los métodos *ForUpdate solo tienen sentido dentro de la
// transacción del motor de stock: bloquean la fila hasta el commit.
type StockLevelRepository interface {
	// GetOrCreateForUpdate crea la fila con cantidad 0 y los umbrales dados si
	// no existe (a prueba de carreras: dos creadores concurrentes no duplican
	// el par) y la devuelve bloqueada para update.
	GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, minStock int64, maxStock *int64) (*entity.StockLevel, error)
	// GetForUpdate devuelve la fila bloqueada, o nil si el par no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	// SetQuantity fija la cantidad de un par existente. ErrNotFound si no existe.
	SetQuantity(ctx context.Context, productID, warehouseID string, quantity int64) error
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockLevel, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error)
	// DeleteByWarehouse purga los saldos de una bodega; solo se usa en el
	// borrado físico de bodegas sin historial.
	DeleteByWarehouse(ctx context.Context, warehouseID string) error
	DeleteByProduct(ctx context.Context, productID string) error
}
