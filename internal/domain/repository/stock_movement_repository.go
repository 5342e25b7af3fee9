package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Type        string
	From        *time.Time
	To          *time.Time
}

// MovementRecord asiento del libro enriquecido con los datos de referencia
// del producto y la bodega (para listados y dashboard).
type MovementRecord struct {
	entity.StockMovement
	ProductSKU    string
	ProductName   string
	WarehouseCode string
	WarehouseName string
}

// StockMovementRepository define el puerto del libro de movimientos.
// Create es inserción pura: el libro es append-only, nunca se actualiza ni se
// borra un asiento. Toda validación de negocio ocurre antes, en el motor.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*MovementRecord, error)
	// Query devuelve asientos del más reciente al más antiguo, junto con el
	// total sin paginar para los metadatos de paginación.
	Query(ctx context.Context, filter MovementFilter, limit, offset int) ([]*MovementRecord, int64, error)
	CountByWarehouse(ctx context.Context, warehouseID string) (int64, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
}
