package stock

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/event"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// asiento del libro, saldo y agregado del producto se aplican todos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}

// EventPublisher puerto de notificación de eventos de dominio. Best-effort:
// se invoca después del commit, no devuelve error y nunca bloquea ni revierte
// la operación de stock. Los fallos de entrega se registran en el log del
// publicador.
type EventPublisher interface {
	PublishStockMovement(ctx context.Context, e event.StockMovementEvent)
	PublishLowStockAlert(ctx context.Context, e event.LowStockAlertEvent)
	PublishStockTransfer(ctx context.Context, e event.StockTransferEvent)
}
