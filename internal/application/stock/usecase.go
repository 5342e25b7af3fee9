package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/event"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// Engine es el motor de stock: orquesta las tres operaciones de movimiento
// (movimiento simple, traslado entre bodegas y ajuste absoluto) de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) sobre los saldos.
//
// Es el único escritor de StockLevel, del libro de movimientos y del agregado
// Product.CurrentStock. La invariante que protege: el agregado del producto
// siempre es igual a la suma de sus saldos por bodega al salir de cada
// transacción, y ningún saldo queda negativo.
type Engine struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     EventPublisher
	log           *logger.Logger
}

// NewEngine construye el motor con sus colaboradores.
func NewEngine(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *Engine {
	return &Engine{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		log:           log,
	}
}

// resolveProduct valida que el producto exista y esté activo.
// Los productos inactivos rechazan movimientos nuevos.
func (e *Engine) resolveProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := e.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

// resolveWarehouse valida que la bodega exista. A diferencia de los
// productos, una bodega desactivada sigue aceptando movimientos: el saldo
// remanente de una bodega dada de baja debe poder salir o trasladarse.
func (e *Engine) resolveWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	warehouse, err := e.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return warehouse, nil
}

// CreateMovement registra un movimiento simple (RECEIPT, ISSUE, RETURN,
// DAMAGE) sobre una bodega. ADJUSTMENT y TRANSFER se rechazan con
// ErrInvalidOperation: tienen operación dedicada porque su semántica difiere
// (valor absoluto vs. dos lados).
//
// Toda la validación ocurre antes de cualquier escritura. El asiento del
// libro, el saldo y el agregado del producto se escriben en una sola
// transacción; los eventos se publican después del commit, best-effort.
func (e *Engine) CreateMovement(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	switch in.Type {
	case entity.MovementTypeAdjustment, entity.MovementTypeTransfer:
		return nil, fmt.Errorf("%w: use la operación dedicada para %s", domain.ErrInvalidOperation, in.Type)
	case entity.MovementTypeReceipt, entity.MovementTypeIssue,
		entity.MovementTypeReturn, entity.MovementTypeDamage:
		// ok
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.ProductID == "" || in.WarehouseID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
	}

	product, err := e.resolveProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	warehouse, err := e.resolveWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: uuid.New().String(),
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		Reference:     in.Reference,
		Notes:         in.Notes,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		UserID:        userID,
		CreatedAt:     now,
	}
	if in.UnitPrice != nil {
		total := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
		movement.TotalPrice = &total
	}

	err = e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		productRepo repository.ProductRepository,
		_ repository.WarehouseRepository,
	) error {
		// Bloquea (o crea con cantidad 0) la fila del saldo para este par
		level, err := levelRepo.GetOrCreateForUpdate(ctx, in.ProductID, in.WarehouseID, product.MinStock, product.MaxStock)
		if err != nil {
			return err
		}
		newBalance, err := entity.ComputeNewBalance(in.Type, level.Quantity, in.Quantity)
		if err != nil {
			return err
		}
		movement.PreviousStock = level.Quantity
		movement.NewStock = newBalance

		if err := movRepo.Create(ctx, movement); err != nil {
			return err
		}
		if err := levelRepo.SetQuantity(ctx, in.ProductID, in.WarehouseID, newBalance); err != nil {
			return err
		}
		return productRepo.AdjustCurrentStock(ctx, in.ProductID, newBalance-level.Quantity)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("type", in.Type).
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Int64("quantity", in.Quantity).
		Int64("new_stock", movement.NewStock).
		Msg("movimiento registrado")

	// Eventos post-commit: fallos de entrega no afectan la operación
	e.publisher.PublishStockMovement(ctx, event.StockMovementEvent{
		Type:          in.Type,
		ProductID:     product.ID,
		ProductSKU:    product.SKU,
		ProductName:   product.Name,
		WarehouseID:   warehouse.ID,
		Quantity:      in.Quantity,
		PreviousStock: movement.PreviousStock,
		NewStock:      movement.NewStock,
		UserID:        userID,
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
	if movement.NewStock <= product.MinStock {
		e.publisher.PublishLowStockAlert(ctx, event.LowStockAlertEvent{
			ProductID:     product.ID,
			ProductSKU:    product.SKU,
			ProductName:   product.Name,
			WarehouseID:   warehouse.ID,
			WarehouseName: warehouse.Name,
			CurrentStock:  movement.NewStock,
			MinStock:      product.MinStock,
			Timestamp:     now.UTC().Format(time.RFC3339),
		})
	}

	return toMovementResponse(movement, product, warehouse), nil
}

// Transfer traslada stock entre dos bodegas distintas en una sola
// transacción: dos asientos TRANSFER (salida en origen, entrada en destino)
// que comparten TransactionID, y los dos saldos actualizados. El agregado del
// producto no cambia: es una redistribución de suma cero.
//
// Los dos saldos se bloquean siempre en orden ascendente de ID de bodega para
// evitar deadlock entre traslados concurrentes en direcciones opuestas.
func (e *Engine) Transfer(ctx context.Context, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, fmt.Errorf("%w: bodega de origen y destino deben ser distintas", domain.ErrInvalidOperation)
	}
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	product, err := e.resolveProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	fromWh, err := e.resolveWarehouse(ctx, in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	toWh, err := e.resolveWarehouse(ctx, in.ToWarehouseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txID := uuid.New().String()
	var resp dto.TransferResponse

	err = e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.ProductRepository,
		_ repository.WarehouseRepository,
	) error {
		var source, dest *entity.StockLevel
		var err error

		// Orden global fijo de bloqueo: ID de bodega ascendente
		if in.FromWarehouseID < in.ToWarehouseID {
			source, err = levelRepo.GetForUpdate(ctx, in.ProductID, in.FromWarehouseID)
			if err != nil {
				return err
			}
			dest, err = levelRepo.GetOrCreateForUpdate(ctx, in.ProductID, in.ToWarehouseID, product.MinStock, product.MaxStock)
			if err != nil {
				return err
			}
		} else {
			dest, err = levelRepo.GetOrCreateForUpdate(ctx, in.ProductID, in.ToWarehouseID, product.MinStock, product.MaxStock)
			if err != nil {
				return err
			}
			source, err = levelRepo.GetForUpdate(ctx, in.ProductID, in.FromWarehouseID)
			if err != nil {
				return err
			}
		}

		available := int64(0)
		if source != nil {
			available = source.Quantity
		}
		if available < in.Quantity {
			return fmt.Errorf("%w en bodega de origen: disponible %d, solicitado %d",
				domain.ErrInsufficientStock, available, in.Quantity)
		}

		fromPrev, toPrev := source.Quantity, dest.Quantity
		fromNew, toNew := fromPrev-in.Quantity, toPrev+in.Quantity

		outMov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: txID,
			Type:          entity.MovementTypeTransfer,
			Quantity:      in.Quantity,
			Reference:     in.Reference,
			Notes:         appendNotes(fmt.Sprintf("Traslado hacia %s", toWh.Name), in.Notes),
			PreviousStock: fromPrev,
			NewStock:      fromNew,
			ProductID:     in.ProductID,
			WarehouseID:   in.FromWarehouseID,
			UserID:        userID,
			CreatedAt:     now,
		}
		inMov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: txID,
			Type:          entity.MovementTypeTransfer,
			Quantity:      in.Quantity,
			Reference:     in.Reference,
			Notes:         appendNotes(fmt.Sprintf("Traslado desde %s", fromWh.Name), in.Notes),
			PreviousStock: toPrev,
			NewStock:      toNew,
			ProductID:     in.ProductID,
			WarehouseID:   in.ToWarehouseID,
			UserID:        userID,
			CreatedAt:     now,
		}

		if err := movRepo.Create(ctx, outMov); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, inMov); err != nil {
			return err
		}
		if err := levelRepo.SetQuantity(ctx, in.ProductID, in.FromWarehouseID, fromNew); err != nil {
			return err
		}
		if err := levelRepo.SetQuantity(ctx, in.ProductID, in.ToWarehouseID, toNew); err != nil {
			return err
		}

		resp = dto.TransferResponse{
			TransactionID: txID,
			ProductID:     in.ProductID,
			Quantity:      in.Quantity,
			From: dto.TransferSideResponse{
				WarehouseID:   fromWh.ID,
				WarehouseName: fromWh.Name,
				PreviousStock: fromPrev,
				NewStock:      fromNew,
			},
			To: dto.TransferSideResponse{
				WarehouseID:   toWh.ID,
				WarehouseName: toWh.Name,
				PreviousStock: toPrev,
				NewStock:      toNew,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("product_id", in.ProductID).
		Str("from", fromWh.Name).
		Str("to", toWh.Name).
		Int64("quantity", in.Quantity).
		Msg("traslado realizado")

	e.publisher.PublishStockTransfer(ctx, event.StockTransferEvent{
		ProductID:         product.ID,
		ProductSKU:        product.SKU,
		ProductName:       product.Name,
		FromWarehouseID:   fromWh.ID,
		FromWarehouseName: fromWh.Name,
		ToWarehouseID:     toWh.ID,
		ToWarehouseName:   toWh.Name,
		Quantity:          in.Quantity,
		UserID:            userID,
		Timestamp:         now.UTC().Format(time.RFC3339),
	})

	return &resp, nil
}

// Adjust fija el saldo de un par producto+bodega a un valor absoluto
// (conteo físico). El asiento ADJUSTMENT registra |delta| como cantidad y la
// razón como nota; el agregado del producto se mueve por el delta con signo.
// No publica eventos: el asiento del libro es el registro de verdad.
func (e *Engine) Adjust(ctx context.Context, userID string, in dto.AdjustRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.WarehouseID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.NewQuantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad objetivo no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: el ajuste requiere una razón", domain.ErrInvalidInput)
	}

	product, err := e.resolveProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	warehouse, err := e.resolveWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: uuid.New().String(),
		Type:          entity.MovementTypeAdjustment,
		Reference:     in.Reference,
		Notes:         in.Reason,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		UserID:        userID,
		CreatedAt:     now,
	}

	err = e.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		productRepo repository.ProductRepository,
		_ repository.WarehouseRepository,
	) error {
		level, err := levelRepo.GetOrCreateForUpdate(ctx, in.ProductID, in.WarehouseID, product.MinStock, product.MaxStock)
		if err != nil {
			return err
		}
		delta := in.NewQuantity - level.Quantity
		movement.Quantity = delta
		if delta < 0 {
			movement.Quantity = -delta
		}
		movement.PreviousStock = level.Quantity
		movement.NewStock = in.NewQuantity

		if err := movRepo.Create(ctx, movement); err != nil {
			return err
		}
		if err := levelRepo.SetQuantity(ctx, in.ProductID, in.WarehouseID, in.NewQuantity); err != nil {
			return err
		}
		return productRepo.AdjustCurrentStock(ctx, in.ProductID, delta)
	})
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Int64("previous", movement.PreviousStock).
		Int64("new", movement.NewStock).
		Str("reason", in.Reason).
		Msg("ajuste de stock")

	return toMovementResponse(movement, product, warehouse), nil
}

// appendNotes concatena la nota generada con la del usuario, si existe.
func appendNotes(generated, user string) string {
	if user == "" {
		return generated
	}
	return generated + ". " + user
}

func toMovementResponse(m *entity.StockMovement, p *entity.Product, w *entity.Warehouse) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		TotalPrice:    m.TotalPrice,
		Reference:     m.Reference,
		Notes:         m.Notes,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		ProductID:     m.ProductID,
		ProductSKU:    p.SKU,
		ProductName:   p.Name,
		WarehouseID:   m.WarehouseID,
		WarehouseCode: w.Code,
		WarehouseName: w.Name,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
	}
}
