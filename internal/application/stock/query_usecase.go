package stock

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// QueryUseCase consultas read-only sobre el libro de movimientos y los
// saldos. No adquiere bloqueos ni muta estado.
type QueryUseCase struct {
	movRepo   repository.StockMovementRepository
	levelRepo repository.StockLevelRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(movRepo repository.StockMovementRepository, levelRepo repository.StockLevelRepository) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, levelRepo: levelRepo}
}

// ListMovements pagina el libro de movimientos, del más reciente al más
// antiguo, con filtros opcionales por producto, bodega, tipo y rango de fechas.
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter, page, limit int) (*dto.MovementListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := (page - 1) * limit

	records, total, err := uc.movRepo.Query(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}

	data := make([]dto.MovementResponse, 0, len(records))
	for _, r := range records {
		data = append(data, toMovementRecordResponse(r))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.MovementListResponse{
		Data: data,
		Meta: dto.PageMeta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	}, nil
}

// GetMovementByID devuelve un asiento por ID, o ErrNotFound.
func (uc *QueryUseCase) GetMovementByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	record, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	resp := toMovementRecordResponse(record)
	return &resp, nil
}

// ListLevelsByWarehouse lista los saldos de una bodega.
func (uc *QueryUseCase) ListLevelsByWarehouse(ctx context.Context, warehouseID string, page, limit int) ([]dto.StockLevelResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	levels, err := uc.levelRepo.ListByWarehouse(ctx, warehouseID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listar saldos por bodega: %w", err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelResponse{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			MinStock:    l.MinStock,
			MaxStock:    l.MaxStock,
			UpdatedAt:   l.UpdatedAt,
		})
	}
	return out, nil
}

// ListLevelsByProduct lista los saldos de un producto en todas las bodegas.
func (uc *QueryUseCase) ListLevelsByProduct(ctx context.Context, productID string) ([]dto.StockLevelResponse, error) {
	levels, err := uc.levelRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listar saldos por producto: %w", err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelResponse{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			MinStock:    l.MinStock,
			MaxStock:    l.MaxStock,
			UpdatedAt:   l.UpdatedAt,
		})
	}
	return out, nil
}

func toMovementRecordResponse(r *repository.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		Type:          r.Type,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		TotalPrice:    r.TotalPrice,
		Reference:     r.Reference,
		Notes:         r.Notes,
		PreviousStock: r.PreviousStock,
		NewStock:      r.NewStock,
		ProductID:     r.ProductID,
		ProductSKU:    r.ProductSKU,
		ProductName:   r.ProductName,
		WarehouseID:   r.WarehouseID,
		WarehouseCode: r.WarehouseCode,
		WarehouseName: r.WarehouseName,
		UserID:        r.UserID,
		CreatedAt:     r.CreatedAt,
	}
}
