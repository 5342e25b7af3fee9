package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/stock"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas, incluida la política de
// borrado explícita: Deleted (sin historial) o Deactivated (con historial).
type WarehouseUseCase struct {
	repo     repository.WarehouseRepository
	movRepo  repository.StockMovementRepository
	txRunner stock.TxRunner
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, movRepo repository.StockMovementRepository, txRunner stock.TxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, movRepo: movRepo, txRunner: txRunner}
}

// Create crea una bodega activa. Código y nombre son únicos.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID, o ErrNotFound.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza campos de una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	if in.Code != nil {
		warehouse.Code = *in.Code
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	if in.IsActive != nil {
		warehouse.IsActive = *in.IsActive
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, includeInactive bool, limit, offset int) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return items, nil
}

// Remove aplica la política de borrado: con historial de movimientos la
// bodega solo se desactiva; sin historial se borra físicamente junto con sus
// saldos, en una sola transacción.
func (uc *WarehouseUseCase) Remove(ctx context.Context, id string) (*RemoveOutcome, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}

	count, err := uc.movRepo.CountByWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		if err := uc.repo.Deactivate(ctx, id); err != nil {
			return nil, err
		}
		return &RemoveOutcome{Result: RemoveDeactivated, Reason: RemoveReasonHasHistory}, nil
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		if err := levelRepo.DeleteByWarehouse(ctx, id); err != nil {
			return err
		}
		return warehouseRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &RemoveOutcome{Result: RemoveDeleted}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
