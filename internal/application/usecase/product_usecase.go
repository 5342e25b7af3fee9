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

// ProductUseCase casos de uso CRUD para productos. No toca saldos ni el
// libro: CurrentStock lo mantiene exclusivamente el motor de stock.
type ProductUseCase struct {
	repo     repository.ProductRepository
	movRepo  repository.StockMovementRepository
	txRunner stock.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movRepo repository.StockMovementRepository, txRunner stock.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo, txRunner: txRunner}
}

// Create crea un producto activo con stock cero. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.MinStock < 0 {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.MaxStock != nil && *in.MaxStock < in.MinStock {
		return nil, fmt.Errorf("%w: max_stock debe ser >= min_stock", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrDuplicate, in.SKU)
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Barcode:     in.Barcode,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Unit:        in.Unit,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID, o ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// Update actualiza campos de un producto. SKU y barcode no cambian por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = in.MaxStock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if product.MaxStock != nil && *product.MaxStock < product.MinStock {
		return nil, fmt.Errorf("%w: max_stock debe ser >= min_stock", domain.ErrInvalidInput)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, includeInactive bool, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// ListLowStock reporte de productos activos agotados o bajo mínimo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockProductDTO, error) {
	items, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockProductDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockProductDTO{
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			Name:         it.Name,
			CurrentStock: it.CurrentStock,
			MinStock:     it.MinStock,
			IsLowStock:   it.IsLowStock,
			IsOutOfStock: it.IsOutOfStock,
			Deficit:      it.Deficit,
		})
	}
	return out, nil
}

// Remove aplica la misma política de borrado que las bodegas: con historial
// se desactiva, sin historial se borra físicamente junto con sus saldos.
func (uc *ProductUseCase) Remove(ctx context.Context, id string) (*RemoveOutcome, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}

	count, err := uc.movRepo.CountByProduct(ctx, id)
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
		productRepo repository.ProductRepository,
		_ repository.WarehouseRepository,
	) error {
		if err := levelRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &RemoveOutcome{Result: RemoveDeleted}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		Unit:         p.Unit,
		MinStock:     p.MinStock,
		MaxStock:     p.MaxStock,
		CurrentStock: p.CurrentStock,
		IsActive:     p.IsActive,
		IsLowStock:   p.IsLowStock(),
		IsOutOfStock: p.IsOutOfStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
