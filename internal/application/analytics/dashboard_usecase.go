// Package analytics contiene los casos de uso read-only de monitoreo del
// inventario (dashboard).
package analytics

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

const dashboardRecentMovements = 10 // asientos recientes en el widget

// DashboardUseCase arma la vista de monitoreo del inventario: conteos de
// productos por estado de stock, bodegas activas, histograma por tipo de
// movimiento y los asientos más recientes del libro.
//
// Lecturas sin bloqueo sobre DashboardRepository; se acepta una foto
// ligeramente desactualizada (es una vista de monitoreo, no transaccional).
// Nunca muta estado.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetDashboard lanza las consultas en paralelo y arma el DTO.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	type productsResult struct {
		total, active int64
		err           error
	}
	type statusResult struct {
		counts repository.StockStatusCounts
		err    error
	}
	type warehousesResult struct {
		active int64
		err    error
	}
	type recentResult struct {
		records []*repository.MovementRecord
		err     error
	}
	type histogramResult struct {
		byType map[string]int64
		err    error
	}

	productsCh := make(chan productsResult, 1)
	statusCh := make(chan statusResult, 1)
	warehousesCh := make(chan warehousesResult, 1)
	recentCh := make(chan recentResult, 1)
	histogramCh := make(chan histogramResult, 1)

	go func() {
		total, active, err := uc.repo.CountProducts(ctx)
		productsCh <- productsResult{total, active, err}
	}()
	go func() {
		counts, err := uc.repo.CountStockStatus(ctx)
		statusCh <- statusResult{counts, err}
	}()
	go func() {
		active, err := uc.repo.CountActiveWarehouses(ctx)
		warehousesCh <- warehousesResult{active, err}
	}()
	go func() {
		records, err := uc.repo.RecentMovements(ctx, dashboardRecentMovements)
		recentCh <- recentResult{records, err}
	}()
	go func() {
		byType, err := uc.repo.CountMovementsByType(ctx)
		histogramCh <- histogramResult{byType, err}
	}()

	products := <-productsCh
	status := <-statusCh
	warehouses := <-warehousesCh
	recent := <-recentCh
	histogram := <-histogramCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de productos: %w", products.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: estado de stock: %w", status.err)
	}
	if warehouses.err != nil {
		return nil, fmt.Errorf("dashboard: bodegas activas: %w", warehouses.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}
	if histogram.err != nil {
		return nil, fmt.Errorf("dashboard: histograma por tipo: %w", histogram.err)
	}

	recentDTOs := make([]dto.MovementResponse, 0, len(recent.records))
	for _, r := range recent.records {
		recentDTOs = append(recentDTOs, dto.MovementResponse{
			ID:            r.ID,
			TransactionID: r.TransactionID,
			Type:          r.Type,
			Quantity:      r.Quantity,
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
		})
	}

	byType := histogram.byType
	if byType == nil {
		byType = map[string]int64{}
	}

	return &dto.DashboardDTO{
		Summary: dto.DashboardSummaryDTO{
			TotalProducts:      products.total,
			ActiveProducts:     products.active,
			LowStockProducts:   status.counts.LowStock,
			OutOfStockProducts: status.counts.OutOfStock,
			ActiveWarehouses:   warehouses.active,
		},
		MovementsByType: byType,
		RecentMovements: recentDTOs,
	}, nil
}
