package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/analytics"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

type fakeDashboardRepo struct {
	total, active    int64
	status           repository.StockStatusCounts
	activeWarehouses int64
	recent           []*repository.MovementRecord
	byType           map[string]int64
	failWith         error
}

func (f *fakeDashboardRepo) CountProducts(context.Context) (int64, int64, error) {
	return f.total, f.active, f.failWith
}
func (f *fakeDashboardRepo) CountStockStatus(context.Context) (repository.StockStatusCounts, error) {
	return f.status, nil
}
func (f *fakeDashboardRepo) CountActiveWarehouses(context.Context) (int64, error) {
	return f.activeWarehouses, nil
}
func (f *fakeDashboardRepo) RecentMovements(context.Context, int) ([]*repository.MovementRecord, error) {
	return f.recent, nil
}
func (f *fakeDashboardRepo) CountMovementsByType(context.Context) (map[string]int64, error) {
	return f.byType, nil
}

func TestGetDashboard_ArmaElResumen(t *testing.T) {
	repo := &fakeDashboardRepo{
		total:            42,
		active:           40,
		status:           repository.StockStatusCounts{LowStock: 6, OutOfStock: 2},
		activeWarehouses: 3,
		recent: []*repository.MovementRecord{
			{
				StockMovement: entity.StockMovement{ID: "m1", Type: entity.MovementTypeReceipt, Quantity: 10},
				ProductSKU:    "SKU-1",
				WarehouseCode: "MAIN",
			},
		},
		byType: map[string]int64{
			entity.MovementTypeReceipt: 12,
			entity.MovementTypeIssue:   7,
		},
	}
	uc := analytics.NewDashboardUseCase(repo)

	out, err := uc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), out.Summary.TotalProducts)
	assert.Equal(t, int64(40), out.Summary.ActiveProducts)
	assert.Equal(t, int64(6), out.Summary.LowStockProducts)
	assert.Equal(t, int64(2), out.Summary.OutOfStockProducts)
	assert.Equal(t, int64(3), out.Summary.ActiveWarehouses)

	require.Len(t, out.RecentMovements, 1)
	assert.Equal(t, "SKU-1", out.RecentMovements[0].ProductSKU)
	assert.Equal(t, int64(12), out.MovementsByType[entity.MovementTypeReceipt])
}

func TestGetDashboard_PropagaErrorDeRepositorio(t *testing.T) {
	repoErr := errors.New("db caída")
	uc := analytics.NewDashboardUseCase(&fakeDashboardRepo{failWith: repoErr})

	_, err := uc.GetDashboard(context.Background())
	require.ErrorIs(t, err, repoErr)
}

func TestGetDashboard_HistogramaNuloSeNormaliza(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeDashboardRepo{})

	out, err := uc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out.MovementsByType, "el JSON debe llevar {} y no null")
	assert.Empty(t, out.RecentMovements)
}
