package repository

import "context"

// StockStatusCounts conteos de productos activos por estado de stock,
// con la regla uniforme: bajo = 0 < stock <= mínimo; agotado = stock == 0.
type StockStatusCounts struct {
	LowStock   int64
	OutOfStock int64
}

// DashboardRepository consultas read-only para la vista de monitoreo.
// Lecturas sin bloqueo; se acepta que sean ligeramente desactualizadas.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (total, active int64, err error)
	CountStockStatus(ctx context.Context) (StockStatusCounts, error)
	CountActiveWarehouses(ctx context.Context) (int64, error)
	RecentMovements(ctx context.Context, limit int) ([]*MovementRecord, error)
	CountMovementsByType(ctx context.Context) (map[string]int64, error)
}
