package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para la vista de monitoreo del
// inventario. Trabaja directo sobre el pool: nunca participa en transacciones
// ni toma locks, una foto ligeramente desactualizada es aceptable.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador del dashboard.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// CountProducts cuenta productos totales y activos.
func (r *DashboardRepo) CountProducts(ctx context.Context) (total, active int64, err error) {
	const query = `SELECT count(*), count(*) FILTER (WHERE is_active) FROM products`
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("dashboard.CountProducts: %w", err)
	}
	return total, active, nil
}

// CountStockStatus clasifica los productos activos por estado de stock con la
// regla uniforme: bajo = 0 < stock <= mínimo; agotado = stock == 0.
func (r *DashboardRepo) CountStockStatus(ctx context.Context) (repository.StockStatusCounts, error) {
	const query = `
		SELECT
			count(*) FILTER (WHERE current_stock > 0 AND current_stock <= min_stock) AS low_stock,
			count(*) FILTER (WHERE current_stock = 0)                                AS out_of_stock
		FROM products
		WHERE is_active`
	var counts repository.StockStatusCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&counts.LowStock, &counts.OutOfStock); err != nil {
		return repository.StockStatusCounts{}, fmt.Errorf("dashboard.CountStockStatus: %w", err)
	}
	return counts, nil
}

// CountActiveWarehouses cuenta las bodegas activas.
func (r *DashboardRepo) CountActiveWarehouses(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM warehouses WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.CountActiveWarehouses: %w", err)
	}
	return n, nil
}

// RecentMovements devuelve los últimos asientos del libro, enriquecidos.
func (r *DashboardRepo) RecentMovements(ctx context.Context, limit int) ([]*repository.MovementRecord, error) {
	query := `SELECT ` + movementRecordColumns + movementRecordJoins +
		` ORDER BY m.created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard.RecentMovements: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementRecord
	for rows.Next() {
		rec, err := scanMovementRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("dashboard.RecentMovements scan: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// CountMovementsByType histograma de asientos por tipo de movimiento.
func (r *DashboardRepo) CountMovementsByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT type, count(*) FROM stock_movements GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("dashboard.CountMovementsByType: %w", err)
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var movType string
		var n int64
		if err := rows.Scan(&movType, &n); err != nil {
			return nil, fmt.Errorf("dashboard.CountMovementsByType scan: %w", err)
		}
		out[movType] = n
	}
	return out, rows.Err()
}
