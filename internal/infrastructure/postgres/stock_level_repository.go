package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación del puerto StockLevelRepository sobre PostgreSQL
// (usable con pool o tx; los métodos *ForUpdate solo tienen sentido con tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `product_id, warehouse_id, quantity, min_stock, max_stock, updated_at`

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := row.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.MinStock, &s.MaxStock, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreateForUpdate crea la fila con cantidad 0 si el par no existe y la
// devuelve bloqueada. El INSERT ON CONFLICT DO NOTHING hace la creación a
// prueba de carreras: dos creadores concurrentes terminan bloqueando la misma
// fila, nunca duplicándola.
func (r *StockLevelRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string, minStock int64, maxStock *int64) (*entity.StockLevel, error) {
	insert := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, min_stock, max_stock, updated_at)
		VALUES ($1, $2, 0, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, warehouseID, minStock, maxStock); err != nil {
		return nil, fmt.Errorf("ensure stock level: %w", err)
	}

	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return s, nil
}

// GetForUpdate devuelve la fila bloqueada, o nil si el par no existe (no crea).
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return s, nil
}

// SetQuantity fija la cantidad de un par existente.
func (r *StockLevelRepo) SetQuantity(ctx context.Context, productID, warehouseID string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_levels SET quantity = $3, updated_at = now() WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID, quantity,
	)
	if err != nil {
		return fmt.Errorf("set stock level: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: saldo %s/%s", domain.ErrNotFound, productID, warehouseID)
	}
	return nil
}

// Get lectura sin bloqueo del saldo, o nil si el par no existe.
func (r *StockLevelRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return s, nil
}

// ListByWarehouse lista los saldos de una bodega con paginación.
func (r *StockLevelRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE warehouse_id = $1
		ORDER BY product_id ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels by warehouse: %w", err)
	}
	defer rows.Close()
	return collectStockLevels(rows)
}

// ListByProduct lista los saldos de un producto en todas las bodegas.
func (r *StockLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1
		ORDER BY warehouse_id ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels by product: %w", err)
	}
	defer rows.Close()
	return collectStockLevels(rows)
}

func collectStockLevels(rows pgx.Rows) ([]*entity.StockLevel, error) {
	var list []*entity.StockLevel
	for rows.Next() {
		s, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteByWarehouse purga los saldos de una bodega (borrado físico sin historial).
func (r *StockLevelRepo) DeleteByWarehouse(ctx context.Context, warehouseID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_levels WHERE warehouse_id = $1`, warehouseID); err != nil {
		return fmt.Errorf("delete stock levels by warehouse: %w", err)
	}
	return nil
}

// DeleteByProduct purga los saldos de un producto (borrado físico sin historial).
func (r *StockLevelRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_levels WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete stock levels by product: %w", err)
	}
	return nil
}
