package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). El libro es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, transaction_id, type, quantity, unit_price, total_price,
			reference, notes, previous_stock, new_stock, product_id, warehouse_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	userID := (*string)(nil)
	if movement.UserID != "" {
		userID = &movement.UserID
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TransactionID, movement.Type, movement.Quantity,
		movement.UnitPrice, movement.TotalPrice, movement.Reference, movement.Notes,
		movement.PreviousStock, movement.NewStock, movement.ProductID, movement.WarehouseID,
		userID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

const movementRecordColumns = `
	m.id, m.transaction_id, m.type, m.quantity, m.unit_price, m.total_price,
	m.reference, m.notes, m.previous_stock, m.new_stock, m.product_id, m.warehouse_id,
	m.user_id, m.created_at,
	p.sku, p.name, w.code, w.name`

const movementRecordJoins = `
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	JOIN warehouses w ON w.id = m.warehouse_id`

func scanMovementRecord(row pgx.Row) (*repository.MovementRecord, error) {
	var rec repository.MovementRecord
	var userID *string
	err := row.Scan(
		&rec.ID, &rec.TransactionID, &rec.Type, &rec.Quantity, &rec.UnitPrice, &rec.TotalPrice,
		&rec.Reference, &rec.Notes, &rec.PreviousStock, &rec.NewStock, &rec.ProductID, &rec.WarehouseID,
		&userID, &rec.CreatedAt,
		&rec.ProductSKU, &rec.ProductName, &rec.WarehouseCode, &rec.WarehouseName,
	)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		rec.UserID = *userID
	}
	return &rec, nil
}

// GetByID obtiene un asiento enriquecido por ID, o nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*repository.MovementRecord, error) {
	query := `SELECT ` + movementRecordColumns + movementRecordJoins + ` WHERE m.id = $1`
	rec, err := scanMovementRecord(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return rec, nil
}

// Query devuelve asientos filtrados del más reciente al más antiguo, junto con
// el total sin paginar. Los filtros son opcionales y se combinan con AND.
func (r *StockMovementRepo) Query(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*repository.MovementRecord, int64, error) {
	where := ""
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if filter.ProductID != "" {
		add("m.product_id = $%d", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		add("m.warehouse_id = $%d", filter.WarehouseID)
	}
	if filter.Type != "" {
		add("m.type = $%d", filter.Type)
	}
	if filter.From != nil {
		add("m.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("m.created_at <= $%d", *filter.To)
	}

	var total int64
	countQuery := `SELECT count(*) FROM stock_movements m` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementRecordColumns + movementRecordJoins + where +
		fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementRecord
	for rows.Next() {
		rec, err := scanMovementRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, rec)
	}
	return list, total, rows.Err()
}

// CountByWarehouse cuenta los asientos de una bodega (decide la política de borrado).
func (r *StockMovementRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM stock_movements WHERE warehouse_id = $1`, warehouseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements by warehouse: %w", err)
	}
	return n, nil
}

// CountByProduct cuenta los asientos de un producto (decide la política de borrado).
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements by product: %w", err)
	}
	return n, nil
}
