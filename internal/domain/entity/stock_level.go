package entity

import "time"

// StockLevel representa el saldo actual de un producto en una bodega
// (único por par producto+bodega). Se crea perezosamente con cantidad 0 y los
// umbrales vigentes del producto al primer movimiento que toca el par;
// después los umbrales son mutables de forma independiente.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    int64 // nunca negativo
	MinStock    int64
	MaxStock    *int64
	UpdatedAt   time.Time
}
