package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// CurrentStock es la suma desnormalizada de los saldos por bodega (StockLevel);
// solo el motor de stock la modifica, dentro de la misma transacción que el saldo.
type Product struct {
	ID           string
	SKU          string // único
	Barcode      *string
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo unitario
	Unit         string          // unidad de medida (UN, KG, ...)
	MinStock     int64           // umbral de alerta de stock bajo (>= 0)
	MaxStock     *int64          // opcional, >= MinStock
	CurrentStock int64           // agregado de todas las bodegas (>= 0)
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock aplica la regla uniforme: bajo = 0 < stock <= mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock > 0 && p.CurrentStock <= p.MinStock
}

// IsOutOfStock indica agotado: stock agregado igual a cero.
func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock == 0
}
