package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest movimiento simple sobre una bodega
// (RECEIPT, ISSUE, RETURN, DAMAGE). ADJUSTMENT y TRANSFER tienen endpoint propio.
type CreateMovementRequest struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Type        string           `json:"type"`
	Quantity    int64            `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// TransferRequest traslado entre bodegas (origen != destino).
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Reference       string `json:"reference,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// AdjustRequest ajuste a valor absoluto tras conteo físico. Reason obligatorio.
type AdjustRequest struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	NewQuantity int64  `json:"new_quantity"`
	Reason      string `json:"reason"`
	Reference   string `json:"reference,omitempty"`
}

// MovementResponse asiento resultante, con saldo antes/después, para que el
// caller muestre el estado nuevo sin una lectura adicional.
type MovementResponse struct {
	ID            string           `json:"id"`
	TransactionID string           `json:"transaction_id"`
	Type          string           `json:"type"`
	Quantity      int64            `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice    *decimal.Decimal `json:"total_price,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	PreviousStock int64            `json:"previous_stock"`
	NewStock      int64            `json:"new_stock"`
	ProductID     string           `json:"product_id"`
	ProductSKU    string           `json:"product_sku,omitempty"`
	ProductName   string           `json:"product_name,omitempty"`
	WarehouseID   string           `json:"warehouse_id"`
	WarehouseCode string           `json:"warehouse_code,omitempty"`
	WarehouseName string           `json:"warehouse_name,omitempty"`
	UserID        string           `json:"user_id"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TransferSideResponse saldo antes/después de un lado del traslado.
type TransferSideResponse struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	PreviousStock int64  `json:"previous_stock"`
	NewStock      int64  `json:"new_stock"`
}

// TransferResponse resumen bilateral del traslado confirmado.
type TransferResponse struct {
	TransactionID string               `json:"transaction_id"`
	ProductID     string               `json:"product_id"`
	Quantity      int64                `json:"quantity"`
	From          TransferSideResponse `json:"from"`
	To            TransferSideResponse `json:"to"`
}

// MovementListResponse página del libro de movimientos.
type MovementListResponse struct {
	Data []MovementResponse `json:"data"`
	Meta PageMeta           `json:"meta"`
}

// StockLevelResponse saldo por producto+bodega.
type StockLevelResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	MinStock    int64     `json:"min_stock"`
	MaxStock    *int64    `json:"max_stock,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
