// Package event define la forma de los eventos de dominio que el motor de
// stock publica después del commit. El consumidor está fuera de este servicio;
// aquí solo importa el payload.
package event

// Tópicos del stream saliente.
const (
	TopicStockMovement = "stock.movement"
	TopicLowStockAlert = "stock.low-alert"
	TopicStockTransfer = "stock.transfer"
)

// StockMovementEvent se publica por cada movimiento simple confirmado.
type StockMovementEvent struct {
	Type          string `json:"type"`
	ProductID     string `json:"productId"`
	ProductSKU    string `json:"productSku"`
	ProductName   string `json:"productName"`
	WarehouseID   string `json:"warehouseId"`
	Quantity      int64  `json:"quantity"`
	PreviousStock int64  `json:"previousStock"`
	NewStock      int64  `json:"newStock"`
	UserID        string `json:"userId"`
	Timestamp     string `json:"timestamp"` // RFC 3339
}

// LowStockAlertEvent se publica cuando el saldo resultante queda en o por
// debajo del mínimo configurado del producto.
type LowStockAlertEvent struct {
	ProductID     string `json:"productId"`
	ProductSKU    string `json:"productSku"`
	ProductName   string `json:"productName"`
	WarehouseID   string `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	CurrentStock  int64  `json:"currentStock"`
	MinStock      int64  `json:"minStock"`
	Timestamp     string `json:"timestamp"`
}

// StockTransferEvent resume los dos lados de un traslado en un solo evento.
type StockTransferEvent struct {
	ProductID         string `json:"productId"`
	ProductSKU        string `json:"productSku"`
	ProductName       string `json:"productName"`
	FromWarehouseID   string `json:"fromWarehouseId"`
	FromWarehouseName string `json:"fromWarehouseName"`
	ToWarehouseID     string `json:"toWarehouseId"`
	ToWarehouseName   string `json:"toWarehouseName"`
	Quantity          int64  `json:"quantity"`
	UserID            string `json:"userId"`
	Timestamp         string `json:"timestamp"`
}
