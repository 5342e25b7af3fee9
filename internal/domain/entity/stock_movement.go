package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/domain"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeReceipt    = "RECEIPT"    // entrada por compra/recepción
	MovementTypeIssue      = "ISSUE"      // salida
	MovementTypeTransfer   = "TRANSFER"   // traslado entre bodegas (dos registros)
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste a valor absoluto (conteo físico)
	MovementTypeReturn     = "RETURN"     // devolución (entrada)
	MovementTypeDamage     = "DAMAGE"     // merma/daño (salida)
)

// IsValidMovementType indica si el tipo pertenece al vocabulario del libro.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeReceipt, MovementTypeIssue, MovementTypeTransfer,
		MovementTypeAdjustment, MovementTypeReturn, MovementTypeDamage:
		return true
	}
	return false
}

// StockMovement es un asiento inmutable del libro de movimientos: registra
// saldo anterior y nuevo para su bodega. Nunca se edita ni se borra; las
// correcciones se hacen con nuevos asientos de tipo ADJUSTMENT.
// Un TRANSFER produce exactamente dos asientos (salida en origen, entrada en
// destino) que comparten TransactionID.
type StockMovement struct {
	ID            string
	TransactionID string // correlaciona los dos lados de un traslado
	Type          string
	Quantity      int64 // magnitud movida (> 0); en ajustes, |delta|
	UnitPrice     *decimal.Decimal
	TotalPrice    *decimal.Decimal // UnitPrice * Quantity (entradas)
	Reference     string           // documento externo: factura, orden, etc.
	Notes         string
	PreviousStock int64
	NewStock      int64
	ProductID     string
	WarehouseID   string
	UserID        string // actor del movimiento
	CreatedAt     time.Time
}

// ComputeNewBalance aplica la regla del tipo de movimiento sobre el saldo
// anterior. Es la única regla que relaciona PreviousStock con NewStock:
//
//	RECEIPT, RETURN: previous + quantity
//	ISSUE, DAMAGE:   previous - quantity (ErrInsufficientStock si no alcanza)
//	ADJUSTMENT, TRANSFER: rechazados aquí, tienen operación dedicada
func ComputeNewBalance(movType string, previous, quantity int64) (int64, error) {
	switch movType {
	case MovementTypeReceipt, MovementTypeReturn:
		return previous + quantity, nil
	case MovementTypeIssue, MovementTypeDamage:
		if quantity > previous {
			return 0, fmt.Errorf("%w: disponible %d, solicitado %d",
				domain.ErrInsufficientStock, previous, quantity)
		}
		return previous - quantity, nil
	case MovementTypeAdjustment, MovementTypeTransfer:
		return 0, domain.ErrInvalidOperation
	default:
		return 0, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movType)
	}
}
