package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Una bodega con historial de movimientos nunca se elimina físicamente:
// se desactiva (IsActive = false) para preservar el libro de movimientos.
type Warehouse struct {
	ID        string
	Code      string // único
	Name      string // único
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
