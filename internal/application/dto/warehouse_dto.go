package dto

import "time"

// CreateWarehouseRequest alta de bodega.
type CreateWarehouseRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// UpdateWarehouseRequest actualización parcial de bodega.
type UpdateWarehouseRequest struct {
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// WarehouseResponse bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RemoveOutcomeResponse resultado explícito del borrado: DELETED (sin
// historial, borrado físico) o DEACTIVATED con la razón.
type RemoveOutcomeResponse struct {
	Result string `json:"result"`
	Reason string `json:"reason,omitempty"`
}
