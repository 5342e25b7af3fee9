package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Barcode     *string         `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Unit        string          `json:"unit,omitempty"`
	MinStock    int64           `json:"min_stock"`
	MaxStock    *int64          `json:"max_stock,omitempty"`
}

// UpdateProductRequest actualización parcial (punteros = campo opcional).
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinStock    *int64           `json:"min_stock,omitempty"`
	MaxStock    *int64           `json:"max_stock,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// ProductResponse producto con estado de stock derivado.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Barcode      *string         `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Unit         string          `json:"unit,omitempty"`
	MinStock     int64           `json:"min_stock"`
	MaxStock     *int64          `json:"max_stock,omitempty"`
	CurrentStock int64           `json:"current_stock"`
	IsActive     bool            `json:"is_active"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsOutOfStock bool            `json:"is_out_of_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LowStockProductDTO fila del reporte de reposición.
type LowStockProductDTO struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	IsLowStock   bool   `json:"is_low_stock"`
	IsOutOfStock bool   `json:"is_out_of_stock"`
	Deficit      int64  `json:"deficit"`
}
