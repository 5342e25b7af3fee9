package dto

// DashboardSummaryDTO conteos principales de la vista de monitoreo.
type DashboardSummaryDTO struct {
	TotalProducts      int64 `json:"totalProducts"`
	ActiveProducts     int64 `json:"activeProducts"`
	LowStockProducts   int64 `json:"lowStockProducts"`
	OutOfStockProducts int64 `json:"outOfStockProducts"`
	ActiveWarehouses   int64 `json:"activeWarehouses"`
}

// DashboardDTO respuesta completa del dashboard: resumen, histograma por tipo
// de movimiento y los asientos más recientes del libro.
type DashboardDTO struct {
	Summary         DashboardSummaryDTO `json:"summary"`
	MovementsByType map[string]int64    `json:"movementsByType"`
	RecentMovements []MovementResponse  `json:"recentMovements"`
}
