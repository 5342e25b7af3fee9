package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/stock"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del motor de stock (protegido).
type StockHandler struct {
	engine  *stock.Engine
	queries *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *stock.Engine, queries *stock.QueryUseCase) *StockHandler {
	return &StockHandler{engine: engine, queries: queries}
}

// CreateMovement registra un movimiento simple (RECEIPT, ISSUE, RETURN, DAMAGE).
// POST /api/stock/movements
func (h *StockHandler) CreateMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.engine.CreateMovement(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer traslada stock entre bodegas.
// POST /api/stock/transfers
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.engine.Transfer(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust fija el saldo de un par producto+bodega a un valor absoluto.
// POST /api/stock/adjustments
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.engine.Adjust(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements pagina el libro con filtros opcionales.
// GET /api/stock/movements?product_id=&warehouse_id=&type=&from=&to=&page=&limit=
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        c.Query("type"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
		}
		filter.To = &t
	}
	out, err := h.queries.ListMovements(c.Context(), filter, c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMovement devuelve un asiento por ID.
// GET /api/stock/movements/:id
func (h *StockHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.queries.GetMovementByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLevelsByWarehouse lista los saldos de una bodega.
// GET /api/stock/levels/warehouse/:id
func (h *StockHandler) ListLevelsByWarehouse(c *fiber.Ctx) error {
	out, err := h.queries.ListLevelsByWarehouse(c.Context(), c.Params("id"), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLevelsByProduct lista los saldos de un producto en todas las bodegas.
// GET /api/stock/levels/product/:id
func (h *StockHandler) ListLevelsByProduct(c *fiber.Ctx) error {
	out, err := h.queries.ListLevelsByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
