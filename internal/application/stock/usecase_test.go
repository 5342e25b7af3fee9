package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/stock"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/event"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la base de datos: un mutex global hace las veces del bloqueo
// de fila (dos transacciones sobre el mismo par se serializan) y el runner
// restaura un snapshot si el callback falla (semántica de rollback).
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUser = "user-1"
	prodA    = "prod-a"
	whMain   = "wh-main"
	whSec    = "wh-sec"
)

type memStore struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	levels     map[string]*entity.StockLevel
	movements  []*entity.StockMovement
}

func levelKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
		levels:     make(map[string]*entity.StockLevel),
	}
}

// seedLevel fija un saldo existente y mantiene coherente el agregado.
func (s *memStore) seedLevel(productID, warehouseID string, qty int64) {
	p := s.products[productID]
	s.levels[levelKey(productID, warehouseID)] = &entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		MinStock:    p.MinStock,
		MaxStock:    p.MaxStock,
	}
	p.CurrentStock += qty
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, p := range s.products {
		cp := *p
		snap.products[k] = &cp
	}
	for k, l := range s.levels {
		cp := *l
		snap.levels[k] = &cp
	}
	snap.movements = append([]*entity.StockMovement(nil), s.movements...)
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.levels = snap.levels
	s.movements = snap.movements
}

// sumLevels suma los saldos de un producto (para verificar la invariante).
func (s *memStore) sumLevels(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, l := range s.levels {
		if l.ProductID == productID {
			sum += l.Quantity
		}
	}
	return sum
}

func (s *memStore) currentStock(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].CurrentStock
}

func (s *memStore) levelQuantity(productID, warehouseID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.levels[levelKey(productID, warehouseID)]; ok {
		return l.Quantity
	}
	return 0
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// ── Repos "externos" (fuera de transacción): toman el mutex por llamada ──────

type outerProductRepo struct{ s *memStore }

func (r *outerProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
func (r *outerProductRepo) Create(context.Context, *entity.Product) error { return nil }
func (r *outerProductRepo) GetBySKU(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (r *outerProductRepo) Update(context.Context, *entity.Product) error { return nil }
func (r *outerProductRepo) AdjustCurrentStock(context.Context, string, int64) error {
	panic("AdjustCurrentStock fuera de transacción")
}
func (r *outerProductRepo) List(context.Context, bool, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *outerProductRepo) ListLowStock(context.Context) ([]repository.LowStockItem, error) {
	return nil, nil
}
func (r *outerProductRepo) Deactivate(context.Context, string) error { return nil }
func (r *outerProductRepo) Delete(context.Context, string) error     { return nil }

type outerWarehouseRepo struct{ s *memStore }

func (r *outerWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}
func (r *outerWarehouseRepo) Create(context.Context, *entity.Warehouse) error { return nil }
func (r *outerWarehouseRepo) Update(context.Context, *entity.Warehouse) error { return nil }
func (r *outerWarehouseRepo) List(context.Context, bool, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *outerWarehouseRepo) Deactivate(context.Context, string) error { return nil }
func (r *outerWarehouseRepo) Delete(context.Context, string) error     { return nil }

// ── Repos atados a la "transacción": asumen el mutex tomado por el runner ────

type txMovementRepo struct{ s *memStore }

func (r *txMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}
func (r *txMovementRepo) GetByID(context.Context, string) (*repository.MovementRecord, error) {
	return nil, nil
}
func (r *txMovementRepo) Query(context.Context, repository.MovementFilter, int, int) ([]*repository.MovementRecord, int64, error) {
	return nil, 0, nil
}
func (r *txMovementRepo) CountByWarehouse(context.Context, string) (int64, error) { return 0, nil }
func (r *txMovementRepo) CountByProduct(context.Context, string) (int64, error)   { return 0, nil }

type txLevelRepo struct{ s *memStore }

func (r *txLevelRepo) GetOrCreateForUpdate(_ context.Context, productID, warehouseID string, minStock int64, maxStock *int64) (*entity.StockLevel, error) {
	key := levelKey(productID, warehouseID)
	if l, ok := r.s.levels[key]; ok {
		cp := *l
		return &cp, nil
	}
	l := &entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    0,
		MinStock:    minStock,
		MaxStock:    maxStock,
	}
	r.s.levels[key] = l
	cp := *l
	return &cp, nil
}
func (r *txLevelRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	if l, ok := r.s.levels[levelKey(productID, warehouseID)]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}
func (r *txLevelRepo) SetQuantity(_ context.Context, productID, warehouseID string, quantity int64) error {
	l, ok := r.s.levels[levelKey(productID, warehouseID)]
	if !ok {
		return domain.ErrNotFound
	}
	l.Quantity = quantity
	return nil
}
func (r *txLevelRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	return r.GetForUpdate(ctx, productID, warehouseID)
}
func (r *txLevelRepo) ListByWarehouse(context.Context, string, int, int) ([]*entity.StockLevel, error) {
	return nil, nil
}
func (r *txLevelRepo) ListByProduct(context.Context, string) ([]*entity.StockLevel, error) {
	return nil, nil
}
func (r *txLevelRepo) DeleteByWarehouse(context.Context, string) error { return nil }
func (r *txLevelRepo) DeleteByProduct(context.Context, string) error   { return nil }

type txProductRepo struct{ outerProductRepo }

func (r *txProductRepo) AdjustCurrentStock(_ context.Context, productID string, delta int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock += delta
	return nil
}
func (r *txProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// ── TxRunner fake: serializa y hace rollback sobre snapshot ──────────────────

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	err := fn(
		&txMovementRepo{s: t.s},
		&txLevelRepo{s: t.s},
		&txProductRepo{outerProductRepo{s: t.s}},
		&outerWarehouseRepo{s: t.s},
	)
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ── Publisher fake ───────────────────────────────────────────────────────────

type memPublisher struct {
	mu        sync.Mutex
	movements []event.StockMovementEvent
	alerts    []event.LowStockAlertEvent
	transfers []event.StockTransferEvent
}

func (p *memPublisher) PublishStockMovement(_ context.Context, e event.StockMovementEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movements = append(p.movements, e)
}
func (p *memPublisher) PublishLowStockAlert(_ context.Context, e event.LowStockAlertEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, e)
}
func (p *memPublisher) PublishStockTransfer(_ context.Context, e event.StockTransferEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transfers = append(p.transfers, e)
}

// ── Setup ────────────────────────────────────────────────────────────────────

func newTestEngine(t *testing.T) (*stock.Engine, *memStore, *memPublisher) {
	t.Helper()
	store := newMemStore()
	store.products[prodA] = &entity.Product{
		ID:       prodA,
		SKU:      "SKU-A",
		Name:     "Producto A",
		MinStock: 5,
		IsActive: true,
	}
	store.warehouses[whMain] = &entity.Warehouse{ID: whMain, Code: "MAIN", Name: "Bodega Principal", IsActive: true}
	store.warehouses[whSec] = &entity.Warehouse{ID: whSec, Code: "SEC", Name: "Bodega Secundaria", IsActive: true}

	pub := &memPublisher{}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	engine := stock.NewEngine(
		&memTxRunner{s: store},
		&outerProductRepo{s: store},
		&outerWarehouseRepo{s: store},
		pub,
		log,
	)
	return engine, store, pub
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateMovement
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de la guía: entrada de 20 sin alerta, salida de 18 deja 2 (<= 5)
// y dispara la alerta de stock bajo.
func TestCreateMovement_EntradaLuegoSalidaConAlerta(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.CreateMovement(ctx, testUser, dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeReceipt,
		Quantity:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.PreviousStock)
	assert.Equal(t, int64(20), resp.NewStock)
	assert.Empty(t, pub.alerts, "20 > mínimo 5: sin alerta")
	require.Len(t, pub.movements, 1)
	assert.Equal(t, "SKU-A", pub.movements[0].ProductSKU)

	resp, err = engine.CreateMovement(ctx, testUser, dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeIssue,
		Quantity:    18,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), resp.PreviousStock)
	assert.Equal(t, int64(2), resp.NewStock)

	require.Len(t, pub.alerts, 1, "2 <= mínimo 5: debe alertar")
	assert.Equal(t, int64(2), pub.alerts[0].CurrentStock)
	assert.Equal(t, int64(5), pub.alerts[0].MinStock)
	assert.Equal(t, "Bodega Principal", pub.alerts[0].WarehouseName)

	assert.Equal(t, int64(2), store.currentStock(prodA))
	assert.Equal(t, int64(2), store.levelQuantity(prodA, whMain))
}

// Escenario de la guía: saldo 3, salida de 5 → falla sin escribir nada.
func TestCreateMovement_StockInsuficiente(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	store.seedLevel(prodA, whMain, 3)

	_, err := engine.CreateMovement(context.Background(), testUser, dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeIssue,
		Quantity:    5,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 3", "el error debe detallar disponible vs solicitado")

	assert.Equal(t, int64(3), store.levelQuantity(prodA, whMain), "el saldo no debe cambiar")
	assert.Equal(t, 0, store.movementCount(), "no debe quedar asiento en el libro")
	assert.Equal(t, int64(3), store.currentStock(prodA))
	assert.Empty(t, pub.movements, "sin commit no hay evento")
}

func TestCreateMovement_RechazaTiposConOperacionDedicada(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	for _, movType := range []string{entity.MovementTypeAdjustment, entity.MovementTypeTransfer} {
		_, err := engine.CreateMovement(context.Background(), testUser, dto.CreateMovementRequest{
			ProductID:   prodA,
			WarehouseID: whMain,
			Type:        movType,
			Quantity:    1,
		})
		require.ErrorIs(t, err, domain.ErrInvalidOperation, movType)
	}
}

func TestCreateMovement_Validaciones(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		in      dto.CreateMovementRequest
		wantErr error
	}{
		{"cantidad cero", dto.CreateMovementRequest{ProductID: prodA, WarehouseID: whMain, Type: entity.MovementTypeReceipt, Quantity: 0}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.CreateMovementRequest{ProductID: prodA, WarehouseID: whMain, Type: entity.MovementTypeReceipt, Quantity: -4}, domain.ErrInvalidInput},
		{"tipo desconocido", dto.CreateMovementRequest{ProductID: prodA, WarehouseID: whMain, Type: "SALE", Quantity: 1}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateMovementRequest{ProductID: "ghost", WarehouseID: whMain, Type: entity.MovementTypeReceipt, Quantity: 1}, domain.ErrNotFound},
		{"bodega inexistente", dto.CreateMovementRequest{ProductID: prodA, WarehouseID: "ghost", Type: entity.MovementTypeReceipt, Quantity: 1}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.CreateMovement(ctx, testUser, tc.in)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Equal(t, 0, store.movementCount(), "las validaciones fallan antes de escribir")
}

func TestCreateMovement_ProductoInactivoRechazado(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.products[prodA].IsActive = false

	_, err := engine.CreateMovement(context.Background(), testUser, dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeReceipt,
		Quantity:    1,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// Una bodega desactivada conserva su saldo y debe poder drenarse: las
// salidas y los traslados hacia otra bodega siguen funcionando. Solo los
// productos inactivos rechazan movimientos.
func TestStock_BodegaDesactivadaPermiteDrenarSaldo(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	store.seedLevel(prodA, whMain, 10)
	store.warehouses[whMain].IsActive = false

	resp, err := engine.Transfer(ctx, testUser, dto.TransferRequest{
		ProductID:       prodA,
		FromWarehouseID: whMain,
		ToWarehouseID:   whSec,
		Quantity:        4,
	})
	require.NoError(t, err, "el traslado desde una bodega desactivada debe proceder")
	assert.Equal(t, int64(6), resp.From.NewStock)
	assert.Equal(t, int64(4), resp.To.NewStock)

	_, err = engine.CreateMovement(ctx, testUser, dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeIssue,
		Quantity:    6,
	})
	require.NoError(t, err, "la salida desde una bodega desactivada debe proceder")

	assert.Equal(t, int64(0), store.levelQuantity(prodA, whMain), "el saldo quedó drenado")
	assert.Equal(t, int64(4), store.currentStock(prodA))
}

// La operación no es idempotente por diseño: repetirla duplica el efecto.
func TestCreateMovement_NoIdempotente(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	in := dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeReceipt,
		Quantity:    10,
		Reference:   "OC-001",
	}

	_, err := engine.CreateMovement(ctx, testUser, in)
	require.NoError(t, err)
	_, err = engine.CreateMovement(ctx, testUser, in)
	require.NoError(t, err)

	assert.Equal(t, 2, store.movementCount())
	assert.Equal(t, int64(20), store.currentStock(prodA))
}

func TestCreateMovement_PrecioTotalCalculado(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	unit := decimal.RequireFromString("2.50")

	resp, err := engine.CreateMovement(context.Background(), testUser, dto.CreateMovementRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		Type:        entity.MovementTypeReceipt,
		Quantity:    4,
		UnitPrice:   &unit,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TotalPrice)
	assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("10.00")),
		"total = unitario * cantidad, got %s", resp.TotalPrice)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

// Conservación: el origen baja K, el destino sube K y el agregado no cambia.
func TestTransfer_Conservacion(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	store.seedLevel(prodA, whMain, 30)
	aggregateBefore := store.currentStock(prodA)

	resp, err := engine.Transfer(context.Background(), testUser, dto.TransferRequest{
		ProductID:       prodA,
		FromWarehouseID: whMain,
		ToWarehouseID:   whSec,
		Quantity:        12,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30), resp.From.PreviousStock)
	assert.Equal(t, int64(18), resp.From.NewStock)
	assert.Equal(t, int64(0), resp.To.PreviousStock)
	assert.Equal(t, int64(12), resp.To.NewStock)

	assert.Equal(t, int64(18), store.levelQuantity(prodA, whMain))
	assert.Equal(t, int64(12), store.levelQuantity(prodA, whSec))
	assert.Equal(t, aggregateBefore, store.currentStock(prodA), "el traslado es de suma cero")

	// Dos asientos correlacionados por TransactionID
	require.Equal(t, 2, store.movementCount())
	assert.Equal(t, store.movements[0].TransactionID, store.movements[1].TransactionID)
	assert.Equal(t, entity.MovementTypeTransfer, store.movements[0].Type)
	assert.Equal(t, entity.MovementTypeTransfer, store.movements[1].Type)

	require.Len(t, pub.transfers, 1)
	assert.Equal(t, "Bodega Principal", pub.transfers[0].FromWarehouseName)
	assert.Equal(t, "Bodega Secundaria", pub.transfers[0].ToWarehouseName)
	assert.Equal(t, int64(12), pub.transfers[0].Quantity)
}

func TestTransfer_MismaBodegaRechazada(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.seedLevel(prodA, whMain, 10)

	_, err := engine.Transfer(context.Background(), testUser, dto.TransferRequest{
		ProductID:       prodA,
		FromWarehouseID: whMain,
		ToWarehouseID:   whMain,
		Quantity:        5,
	})
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 0, store.movementCount())
}

func TestTransfer_StockInsuficienteEnOrigen(t *testing.T) {
	engine, store, pub := newTestEngine(t)
	store.seedLevel(prodA, whMain, 4)

	_, err := engine.Transfer(context.Background(), testUser, dto.TransferRequest{
		ProductID:       prodA,
		FromWarehouseID: whMain,
		ToWarehouseID:   whSec,
		Quantity:        9,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(4), store.levelQuantity(prodA, whMain))
	assert.Equal(t, int64(0), store.levelQuantity(prodA, whSec))
	assert.Equal(t, 0, store.movementCount(), "rollback: sin asientos")
	assert.Empty(t, pub.transfers)
}

// El origen sin saldo creado cuenta como disponible 0.
func TestTransfer_OrigenSinSaldo(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Transfer(context.Background(), testUser, dto.TransferRequest{
		ProductID:       prodA,
		FromWarehouseID: whMain,
		ToWarehouseID:   whSec,
		Quantity:        1,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 0")
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de la guía: 50 → 42 tras conteo físico.
func TestAdjust_HaciaAbajo(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.seedLevel(prodA, whMain, 50)

	resp, err := engine.Adjust(context.Background(), testUser, dto.AdjustRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		NewQuantity: 42,
		Reason:      "conteo cíclico",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeAdjustment, resp.Type)
	assert.Equal(t, int64(8), resp.Quantity, "la cantidad del asiento es |delta|")
	assert.Equal(t, int64(50), resp.PreviousStock)
	assert.Equal(t, int64(42), resp.NewStock)
	assert.Equal(t, "conteo cíclico", resp.Notes)

	assert.Equal(t, int64(42), store.levelQuantity(prodA, whMain))
	assert.Equal(t, int64(42), store.currentStock(prodA), "el agregado baja 8")
}

func TestAdjust_HaciaArriba(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.seedLevel(prodA, whMain, 10)

	resp, err := engine.Adjust(context.Background(), testUser, dto.AdjustRequest{
		ProductID:   prodA,
		WarehouseID: whMain,
		NewQuantity: 25,
		Reason:      "mercancía hallada en conteo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), resp.Quantity)
	assert.Equal(t, int64(25), store.currentStock(prodA))
}

// El ajuste sobre un par nunca movido crea el saldo perezosamente con los
// umbrales vigentes del producto.
func TestAdjust_CreaSaldoPerezoso(t *testing.T) {
	engine, store, _ := newTestEngine(t)

	resp, err := engine.Adjust(context.Background(), testUser, dto.AdjustRequest{
		ProductID:   prodA,
		WarehouseID: whSec,
		NewQuantity: 7,
		Reason:      "carga inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.PreviousStock)
	assert.Equal(t, int64(7), resp.NewStock)

	store.mu.Lock()
	level := store.levels[levelKey(prodA, whSec)]
	store.mu.Unlock()
	require.NotNil(t, level)
	assert.Equal(t, int64(5), level.MinStock, "hereda el mínimo del producto")
}

func TestAdjust_Validaciones(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Adjust(ctx, testUser, dto.AdjustRequest{
		ProductID: prodA, WarehouseID: whMain, NewQuantity: -1, Reason: "x",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "objetivo negativo")

	_, err = engine.Adjust(ctx, testUser, dto.AdjustRequest{
		ProductID: prodA, WarehouseID: whMain, NewQuantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "razón obligatoria")
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Tras cualquier secuencia de operaciones, el agregado del producto es igual
// a la suma de sus saldos por bodega.
func TestInvariante_AgregadoIgualSumaDeSaldos(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	mustMove := func(movType, wh string, qty int64) {
		t.Helper()
		_, err := engine.CreateMovement(ctx, testUser, dto.CreateMovementRequest{
			ProductID: prodA, WarehouseID: wh, Type: movType, Quantity: qty,
		})
		require.NoError(t, err)
	}

	mustMove(entity.MovementTypeReceipt, whMain, 100)
	mustMove(entity.MovementTypeReceipt, whSec, 40)
	mustMove(entity.MovementTypeIssue, whMain, 25)
	mustMove(entity.MovementTypeDamage, whSec, 5)
	mustMove(entity.MovementTypeReturn, whMain, 3)

	_, err := engine.Transfer(ctx, testUser, dto.TransferRequest{
		ProductID: prodA, FromWarehouseID: whMain, ToWarehouseID: whSec, Quantity: 30,
	})
	require.NoError(t, err)

	_, err = engine.Adjust(ctx, testUser, dto.AdjustRequest{
		ProductID: prodA, WarehouseID: whSec, NewQuantity: 60, Reason: "conteo",
	})
	require.NoError(t, err)

	assert.Equal(t, store.sumLevels(prodA), store.currentStock(prodA))
}

// N salidas concurrentes de 1 unidad contra un saldo Q: exactamente
// min(N, Q) deben confirmar y el resto fallar con stock insuficiente.
func TestConcurrencia_SalidasCompitenPorElSaldo(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	const initial = 5
	const workers = 8
	store.seedLevel(prodA, whMain, initial)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.CreateMovement(context.Background(), testUser, dto.CreateMovementRequest{
				ProductID:   prodA,
				WarehouseID: whMain,
				Type:        entity.MovementTypeIssue,
				Quantity:    1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, initial, ok, "deben confirmar exactamente Q salidas")
	assert.Equal(t, workers-initial, insufficient)
	assert.Equal(t, int64(0), store.levelQuantity(prodA, whMain))
	assert.Equal(t, int64(0), store.currentStock(prodA))
	assert.Equal(t, initial, store.movementCount(), "solo las confirmadas dejan asiento")
}
